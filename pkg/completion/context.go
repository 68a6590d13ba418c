package completion

import (
	"strings"
)

// Trigger tells what kind of name is being typed
type Trigger int

const (
	TriggerNone Trigger = iota
	// TriggerAttribute is an open {name
	TriggerAttribute
	// TriggerAnchor is an open <<id or xref:id
	TriggerAnchor
)

func (t Trigger) String() string {
	switch t {
	case TriggerAttribute:
		return "attribute"
	case TriggerAnchor:
		return "anchor"
	}
	return "none"
}

// CompletionContext holds information about the completion request context
type CompletionContext struct {
	Content   string
	Line      int
	Character int
	// Offset is the byte offset of the cursor
	Offset int

	Trigger Trigger
	// Prefix is the partial name left of the cursor
	Prefix string
	// File is the file part of an anchor typed as file.adoc#id
	File string
	// Start is the offset where Prefix begins
	Start int
}

// NewCompletionContext creates a new completion context. Line and character
// are 1-based; the cursor sits before the byte at character.
func NewCompletionContext(content string, line, character int) *CompletionContext {
	offset := 0
	for i := 1; i < line; i++ {
		nl := strings.IndexByte(content[offset:], '\n')
		if nl < 0 {
			offset = len(content)
			break
		}
		offset += nl + 1
	}
	lineEnd := strings.IndexByte(content[offset:], '\n')
	if lineEnd < 0 {
		lineEnd = len(content) - offset
	}
	col := character - 1
	if col < 0 {
		col = 0
	}
	if col > lineEnd {
		col = lineEnd
	}

	ctx := NewCompletionContextAt(content, offset+col)
	ctx.Line = line
	ctx.Character = character
	return ctx
}

// NewCompletionContextAt creates a completion context for a byte offset.
func NewCompletionContextAt(content string, offset int) *CompletionContext {
	if offset > len(content) {
		offset = len(content)
	}
	if offset < 0 {
		offset = 0
	}
	lineStart := strings.LastIndexByte(content[:offset], '\n') + 1
	before := content[lineStart:offset]

	ctx := &CompletionContext{
		Content:   content,
		Line:      strings.Count(content[:lineStart], "\n") + 1,
		Character: offset - lineStart + 1,
		Offset:    offset,
	}

	best := -1
	if i := strings.LastIndexByte(before, '{'); i >= 0 && isName(before[i+1:]) {
		best = i
		ctx.Trigger = TriggerAttribute
		ctx.Prefix = before[i+1:]
		ctx.Start = lineStart + i + 1
	}
	for _, opener := range []string{"<<", "xref:"} {
		i := strings.LastIndex(before, opener)
		if i < 0 || i <= best {
			continue
		}
		rest := before[i+len(opener):]
		if strings.ContainsAny(rest, ">,[ \t") {
			continue
		}
		best = i
		ctx.Trigger = TriggerAnchor
		ctx.File = ""
		ctx.Prefix = rest
		ctx.Start = lineStart + i + len(opener)
		if h := strings.IndexByte(rest, '#'); h >= 0 {
			ctx.File = rest[:h]
			ctx.Prefix = rest[h+1:]
			ctx.Start += h + 1
		}
	}
	return ctx
}

func isName(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c == '_' || c == '-' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}
