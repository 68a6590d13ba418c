package lexer

import "fmt"

// Verbatim names the kind of opaque block the lexer is inside of.
type Verbatim uint8

const (
	VerbatimNone Verbatim = iota
	VerbatimListing
	VerbatimLiteral
	VerbatimPassthrough
	VerbatimComment
)

func (v Verbatim) String() string {
	switch v {
	case VerbatimListing:
		return "listing"
	case VerbatimLiteral:
		return "literal"
	case VerbatimPassthrough:
		return "passthrough"
	case VerbatimComment:
		return "comment"
	default:
		return "none"
	}
}

func (v Verbatim) delimiterType() TokenType {
	switch v {
	case VerbatimListing:
		return ListingBlockDelimiter
	case VerbatimLiteral:
		return LiteralBlockDelimiter
	case VerbatimPassthrough:
		return PassthroughBlockDelimiter
	default:
		return CommentBlockDelimiter
	}
}

func (v Verbatim) contentType() TokenType {
	switch v {
	case VerbatimListing:
		return ListingText
	case VerbatimLiteral:
		return LiteralText
	case VerbatimPassthrough:
		return PassthroughContent
	default:
		return BlockComment
	}
}

// Format is the set of inline formatting runs that are currently open.
type Format uint16

const (
	FormatBoldConstrained Format = 1 << iota
	FormatBoldUnconstrained
	FormatItalicConstrained
	FormatItalicUnconstrained
	FormatMonoConstrained
	FormatMonoUnconstrained
	FormatDoubleQuote
	FormatSingleQuote
)

func (f Format) Has(flag Format) bool { return f&flag != 0 }

func (f Format) bold() bool   { return f.Has(FormatBoldConstrained | FormatBoldUnconstrained) }
func (f Format) italic() bool { return f.Has(FormatItalicConstrained | FormatItalicUnconstrained) }
func (f Format) mono() bool   { return f.Has(FormatMonoConstrained | FormatMonoUnconstrained) }

// textType maps plain text to the type that reflects the open formatting runs.
func (f Format) textType(base TokenType) TokenType {
	switch {
	case f.mono() && f.bold() && f.italic():
		return MonoBoldItalic
	case f.mono() && f.bold():
		return MonoBold
	case f.mono() && f.italic():
		return MonoItalic
	case f.bold() && f.italic():
		return BoldItalic
	case f.mono():
		return Mono
	case f.bold():
		return Bold
	case f.italic():
		return Italic
	default:
		return base
	}
}

// LineMode decides how the remainder of the current line is lexed.
type LineMode uint8

const (
	LineNormal LineMode = iota
	LineHeading
	LineTitle
)

// DelimiterStack is a persistent stack of open delimited-block markers.
// Push and Pop return new stacks and never modify the receiver, so a State
// holding a stack can be copied freely.
type DelimiterStack struct {
	top  string
	rest *DelimiterStack
	size int
}

func (s *DelimiterStack) Push(delimiter string) *DelimiterStack {
	return &DelimiterStack{top: delimiter, rest: s, size: s.Len() + 1}
}

func (s *DelimiterStack) Pop() *DelimiterStack {
	if s == nil {
		return nil
	}
	return s.rest
}

func (s *DelimiterStack) Top() (string, bool) {
	if s == nil {
		return "", false
	}
	return s.top, true
}

func (s *DelimiterStack) Len() int {
	if s == nil {
		return 0
	}
	return s.size
}

// Contains reports whether any open block was opened with a marker
// starting with prefix.
func (s *DelimiterStack) Contains(prefix string) bool {
	for cur := s; cur != nil; cur = cur.rest {
		if len(cur.top) >= len(prefix) && cur.top[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

// State is the complete lexer context at an offset. It is a plain value:
// Step never mutates the State it is given and returns the successor.
type State struct {
	// Offset is the byte offset the next token starts at
	Offset int

	Verbatim Verbatim
	// Fence is the delimiter line that closes the current verbatim block;
	// empty for styled or indented verbatim paragraphs which close at a blank line
	Fence string

	Blocks *DelimiterStack
	Format Format
	Line   LineMode

	// AttrContinuation is set when the previous line ended an attribute
	// value with a continuation marker
	AttrContinuation bool
	// Underline is set when the next line is the underline of an old-style heading
	Underline bool
	// Paragraph is set while consecutive text lines form a paragraph
	Paragraph bool
}

// Initial returns the state at the start of a document.
func Initial() State {
	return State{}
}

// AtLineStart reports whether the state sits at the beginning of a line of text.
func (s State) AtLineStart(text string) bool {
	return atLineStart(text, s.Offset)
}

// InTable reports whether a table block is open.
func (s State) InTable() bool {
	return s.Blocks.Contains("|")
}

func (s State) String() string {
	top, _ := s.Blocks.Top()
	return fmt.Sprintf("State{offset=%d verbatim=%s fence=%q blocks=%d/%q format=%b line=%d attrcont=%t underline=%t paragraph=%t}",
		s.Offset, s.Verbatim, s.Fence, s.Blocks.Len(), top, s.Format, s.Line, s.AttrContinuation, s.Underline, s.Paragraph)
}

func (s State) at(offset int) State {
	s.Offset = offset
	return s
}

// endOfParagraph resets everything that does not survive a blank line.
func (s State) endOfParagraph() State {
	s.Format = 0
	s.Paragraph = false
	s.Line = LineNormal
	s.AttrContinuation = false
	s.Underline = false
	return s
}
