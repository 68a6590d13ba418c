package parser

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/goadoc/pkg/ast"
	"github.com/walteh/goadoc/pkg/lexer"
	"github.com/walteh/goadoc/pkg/position"
)

// ErrInternal reports a token stream the lexer could not have produced,
// such as a block macro without its name.
var ErrInternal = errors.New("internal parser inconsistency")

type internalError struct {
	msg string
}

// ParseDocument lexes and parses a file.
func ParseDocument(ctx context.Context, path string, content []byte) (*ast.Document, error) {
	text := string(content)
	toks := lexer.Lex(text)

	root, err := Parse(toks)
	if err != nil {
		return nil, errors.Errorf("parsing %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Int("tokens", len(toks)).
		Int("children", len(root.Children)).
		Msg("parsed document")

	return &ast.Document{Path: path, Text: text, Tokens: toks, Root: root}, nil
}

// Parse builds the element tree of a token stream. Malformed structure is
// recovered from: unterminated blocks run to the end of input.
func Parse(tokens lexer.Tokens) (root *ast.Element, err error) {
	p := newParser(tokens)

	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(internalError)
			if !ok {
				panic(r)
			}
			root = nil
			err = errors.Errorf("%s: %w", ie.msg, ErrInternal)
		}
	}()

	p.run()
	return p.root, nil
}

type parser struct {
	toks lexer.Tokens
	src  string
	base int
	i    int

	root    *ast.Element
	stack   []*ast.Element
	pending []*ast.Element

	// lastEnd is the end offset of the last consumed construct
	lastEnd int
	// continuation is set by a list continuation marker
	continuation bool
	// blank is set by a blank line inside a list
	blank bool
}

func newParser(toks lexer.Tokens) *parser {
	src := toks.Source()
	base := 0
	if len(toks) > 0 {
		base = toks[0].Offset
	}
	root := ast.NewElement(ast.KindDocument, position.NewBasicPosition(src, base))
	return &parser{
		toks:    toks,
		src:     src,
		base:    base,
		root:    root,
		stack:   []*ast.Element{root},
		lastEnd: base,
	}
}

func (p *parser) run() {
	for p.i < len(p.toks) {
		before := p.i
		p.line()
		if p.i <= before {
			p.fail("no progress at token %d (%s)", before, p.toks[before])
		}
	}
	p.flushPending()
	for len(p.stack) > 1 {
		p.closeTop()
	}
}

func (p *parser) fail(format string, args ...any) {
	panic(internalError{msg: fmt.Sprintf(format, args...)})
}

// at returns the type of token i, or Invalid past the end.
func (p *parser) at(i int) lexer.TokenType {
	if i < 0 || i >= len(p.toks) {
		return lexer.Invalid
	}
	return p.toks[i].Type
}

// expect consumes a token of type t; anything else is an internal error.
func (p *parser) expect(t lexer.TokenType) lexer.Token {
	if p.at(p.i) != t {
		found := "end of input"
		if p.i < len(p.toks) {
			found = p.toks[p.i].String()
		}
		p.fail("expected %s, found %s", t, found)
	}
	tok := p.toks[p.i]
	p.i++
	return tok
}

func (p *parser) end() int {
	return p.base + len(p.src)
}

// span returns the source text between two absolute offsets.
func (p *parser) span(start, end int) position.RawPosition {
	s, e := start-p.base, end-p.base
	if s < 0 {
		s = 0
	}
	if e > len(p.src) {
		e = len(p.src)
	}
	if e < s {
		e = s
	}
	return position.NewBasicPosition(p.src[s:e], p.base+s)
}

// tokenSpan covers tokens [from, to).
func (p *parser) tokenSpan(from, to int) position.RawPosition {
	if from >= to || from >= len(p.toks) {
		off := p.end()
		if from < len(p.toks) {
			off = p.toks[from].Offset
		}
		return position.NewBasicPosition("", off)
	}
	return p.span(p.toks[from].Offset, p.toks[to-1].End())
}

// lineEnd returns the index of the token ending the line that contains i.
func (p *parser) lineEnd(i int) int {
	for ; i < len(p.toks); i++ {
		if t := p.toks[i].Type; t == lexer.LineBreak || t == lexer.EmptyLine {
			return i
		}
	}
	return len(p.toks)
}

func (p *parser) skipLineBreak() {
	if p.at(p.i) == lexer.LineBreak {
		p.i++
	}
}

// trimEnd drops trailing whitespace and line breaks from the token range [from, to).
func (p *parser) trimEnd(from, to int) int {
	for to > from {
		switch p.toks[to-1].Type {
		case lexer.WhiteSpace, lexer.LineBreak, lexer.EmptyLine:
			to--
			continue
		}
		break
	}
	return to
}

// trimStart skips leading whitespace and line breaks in [from, to).
func (p *parser) trimStart(from, to int) int {
	for from < to {
		switch p.toks[from].Type {
		case lexer.WhiteSpace, lexer.LineBreak:
			from++
			continue
		}
		break
	}
	return from
}

func (p *parser) top() *ast.Element {
	return p.stack[len(p.stack)-1]
}

func (p *parser) push(el *ast.Element) {
	p.top().Append(el)
	p.stack = append(p.stack, el)
}

// closeTop ends the innermost open container at lastEnd.
func (p *parser) closeTop() {
	el := p.top()
	end := p.lastEnd
	if end < el.Offset {
		end = el.Offset
	}
	el.RawPosition = p.span(el.Offset, end)
	p.stack = p.stack[:len(p.stack)-1]
}

func (p *parser) finish(el *ast.Element, end int) {
	el.RawPosition = p.span(el.Offset, end)
	p.lastEnd = end
}

func isListish(el *ast.Element) bool {
	return el.Kind == ast.KindList || el.Kind == ast.KindListItem
}

// leaveLists closes open lists before a block that does not belong to them.
func (p *parser) leaveLists() {
	if p.continuation {
		p.continuation = false
		return
	}
	for isListish(p.top()) {
		p.closeTop()
	}
	p.blank = false
}

// beginBlock attaches a block level element to the current container and
// hands it the pending block metadata.
func (p *parser) beginBlock(el *ast.Element) {
	p.leaveLists()
	p.attachPending(el)
	p.top().Append(el)
}

func (p *parser) attachPending(el *ast.Element) {
	if len(p.pending) == 0 {
		return
	}
	if p.pending[0].Offset < el.Offset {
		el.Offset = p.pending[0].Offset
	}
	for _, meta := range p.pending {
		el.Append(meta)
		switch meta.Kind {
		case ast.KindBlockAttributes:
			el.Attrs = append(el.Attrs, meta.Attrs...)
		case ast.KindBlockID:
			el.ID = meta.ID
		case ast.KindTitle:
			el.Title = meta.Value
		}
	}
	el.Style = el.Attrs.Style()
	if id := el.Attrs.ID(); id != "" && el.ID == "" {
		el.ID = id
	}
	p.pending = nil
}

// flushPending keeps metadata that no block claimed as children of the container.
func (p *parser) flushPending() {
	for _, meta := range p.pending {
		p.top().Append(meta)
	}
	p.pending = nil
}
