package parser

import (
	"strings"

	"github.com/walteh/goadoc/pkg/ast"
	"github.com/walteh/goadoc/pkg/lexer"
	"github.com/walteh/goadoc/pkg/position"
)

var admonitionStyles = map[string]bool{
	"NOTE":      true,
	"TIP":       true,
	"IMPORTANT": true,
	"CAUTION":   true,
	"WARNING":   true,
}

// line dispatches on the first token of a line.
func (p *parser) line() {
	t := p.toks[p.i]
	switch t.Type {
	case lexer.EmptyLine:
		p.blankLine()
		return
	case lexer.LineBreak:
		p.i++
		return
	case lexer.WhiteSpace:
		if next := p.at(p.i + 1); next == lexer.EmptyLine || next == lexer.Invalid {
			p.i++
			p.blankLine()
			return
		}
	case lexer.LineComment:
		p.comment()
		return
	case lexer.BlockDelimiter:
		p.delimitedBlock()
		return
	case lexer.ListingBlockDelimiter, lexer.LiteralBlockDelimiter, lexer.PassthroughBlockDelimiter, lexer.CommentBlockDelimiter:
		p.verbatimBlock()
		return
	case lexer.ListingText, lexer.LiteralText, lexer.PassthroughContent, lexer.BlockComment:
		p.verbatimParagraph()
		return
	case lexer.AttributeNameStart:
		p.attributeDeclaration()
		return
	case lexer.AttributesStart:
		if p.metadataLine(lexer.AttributesEnd) {
			p.blockAttributes()
			return
		}
	case lexer.BlockIDStart:
		if p.metadataLine(lexer.BlockIDEnd) {
			p.blockAnchor()
			return
		}
	case lexer.BlockTitleStart:
		p.blockTitle()
		return
	case lexer.HeadingMarker:
		p.section()
		return
	case lexer.HeadingText:
		if p.oldStyleUnderline(p.i) >= 0 {
			p.section()
			return
		}
	case lexer.BlockMacroID:
		p.blockMacro()
		return
	case lexer.MacroSeparator:
		if t.Text == "::" {
			p.blockMacro()
			return
		}
	case lexer.ListContinuation:
		p.listContinuation()
		return
	case lexer.HorizontalRule, lexer.PageBreak:
		p.breakBlock()
		return
	}

	if p.isListLine(p.i) {
		p.listItem()
		return
	}
	p.paragraph()
}

func (p *parser) blankLine() {
	p.i++
	if isListish(p.top()) {
		p.blank = true
	}
}

// metadataLine reports whether the line at p.i consists only of a bracketed
// construct closed by closer.
func (p *parser) metadataLine(closer lexer.TokenType) bool {
	eol := p.lineEnd(p.i)
	last := p.trimEnd(p.i, eol)
	return last > p.i && p.toks[last-1].Type == closer
}

func (p *parser) comment() {
	tok := p.expect(lexer.LineComment)
	el := ast.NewElement(ast.KindComment, tok.RawPosition)
	el.Value = strings.TrimPrefix(tok.Text, "//")
	p.top().Append(el)
	p.lastEnd = tok.End()
	p.i = p.lineEnd(p.i)
	p.skipLineBreak()
}

// section handles = Title, # Title and two line headings.
func (p *parser) section() {
	start := p.i
	eol := p.lineEnd(start)
	level := 0
	titleFrom := start
	lineEnd := eol
	next := eol

	if p.at(start) == lexer.HeadingMarker {
		level = len(p.toks[start].Text)
		titleFrom = p.trimStart(start+1, eol)
	} else {
		under := p.oldStyleUnderline(start)
		level = underlineLevel(p.toks[under].Text)
		lineEnd = under + 1
		next = p.lineEnd(under)
	}
	titleTo := p.trimEnd(titleFrom, eol)

	p.continuation = false
	p.leaveLists()
	for top := p.top(); top.Kind == ast.KindSection && top.Level >= level; top = p.top() {
		p.closeTop()
	}

	sec := ast.NewElement(ast.KindSection, position.NewBasicPosition("", p.toks[start].Offset))
	sec.Level = level
	p.attachPending(sec)
	p.push(sec)

	title := p.title(sec, titleFrom, titleTo)
	sec.Title = title.Value

	// an anchor counts as the section id only as the last thing on the line
	if titleTo > titleFrom && p.at(titleTo-1) == lexer.BlockIDEnd && len(title.Children) > 0 {
		if anchor := title.Children[len(title.Children)-1]; anchor.Kind == ast.KindBlockID {
			sec.ID = anchor.ID
			sec.Title = strings.TrimRight(p.span(title.Offset, anchor.Offset).Text, " \t")
		}
	}

	p.lastEnd = p.toks[p.trimEnd(start, lineEnd)-1].End()
	p.i = next
	p.skipLineBreak()
}

// oldStyleUnderline returns the index of the underline token of a two line
// heading starting at i, or -1.
func (p *parser) oldStyleUnderline(i int) int {
	eol := p.lineEnd(i)
	if p.at(eol) != lexer.LineBreak || p.at(eol+1) != lexer.HeadingOldStyleUnderline {
		return -1
	}
	return eol + 1
}

func underlineLevel(underline string) int {
	switch underline[0] {
	case '=':
		return 1
	case '-':
		return 2
	case '~':
		return 3
	case '^':
		return 4
	default:
		return 5
	}
}

// title builds a Title element over tokens [from, to) as a child of parent.
func (p *parser) title(parent *ast.Element, from, to int) *ast.Element {
	el := ast.NewElement(ast.KindTitle, p.tokenSpan(from, to))
	el.Value = el.Text
	parent.Append(el)
	p.inline(el, from, to)
	return el
}

func (p *parser) blockTitle() {
	start := p.i
	eol := p.lineEnd(start)
	to := p.trimEnd(start+1, eol)

	el := ast.NewElement(ast.KindTitle, p.tokenSpan(start, to))
	el.Value = p.tokenSpan(start+1, to).Text
	p.inline(el, start+1, to)
	p.pending = append(p.pending, el)

	p.i = eol
	p.skipLineBreak()
}

func (p *parser) blockAttributes() {
	start := p.i
	eol := p.lineEnd(start)
	last := p.trimEnd(start, eol) - 1

	el := ast.NewElement(ast.KindBlockAttributes, p.tokenSpan(start, last+1))
	el.Attrs = p.attributeList(el, start+1, last)
	p.pending = append(p.pending, el)

	p.i = eol
	p.skipLineBreak()
}

func (p *parser) blockAnchor() {
	start := p.i
	eol := p.lineEnd(start)
	last := p.trimEnd(start, eol)

	el := ast.NewElement(ast.KindBlockID, p.tokenSpan(start, last))
	p.anchorFields(el, start, last)
	p.pending = append(p.pending, el)

	p.i = eol
	p.skipLineBreak()
}

// anchorFields reads [[id,reftext]] tokens in [from, to).
func (p *parser) anchorFields(el *ast.Element, from, to int) {
	if p.at(from+1) == lexer.BlockID {
		el.ID = p.toks[from+1].Text
	}
	for k := from + 2; k < to; k++ {
		if p.at(k) == lexer.AttrSeparator {
			el.Value = strings.TrimSpace(p.tokenSpan(k+1, to-1).Text)
			p.inline(el, k+1, to-1)
			break
		}
	}
}

// delimitedBlock opens or closes an example, sidebar, quote, open or table block.
func (p *parser) delimitedBlock() {
	tok := p.expect(lexer.BlockDelimiter)

	for s := len(p.stack) - 1; s > 0; s-- {
		open := p.stack[s]
		if open.Kind != ast.KindBlock {
			continue
		}
		if open.Name == tok.Text {
			for len(p.stack)-1 > s {
				p.closeTop()
			}
			p.lastEnd = tok.End()
			p.closeTop()
			p.skipLineBreak()
			return
		}
		break
	}

	el := ast.NewElement(ast.KindBlock, tok.RawPosition)
	el.Name = tok.Text
	p.beginBlock(el)
	p.stack = append(p.stack, el)
	el.Block = delimitedBlockType(tok.Text, el.Style)
	p.lastEnd = tok.End()
	p.skipLineBreak()

	if el.Block == ast.BlockTable {
		p.tableCells(el)
	}
}

func delimitedBlockType(delimiter, style string) ast.BlockType {
	if admonitionStyles[style] {
		return ast.BlockAdmonition
	}
	switch delimiter[0] {
	case '|', '!', ',', ':':
		return ast.BlockTable
	case '*':
		return ast.BlockSidebar
	case '=':
		return ast.BlockExample
	case '_':
		if style == "verse" {
			return ast.BlockVerse
		}
		return ast.BlockQuote
	case '-':
		switch style {
		case "verse":
			return ast.BlockVerse
		case "quote":
			return ast.BlockQuote
		case "sidebar":
			return ast.BlockSidebar
		case "example":
			return ast.BlockExample
		}
		return ast.BlockOpen
	}
	return ast.BlockUnknown
}

// tableCells splits table content into cells up to the closing delimiter,
// which is left for delimitedBlock.
func (p *parser) tableCells(table *ast.Element) {
	var cell *ast.Element
	from := 0
	closeCell := func(to int) {
		if cell == nil {
			return
		}
		to = p.trimEnd(from, to)
		if to > from {
			p.finish(cell, p.toks[to-1].End())
		} else {
			p.finish(cell, p.toks[from-1].End())
		}
		p.inline(cell, from, to)
		cell = nil
	}

	for p.i < len(p.toks) {
		t := p.toks[p.i]
		if t.Type == lexer.BlockDelimiter && t.Text == table.Name && p.atLineStart(p.i) {
			closeCell(p.i)
			return
		}
		if t.Type == lexer.CellSeparator {
			closeCell(p.i)
			cell = ast.NewElement(ast.KindCell, t.RawPosition)
			table.Append(cell)
			from = p.i + 1
		}
		p.i++
	}
	closeCell(p.i)
}

func (p *parser) atLineStart(i int) bool {
	if i == 0 {
		return true
	}
	prev := p.toks[i-1]
	return prev.Type == lexer.LineBreak || prev.Type == lexer.EmptyLine || strings.HasSuffix(prev.Text, "\n")
}

func verbatimBlockType(t lexer.TokenType) ast.BlockType {
	switch t {
	case lexer.ListingBlockDelimiter, lexer.ListingText:
		return ast.BlockListing
	case lexer.LiteralBlockDelimiter, lexer.LiteralText:
		return ast.BlockLiteral
	case lexer.PassthroughBlockDelimiter, lexer.PassthroughContent:
		return ast.BlockPassthrough
	default:
		return ast.BlockComment
	}
}

// verbatimBlock consumes a listing, literal, passthrough or comment block.
// Its content runs from the line after the opening delimiter up to the
// closing delimiter, or to the end of input when it is never closed.
func (p *parser) verbatimBlock() {
	open := p.toks[p.i]
	p.i++

	el := ast.NewElement(ast.KindBlock, open.RawPosition)
	el.Block = verbatimBlockType(open.Type)
	el.Name = open.Text
	p.beginBlock(el)

	if strings.HasPrefix(open.Text, "```") {
		fence := strings.TrimLeft(open.Text, "`")
		el.Name = open.Text[:len(open.Text)-len(fence)]
		if el.Style == "" {
			el.Style = "source"
		}
		if lang := strings.TrimSpace(fence); lang != "" {
			el.Attrs = append(el.Attrs, ast.Attribute{Name: "language", Value: lang, Position: position.NewBasicPosition(lang, open.Offset+len(el.Name))})
		}
	}

	p.i = p.lineEnd(p.i)
	p.skipLineBreak()

	contentStart := p.end()
	if p.i < len(p.toks) {
		contentStart = p.toks[p.i].Offset
	}

	for p.i < len(p.toks) && p.toks[p.i].Type != open.Type {
		p.i++
	}

	if p.i < len(p.toks) {
		closing := p.toks[p.i]
		el.Content = p.span(contentStart, closing.Offset)
		p.finish(el, closing.End())
		p.i++
		p.skipLineBreak()
		return
	}

	el.Content = p.span(contentStart, p.end())
	p.finish(el, p.end())
}

// verbatimParagraph consumes a styled or indented paragraph whose content is opaque.
func (p *parser) verbatimParagraph() {
	tok := p.toks[p.i]
	p.i++

	el := ast.NewElement(ast.KindBlock, tok.RawPosition)
	el.Block = verbatimBlockType(tok.Type)
	p.beginBlock(el)
	el.Content = tok.RawPosition
	p.finish(el, tok.Offset+len(strings.TrimRight(tok.Text, "\n")))
}

func (p *parser) breakBlock() {
	tok := p.toks[p.i]
	p.i++

	el := ast.NewElement(ast.KindBlock, tok.RawPosition)
	el.Block = ast.BlockHorizontalRule
	if tok.Type == lexer.PageBreak {
		el.Block = ast.BlockPageBreak
	}
	p.beginBlock(el)
	p.finish(el, tok.End())
	p.i = p.lineEnd(p.i)
	p.skipLineBreak()
}

// paragraph consumes consecutive text lines.
func (p *parser) paragraph() {
	start := p.trimStart(p.i, len(p.toks))
	end := p.paragraphEnd(start)
	to := p.trimEnd(start, end)
	if to <= start {
		p.i = end
		p.skipLineBreak()
		if p.i == start {
			p.i++
		}
		return
	}

	el := ast.NewElement(ast.KindBlock, position.NewBasicPosition("", p.toks[start].Offset))
	el.Block = ast.BlockParagraph
	p.beginBlock(el)

	switch {
	case p.at(start) == lexer.Admonition:
		el.Block = ast.BlockAdmonition
		el.Style = strings.TrimSuffix(p.toks[start].Text, ":")
	case admonitionStyles[el.Style]:
		el.Block = ast.BlockAdmonition
	case el.Style == "quote":
		el.Block = ast.BlockQuote
	case el.Style == "verse":
		el.Block = ast.BlockVerse
	}

	p.inline(el, start, to)
	p.finish(el, p.toks[to-1].End())
	p.i = end
	p.skipLineBreak()
}

// paragraphEnd returns the index of the line break that ends the paragraph
// starting at i, or the end of the stream.
func (p *parser) paragraphEnd(i int) int {
	for j := i; j < len(p.toks); j++ {
		switch p.toks[j].Type {
		case lexer.EmptyLine:
			return j
		case lexer.LineBreak:
			if p.endsParagraph(j + 1) {
				return j
			}
		}
	}
	return len(p.toks)
}

// endsParagraph reports whether the line starting at k interrupts a paragraph.
func (p *parser) endsParagraph(k int) bool {
	first := p.at(k)
	if first == lexer.WhiteSpace {
		switch p.at(k + 1) {
		case lexer.EmptyLine, lexer.LineBreak, lexer.Invalid:
			return true
		}
	}
	switch first {
	case lexer.Invalid, lexer.EmptyLine,
		lexer.BlockDelimiter, lexer.ListingBlockDelimiter, lexer.LiteralBlockDelimiter,
		lexer.PassthroughBlockDelimiter, lexer.CommentBlockDelimiter,
		lexer.ListingText, lexer.LiteralText,
		lexer.BlockMacroID, lexer.ListContinuation,
		lexer.HeadingMarker, lexer.AttributeNameStart, lexer.BlockTitleStart,
		lexer.HorizontalRule, lexer.PageBreak:
		return true
	case lexer.MacroSeparator:
		return p.toks[k].Text == "::"
	}
	return p.isListLine(k)
}

func (p *parser) listContinuation() {
	p.i++
	p.i = p.lineEnd(p.i)
	p.skipLineBreak()
	if isListish(p.top()) {
		p.continuation = true
		p.blank = false
	}
}

// blockMacro consumes name::target[attributes].
func (p *parser) blockMacro() {
	start := p.i
	id := p.expect(lexer.BlockMacroID)
	p.expect(lexer.MacroSeparator)

	el := ast.NewElement(ast.KindBlockMacro, position.NewBasicPosition("", id.Offset))
	el.Name = id.Text
	p.beginBlock(el)

	bodyFrom := p.i
	for p.i < len(p.toks) && p.at(p.i) != lexer.AttributesStart && p.at(p.i) != lexer.LineBreak {
		p.i++
	}
	body := p.tokenSpan(bodyFrom, p.i)
	el.Value = body.Text
	p.inline(el, bodyFrom, p.i)

	if p.at(p.i) == lexer.AttributesStart {
		eol := p.lineEnd(p.i)
		last := p.trimEnd(p.i, eol) - 1
		el.Attrs = p.attributeList(el, p.i+1, last)
		p.i = eol
	}
	macroRefs(el, el.Name, body)

	eol := p.lineEnd(start)
	p.finish(el, p.toks[p.trimEnd(start, eol)-1].End())
	p.i = eol
	p.skipLineBreak()
}

// attributeDeclaration consumes :name: value, including continuation lines.
func (p *parser) attributeDeclaration() {
	start := p.expect(lexer.AttributeNameStart)

	el := ast.NewElement(ast.KindAttributeDeclaration, start.RawPosition)
header:
	for p.i < len(p.toks) {
		tok := p.toks[p.i]
		p.i++
		switch tok.Type {
		case lexer.AttributeUnset:
			el.Unset = true
		case lexer.AttributeSoft:
			el.Soft = true
		case lexer.AttributeName:
			el.Name = tok.Text
		case lexer.AttributeNameEnd:
			break header
		default:
			p.fail("unexpected %s in attribute declaration", tok)
		}
	}
	if el.Name == "" {
		p.fail("attribute declaration at %d without a name", start.Offset)
	}
	p.top().Append(el)

	end := p.toks[p.i-1].End()
	var parts []string
	var joins []lexer.TokenType
	for {
		var sb strings.Builder
		cont := lexer.Invalid
		for p.i < len(p.toks) && p.at(p.i) != lexer.LineBreak && p.at(p.i) != lexer.EmptyLine {
			tok := p.toks[p.i]
			switch tok.Type {
			case lexer.WhiteSpace:
				p.i++
				continue
			case lexer.AttributeContinuation, lexer.AttributeContinuationLegacy:
				cont = tok.Type
				p.i++
			case lexer.AttributeRefStart:
				next := p.attributeReference(el, p.i)
				sb.WriteString(p.tokenSpan(p.i, next).Text)
				p.i = next
			default:
				sb.WriteString(tok.Text)
				p.i++
			}
			end = p.toks[p.i-1].End()
		}
		parts = append(parts, sb.String())
		if cont == lexer.Invalid || p.at(p.i) != lexer.LineBreak || p.i+1 >= len(p.toks) {
			break
		}
		p.i++
		joins = append(joins, cont)
		if cont == lexer.AttributeContinuationLegacy {
			el.Legacy = true
		}
	}

	el.Value = joinValue(parts, joins)
	p.finish(el, end)
	p.skipLineBreak()
}

// joinValue concatenates the lines of a continued attribute value. Lines
// continued with a backslash join with a space, or with a newline when the
// line ends in a hard break " +"; legacy " +" continuations join with a space.
func joinValue(parts []string, joins []lexer.TokenType) string {
	var sb strings.Builder
	for i, part := range parts {
		if i > 0 && sb.Len() > 0 {
			if joins[i-1] == lexer.AttributeContinuation && strings.HasSuffix(parts[i-1], " +") {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(part)
	}
	return sb.String()
}
