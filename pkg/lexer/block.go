package lexer

import (
	"strings"
	"unicode/utf8"
)

var admonitions = []string{"NOTE:", "TIP:", "IMPORTANT:", "CAUTION:", "WARNING:"}

// preprocessor macros may appear inside a paragraph
var preprocessorMacros = map[string]bool{
	"include": true,
	"ifdef":   true,
	"ifndef":  true,
	"ifeval":  true,
	"endif":   true,
}

func lexLineStart(text string, st State) ([]Token, State) {
	start := st.Offset
	eol := lineEnd(text, start)
	line := text[start:eol]
	trimmed := strings.TrimRight(line, " \t\r")
	e := newEmitter(text, start)

	if st.Verbatim != VerbatimNone {
		return lexVerbatimLine(e, st, eol, trimmed)
	}

	if st.Underline {
		e.emit(HeadingOldStyleUnderline, start+len(trimmed))
		e.finishLine(eol)
		return e.toks, st.endOfParagraph().at(e.pos)
	}

	if st.AttrContinuation {
		st.AttrContinuation = false
		return lexAttributeValue(e, st, eol)
	}

	if isBlank(line) {
		e.emit(WhiteSpace, eol)
		e.emit(EmptyLine, eol+1)
		return e.toks, st.endOfParagraph().at(e.pos)
	}

	if toks, next, ok := lexDelimiterLine(e, st, eol, trimmed); ok {
		return toks, next
	}

	if !st.Paragraph {
		if line[0] == ':' {
			if toks, next, ok := lexAttributeDeclaration(e, st, eol); ok {
				return toks, next
			}
		}
		if line[0] == '[' && strings.HasSuffix(trimmed, "]") {
			return lexBlockAttributeLine(e, st, eol, trimmed)
		}
		if len(trimmed) >= 2 && line[0] == '.' && !isSpace(line[1]) && line[1] != '.' {
			e.emit(BlockTitleStart, start+1)
			st.Line = LineTitle
			return e.toks, st.at(e.pos)
		}
		if toks, next, ok := lexHeadingMarker(e, st, trimmed); ok {
			return toks, next
		}
		if oldStyleHeading(text, start, eol, trimmed) {
			st.Underline = true
			st.Line = LineHeading
			return lexInline(text, st)
		}
	}

	if toks, next, ok := lexBlockMacro(e, st, eol, trimmed); ok {
		return toks, next
	}

	if trimmed == "+" {
		e.emit(ListContinuation, start+1)
		e.finishLine(eol)
		st.Paragraph = false
		return e.toks, st.at(e.pos)
	}

	if toks, next, ok := lexListMarker(e, st, eol); ok {
		return toks, next
	}

	if !st.Paragraph {
		for _, adm := range admonitions {
			if strings.HasPrefix(line, adm) && (len(line) == len(adm) || isSpace(line[len(adm)])) {
				e.emit(Admonition, start+len(adm))
				return e.toks, st.at(e.pos)
			}
		}

		// indented paragraphs are literal
		if isSpace(line[0]) {
			e.emit(LiteralText, eol+1)
			st.Verbatim = VerbatimLiteral
			st.Fence = ""
			return e.toks, st.at(e.pos)
		}
	}

	st.Line = LineNormal
	return lexInline(text, st)
}

// lexVerbatimLine handles one line inside a listing, literal, passthrough or comment block.
func lexVerbatimLine(e *emitter, st State, eol int, trimmed string) ([]Token, State) {
	start := e.pos
	if st.Fence == "" {
		if isBlank(e.text[start:eol]) {
			e.emit(WhiteSpace, eol)
			e.emit(EmptyLine, eol+1)
			st.Verbatim = VerbatimNone
			return e.toks, st.endOfParagraph().at(e.pos)
		}
		e.emit(st.Verbatim.contentType(), eol+1)
		return e.toks, st.at(e.pos)
	}

	if closesFence(st.Fence, trimmed) {
		e.emit(st.Verbatim.delimiterType(), start+len(trimmed))
		e.finishLine(eol)
		st.Verbatim = VerbatimNone
		st.Fence = ""
		return e.toks, st.endOfParagraph().at(e.pos)
	}

	e.emit(st.Verbatim.contentType(), eol+1)
	return e.toks, st.at(e.pos)
}

func closesFence(fence, line string) bool {
	if strings.HasPrefix(fence, "`") {
		return repeated(line, '`', len(fence)) && len(line) == len(fence)
	}
	return line == fence
}

func isBlockDelimiter(s string) bool {
	switch {
	case s == "--":
		return true
	case repeated(s, '*', 4), repeated(s, '=', 4), repeated(s, '_', 4):
		return true
	case len(s) >= 4 && (s[0] == '|' || s[0] == '!' || s[0] == ',' || s[0] == ':') && repeated(s[1:], '=', 3):
		return true
	}
	return false
}

func isHorizontalRule(s string) bool {
	switch s {
	case "'''", "---", "***", "- - -", "* * *":
		return true
	}
	return false
}

// lexDelimiterLine recognizes lines that open or close delimited blocks.
func lexDelimiterLine(e *emitter, st State, eol int, trimmed string) ([]Token, State, bool) {
	start := e.pos
	open := func(v Verbatim, fence string) ([]Token, State, bool) {
		e.emit(v.delimiterType(), start+len(trimmed))
		e.finishLine(eol)
		st = st.endOfParagraph()
		st.Verbatim = v
		st.Fence = fence
		return e.toks, st.at(e.pos), true
	}

	switch {
	case repeated(trimmed, '/', 4):
		return open(VerbatimComment, trimmed)
	case strings.HasPrefix(trimmed, "//"):
		e.emit(LineComment, eol)
		e.finishLine(eol)
		return e.toks, st.at(e.pos), true
	case repeated(trimmed, '-', 4):
		return open(VerbatimListing, trimmed)
	case strings.HasPrefix(trimmed, "```"):
		return open(VerbatimListing, trimmed[:runLength(trimmed, 0, '`')])
	case repeated(trimmed, '.', 4):
		return open(VerbatimLiteral, trimmed)
	case repeated(trimmed, '+', 4):
		return open(VerbatimPassthrough, trimmed)
	case isBlockDelimiter(trimmed):
		e.emit(BlockDelimiter, start+len(trimmed))
		e.finishLine(eol)
		if top, ok := st.Blocks.Top(); ok && top == trimmed {
			st.Blocks = st.Blocks.Pop()
		} else {
			st.Blocks = st.Blocks.Push(trimmed)
		}
		return e.toks, st.endOfParagraph().at(e.pos), true
	case !st.Paragraph && isHorizontalRule(trimmed):
		e.emit(HorizontalRule, start+len(trimmed))
		e.finishLine(eol)
		return e.toks, st.endOfParagraph().at(e.pos), true
	case !st.Paragraph && trimmed == "<<<":
		e.emit(PageBreak, start+len(trimmed))
		e.finishLine(eol)
		return e.toks, st.endOfParagraph().at(e.pos), true
	}
	return nil, st, false
}

// lexAttributeDeclaration lexes :name: value, :!name:, :name!: and :name@: forms.
func lexAttributeDeclaration(e *emitter, st State, eol int) ([]Token, State, bool) {
	text := e.text
	i := e.pos + 1
	unsetPrefix := i < eol && text[i] == '!'
	if unsetPrefix {
		i++
	}
	nameEnd := scanIdent(text, i)
	if nameEnd == i || nameEnd > eol {
		return nil, st, false
	}
	j := nameEnd
	unsetSuffix := j < eol && text[j] == '!'
	if unsetSuffix {
		j++
	}
	soft := j < eol && text[j] == '@'
	if soft {
		j++
	}
	if j >= eol || text[j] != ':' || (unsetPrefix && unsetSuffix) {
		return nil, st, false
	}
	if j+1 < eol && !isSpace(text[j+1]) && text[j+1] != '\r' {
		return nil, st, false
	}

	e.emit(AttributeNameStart, e.pos+1)
	if unsetPrefix {
		e.emit(AttributeUnset, e.pos+1)
	}
	e.emit(AttributeName, nameEnd)
	if unsetSuffix {
		e.emit(AttributeUnset, e.pos+1)
	}
	if soft {
		e.emit(AttributeSoft, e.pos+1)
	}
	e.emit(AttributeNameEnd, j+1)

	toks, next := lexAttributeValue(e, st, eol)
	return toks, next, true
}

// lexAttributeValue lexes the remainder of a declaration line, including a
// trailing continuation marker.
func lexAttributeValue(e *emitter, st State, eol int) ([]Token, State) {
	text := e.text
	e.whitespace(eol)

	rest := strings.TrimRight(text[e.pos:eol], " \t\r")
	valueEnd := e.pos + len(rest)
	cont := Invalid
	switch {
	case rest == "\\" || strings.HasSuffix(rest, " \\"):
		cont = AttributeContinuation
	case strings.HasSuffix(rest, " +"):
		cont = AttributeContinuationLegacy
	}

	if cont != Invalid {
		markerStart := valueEnd - 1
		lexWithRefs(e, strings.TrimRight(text[:markerStart], " \t"), AttributeValue)
		e.whitespace(markerStart)
		e.emit(cont, valueEnd)
	} else {
		lexWithRefs(e, text[:valueEnd], AttributeValue)
	}
	e.finishLine(eol)

	st.AttrContinuation = cont != Invalid && eol < len(text)
	st.Line = LineNormal
	return e.toks, st.at(e.pos)
}

// lexWithRefs emits text[e.pos:len(bounded)] as base tokens, splitting out
// attribute references. The bounded string is a prefix of e.text.
func lexWithRefs(e *emitter, bounded string, base TokenType) {
	limit := len(bounded)
	for e.pos < limit {
		j := strings.IndexByte(bounded[e.pos:], '{')
		if j < 0 {
			e.emit(base, limit)
			return
		}
		at := e.pos + j
		if at > 0 && bounded[at-1] == '\\' {
			e.emit(base, at+1)
			continue
		}
		nameEnd := scanIdent(bounded, at+1)
		if nameEnd == at+1 || nameEnd >= limit || bounded[nameEnd] != '}' {
			e.emit(base, at+1)
			continue
		}
		e.emit(base, at)
		e.emit(AttributeRefStart, at+1)
		e.emit(AttributeRef, nameEnd)
		e.emit(AttributeRefEnd, nameEnd+1)
	}
}

// lexBlockAttributeLine lexes [[id]] anchors and [style,attrs] lines above a block.
func lexBlockAttributeLine(e *emitter, st State, eol int, trimmed string) ([]Token, State) {
	text := e.text
	start := e.pos
	end := start + len(trimmed)

	if strings.HasPrefix(trimmed, "[[") && strings.HasSuffix(trimmed, "]]") && len(trimmed) > 4 {
		if lexAnchor(e, start, end) {
			e.finishLine(eol)
			return e.toks, st.at(e.pos)
		}
	}

	e.emit(AttributesStart, start+1)
	lexAttributeList(e, end-1)
	e.emit(AttributesEnd, end)
	e.finishLine(eol)

	// a verbatim style on a block without delimiters makes the next paragraph opaque
	if v := verbatimStyle(text[start+1 : end-1]); v != VerbatimNone && e.pos < len(text) {
		nextEol := lineEnd(text, e.pos)
		next := strings.TrimRight(text[e.pos:nextEol], " \t\r")
		if next != "" && !startsBlock(next) {
			st.Verbatim = v
			st.Fence = ""
		}
	}
	st.Line = LineNormal
	return e.toks, st.at(e.pos)
}

// startsBlock reports whether a line opens a delimited block or adds more block metadata.
func startsBlock(line string) bool {
	switch {
	case repeated(line, '-', 4), repeated(line, '.', 4), repeated(line, '+', 4), repeated(line, '/', 4):
		return true
	case strings.HasPrefix(line, "```"), isBlockDelimiter(line):
		return true
	case line[0] == '[' && strings.HasSuffix(line, "]"):
		return true
	case len(line) >= 2 && line[0] == '.' && !isSpace(line[1]) && line[1] != '.':
		return true
	}
	return false
}

func verbatimStyle(attrs string) Verbatim {
	style := attrs
	if i := strings.IndexAny(style, ",#%."); i >= 0 {
		style = style[:i]
	}
	switch strings.TrimSpace(style) {
	case "source", "listing":
		return VerbatimListing
	case "literal":
		return VerbatimLiteral
	case "pass", "stem", "latexmath", "asciimath":
		return VerbatimPassthrough
	case "comment":
		return VerbatimComment
	}
	return VerbatimNone
}

// lexAnchor emits [[id]] or [[id,reftext]] spanning start..end if the id is valid.
func lexAnchor(e *emitter, start, end int) bool {
	text := e.text
	inner := text[start+2 : end-2]
	id := inner
	comma := strings.IndexByte(inner, ',')
	if comma >= 0 {
		id = inner[:comma]
	}
	if !validID(id) {
		return false
	}
	e.emit(BlockIDStart, start+2)
	e.emit(BlockID, start+2+len(id))
	if comma >= 0 {
		e.emit(AttrSeparator, e.pos+1)
		e.whitespace(end - 2)
		lexWithRefs(e, text[:end-2], Text)
	}
	e.emit(BlockIDEnd, end)
	return true
}

func validID(id string) bool {
	if id == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(id)
	if !(isWordRune(r) || r == ':') || (r >= '0' && r <= '9') {
		return false
	}
	for _, r := range id {
		if !(isWordRune(r) || r == ':' || r == '.' || r == '-') {
			return false
		}
	}
	return true
}

// lexHeadingMarker recognizes = Title and # Title headings.
func lexHeadingMarker(e *emitter, st State, trimmed string) ([]Token, State, bool) {
	if len(trimmed) < 3 || (trimmed[0] != '=' && trimmed[0] != '#') {
		return nil, st, false
	}
	n := runLength(trimmed, 0, trimmed[0])
	if n > 6 || n >= len(trimmed) || !isSpace(trimmed[n]) || isBlank(trimmed[n:]) {
		return nil, st, false
	}
	start := e.pos
	e.emit(HeadingMarker, start+n)
	e.whitespace(start + len(trimmed))
	st.Line = LineHeading
	return e.toks, st.at(e.pos), true
}

// oldStyleHeading reports whether the line is a title underlined by the next line.
func oldStyleHeading(text string, start, eol int, trimmed string) bool {
	first, _ := utf8.DecodeRuneInString(trimmed)
	if !isWordRune(first) || eol >= len(text) {
		return false
	}
	next := strings.TrimRight(text[eol+1:lineEnd(text, eol+1)], " \t\r")
	if len(next) < 2 || strings.IndexByte("=-~^+", next[0]) < 0 || !repeated(next, next[0], 2) {
		return false
	}
	diff := utf8.RuneCountInString(trimmed) - len(next)
	return diff >= -1 && diff <= 1
}

// lexBlockMacro recognizes name::target[attrs] lines.
func lexBlockMacro(e *emitter, st State, eol int, trimmed string) ([]Token, State, bool) {
	text := e.text
	start := e.pos
	if !strings.HasSuffix(trimmed, "]") {
		return nil, st, false
	}
	nameEnd := scanMacroName(text, start)
	if nameEnd == start || nameEnd+2 > start+len(trimmed) || text[nameEnd:nameEnd+2] != "::" {
		return nil, st, false
	}
	name := text[start:nameEnd]
	if st.Paragraph && !preprocessorMacros[name] {
		return nil, st, false
	}
	bodyStart := nameEnd + 2
	open := strings.IndexByte(text[bodyStart:start+len(trimmed)], '[')
	if open < 0 {
		return nil, st, false
	}
	open += bodyStart
	if open > bodyStart && (isSpace(text[bodyStart]) || isSpace(text[open-1])) {
		return nil, st, false
	}
	end := start + len(trimmed)

	e.emit(BlockMacroID, nameEnd)
	e.emit(MacroSeparator, bodyStart)
	lexWithRefs(e, text[:open], BlockMacroBody)
	e.emit(AttributesStart, open+1)
	lexAttributeList(e, end-1)
	e.emit(AttributesEnd, end)
	e.finishLine(eol)
	st.Line = LineNormal
	return e.toks, st.at(e.pos), true
}

func scanMacroName(text string, i int) int {
	if i >= len(text) || !((text[i] >= 'a' && text[i] <= 'z') || (text[i] >= 'A' && text[i] <= 'Z')) {
		return i
	}
	j := i + 1
	for j < len(text) && isIdentChar(text[j]) {
		j++
	}
	return j
}

// lexListMarker recognizes bullets, enumerations, callouts and description list terms.
func lexListMarker(e *emitter, st State, eol int) ([]Token, State, bool) {
	text := e.text
	start := e.pos
	i := start
	for i < eol && isSpace(text[i]) {
		i++
	}
	if i >= eol {
		return nil, st, false
	}

	markerEnd, kind := listMarker(text, i, eol)
	if kind != Invalid {
		e.whitespace(i)
		e.emit(kind, markerEnd)
		e.whitespace(eol)
		st.Paragraph = false
		st.Line = LineNormal
		return e.toks, st.at(e.pos), true
	}

	if termEnd, markEnd := descriptionTerm(text, i, eol); termEnd > 0 {
		e.whitespace(i)
		lexWithRefs(e, text[:termEnd], Text)
		e.emit(DescriptionMarker, markEnd)
		e.whitespace(eol)
		st.Paragraph = false
		st.Line = LineNormal
		return e.toks, st.at(e.pos), true
	}
	return nil, st, false
}

// listMarker returns the end of a list marker starting at i and its token type.
func listMarker(text string, i, eol int) (int, TokenType) {
	followedBySpace := func(j int) bool {
		return j < eol && isSpace(text[j]) && !isBlank(text[j:eol])
	}
	c := text[i]
	switch {
	case c == '*':
		n := runLength(text, i, '*')
		if n <= 5 && followedBySpace(i+n) {
			return i + n, Bullet
		}
	case c == '-':
		if followedBySpace(i + 1) {
			return i + 1, Bullet
		}
	case c == '.':
		n := runLength(text, i, '.')
		if n <= 5 && followedBySpace(i+n) {
			return i + n, Enumeration
		}
	case c >= '0' && c <= '9':
		j := i
		for j < eol && text[j] >= '0' && text[j] <= '9' {
			j++
		}
		if j < eol && text[j] == '.' && followedBySpace(j+1) {
			return j + 1, Enumeration
		}
	case c == '<':
		j := i + 1
		for j < eol && ((text[j] >= '0' && text[j] <= '9') || text[j] == '.') {
			j++
		}
		if j > i+1 && j < eol && text[j] == '>' && followedBySpace(j+1) {
			return j + 1, Callout
		}
	}

	if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		if i+1 < eol && text[i+1] == '.' && followedBySpace(i+2) {
			return i + 2, Enumeration
		}
		j := i
		for j < eol && strings.IndexByte("ivxIVX", text[j]) >= 0 {
			j++
		}
		if j > i && j < eol && text[j] == ')' && followedBySpace(j+1) {
			return j + 1, Enumeration
		}
	}
	return i, Invalid
}

// descriptionTerm finds term:: and friends. It returns the end of the term
// and of the marker, or zeros.
func descriptionTerm(text string, i, eol int) (int, int) {
	for j := i + 1; j < eol; j++ {
		var n int
		switch {
		case text[j] == ':':
			n = runLength(text, j, ':')
			if n < 2 || n > 4 {
				j += n - 1
				continue
			}
		case text[j] == ';' && j+1 < eol && text[j+1] == ';':
			n = 2
		default:
			continue
		}
		end := j + n
		if end < eol && !isSpace(text[end]) && text[end] != '\r' {
			j = end - 1
			continue
		}
		if isBlank(text[i:j]) {
			return 0, 0
		}
		return j, end
	}
	return 0, 0
}
