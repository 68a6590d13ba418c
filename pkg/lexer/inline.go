package lexer

import (
	"strings"
	"unicode/utf8"
)

// characters that a backslash escapes
const escapable = "*_`+#{}[]<>\\'\"|^~:."

func lexInline(text string, st State) ([]Token, State) {
	i := st.Offset
	c := text[i]
	e := newEmitter(text, i)
	eol := lineEnd(text, i)

	base := Text
	if st.Line == LineHeading {
		base = HeadingText
	}
	textType := st.Format.textType(base)

	// delimiter pairs never reach past the paragraph, or the line for titles
	limit := eol
	if st.Line == LineNormal && strings.IndexByte("+\"'`*_", c) >= 0 {
		limit = paragraphEnd(text, i)
	}

	switch {
	case c == '\n':
		e.emit(LineBreak, i+1)
		if st.Line == LineNormal {
			st.Paragraph = true
		} else {
			st.Paragraph = false
			st.Format = 0
		}
		st.Line = LineNormal
		return e.toks, st.at(e.pos)

	case isSpace(c) || c == '\r':
		j := i
		for j < eol && (isSpace(text[j]) || text[j] == '\r') {
			j++
		}
		e.emit(WhiteSpace, j)
		if st.Line == LineNormal && j < eol && text[j] == '+' && isBlank(text[j+1:eol]) {
			e.emit(HardBreak, j+1)
		}
		return e.toks, st.at(e.pos)

	case c == '\\':
		if i+1 < eol && strings.IndexByte(escapable, text[i+1]) >= 0 {
			e.emit(textType, i+2)
		} else {
			e.emit(textType, i+1)
		}
		return e.toks, st.at(e.pos)

	case c == '{':
		nameEnd := scanIdent(text, i+1)
		if nameEnd > i+1 && nameEnd < eol && text[nameEnd] == '}' {
			e.emit(AttributeRefStart, i+1)
			e.emit(AttributeRef, nameEnd)
			e.emit(AttributeRefEnd, nameEnd+1)
			return e.toks, st.at(e.pos)
		}

	case c == '<':
		if lexCrossReference(e, eol) || lexBracketedURL(e, eol) {
			return e.toks, st.at(e.pos)
		}

	case c == '[':
		if strings.HasPrefix(text[i:eol], "[[") {
			if k := strings.Index(text[i+2:eol], "]]"); k > 0 && lexAnchor(e, i, i+2+k+2) {
				return e.toks, st.at(e.pos)
			}
		}

	case c == '+':
		if lexInlinePassthrough(e, limit) {
			return e.toks, st.at(e.pos)
		}
		e.emit(textType, i+runLength(text, i, '+'))
		return e.toks, st.at(e.pos)

	case c == '"' || c == '\'':
		if toks, next, ok := lexTypographicStart(e, st, limit); ok {
			return toks, next
		}

	case c == '`':
		if toks, next, ok := lexTypographicEnd(e, st); ok {
			return toks, next
		}
		return lexFormatting(e, st, limit, textType)

	case c == '*' || c == '_':
		return lexFormatting(e, st, limit, textType)

	case c == '|' && st.InTable():
		e.emit(CellSeparator, i+1)
		return e.toks, st.at(e.pos)
	}

	r, size := utf8.DecodeRuneInString(text[i:])
	if isWordRune(r) {
		if !isWordRune(prevRune(text, i)) {
			if lexWordStart(e, eol) {
				return e.toks, st.at(e.pos)
			}
		}
		j := i + size
		for j < eol {
			r, n := utf8.DecodeRuneInString(text[j:])
			if !isWordRune(r) || italicMark(text, st, j, eol) {
				break
			}
			j += n
		}
		e.emit(textType, j)
		return e.toks, st.at(e.pos)
	}

	e.emit(textType, i+size)
	return e.toks, st.at(e.pos)
}

// italicMark reports whether the _ at j ends a word run: it may close the open
// constrained italic, or it starts a __ pair.
func italicMark(text string, st State, j, eol int) bool {
	if text[j] != '_' {
		return false
	}
	if j+1 < eol && text[j+1] == '_' {
		return true
	}
	return st.Format.Has(FormatItalicConstrained) && canCloseConstrained(text, j)
}

// lexWordStart tries autolinks, email addresses and inline macros at the start of a word.
func lexWordStart(e *emitter, eol int) bool {
	text := e.text
	i := e.pos

	if end := urlEnd(text, i, eol); end > i {
		e.emit(URLLink, end)
		if end < eol && text[end] == '[' {
			if close := matchBracket(text, end, eol); close > 0 {
				e.emit(AttributesStart, end+1)
				lexAttributeList(e, close)
				e.emit(AttributesEnd, close+1)
			}
		}
		return true
	}

	if end := emailEnd(text, i, eol); end > i {
		e.emit(URLEmail, end)
		return true
	}

	return lexInlineMacro(e, eol)
}

// lexInlineMacro recognizes name:target[attrs] on a single line.
func lexInlineMacro(e *emitter, eol int) bool {
	text := e.text
	i := e.pos
	nameEnd := scanMacroName(text, i)
	if nameEnd == i || nameEnd+1 >= eol || text[nameEnd] != ':' || text[nameEnd+1] == ':' {
		return false
	}
	bodyStart := nameEnd + 1
	j := bodyStart
	for j < eol && text[j] != '[' && !isSpace(text[j]) {
		j++
	}
	if j >= eol || text[j] != '[' {
		return false
	}
	close := matchBracket(text, j, eol)
	if close < 0 {
		return false
	}

	name := text[i:nameEnd]
	e.emit(InlineMacroID, nameEnd)
	e.emit(MacroSeparator, bodyStart)
	lexWithRefs(e, text[:j], InlineMacroBody)
	e.emit(AttributesStart, j+1)
	switch name {
	case "pass", "stem", "latexmath", "asciimath":
		e.emit(PassthroughContent, close)
	default:
		lexAttributeList(e, close)
	}
	e.emit(AttributesEnd, close+1)
	return true
}

// lexCrossReference recognizes <<target>> and <<target,label>>.
func lexCrossReference(e *emitter, eol int) bool {
	text := e.text
	i := e.pos
	if !strings.HasPrefix(text[i:eol], "<<") {
		return false
	}
	k := strings.Index(text[i+2:eol], ">>")
	if k <= 0 {
		return false
	}
	inner := text[i+2 : i+2+k]
	target := inner
	comma := strings.IndexByte(inner, ',')
	if comma >= 0 {
		target = inner[:comma]
	}
	if strings.TrimSpace(target) == "" {
		return false
	}
	end := i + 2 + k
	e.emit(RefStart, i+2)
	e.emit(Ref, i+2+len(target))
	if comma >= 0 {
		e.emit(AttrSeparator, e.pos+1)
		e.whitespace(end)
		lexWithRefs(e, text[:end], Text)
	}
	e.emit(RefEnd, end+2)
	return true
}

// lexBracketedURL recognizes <https://example.com>.
func lexBracketedURL(e *emitter, eol int) bool {
	text := e.text
	i := e.pos
	close := strings.IndexByte(text[i+1:eol], '>')
	if close < 0 {
		return false
	}
	close += i + 1
	inner := text[i+1 : close]
	if strings.ContainsAny(inner, " \t") || urlEnd(text, i+1, close) == i+1 {
		return false
	}
	e.emit(URLStart, i+1)
	e.emit(URLLink, close)
	e.emit(URLEnd, close+1)
	return true
}

// lexInlinePassthrough lexes +text+, ++text++ and +++text+++ in one step.
func lexInlinePassthrough(e *emitter, limit int) bool {
	text := e.text
	i := e.pos
	n := runLength(text, i, '+')
	if n > 3 {
		return false
	}
	run := text[i : i+n]
	contentStart := i + n
	closeAt := -1

	if n == 1 {
		if !canOpenConstrained(text, i) {
			return false
		}
		for j := contentStart + 1; j < limit; j++ {
			if text[j] == '+' && text[j-1] != '+' && nextRune(text, j+1) != '+' && canCloseConstrained(text, j) {
				closeAt = j
				break
			}
		}
	} else if k := strings.Index(text[contentStart:limit], run); k >= 0 {
		closeAt = contentStart + k
	}
	if closeAt < 0 {
		return false
	}

	e.emit(PassthroughInlineStart, contentStart)
	e.emit(PassthroughContent, closeAt)
	e.emit(PassthroughInlineEnd, closeAt+n)
	return true
}

// canOpenConstrained reports whether a constrained pair may open at i: the
// preceding character is not part of a word and the content starts right away.
func canOpenConstrained(text string, i int) bool {
	prev := prevRune(text, i)
	if isWordRune(prev) || prev == ';' || prev == ':' || prev == '}' {
		return false
	}
	return !isBlankRune(nextRune(text, i+1))
}

// canCloseConstrained reports whether a constrained pair may close at j.
func canCloseConstrained(text string, j int) bool {
	if isBlankRune(prevRune(text, j)) {
		return false
	}
	return !isWordRune(nextRune(text, j+1))
}

func hasConstrainedClose(text string, from, limit int, ch byte) bool {
	for j := from + 1; j < limit; j++ {
		if text[j] != ch {
			continue
		}
		if nextRune(text, j+1) == rune(ch) {
			j++
			continue
		}
		if canCloseConstrained(text, j) {
			return true
		}
	}
	return false
}

type formatMarks struct {
	start, end                 TokenType
	constrained, unconstrained Format
}

var formatting = map[byte]formatMarks{
	'*': {BoldStart, BoldEnd, FormatBoldConstrained, FormatBoldUnconstrained},
	'_': {ItalicStart, ItalicEnd, FormatItalicConstrained, FormatItalicUnconstrained},
	'`': {MonoStart, MonoEnd, FormatMonoConstrained, FormatMonoUnconstrained},
}

// lexFormatting handles *bold*, _italic_ and `mono` in their constrained and
// unconstrained forms.
func lexFormatting(e *emitter, st State, limit int, textType TokenType) ([]Token, State) {
	text := e.text
	i := e.pos
	ch := text[i]
	m := formatting[ch]
	double := i+1 < len(text) && text[i+1] == ch

	if double {
		if st.Format.Has(m.unconstrained) {
			e.emit(m.end, i+2)
			st.Format &^= m.unconstrained
			return e.toks, st.at(e.pos)
		}
		if !st.Format.Has(m.constrained) {
			if k := strings.Index(text[i+2:limit], text[i:i+2]); k > 0 {
				e.emit(m.start, i+2)
				st.Format |= m.unconstrained
				return e.toks, st.at(e.pos)
			}
		}
	}

	if st.Format.Has(m.constrained) && canCloseConstrained(text, i) {
		e.emit(m.end, i+1)
		st.Format &^= m.constrained
		return e.toks, st.at(e.pos)
	}

	if !double && !st.Format.Has(m.constrained|m.unconstrained) &&
		canOpenConstrained(text, i) && hasConstrainedClose(text, i+1, limit, ch) {
		e.emit(m.start, i+1)
		st.Format |= m.constrained
		return e.toks, st.at(e.pos)
	}

	e.emit(textType, i+runLength(text, i, ch))
	return e.toks, st.at(e.pos)
}

// lexTypographicStart recognizes the opening "` and '` of curved quotes.
func lexTypographicStart(e *emitter, st State, limit int) ([]Token, State, bool) {
	text := e.text
	i := e.pos
	q := text[i]
	if i+1 >= len(text) || text[i+1] != '`' {
		return nil, st, false
	}
	flag, start := FormatDoubleQuote, TypographicDoubleQuoteStart
	if q == '\'' {
		flag, start = FormatSingleQuote, TypographicSingleQuoteStart
	}
	if st.Format.Has(flag) || isWordRune(prevRune(text, i)) || isBlankRune(nextRune(text, i+2)) {
		return nil, st, false
	}
	if !strings.Contains(text[i+2:limit], "`"+string(q)) {
		return nil, st, false
	}
	e.emit(start, i+2)
	st.Format |= flag
	return e.toks, st.at(e.pos), true
}

// lexTypographicEnd recognizes the closing `" and `' of curved quotes.
func lexTypographicEnd(e *emitter, st State) ([]Token, State, bool) {
	text := e.text
	i := e.pos
	if i+1 >= len(text) {
		return nil, st, false
	}
	switch {
	case text[i+1] == '"' && st.Format.Has(FormatDoubleQuote):
		e.emit(TypographicDoubleQuoteEnd, i+2)
		st.Format &^= FormatDoubleQuote
	case text[i+1] == '\'' && st.Format.Has(FormatSingleQuote):
		e.emit(TypographicSingleQuoteEnd, i+2)
		st.Format &^= FormatSingleQuote
	default:
		return nil, st, false
	}
	return e.toks, st.at(e.pos), true
}
