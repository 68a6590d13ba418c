package lexer

import (
	"strings"
)

// lexAttributeList lexes the inside of [...] up to end: positional values,
// name=value pairs and quoted values, separated by commas.
func lexAttributeList(e *emitter, end int) {
	text := e.text
	for e.pos < end {
		c := text[e.pos]
		switch {
		case isSpace(c) || c == '\r':
			e.whitespace(end)
		case c == ',':
			e.emit(AttrSeparator, e.pos+1)
		case c == '"' || c == '\'':
			close := quoteEnd(text, e.pos, end)
			lexWithRefs(e, text[:close], AttrValue)
		default:
			nameEnd := scanIdent(text, e.pos)
			k := nameEnd
			for k < end && isSpace(text[k]) {
				k++
			}
			if nameEnd > e.pos && k < end && text[k] == '=' {
				e.emit(AttrName, nameEnd)
				e.whitespace(k)
				e.emit(AttrAssign, k+1)
				continue
			}
			valueEnd := end
			if i := strings.IndexByte(text[e.pos:end], ','); i >= 0 {
				valueEnd = e.pos + i
			}
			trimmed := strings.TrimRight(text[e.pos:valueEnd], " \t\r")
			lexWithRefs(e, text[:e.pos+len(trimmed)], AttrValue)
		}
	}
}

// quoteEnd returns the offset just past the closing quote matching the one
// at i, or end when the quote is never closed.
func quoteEnd(text string, i, end int) int {
	q := text[i]
	for j := i + 1; j < end; j++ {
		switch text[j] {
		case '\\':
			j++
		case q:
			return j + 1
		}
	}
	return end
}

// matchBracket returns the offset of the ] closing the [ at open, or -1.
func matchBracket(text string, open, limit int) int {
	depth := 0
	for j := open; j < limit; j++ {
		switch text[j] {
		case '\\':
			j++
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

var urlSchemes = []string{"https://", "http://", "ftp://", "irc://", "file://"}

// urlEnd returns the end of the URL starting at i, or i.
func urlEnd(text string, i, eol int) int {
	scheme := ""
	for _, s := range urlSchemes {
		if strings.HasPrefix(text[i:eol], s) {
			scheme = s
			break
		}
	}
	if scheme == "" {
		return i
	}
	bodyStart := i + len(scheme)
	j := bodyStart
	for j < eol && !isSpace(text[j]) && strings.IndexByte("[]<>\"\r", text[j]) < 0 {
		j++
	}

	// trailing punctuation belongs to the sentence, not the link
	for j > bodyStart {
		last := text[j-1]
		if strings.IndexByte(".,;:!?", last) >= 0 {
			j--
			continue
		}
		if last == ')' && strings.Count(text[i:j], "(") < strings.Count(text[i:j], ")") {
			j--
			continue
		}
		break
	}
	if j == bodyStart {
		return i
	}
	return j
}

// emailEnd returns the end of the email address starting at i, or i.
func emailEnd(text string, i, eol int) int {
	j := i
	for j < eol && (isIdentStart(text[j]) || strings.IndexByte(".%+-", text[j]) >= 0) {
		j++
	}
	if j == i || j >= eol || text[j] != '@' {
		return i
	}
	j++
	end := i
	labels := 0
	for {
		labelStart := j
		for j < eol && isIdentChar(text[j]) {
			j++
		}
		if j == labelStart {
			break
		}
		labels++
		if labels >= 2 && isAlphaLabel(text[labelStart:j]) {
			end = j
		}
		if j+1 < eol && text[j] == '.' && isIdentChar(text[j+1]) {
			j++
			continue
		}
		break
	}
	return end
}

func isAlphaLabel(s string) bool {
	if len(s) < 2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !((s[i] >= 'a' && s[i] <= 'z') || (s[i] >= 'A' && s[i] <= 'Z')) {
			return false
		}
	}
	return true
}
