package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// prevRune returns the rune before offset i, or '\n' at the start of text.
func prevRune(text string, i int) rune {
	if i <= 0 {
		return '\n'
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return r
}

// nextRune returns the rune at offset i, or '\n' past the end of text.
func nextRune(text string, i int) rune {
	if i >= len(text) {
		return '\n'
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return r
}

func isBlankRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func atLineStart(text string, i int) bool {
	return i == 0 || text[i-1] == '\n'
}

// lineEnd returns the offset of the newline ending the line containing i, or len(text).
func lineEnd(text string, i int) int {
	if j := strings.IndexByte(text[i:], '\n'); j >= 0 {
		return i + j
	}
	return len(text)
}

func isBlank(s string) bool {
	return strings.TrimLeft(s, " \t\r") == ""
}

// paragraphEnd returns the offset of the first blank line at or after i, or len(text).
// Inline delimiter pairs never span past it.
func paragraphEnd(text string, i int) int {
	for i < len(text) {
		eol := lineEnd(text, i)
		if eol >= len(text) {
			return len(text)
		}
		next := eol + 1
		nextEol := lineEnd(text, next)
		if isBlank(text[next:nextEol]) {
			return eol
		}
		i = next
	}
	return len(text)
}

// runLength counts the repetitions of b starting at i.
func runLength(text string, i int, b byte) int {
	n := 0
	for i+n < len(text) && text[i+n] == b {
		n++
	}
	return n
}

// repeated reports whether s consists of at least min copies of b.
func repeated(s string, b byte, min int) bool {
	if len(s) < min {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != b {
			return false
		}
	}
	return true
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isIdentChar(b byte) bool {
	return isIdentStart(b) || b == '-'
}

// scanIdent returns the end of an attribute style identifier starting at i, or i.
func scanIdent(text string, i int) int {
	if i >= len(text) || !isIdentStart(text[i]) {
		return i
	}
	j := i + 1
	for j < len(text) && isIdentChar(text[j]) {
		j++
	}
	return j
}
