/*
Package lexer turns AsciiDoc text into a flat, lossless token stream.

The lexer is a pure state machine:

	 text, State{offset, verbatim, blocks, format, ...}
	                |
	              Step
	                |
	                v
	  []Token (one construct), State{offset', ...}

Step never mutates its input State. Tokenize drives Step from a starting
state until the end of the text and merges adjacent tokens of the same
content type. Malformed input never fails: whatever cannot be recognized is
emitted as TEXT.
*/
package lexer

import (
	"unicode/utf8"
)

// Lex tokenizes a complete document.
func Lex(text string) Tokens {
	return Tokenize(text, Initial())
}

// Tokenize lexes text from start.Offset to the end. The start state must sit
// at a line start; Initial() is the state for a full document.
func Tokenize(text string, start State) Tokens {
	out := make([]Token, 0, len(text)/4+1)
	st := start
	for st.Offset < len(text) {
		toks, next := Step(text, st)
		if next.Offset <= st.Offset {
			// every branch consumes input; this keeps a defect from looping forever
			_, size := utf8.DecodeRuneInString(text[st.Offset:])
			toks = []Token{newToken(Text, text[st.Offset:st.Offset+size], st.Offset)}
			next = st.at(st.Offset + size)
		}
		out = append(out, toks...)
		st = next
	}
	return merge(out)
}

// Step lexes the next construct at st.Offset and returns its tokens together
// with the successor state. At the end of text it returns no tokens and st.
func Step(text string, st State) ([]Token, State) {
	if st.Offset >= len(text) {
		return nil, st
	}
	if st.AtLineStart(text) {
		return lexLineStart(text, st)
	}
	return lexInline(text, st)
}

// emitter accumulates tokens for one step
type emitter struct {
	text string
	pos  int
	toks []Token
}

func newEmitter(text string, pos int) *emitter {
	return &emitter{text: text, pos: pos}
}

func (e *emitter) emit(t TokenType, end int) {
	if end > len(e.text) {
		end = len(e.text)
	}
	if end <= e.pos {
		return
	}
	e.toks = append(e.toks, newToken(t, e.text[e.pos:end], e.pos))
	e.pos = end
}

// whitespace emits the run of blanks at the current position.
func (e *emitter) whitespace(limit int) {
	j := e.pos
	for j < limit && (isSpace(e.text[j]) || e.text[j] == '\r') {
		j++
	}
	e.emit(WhiteSpace, j)
}

// finishLine emits whatever is left up to eol as whitespace and the line break.
func (e *emitter) finishLine(eol int) {
	e.whitespace(eol)
	e.emit(Text, eol)
	if eol < len(e.text) {
		e.emit(LineBreak, eol+1)
	}
}
