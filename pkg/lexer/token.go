package lexer

import (
	"fmt"
	"strings"

	"github.com/walteh/goadoc/pkg/position"
)

// Token is the smallest typed unit of lexed text. The embedded position
// carries the byte offset and the exact source text.
type Token struct {
	Type TokenType
	position.RawPosition
}

func newToken(t TokenType, text string, offset int) Token {
	return Token{Type: t, RawPosition: position.NewBasicPosition(text, offset)}
}

func (t Token) String() string {
	return fmt.Sprintf("%s (%q)", t.Type, t.Text)
}

// Tokens is a lexed token stream in document order.
type Tokens []Token

// Source concatenates the token texts. For any token stream produced by
// Tokenize this equals the lexed input.
func (ts Tokens) Source() string {
	var sb strings.Builder
	for _, t := range ts {
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// Types lists the token types, mostly useful in tests.
func (ts Tokens) Types() []TokenType {
	out := make([]TokenType, len(ts))
	for i, t := range ts {
		out[i] = t.Type
	}
	return out
}

// At returns the index of the token covering offset, or -1.
func (ts Tokens) At(offset int) int {
	lo, hi := 0, len(ts)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		switch {
		case offset < ts[mid].Offset:
			hi = mid - 1
		case offset >= ts[mid].End():
			lo = mid + 1
		default:
			return mid
		}
	}
	return -1
}

// merge collapses adjacent tokens of the same mergeable type.
func merge(in []Token) []Token {
	if len(in) < 2 {
		return in
	}
	out := make([]Token, 0, len(in))
	var sb strings.Builder
	cur := in[0]
	flush := func() {
		if sb.Len() > 0 {
			cur.Text = cur.Text + sb.String()
			sb.Reset()
		}
		out = append(out, cur)
	}
	for _, t := range in[1:] {
		if t.Type == cur.Type && t.Type.mergeable() && t.Offset == cur.End()+sb.Len() {
			sb.WriteString(t.Text)
			continue
		}
		flush()
		cur = t
	}
	flush()
	return out
}
