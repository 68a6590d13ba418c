package diff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/goadoc/pkg/diff"
	"github.com/walteh/goadoc/pkg/lexer"
	"github.com/walteh/goadoc/pkg/parser"
)

func TestLines(t *testing.T) {
	assert.Empty(t, diff.Lines("a\nb\n", "a\nb\n"))

	out := diff.Lines("a\nb", "a\nc")
	assert.Contains(t, out, "➕b")
	assert.Contains(t, out, "➖c")
}

func TestTrees(t *testing.T) {
	first, err := parser.Parse(lexer.Lex("== A\n\ntext\n"))
	require.NoError(t, err)
	same, err := parser.Parse(lexer.Lex("== A\n\ntext\n"))
	require.NoError(t, err)
	other, err := parser.Parse(lexer.Lex("== B\n\ntext\n"))
	require.NoError(t, err)

	assert.Empty(t, diff.Trees(first, same))
	assert.NotEmpty(t, diff.Trees(first, other))
	assert.NotEmpty(t, diff.Trees(first, nil))
}

func TestTokens(t *testing.T) {
	assert.Empty(t, diff.Tokens(lexer.Lex("*a*"), lexer.Lex("*a*")))

	out := diff.Tokens(lexer.Lex("*a*"), lexer.Lex("_a_"))
	assert.Contains(t, out, "BOLD_START")
	assert.Contains(t, out, "ITALIC_START")
}
