package semtok_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/goadoc/pkg/position"
	"github.com/walteh/goadoc/pkg/semtok"
)

func tok(typ semtok.TokenType, mod semtok.TokenModifier, text string, offset int) semtok.Token {
	return semtok.Token{Type: typ, Modifier: mod, Range: position.NewBasicPosition(text, offset)}
}

func TestGetTokensForText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []semtok.Token
	}{
		{
			name:  "attribute declaration",
			input: ":attr: value\n",
			expected: []semtok.Token{
				tok(semtok.TokenOperator, semtok.ModifierNone, ":", 0),
				tok(semtok.TokenVariable, semtok.ModifierDeclaration, "attr", 1),
				tok(semtok.TokenOperator, semtok.ModifierNone, ":", 5),
				tok(semtok.TokenString, semtok.ModifierNone, "value", 7),
			},
		},
		{
			name:  "heading",
			input: "= Title\n",
			expected: []semtok.Token{
				tok(semtok.TokenKeyword, semtok.ModifierNone, "=", 0),
				tok(semtok.TokenHeading, semtok.ModifierNone, "Title", 2),
			},
		},
		{
			name:  "comment block is split per line",
			input: "////\nhidden\n////",
			expected: []semtok.Token{
				tok(semtok.TokenComment, semtok.ModifierNone, "////", 0),
				tok(semtok.TokenComment, semtok.ModifierNone, "hidden", 5),
				tok(semtok.TokenComment, semtok.ModifierNone, "////", 12),
			},
		},
		{
			name:  "cross reference",
			input: "<<REF>>",
			expected: []semtok.Token{
				tok(semtok.TokenOperator, semtok.ModifierNone, "<<", 0),
				tok(semtok.TokenLabel, semtok.ModifierNone, "REF", 2),
				tok(semtok.TokenOperator, semtok.ModifierNone, ">>", 5),
			},
		},
		{
			name:  "inline macro",
			input: "image:cat.png[Cat]",
			expected: []semtok.Token{
				tok(semtok.TokenFunction, semtok.ModifierNone, "image", 0),
				tok(semtok.TokenOperator, semtok.ModifierNone, ":", 5),
				tok(semtok.TokenString, semtok.ModifierNone, "cat.png", 6),
				tok(semtok.TokenOperator, semtok.ModifierNone, "[", 13),
				tok(semtok.TokenString, semtok.ModifierNone, "Cat", 14),
				tok(semtok.TokenOperator, semtok.ModifierNone, "]", 17),
			},
		},
		{
			name:  "attribute reference",
			input: "{attr}",
			expected: []semtok.Token{
				tok(semtok.TokenOperator, semtok.ModifierNone, "{", 0),
				tok(semtok.TokenVariable, semtok.ModifierNone, "attr", 1),
				tok(semtok.TokenOperator, semtok.ModifierNone, "}", 5),
			},
		},
		{
			name:  "listing content has no tokens",
			input: "----\ncode\n----",
			expected: []semtok.Token{
				tok(semtok.TokenOperator, semtok.ModifierNone, "----", 0),
				tok(semtok.TokenOperator, semtok.ModifierNone, "----", 10),
			},
		},
		{
			name:     "plain text",
			input:    "just words",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := semtok.GetTokensForText(context.Background(), []byte(tt.input))
			require.NoError(t, err, "unexpected error getting tokens")
			assert.Equal(t, tt.expected, tokens, "tokens should match expected")
		})
	}
}

func TestGetTokensForRange(t *testing.T) {
	ctx := context.Background()
	content := []byte(":a: x\n\n= Title\n")

	t.Run("second line only", func(t *testing.T) {
		ranged := position.NewBasicPosition("= Title", 7)
		tokens, err := semtok.GetTokensForRange(ctx, content, &ranged)
		require.NoError(t, err)
		assert.Equal(t, []semtok.Token{
			tok(semtok.TokenKeyword, semtok.ModifierNone, "=", 7),
			tok(semtok.TokenHeading, semtok.ModifierNone, "Title", 9),
		}, tokens)
	})

	t.Run("nil range", func(t *testing.T) {
		_, err := semtok.GetTokensForRange(ctx, content, nil)
		require.Error(t, err)
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := semtok.GetTokensForText(cctx, content)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestEncode(t *testing.T) {
	content := []byte("= Tïtle\n{x}")
	tokens, err := semtok.GetTokensForText(context.Background(), content)
	require.NoError(t, err)

	assert.Equal(t, []uint32{
		0, 0, 1, 2, 0,
		0, 2, 5, 9, 0,
		1, 0, 1, 3, 0,
		0, 1, 1, 0, 0,
		0, 1, 1, 3, 0,
	}, semtok.Encode(tokens, content))
}

func TestLegend(t *testing.T) {
	assert.Equal(t, "variable", semtok.TokenVariable.String())
	assert.Equal(t, "heading", semtok.TokenHeading.String())
	assert.Equal(t, "unknown", semtok.TokenType(0).String())
	assert.Equal(t, "declaration", semtok.ModifierDeclaration.String())
	assert.Equal(t, semtok.TokenModifier(4), semtok.ModifierDeprecated)
}
