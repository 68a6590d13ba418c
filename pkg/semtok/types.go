/*
Token Types and Modifiers:
------------------------
This file defines the core types used for semantic token generation.

	+-------------+     +-----------+
	| TokenType   | --> | Position  |
	+-------------+     +-----------+
	      |                  |
	      v                  v
	[Variable,        [Offset, Text]
	 Function,         one line at
	 Keyword,          most
	 etc.]
*/
package semtok

import (
	"github.com/walteh/goadoc/pkg/position"
)

// TokenType represents the semantic meaning of a token
type TokenType uint32

const (
	// TokenVariable represents an attribute name, {name} or :name:
	TokenVariable TokenType = iota + 1

	// TokenFunction represents a macro name (e.g., xref, image)
	TokenFunction

	// TokenKeyword represents heading markers and admonition labels
	TokenKeyword

	// TokenOperator represents markup punctuation
	TokenOperator

	// TokenString represents attribute values, macro targets and links
	TokenString

	// TokenComment represents a line or block comment
	TokenComment

	// TokenNumber represents a callout number
	TokenNumber

	// TokenProperty represents a named entry in an attribute list
	TokenProperty

	// TokenLabel represents a block id or a cross reference target
	TokenLabel

	// TokenHeading represents section title text
	TokenHeading
)

// Legend lists the token type names in encoding order; index i names
// TokenType(i+1).
var Legend = []string{
	"variable",
	"function",
	"keyword",
	"operator",
	"string",
	"comment",
	"number",
	"property",
	"label",
	"heading",
}

// TokenModifier represents additional characteristics of a token
type TokenModifier uint32

const (
	// ModifierNone indicates no special characteristics
	ModifierNone TokenModifier = 0

	// ModifierDeclaration marks where a name is defined
	ModifierDeclaration TokenModifier = 1 << (iota - 1)

	// ModifierReadonly marks verbatim content
	ModifierReadonly

	// ModifierDeprecated marks legacy syntax, like the old attribute continuation
	ModifierDeprecated
)

// ModifierLegend lists the modifier names by bit position.
var ModifierLegend = []string{
	"declaration",
	"readonly",
	"deprecated",
}

// Token represents a semantic token with its type, modifiers, and position
type Token struct {
	// Type indicates the semantic meaning of the token
	Type TokenType

	// Modifier indicates any special characteristics
	Modifier TokenModifier

	// Range indicates the token's position in the source
	Range position.RawPosition
}

// String returns a human-readable representation of the token type
func (t TokenType) String() string {
	if t >= 1 && int(t) <= len(Legend) {
		return Legend[t-1]
	}
	return "unknown"
}

// String returns a human-readable representation of the token modifier
func (m TokenModifier) String() string {
	switch m {
	case ModifierNone:
		return "none"
	case ModifierDeclaration:
		return "declaration"
	case ModifierReadonly:
		return "readonly"
	case ModifierDeprecated:
		return "deprecated"
	default:
		return "unknown"
	}
}
