package semtok

import (
	"context"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/goadoc/pkg/lexer"
	"github.com/walteh/goadoc/pkg/position"
)

type mapping struct {
	typ TokenType
	mod TokenModifier
}

var mappings = map[lexer.TokenType]mapping{
	lexer.AttributeName:               {TokenVariable, ModifierDeclaration},
	lexer.AttributeRef:                {TokenVariable, ModifierNone},
	lexer.AttributeValue:              {TokenString, ModifierNone},
	lexer.AttrValue:                   {TokenString, ModifierNone},
	lexer.AttrName:                    {TokenProperty, ModifierNone},
	lexer.HeadingMarker:               {TokenKeyword, ModifierNone},
	lexer.HeadingOldStyleUnderline:    {TokenKeyword, ModifierNone},
	lexer.Admonition:                  {TokenKeyword, ModifierNone},
	lexer.HeadingText:                 {TokenHeading, ModifierNone},
	lexer.BlockID:                     {TokenLabel, ModifierDeclaration},
	lexer.Ref:                         {TokenLabel, ModifierNone},
	lexer.BlockMacroID:                {TokenFunction, ModifierNone},
	lexer.InlineMacroID:               {TokenFunction, ModifierNone},
	lexer.BlockMacroBody:              {TokenString, ModifierNone},
	lexer.InlineMacroBody:             {TokenString, ModifierNone},
	lexer.URLLink:                     {TokenString, ModifierNone},
	lexer.URLEmail:                    {TokenString, ModifierNone},
	lexer.PassthroughContent:          {TokenString, ModifierReadonly},
	lexer.LineComment:                 {TokenComment, ModifierNone},
	lexer.BlockComment:                {TokenComment, ModifierNone},
	lexer.CommentBlockDelimiter:       {TokenComment, ModifierNone},
	lexer.Callout:                     {TokenNumber, ModifierNone},
	lexer.AttributeContinuationLegacy: {TokenOperator, ModifierDeprecated},
}

var operators = []lexer.TokenType{
	lexer.AttributeNameStart, lexer.AttributeNameEnd, lexer.AttributeUnset, lexer.AttributeSoft,
	lexer.AttributeContinuation, lexer.AttributeRefStart, lexer.AttributeRefEnd,
	lexer.AttributesStart, lexer.AttributesEnd, lexer.AttrAssign, lexer.AttrSeparator,
	lexer.BlockIDStart, lexer.BlockIDEnd, lexer.BlockTitleStart, lexer.MacroSeparator,
	lexer.RefStart, lexer.RefEnd, lexer.URLStart, lexer.URLEnd,
	lexer.Bullet, lexer.Enumeration, lexer.DescriptionMarker, lexer.ListContinuation,
	lexer.BlockDelimiter, lexer.ListingBlockDelimiter, lexer.LiteralBlockDelimiter,
	lexer.PassthroughBlockDelimiter, lexer.CellSeparator,
	lexer.PassthroughInlineStart, lexer.PassthroughInlineEnd,
	lexer.HardBreak, lexer.PageBreak, lexer.HorizontalRule,
}

func init() {
	for _, t := range operators {
		mappings[t] = mapping{TokenOperator, ModifierNone}
	}
}

// GetTokensForText returns semantic tokens for the given document text.
//
//	Example:
//	   tokens, err := GetTokensForText(ctx, []byte(":name: value\n"))
//	   if err != nil {
//	       return err
//	   }
//	   // Use tokens...
func GetTokensForText(ctx context.Context, content []byte) ([]Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("semantic tokens: %w", err)
	}

	var out []Token
	for _, tok := range lexer.Lex(string(content)) {
		m, ok := mappings[tok.Type]
		if !ok {
			continue
		}
		out = appendLines(out, m, tok.RawPosition)
	}

	zerolog.Ctx(ctx).Trace().Int("tokens", len(out)).Msg("semantic tokens")
	return out, nil
}

// GetTokensForRange returns the semantic tokens overlapping ranged.
//
//	Example:
//	   tokens, err := GetTokensForRange(ctx, content, &position.RawPosition{...})
//	   if err != nil {
//	       return err
//	   }
//	   // Use tokens...
func GetTokensForRange(ctx context.Context, content []byte, ranged *position.RawPosition) ([]Token, error) {
	if ranged == nil {
		return nil, errors.Errorf("range is nil")
	}
	all, err := GetTokensForText(ctx, content)
	if err != nil {
		return nil, err
	}
	var out []Token
	for _, tok := range all {
		if tok.Range.HasRangeOverlapWith(*ranged) {
			out = append(out, tok)
		}
	}
	return out, nil
}

// appendLines splits pos at line breaks, dropping the breaks themselves.
func appendLines(out []Token, m mapping, pos position.RawPosition) []Token {
	offset := pos.Offset
	for _, line := range strings.SplitAfter(pos.Text, "\n") {
		text := strings.TrimRight(line, "\r\n")
		if text != "" {
			out = append(out, Token{Type: m.typ, Modifier: m.mod, Range: position.NewBasicPosition(text, offset)})
		}
		offset += len(line)
	}
	return out
}

// Encode packs tokens into the relative five integer form editors expect:
// line delta, start delta, length, type index, modifier bits. Columns and
// lengths count UTF-16 code units.
func Encode(tokens []Token, content []byte) []uint32 {
	text := string(content)
	data := make([]uint32, 0, len(tokens)*5)
	prevLine, prevChar := 0, 0
	for _, tok := range tokens {
		line, col := tok.Range.GetLineAndColumn(text)
		lineStart := tok.Range.Offset - col
		char := utf16Len(text[lineStart:tok.Range.Offset])

		deltaStart := char
		if line == prevLine {
			deltaStart = char - prevChar
		}
		data = append(data,
			uint32(line-prevLine),
			uint32(deltaStart),
			uint32(utf16Len(tok.Range.Text)),
			uint32(tok.Type-1),
			uint32(tok.Modifier),
		)
		prevLine, prevChar = line, char
	}
	return data
}

func utf16Len(s string) int {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		n += utf16.RuneLen(r)
	}
	return n
}
