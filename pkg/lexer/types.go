package lexer

// TokenType identifies the syntactic role of a lexed span.
type TokenType uint16

const (
	Invalid TokenType = iota

	// content
	Text
	WhiteSpace
	LineBreak
	EmptyLine
	HardBreak

	// headings, three styles
	HeadingMarker
	HeadingText
	HeadingOldStyleUnderline

	// inline formatting
	BoldStart
	BoldEnd
	Bold
	ItalicStart
	ItalicEnd
	Italic
	MonoStart
	MonoEnd
	Mono
	BoldItalic
	MonoBold
	MonoItalic
	MonoBoldItalic
	TypographicDoubleQuoteStart
	TypographicDoubleQuoteEnd
	TypographicSingleQuoteStart
	TypographicSingleQuoteEnd

	// passthrough
	PassthroughInlineStart
	PassthroughInlineEnd
	PassthroughContent
	PassthroughBlockDelimiter

	// verbatim blocks
	ListingBlockDelimiter
	ListingText
	LiteralBlockDelimiter
	LiteralText
	CommentBlockDelimiter
	BlockComment
	LineComment

	// other delimited blocks and tables
	BlockDelimiter
	CellSeparator

	// attribute declarations, :name: value
	AttributeNameStart
	AttributeName
	AttributeUnset
	AttributeSoft
	AttributeNameEnd
	AttributeValue
	AttributeContinuation
	AttributeContinuationLegacy

	// attribute references, {name}
	AttributeRefStart
	AttributeRef
	AttributeRefEnd

	// attribute lists, [style,name=value]
	AttributesStart
	AttributesEnd
	AttrName
	AttrAssign
	AttrValue
	AttrSeparator

	// anchors, [[id]]
	BlockIDStart
	BlockID
	BlockIDEnd

	BlockTitleStart

	// macros
	BlockMacroID
	BlockMacroBody
	InlineMacroID
	InlineMacroBody
	MacroSeparator

	// cross references, <<id,text>>
	RefStart
	Ref
	RefEnd

	// autolinks
	URLStart
	URLLink
	URLEmail
	URLEnd

	// lists
	Bullet
	Enumeration
	DescriptionMarker
	ListContinuation
	Callout

	Admonition
	PageBreak
	HorizontalRule
)

var tokenTypeNames = map[TokenType]string{
	Invalid:                     "INVALID",
	Text:                        "TEXT",
	WhiteSpace:                  "WHITE_SPACE",
	LineBreak:                   "LINE_BREAK",
	EmptyLine:                   "EMPTY_LINE",
	HardBreak:                   "HARD_BREAK",
	HeadingMarker:               "HEADING_MARKER",
	HeadingText:                 "HEADING_TEXT",
	HeadingOldStyleUnderline:    "HEADING_OLDSTYLE_UNDERLINE",
	BoldStart:                   "BOLD_START",
	BoldEnd:                     "BOLD_END",
	Bold:                        "BOLD",
	ItalicStart:                 "ITALIC_START",
	ItalicEnd:                   "ITALIC_END",
	Italic:                      "ITALIC",
	MonoStart:                   "MONO_START",
	MonoEnd:                     "MONO_END",
	Mono:                        "MONO",
	BoldItalic:                  "BOLDITALIC",
	MonoBold:                    "MONOBOLD",
	MonoItalic:                  "MONOITALIC",
	MonoBoldItalic:              "MONOBOLDITALIC",
	TypographicDoubleQuoteStart: "TYPOGRAPHIC_DOUBLE_QUOTE_START",
	TypographicDoubleQuoteEnd:   "TYPOGRAPHIC_DOUBLE_QUOTE_END",
	TypographicSingleQuoteStart: "TYPOGRAPHIC_SINGLE_QUOTE_START",
	TypographicSingleQuoteEnd:   "TYPOGRAPHIC_SINGLE_QUOTE_END",
	PassthroughInlineStart:      "PASSTHROUGH_INLINE_START",
	PassthroughInlineEnd:        "PASSTHROUGH_INLINE_END",
	PassthroughContent:          "PASSTHROUGH_CONTENT",
	PassthroughBlockDelimiter:   "PASSTHROUGH_BLOCK_DELIMITER",
	ListingBlockDelimiter:       "LISTING_BLOCK_DELIMITER",
	ListingText:                 "LISTING_TEXT",
	LiteralBlockDelimiter:       "LITERAL_BLOCK_DELIMITER",
	LiteralText:                 "LITERAL_BLOCK",
	CommentBlockDelimiter:       "BLOCK_COMMENT_DELIMITER",
	BlockComment:                "BLOCK_COMMENT",
	LineComment:                 "LINE_COMMENT",
	BlockDelimiter:              "BLOCK_DELIMITER",
	CellSeparator:               "CELLSEPARATOR",
	AttributeNameStart:          "ATTRIBUTE_NAME_START",
	AttributeName:               "ATTRIBUTE_NAME",
	AttributeUnset:              "ATTRIBUTE_UNSET",
	AttributeSoft:               "ATTRIBUTE_SOFTSET",
	AttributeNameEnd:            "ATTRIBUTE_NAME_END",
	AttributeValue:              "ATTRIBUTE_VAL",
	AttributeContinuation:       "ATTRIBUTE_CONTINUATION",
	AttributeContinuationLegacy: "ATTRIBUTE_CONTINUATION_LEGACY",
	AttributeRefStart:           "ATTRIBUTE_REF_START",
	AttributeRef:                "ATTRIBUTE_REF",
	AttributeRefEnd:             "ATTRIBUTE_REF_END",
	AttributesStart:             "ATTRS_START",
	AttributesEnd:               "ATTRS_END",
	AttrName:                    "ATTR_NAME",
	AttrAssign:                  "ASSIGNMENT",
	AttrValue:                   "ATTR_VALUE",
	AttrSeparator:               "SEPARATOR",
	BlockIDStart:                "BLOCKIDSTART",
	BlockID:                     "BLOCKID",
	BlockIDEnd:                  "BLOCKIDEND",
	BlockTitleStart:             "TITLE_START",
	BlockMacroID:                "BLOCK_MACRO_ID",
	BlockMacroBody:              "BLOCK_MACRO_BODY",
	InlineMacroID:               "INLINE_MACRO_ID",
	InlineMacroBody:             "INLINE_MACRO_BODY",
	MacroSeparator:              "MACRO_SEPARATOR",
	RefStart:                    "REFSTART",
	Ref:                         "REF",
	RefEnd:                      "REFEND",
	URLStart:                    "URL_START",
	URLLink:                     "URL_LINK",
	URLEmail:                    "URL_EMAIL",
	URLEnd:                      "URL_END",
	Bullet:                      "BULLET",
	Enumeration:                 "ENUMERATION",
	DescriptionMarker:           "DESCRIPTION_END",
	ListContinuation:            "CONTINUATION",
	Callout:                     "CALLOUT",
	Admonition:                  "ADMONITION",
	PageBreak:                   "PAGEBREAK",
	HorizontalRule:              "HORIZONTALRULE",
}

// String returns the upper snake case name of the token type
func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsBlockDelimiter reports whether the token opens or closes a delimited block.
func (t TokenType) IsBlockDelimiter() bool {
	switch t {
	case BlockDelimiter, ListingBlockDelimiter, LiteralBlockDelimiter, PassthroughBlockDelimiter, CommentBlockDelimiter:
		return true
	}
	return false
}

// IsFormattedText reports whether the token carries text inside a formatting run.
func (t TokenType) IsFormattedText() bool {
	switch t {
	case Bold, Italic, Mono, BoldItalic, MonoBold, MonoItalic, MonoBoldItalic:
		return true
	}
	return false
}

// IsContent reports whether the token is visible document text that a reader
// would see, as opposed to markup.
func (t TokenType) IsContent() bool {
	switch t {
	case Text, HeadingText, ListingText, LiteralText, PassthroughContent:
		return true
	}
	return t.IsFormattedText()
}

// mergeable token types collapse when adjacent
func (t TokenType) mergeable() bool {
	switch t {
	case Text, WhiteSpace, HeadingText, AttributeValue, AttrValue,
		ListingText, LiteralText, PassthroughContent, BlockComment:
		return true
	}
	return t.IsFormattedText()
}
