package ast

// Kind tags the variant of an Element.
type Kind uint8

const (
	KindDocument Kind = iota
	KindSection
	KindBlock
	KindList
	KindListItem
	KindCell
	KindBlockMacro
	KindInlineMacro
	KindAttributeDeclaration
	KindAttributeReference
	KindBlockID
	KindReference
	KindURL
	KindComment
	KindBlockAttributes
	KindTitle
)

var kindNames = [...]string{
	KindDocument:             "Document",
	KindSection:              "Section",
	KindBlock:                "Block",
	KindList:                 "List",
	KindListItem:             "ListItem",
	KindCell:                 "Cell",
	KindBlockMacro:           "BlockMacro",
	KindInlineMacro:          "InlineMacro",
	KindAttributeDeclaration: "AttributeDeclaration",
	KindAttributeReference:   "AttributeReference",
	KindBlockID:              "BlockID",
	KindReference:            "Reference",
	KindURL:                  "URL",
	KindComment:              "Comment",
	KindBlockAttributes:      "BlockAttributes",
	KindTitle:                "Title",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// BlockType classifies a KindBlock element.
type BlockType uint8

const (
	BlockUnknown BlockType = iota
	BlockParagraph
	BlockListing
	BlockLiteral
	BlockPassthrough
	BlockTable
	BlockSidebar
	BlockExample
	BlockQuote
	BlockVerse
	BlockOpen
	BlockComment
	BlockAdmonition
	BlockHorizontalRule
	BlockPageBreak
)

var blockTypeNames = [...]string{
	BlockUnknown:        "unknown",
	BlockParagraph:      "paragraph",
	BlockListing:        "listing",
	BlockLiteral:        "literal",
	BlockPassthrough:    "passthrough",
	BlockTable:          "table",
	BlockSidebar:        "sidebar",
	BlockExample:        "example",
	BlockQuote:          "quote",
	BlockVerse:          "verse",
	BlockOpen:           "open",
	BlockComment:        "comment",
	BlockAdmonition:     "admonition",
	BlockHorizontalRule: "horizontal-rule",
	BlockPageBreak:      "page-break",
}

func (b BlockType) String() string {
	if int(b) < len(blockTypeNames) {
		return blockTypeNames[b]
	}
	return "unknown"
}

// IsVerbatim reports whether the content of the block is not parsed as AsciiDoc.
func (b BlockType) IsVerbatim() bool {
	switch b {
	case BlockListing, BlockLiteral, BlockPassthrough, BlockComment:
		return true
	}
	return false
}

// ListType classifies a KindList element.
type ListType uint8

const (
	ListUnordered ListType = iota
	ListOrdered
	ListDescription
	ListCallout
)

func (l ListType) String() string {
	switch l {
	case ListOrdered:
		return "ordered"
	case ListDescription:
		return "description"
	case ListCallout:
		return "callout"
	default:
		return "unordered"
	}
}

// RefKind names what a Reference points at.
type RefKind uint8

const (
	// RefAttribute is a {name} attribute reference
	RefAttribute RefKind = iota
	// RefAnchor is a <<id>> or xref:id[] target matched against block ids and section titles
	RefAnchor
	// RefFile is a path to a file or directory
	RefFile
	// RefBlockID is the anchor part of a reference into another document
	RefBlockID
)

func (r RefKind) String() string {
	switch r {
	case RefAnchor:
		return "anchor"
	case RefFile:
		return "file"
	case RefBlockID:
		return "blockid"
	default:
		return "attribute"
	}
}
