package ast

import (
	"fmt"

	"github.com/walteh/goadoc/pkg/lexer"
	"github.com/walteh/goadoc/pkg/position"
)

// Element represents a node of the document tree. It is a tagged variant:
// Kind decides which of the fields are meaningful. The embedded position
// spans the element's source text; children lie inside it in document order.
type Element struct {
	Kind Kind
	position.RawPosition

	Parent   *Element
	Children []*Element

	// Level is the section level (1 for "= Title") or the list nesting depth
	Level int
	// ID is the explicit block id
	ID string
	// Title is the raw section title or block title
	Title string

	Block BlockType
	List  ListType
	Style string
	Attrs Attributes

	// Content spans the opaque content of verbatim blocks
	Content position.RawPosition

	// Name is the macro name, attribute name or list marker
	Name string
	// Value is the macro body, joined attribute value or URL
	Value string

	Unset  bool
	Soft   bool
	Legacy bool

	Refs []*Reference
}

func NewElement(kind Kind, pos position.RawPosition) *Element {
	return &Element{Kind: kind, RawPosition: pos}
}

// Append adds child as the last child of e.
func (e *Element) Append(child *Element) {
	child.Parent = e
	e.Children = append(e.Children, child)
}

// AddRef attaches a reference to e.
func (e *Element) AddRef(ref *Reference) {
	ref.Element = e
	e.Refs = append(e.Refs, ref)
}

func (e *Element) String() string {
	switch e.Kind {
	case KindSection:
		return fmt.Sprintf("Section(%d %q)@%d", e.Level, e.Title, e.Offset)
	case KindBlock:
		return fmt.Sprintf("Block(%s)@%d", e.Block, e.Offset)
	case KindBlockMacro, KindInlineMacro:
		return fmt.Sprintf("%s(%s:%s)@%d", e.Kind, e.Name, e.Value, e.Offset)
	case KindAttributeDeclaration:
		return fmt.Sprintf("AttributeDeclaration(%s=%q)@%d", e.Name, e.Value, e.Offset)
	}
	return fmt.Sprintf("%s@%d", e.Kind, e.Offset)
}

// ValidateContent reports whether downstream tools should validate the
// content of the block. It is false when %novalidate is set.
func (e *Element) ValidateContent() bool {
	return !e.Attrs.HasOption("novalidate")
}

// Language returns the source language of a listing block, if any.
func (e *Element) Language() string {
	if v, ok := e.Attrs.Get("language"); ok {
		return v
	}
	if e.Style == "source" {
		if v, ok := e.Attrs.Positional(2); ok {
			return v
		}
	}
	return ""
}

// SectionID returns the explicit id of a section, or the id generated from
// its title.
func (e *Element) SectionID() string {
	if e.ID != "" {
		return e.ID
	}
	return AutoSectionID(e.Title)
}

// Section returns the nearest enclosing section, or nil.
func (e *Element) Section() *Element {
	for cur := e.Parent; cur != nil; cur = cur.Parent {
		if cur.Kind == KindSection {
			return cur
		}
	}
	return nil
}

// Walk visits e and its descendants depth first. Returning false from fn
// skips the children of that element.
func Walk(e *Element, fn func(*Element) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, c := range e.Children {
		Walk(c, fn)
	}
}

// Collect returns all descendants of e, e included, of the given kind.
func Collect(e *Element, kind Kind) []*Element {
	var out []*Element
	Walk(e, func(el *Element) bool {
		if el.Kind == kind {
			out = append(out, el)
		}
		return true
	})
	return out
}

// ElementAt returns the deepest element whose span contains offset.
func ElementAt(e *Element, offset int) *Element {
	if e == nil || offset < e.Offset || offset > e.End() {
		return nil
	}
	for _, c := range e.Children {
		if found := ElementAt(c, offset); found != nil {
			return found
		}
	}
	return e
}

// Document represents a parsed file.
type Document struct {
	Path   string
	Text   string
	Tokens lexer.Tokens
	Root   *Element
}

// Declarations returns the attribute declarations in document order.
func (d *Document) Declarations() []*Element {
	return Collect(d.Root, KindAttributeDeclaration)
}

// References returns every reference of the document in document order.
func (d *Document) References() []*Reference {
	var out []*Reference
	Walk(d.Root, func(el *Element) bool {
		out = append(out, el.Refs...)
		return true
	})
	return out
}

// ReferenceAt returns the reference whose target span contains offset.
func (d *Document) ReferenceAt(offset int) *Reference {
	for el := ElementAt(d.Root, offset); el != nil; el = el.Parent {
		for _, ref := range el.Refs {
			if ref.Position.Contains(offset) {
				return ref
			}
		}
	}
	return nil
}
