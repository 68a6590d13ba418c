package ast

import (
	"fmt"
	"io"
	"strings"
)

// Equal reports whether two trees are structurally identical: same kinds,
// spans and key attributes, recursively.
func Equal(a, b *Element) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Offset != b.Offset || a.Text != b.Text ||
		a.Level != b.Level || a.ID != b.ID || a.Title != b.Title ||
		a.Block != b.Block || a.List != b.List || a.Style != b.Style ||
		a.Name != b.Name || a.Value != b.Value ||
		a.Unset != b.Unset || a.Soft != b.Soft || a.Legacy != b.Legacy ||
		a.Content != b.Content || len(a.Refs) != len(b.Refs) || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Refs {
		ra, rb := a.Refs[i], b.Refs[i]
		if ra.Kind != rb.Kind || ra.Target != rb.Target || ra.Position != rb.Position {
			return false
		}
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// Dump writes an indented outline of the tree.
func Dump(w io.Writer, e *Element) error {
	var err error
	var visit func(el *Element, depth int)
	visit = func(el *Element, depth int) {
		if err != nil {
			return
		}
		line := strings.Repeat("  ", depth) + el.String()
		for _, ref := range el.Refs {
			line += " -> " + ref.String()
		}
		if _, err = fmt.Fprintln(w, line); err != nil {
			return
		}
		for _, c := range el.Children {
			visit(c, depth+1)
		}
	}
	visit(e, 0)
	return err
}
