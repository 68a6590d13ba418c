package ast

import (
	"strings"

	"github.com/walteh/goadoc/pkg/position"
)

// Reference represents a symbolic reference carried by an element: an
// attribute name, an anchor, a file path or an anchor inside another file.
type Reference struct {
	Kind RefKind
	// Macro is the macro the reference belongs to, "<<" for cross references
	// and empty for attribute references
	Macro string
	// Target is the reference text as written
	Target string
	// Position spans Target in the source
	Position position.RawPosition

	File      string
	Anchor    string
	HasAnchor bool
	// Antora is set when Target is an Antora resource id
	Antora bool
	// BasePath names the attribute whose value prefixes File on a retry
	BasePath string

	// Element is the element that carries the reference
	Element *Element
}

func (r *Reference) String() string {
	return r.Kind.String() + ":" + r.Target
}

// SubReferences splits a file reference into one reference per path prefix,
// so "a/b/c.png" yields "a", "a/b" and "a/b/c.png". Other kinds yield themselves.
func (r *Reference) SubReferences() []*Reference {
	if r.Kind != RefFile || r.File == "" {
		return []*Reference{r}
	}
	out := []*Reference{}
	for i := 0; i < len(r.File); i++ {
		if r.File[i] != '/' || i == 0 {
			continue
		}
		out = append(out, r.prefix(i))
	}
	return append(out, r.prefix(len(r.File)))
}

func (r *Reference) prefix(n int) *Reference {
	sub := *r
	sub.File = r.File[:n]
	sub.Target = sub.File
	sub.Position = position.NewBasicPosition(sub.File, r.Position.Offset)
	if n < len(r.File) {
		sub.Anchor = ""
		sub.HasAnchor = false
	}
	return &sub
}

// SplitTarget separates the file part and the anchor part of file.adoc#anchor.
func SplitTarget(target string) (file, anchor string, hasAnchor bool) {
	if i := strings.IndexByte(target, '#'); i >= 0 {
		return target[:i], target[i+1:], true
	}
	return target, "", false
}
