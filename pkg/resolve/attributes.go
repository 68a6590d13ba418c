package resolve

import (
	"context"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/walteh/goadoc/pkg/ast"
	"github.com/walteh/goadoc/pkg/index"
)

var attributeReference = regexp.MustCompile(`\\?\{([A-Za-z0-9_][A-Za-z0-9_-]*)\}`)

// intrinsic attributes every document has
var builtins = map[string]string{
	"empty":          "",
	"sp":             " ",
	"nbsp":           "\u00a0",
	"zwsp":           "\u200b",
	"wj":             "\u2060",
	"apos":           "'",
	"quot":           `"`,
	"lsquo":          "‘",
	"rsquo":          "’",
	"ldquo":          "“",
	"rdquo":          "”",
	"deg":            "°",
	"plus":           "+",
	"brvbar":         "¦",
	"vbar":           "|",
	"amp":            "&",
	"lt":             "<",
	"gt":             ">",
	"startsb":        "[",
	"endsb":          "]",
	"caret":          "^",
	"asterisk":       "*",
	"tilde":          "~",
	"backslash":      `\`,
	"backtick":       "`",
	"two-colons":     "::",
	"two-semicolons": ";;",
	"cpp":            "C++",
	"cxx":            "C++",
	"pp":             "++",
}

func builtinValue(name string, doc *ast.Document) (string, bool) {
	switch name {
	case "docfile":
		return doc.Path, true
	case "docdir":
		return filepath.Dir(doc.Path), true
	case "docfilesuffix":
		return filepath.Ext(doc.Path), true
	case "docname":
		base := filepath.Base(doc.Path)
		return strings.TrimSuffix(base, filepath.Ext(base)), true
	}
	v, ok := builtins[name]
	return v, ok
}

// BuiltinNames returns the sorted names of the intrinsic attributes.
func BuiltinNames() []string {
	names := []string{"docdir", "docfile", "docfilesuffix", "docname"}
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// localDeclarations returns the declarations of name in doc, the nearest
// one preceding offset first, then the earlier ones walking back, then the
// later ones in document order.
func localDeclarations(doc *ast.Document, name string, offset int) []*ast.Element {
	key := index.Normalize(index.KindAttribute, name)

	var before, after []*ast.Element
	for _, el := range doc.Declarations() {
		if index.Normalize(index.KindAttribute, el.Name) != key {
			continue
		}
		if el.Offset < offset {
			before = append(before, el)
		} else {
			after = append(after, el)
		}
	}
	for i, j := 0, len(before)-1; i < j; i, j = i+1, j-1 {
		before[i], before[j] = before[j], before[i]
	}
	return append(before, after...)
}

func (r *Resolver) configValue(name string) (string, bool) {
	key := index.Normalize(index.KindAttribute, name)
	for k, v := range r.project.Config.Attributes {
		if index.Normalize(index.KindAttribute, k) == key {
			return v, true
		}
	}
	return "", false
}

// projectDeclarations returns the declarations of name in other documents
// of the project.
func (r *Resolver) projectDeclarations(ctx context.Context, name string, doc *ast.Document) ([]*index.Entry, error) {
	entries, err := r.project.Index().Lookup(ctx, index.KindAttribute, name, index.Scope{})
	if err != nil {
		return nil, err
	}
	var out []*index.Entry
	for _, e := range entries {
		if e.Path != doc.Path {
			out = append(out, e)
		}
	}
	return out, nil
}

// binding is where the value of an attribute comes from. Its own references
// are substituted in the context of doc at offset.
type binding struct {
	value  string
	doc    *ast.Document
	offset int
}

// lookup finds the value name has at offset of doc. An unset declaration
// hides everything below it.
func (r *Resolver) lookup(ctx context.Context, name string, doc *ast.Document, offset int) (binding, bool, error) {
	if decls := localDeclarations(doc, name, offset); len(decls) > 0 {
		return r.declared(decls[0], doc, name)
	}

	entries, err := r.projectDeclarations(ctx, name, doc)
	if err != nil {
		return binding{}, false, err
	}
	if len(entries) > 0 {
		edoc, err := r.project.Document(ctx, entries[0].Path)
		if err != nil {
			return binding{}, false, err
		}
		return r.declared(entries[0].Element, edoc, name)
	}

	if v, ok := r.configValue(name); ok {
		return binding{value: v, doc: doc, offset: offset}, true, nil
	}
	if v, ok := builtinValue(name, doc); ok {
		return binding{value: v, doc: doc, offset: offset}, true, nil
	}
	return binding{}, false, nil
}

// declared binds a declaration. Soft set values yield to the config.
func (r *Resolver) declared(el *ast.Element, doc *ast.Document, name string) (binding, bool, error) {
	if el.Unset {
		return binding{}, false, nil
	}
	if el.Soft {
		if v, ok := r.configValue(name); ok {
			return binding{value: v, doc: doc, offset: el.Offset}, true, nil
		}
	}
	return binding{value: el.Value, doc: doc, offset: el.Offset}, true, nil
}

// Substitute replaces the attribute references of text with their values as
// seen from offset in doc. References nested deeper than the configured
// recursion depth, and references to unknown attributes, are left as written.
func (r *Resolver) Substitute(ctx context.Context, text string, doc *ast.Document, offset int) (string, error) {
	return r.expand(ctx, text, doc, offset, 0)
}

func (r *Resolver) expand(ctx context.Context, text string, doc *ast.Document, offset, depth int) (string, error) {
	if depth >= r.project.Config.MaxRecursionDepth || !strings.Contains(text, "{") {
		return text, nil
	}

	var (
		sb   strings.Builder
		last int
	)
	for _, m := range attributeReference.FindAllStringSubmatchIndex(text, -1) {
		sb.WriteString(text[last:m[0]])
		last = m[1]

		if text[m[0]] == '\\' {
			sb.WriteString(text[m[0]:m[1]])
			continue
		}

		b, ok, err := r.lookup(ctx, text[m[2]:m[3]], doc, offset)
		if err != nil {
			return "", err
		}
		if !ok {
			sb.WriteString(text[m[0]:m[1]])
			continue
		}
		v, err := r.expand(ctx, b.value, b.doc, b.offset, depth+1)
		if err != nil {
			return "", err
		}
		sb.WriteString(v)
	}
	sb.WriteString(text[last:])
	return sb.String(), nil
}

// Value returns the substituted value of an attribute as seen from offset
// in doc.
func (r *Resolver) Value(ctx context.Context, name string, doc *ast.Document, offset int) (string, bool, error) {
	b, ok, err := r.lookup(ctx, name, doc, offset)
	if err != nil || !ok {
		return "", false, err
	}
	v, err := r.expand(ctx, b.value, b.doc, b.offset, 1)
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// resolveAttribute lists every place name is defined, in lookup order:
// declarations of doc, of the rest of the project, the config and the
// intrinsic attributes.
func (r *Resolver) resolveAttribute(ctx context.Context, name string, doc *ast.Document, offset int) ([]Target, error) {
	var out []Target

	add := func(el *ast.Element, edoc *ast.Document) error {
		t := Target{Kind: TargetDeclaration, Path: edoc.Path, Element: el, Name: el.Name}
		if !el.Unset {
			v, err := r.expand(ctx, el.Value, edoc, el.Offset, 1)
			if err != nil {
				return err
			}
			t.Value = v
		}
		out = append(out, t)
		return nil
	}

	for _, el := range localDeclarations(doc, name, offset) {
		if err := add(el, doc); err != nil {
			return nil, err
		}
	}

	entries, err := r.projectDeclarations(ctx, name, doc)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		edoc, err := r.project.Document(ctx, e.Path)
		if err != nil {
			return nil, err
		}
		if err := add(e.Element, edoc); err != nil {
			return nil, err
		}
	}

	if v, ok := r.configValue(name); ok {
		v, err := r.expand(ctx, v, doc, offset, 1)
		if err != nil {
			return nil, err
		}
		out = append(out, Target{Kind: TargetConfigAttribute, Path: r.project.Root, Name: name, Value: v})
	}
	if v, ok := builtinValue(name, doc); ok {
		out = append(out, Target{Kind: TargetBuiltinAttribute, Name: name, Value: v})
	}
	return out, nil
}
