package resolve

import (
	"context"
	"strings"

	"github.com/walteh/goadoc/pkg/ast"
	"github.com/walteh/goadoc/pkg/index"
)

// resolveAnchor matches an anchor against block ids, case sensitive, and
// then against section titles. An anchor with a file part only looks inside
// the documents the file part resolves to.
func (r *Resolver) resolveAnchor(ctx context.Context, ref *ast.Reference, doc *ast.Document) ([]Target, error) {
	name, err := r.Substitute(ctx, ref.Anchor, doc, ref.Position.Offset)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}

	if ref.Kind == ast.RefBlockID && ref.File != "" {
		docs, err := r.targetDocuments(ctx, ref, doc)
		if err != nil {
			return nil, err
		}
		find := func(kind index.Kind, key string) ([]*index.Entry, error) {
			var out []*index.Entry
			for _, d := range docs {
				out = append(out, documentMatches(d, kind, key)...)
			}
			return out, nil
		}
		sections := func() ([]*index.Entry, error) {
			var out []*index.Entry
			for _, d := range docs {
				out = append(out, documentSections(d)...)
			}
			return out, nil
		}
		return r.matchAnchor(ctx, doc, name, find, sections)
	}

	find := func(kind index.Kind, key string) ([]*index.Entry, error) {
		out := documentMatches(doc, kind, key)
		found, err := r.project.Index().Lookup(ctx, kind, key, index.Scope{})
		if err != nil {
			return nil, err
		}
		return append(out, otherDocuments(found, doc)...), nil
	}
	sections := func() ([]*index.Entry, error) {
		all, err := r.project.Index().Entries(ctx, index.KindSectionTitle, index.Scope{})
		if err != nil {
			return nil, err
		}
		return append(documentSections(doc), otherDocuments(all, doc)...), nil
	}
	return r.matchAnchor(ctx, doc, name, find, sections)
}

// matchAnchor tries, in order: block ids, auto ids of titles after attribute
// substitution, section titles as written and section titles after
// substitution. The first step with a match wins.
func (r *Resolver) matchAnchor(
	ctx context.Context,
	doc *ast.Document,
	name string,
	find func(kind index.Kind, key string) ([]*index.Entry, error),
	sections func() ([]*index.Entry, error),
) ([]Target, error) {
	entries, err := find(index.KindBlockID, name)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		entries, err = r.substitutedSections(ctx, doc, sections, func(el *ast.Element, title string) bool {
			return el.ID == "" && ast.AutoSectionID(title) == name
		})
		if err != nil {
			return nil, err
		}
	}

	byTitle := false
	if len(entries) == 0 {
		key := index.Normalize(index.KindSectionTitle, name)
		entries, err = find(index.KindSectionTitle, key)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			entries, err = r.substitutedSections(ctx, doc, sections, func(_ *ast.Element, title string) bool {
				return index.Normalize(index.KindSectionTitle, title) == key
			})
			if err != nil {
				return nil, err
			}
		}
		byTitle = true
	}

	var out []Target
	for _, e := range entries {
		out = append(out, Target{
			Kind:    TargetElement,
			Path:    e.Path,
			Element: e.Element,
			Name:    e.Name,
			ByTitle: byTitle,
		})
	}
	return out, nil
}

// substitutedSections returns the section entries whose title holds
// attribute references and, once substituted in the scope of its own
// document, satisfies match.
func (r *Resolver) substitutedSections(
	ctx context.Context,
	doc *ast.Document,
	sections func() ([]*index.Entry, error),
	match func(el *ast.Element, title string) bool,
) ([]*index.Entry, error) {
	list, err := sections()
	if err != nil {
		return nil, err
	}

	var out []*index.Entry
	for _, e := range list {
		if !strings.Contains(e.Element.Title, "{") {
			continue
		}
		owner := doc
		if e.Path != doc.Path {
			owner, err = r.project.Document(ctx, e.Path)
			if err != nil {
				return nil, err
			}
		}
		var title string
		title, err = r.Substitute(ctx, e.Element.Title, owner, e.Element.Offset)
		if err != nil {
			return nil, err
		}
		if title != e.Element.Title && match(e.Element, title) {
			out = append(out, e)
		}
	}
	return out, nil
}

func otherDocuments(entries []*index.Entry, doc *ast.Document) []*index.Entry {
	var out []*index.Entry
	for _, e := range entries {
		if e.Path != doc.Path {
			out = append(out, e)
		}
	}
	return out
}

func documentSections(doc *ast.Document) []*index.Entry {
	var out []*index.Entry
	for _, e := range index.DocumentEntries(doc) {
		if e.Kind == index.KindSectionTitle {
			out = append(out, e)
		}
	}
	return out
}

func documentMatches(doc *ast.Document, kind index.Kind, key string) []*index.Entry {
	var out []*index.Entry
	for _, e := range index.DocumentEntries(doc) {
		if e.Kind == kind && e.Key == key {
			out = append(out, e)
		}
	}
	return out
}

// targetDocuments parses the documents the file part of ref resolves to.
// The referencing document stands for itself so unsaved changes count.
func (r *Resolver) targetDocuments(ctx context.Context, ref *ast.Reference, doc *ast.Document) ([]*ast.Document, error) {
	fileRef := *ref
	fileRef.Kind = ast.RefFile
	fileRef.Target = ref.File

	files, err := r.resolveFile(ctx, &fileRef, doc)
	if err != nil {
		return nil, err
	}

	var out []*ast.Document
	for _, f := range files {
		if f.Kind != TargetFile {
			continue
		}
		if f.Path == doc.Path {
			out = append(out, doc)
			continue
		}
		d, err := r.project.Document(ctx, f.Path)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
