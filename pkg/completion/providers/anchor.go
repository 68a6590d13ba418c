package providers

import (
	"context"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/goadoc/pkg/antora"
	"github.com/walteh/goadoc/pkg/ast"
	"github.com/walteh/goadoc/pkg/index"
	"github.com/walteh/goadoc/pkg/position"
	"github.com/walteh/goadoc/pkg/resolve"
)

// AnchorProvider handles block id completions for cross references
type AnchorProvider struct {
	resolver *resolve.Resolver
}

// NewAnchorProvider creates a new anchor completion provider
func NewAnchorProvider(resolver *resolve.Resolver) *AnchorProvider {
	return &AnchorProvider{resolver: resolver}
}

// GetCompletions returns the ids starting with prefix. With a file part only
// the ids of the documents it resolves to are offered; otherwise the ids of
// doc come first, then the rest of the project.
func (p *AnchorProvider) GetCompletions(ctx context.Context, doc *ast.Document, file, prefix string, offset int) ([]CompletionItem, error) {
	c := newCollector(prefix)
	add := func(e *index.Entry) {
		if e.Kind != index.KindBlockID {
			return
		}
		detail := e.Element.Kind.String()
		if e.Element.Title != "" {
			detail = e.Element.Title
		}
		c.add(e.Key, CompletionItem{Label: e.Key, Kind: "anchor", Detail: detail, Documentation: e.Path})
	}

	if file != "" {
		docs, err := p.documents(ctx, doc, file, offset)
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			for _, e := range index.DocumentEntries(d) {
				add(e)
			}
		}
		return c.sorted(), nil
	}

	for _, e := range index.DocumentEntries(doc) {
		add(e)
	}
	entries, err := p.resolver.Project().Index().Entries(ctx, index.KindBlockID, index.Scope{})
	if err != nil {
		return nil, errors.Errorf("anchor completions: %w", err)
	}
	for _, e := range entries {
		if e.Path != doc.Path {
			add(e)
		}
	}
	return c.sorted(), nil
}

func (p *AnchorProvider) documents(ctx context.Context, doc *ast.Document, file string, offset int) ([]*ast.Document, error) {
	ref := &ast.Reference{
		Kind:     ast.RefFile,
		Macro:    "xref",
		Target:   file,
		File:     file,
		Antora:   antora.IsResourceID(file),
		Position: position.NewBasicPosition(file, offset),
	}
	targets, err := p.resolver.Resolve(ctx, ref, doc)
	if err != nil {
		return nil, err
	}

	var out []*ast.Document
	for _, t := range targets {
		if t.Kind != resolve.TargetFile {
			continue
		}
		if t.Path == doc.Path {
			out = append(out, doc)
			continue
		}
		d, err := p.resolver.Project().Document(ctx, t.Path)
		if err != nil {
			return nil, errors.Errorf("anchor completions: %w", err)
		}
		out = append(out, d)
	}
	return out, nil
}
