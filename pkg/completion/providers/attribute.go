package providers

import (
	"context"
	"path/filepath"
	"sort"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/goadoc/pkg/ast"
	"github.com/walteh/goadoc/pkg/index"
	"github.com/walteh/goadoc/pkg/resolve"
)

// AttributeProvider handles attribute name completions
type AttributeProvider struct {
	resolver *resolve.Resolver
}

// NewAttributeProvider creates a new attribute completion provider
func NewAttributeProvider(resolver *resolve.Resolver) *AttributeProvider {
	return &AttributeProvider{resolver: resolver}
}

// GetCompletions returns the attributes visible from offset in doc whose
// name starts with prefix. A name declared in several places is offered once,
// from the place that wins the lookup.
func (p *AttributeProvider) GetCompletions(ctx context.Context, doc *ast.Document, prefix string, offset int) ([]CompletionItem, error) {
	c := newCollector(prefix)
	key := func(name string) string { return index.Normalize(index.KindAttribute, name) }

	add := func(name, source string) error {
		if !c.add(key(name), CompletionItem{Label: name, Kind: "attribute", Documentation: source}) {
			return nil
		}
		v, ok, err := p.resolver.Value(ctx, name, doc, offset)
		if err != nil {
			return err
		}
		if ok {
			c.items[len(c.items)-1].Detail = v
		}
		return nil
	}

	for _, el := range doc.Declarations() {
		if err := add(el.Name, "declared in "+filepath.Base(doc.Path)); err != nil {
			return nil, err
		}
	}

	entries, err := p.resolver.Project().Index().Entries(ctx, index.KindAttribute, index.Scope{})
	if err != nil {
		return nil, errors.Errorf("attribute completions: %w", err)
	}
	for _, e := range entries {
		if e.Path == doc.Path {
			continue
		}
		if err := add(e.Name, "declared in "+filepath.Base(e.Path)); err != nil {
			return nil, err
		}
	}

	names := make([]string, 0, len(p.resolver.Project().Config.Attributes))
	for name := range p.resolver.Project().Config.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := add(name, "project configuration"); err != nil {
			return nil, err
		}
	}

	for _, name := range resolve.BuiltinNames() {
		if err := add(name, "built-in attribute"); err != nil {
			return nil, err
		}
	}

	return c.sorted(), nil
}
