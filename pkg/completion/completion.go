// Package completion offers attribute names after an open { and block ids
// after << or xref:.
package completion

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/walteh/goadoc/pkg/ast"
	"github.com/walteh/goadoc/pkg/completion/providers"
	"github.com/walteh/goadoc/pkg/resolve"
)

// GetCompletions returns completion items for the given position
func GetCompletions(ctx context.Context, resolver *resolve.Resolver, doc *ast.Document, cc *CompletionContext) ([]providers.CompletionItem, error) {
	var (
		items []providers.CompletionItem
		err   error
	)
	switch cc.Trigger {
	case TriggerAttribute:
		items, err = providers.NewAttributeProvider(resolver).GetCompletions(ctx, doc, cc.Prefix, cc.Offset)
	case TriggerAnchor:
		items, err = providers.NewAnchorProvider(resolver).GetCompletions(ctx, doc, cc.File, cc.Prefix, cc.Offset)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("trigger", cc.Trigger.String()).
		Str("prefix", cc.Prefix).
		Int("items", len(items)).
		Msg("completions")
	return items, nil
}

// GetCompletionsAt builds the context for offset and completes there.
func GetCompletionsAt(ctx context.Context, resolver *resolve.Resolver, doc *ast.Document, offset int) ([]providers.CompletionItem, error) {
	return GetCompletions(ctx, resolver, doc, NewCompletionContextAt(doc.Text, offset))
}
