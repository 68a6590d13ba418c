package completion_test

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/goadoc/pkg/ast"
	"github.com/walteh/goadoc/pkg/completion"
	"github.com/walteh/goadoc/pkg/completion/providers"
	"github.com/walteh/goadoc/pkg/config"
	"github.com/walteh/goadoc/pkg/project"
	"github.com/walteh/goadoc/pkg/resolve"
)

func setup(t *testing.T) (*resolve.Resolver, *ast.Document) {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/p/a.adoc": strings.Join([]string{
			":alpha: one",
			":alpine: {alpha}-two",
			"",
			"[[intro]]",
			"== Intro",
			"",
			"== Second Part",
			"",
			"Text {al",
		}, "\n"),
		"/p/b.adoc": ":beta: b\n:alpha: other\n\n[[top]]\n== Top Title\n",
	}
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	cfg := config.Default()
	cfg.Attributes = map[string]string{"alps": "mountains"}
	p, err := project.Open(context.Background(), fs, "/p", cfg)
	require.NoError(t, err)

	r := resolve.New(p)
	doc, err := p.Document(context.Background(), "/p/a.adoc")
	require.NoError(t, err)
	return r, doc
}

func TestAttributeCompletions(t *testing.T) {
	ctx := context.Background()
	r, doc := setup(t)

	t.Run("at the cursor", func(t *testing.T) {
		items, err := completion.GetCompletionsAt(ctx, r, doc, len(doc.Text))
		require.NoError(t, err)
		assert.Equal(t, []providers.CompletionItem{
			{Label: "alpha", Kind: "attribute", Detail: "one", Documentation: "declared in a.adoc"},
			{Label: "alpine", Kind: "attribute", Detail: "one-two", Documentation: "declared in a.adoc"},
			{Label: "alps", Kind: "attribute", Detail: "mountains", Documentation: "project configuration"},
		}, items)
	})

	t.Run("other documents", func(t *testing.T) {
		items, err := completion.GetCompletions(ctx, r, doc, &completion.CompletionContext{Trigger: completion.TriggerAttribute, Prefix: "BE", Offset: len(doc.Text)})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "beta", items[0].Label)
		assert.Equal(t, "b", items[0].Detail)
		assert.Equal(t, "declared in b.adoc", items[0].Documentation)
	})

	t.Run("builtins", func(t *testing.T) {
		items, err := completion.GetCompletions(ctx, r, doc, &completion.CompletionContext{Trigger: completion.TriggerAttribute, Prefix: "doc", Offset: len(doc.Text)})
		require.NoError(t, err)
		var labels, details []string
		for _, it := range items {
			labels = append(labels, it.Label)
			details = append(details, it.Detail)
		}
		assert.Equal(t, []string{"docdir", "docfile", "docfilesuffix", "docname"}, labels)
		assert.Equal(t, []string{"/p", "/p/a.adoc", ".adoc", "a"}, details)
	})
}

func TestAnchorCompletions(t *testing.T) {
	ctx := context.Background()
	r, doc := setup(t)

	tests := []struct {
		name   string
		file   string
		prefix string
		want   []providers.CompletionItem
	}{
		{
			name: "whole project",
			want: []providers.CompletionItem{
				{Label: "_second_part", Kind: "anchor", Detail: "Second Part", Documentation: "/p/a.adoc"},
				{Label: "intro", Kind: "anchor", Detail: "Intro", Documentation: "/p/a.adoc"},
				{Label: "top", Kind: "anchor", Detail: "Top Title", Documentation: "/p/b.adoc"},
			},
		},
		{
			name:   "prefix",
			prefix: "i",
			want: []providers.CompletionItem{
				{Label: "intro", Kind: "anchor", Detail: "Intro", Documentation: "/p/a.adoc"},
			},
		},
		{
			name: "file part",
			file: "b.adoc",
			want: []providers.CompletionItem{
				{Label: "top", Kind: "anchor", Detail: "Top Title", Documentation: "/p/b.adoc"},
			},
		},
		{
			name: "missing file part",
			file: "none.adoc",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := &completion.CompletionContext{Trigger: completion.TriggerAnchor, File: tt.file, Prefix: tt.prefix}
			items, err := completion.GetCompletions(ctx, r, doc, cc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, items)
		})
	}

	t.Run("no trigger", func(t *testing.T) {
		items, err := completion.GetCompletionsAt(ctx, r, doc, 0)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
