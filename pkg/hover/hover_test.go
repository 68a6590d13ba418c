package hover_test

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/goadoc/pkg/ast"
	"github.com/walteh/goadoc/pkg/config"
	"github.com/walteh/goadoc/pkg/hover"
	"github.com/walteh/goadoc/pkg/project"
	"github.com/walteh/goadoc/pkg/resolve"
)

func setup(t *testing.T) (*resolve.Resolver, *ast.Document) {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/p/a.adoc": strings.Join([]string{
			":alpha: one",
			":!gone:",
			"",
			"Value {alpha} and {gone} and {nope}.",
			"",
			"[[intro]]",
			"== Intro",
			"",
			"See <<intro>> and image:pic.png[] and <<Shared>>.",
			"",
		}, "\n"),
		"/p/b.adoc":  "== Shared\n",
		"/p/c.adoc":  "== Shared\n",
		"/p/pic.png": "png",
	}
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	p, err := project.Open(context.Background(), fs, "/p", config.Default())
	require.NoError(t, err)
	doc, err := p.Document(context.Background(), "/p/a.adoc")
	require.NoError(t, err)
	return resolve.New(p), doc
}

func TestHover(t *testing.T) {
	ctx := context.Background()
	r, doc := setup(t)

	tests := []struct {
		name string
		at   string
		want []string
	}{
		{
			name: "attribute",
			at:   "{alpha}",
			want: []string{"**{alpha}** = `one`", "`one` in a.adoc:1"},
		},
		{
			name: "unset attribute",
			at:   "{gone}",
			want: []string{"**{gone}** is unset", "unset in a.adoc:2"},
		},
		{
			name: "undefined attribute",
			at:   "{nope}",
			want: []string{"**{nope}** is not defined"},
		},
		{
			name: "anchor",
			at:   "<<intro",
			want: []string{"**intro**", "section \"Intro\" in a.adoc:6"},
		},
		{
			name: "image",
			at:   "image:pic.png",
			want: []string{"**pic.png**", "file pic.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset := strings.Index(doc.Text, tt.at)
			require.GreaterOrEqual(t, offset, 0)
			// land inside the target name
			offset += len(tt.at) - 2

			info, err := hover.Hover(ctx, r, doc, offset)
			require.NoError(t, err)
			require.NotNil(t, info)
			assert.Equal(t, tt.want, info.Content)
			assert.Equal(t, strings.Join(tt.want, "\n\n"), info.Markdown())
		})
	}

	t.Run("ambiguous title", func(t *testing.T) {
		offset := strings.Index(doc.Text, "<<Shared>>") + 3
		info, err := hover.Hover(ctx, r, doc, offset)
		require.NoError(t, err)
		require.NotNil(t, info)
		require.Len(t, info.Content, 3)
		assert.Equal(t, "**Shared** matches 2 section titles", info.Content[0])
		assert.Equal(t, "Shared", info.Position.Text)
	})

	t.Run("plain text", func(t *testing.T) {
		info, err := hover.Hover(ctx, r, doc, strings.Index(doc.Text, "Value"))
		require.NoError(t, err)
		assert.Nil(t, info)
	})

	t.Run("nil reference", func(t *testing.T) {
		_, err := hover.FormatHoverResponse(ctx, r, doc, nil, nil)
		require.Error(t, err)
	})
}
