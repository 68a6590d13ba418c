package finder

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/goadoc/pkg/config"
)

func TestDefaultFinder_FindSources(t *testing.T) {
	fs := afero.NewMemMapFs()

	files := map[string]string{
		"/docs/index.adoc":              "= Index",
		"/docs/guide.asciidoc":          "= Guide",
		"/docs/notes.md":                "# not asciidoc",
		"/docs/sub/nested.adoc":         "== Nested",
		"/docs/build/out.adoc":          "== Generated",
		"/docs/.cache/hidden.adoc":      "== Hidden",
		"/docs/sub/wip.draft.adoc":      "== Draft",
		"/docs/modules/ROOT/nav.adoc":   "* xref:index.adoc[]",
		"/docs/modules/ROOT/antora.yml": "name: x",
	}
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}

	tests := []struct {
		name    string
		root    string
		exclude []string
		want    []string
		wantErr bool
	}{
		{
			name: "all sources",
			root: "/docs",
			want: []string{
				"/docs/build/out.adoc",
				"/docs/guide.asciidoc",
				"/docs/index.adoc",
				"/docs/modules/ROOT/nav.adoc",
				"/docs/sub/nested.adoc",
				"/docs/sub/wip.draft.adoc",
			},
		},
		{
			name:    "excluded directory and glob",
			root:    "/docs",
			exclude: []string{"build", "**/*.draft.adoc"},
			want: []string{
				"/docs/guide.asciidoc",
				"/docs/index.adoc",
				"/docs/modules/ROOT/nav.adoc",
				"/docs/sub/nested.adoc",
			},
		},
		{
			name: "subtree",
			root: "/docs/sub",
			want: []string{"/docs/sub/nested.adoc", "/docs/sub/wip.draft.adoc"},
		},
		{
			name:    "non-existent directory",
			root:    "/nope",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Exclude = tt.exclude

			got, err := NewDefaultFinder(fs, cfg).FindSources(context.Background(), tt.root)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultFinder_FindSources_Context(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/docs/a.adoc", []byte("= A"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDefaultFinder(fs, nil).FindSources(ctx, "/docs")
	assert.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
