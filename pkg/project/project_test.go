package project_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/goadoc/pkg/config"
	"github.com/walteh/goadoc/pkg/index"
	"github.com/walteh/goadoc/pkg/project"
)

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("loads the project config", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFiles(t, fs, map[string]string{
			"/p/.goadoc.yaml": "max_recursion_depth: 3\nexclude: [\"build/**\"]\n",
		})

		p, err := project.Open(ctx, fs, "/p/", nil)
		require.NoError(t, err)
		assert.Equal(t, "/p", p.Root)
		assert.Equal(t, 3, p.Config.MaxRecursionDepth)
		assert.NotEqual(t, uuid.Nil, p.ID)
	})

	t.Run("rejects an invalid config", func(t *testing.T) {
		cfg := config.Default()
		cfg.CacheSize = -1
		_, err := project.Open(ctx, afero.NewMemMapFs(), "/p", cfg)
		require.ErrorIs(t, err, config.ErrInvalid)
	})

	t.Run("projects get distinct ids", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		a, err := project.Open(ctx, fs, "/p", config.Default())
		require.NoError(t, err)
		b, err := project.Open(ctx, fs, "/p", config.Default())
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestFilesAndDocuments(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/p/index.adoc":     "= Index\n:product: goadoc\n\n== Intro\n",
		"/p/other.adoc":     "== Other\n",
		"/p/build/gen.adoc": "== Generated\n",
		"/p/readme.md":      "# skip\n",
	})
	cfg := config.Default()
	cfg.Exclude = []string{"build/**"}

	p, err := project.Open(ctx, fs, "/p", cfg)
	require.NoError(t, err)

	files, err := p.Files(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/p/index.adoc", "/p/other.adoc"}, files)

	doc, err := p.Document(ctx, "index.adoc")
	require.NoError(t, err)
	assert.Equal(t, "/p/index.adoc", doc.Path)
	require.Len(t, doc.Declarations(), 1)

	again, err := p.Document(ctx, "/p/index.adoc")
	require.NoError(t, err)
	assert.Same(t, doc, again, "parsed documents are cached")

	_, err = p.Document(ctx, "/p/missing.adoc")
	require.Error(t, err)

	found, err := p.Index().Lookup(ctx, index.KindAttribute, "product", index.Scope{})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "/p/index.adoc", found[0].Path)
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/p/a.adoc": ":v: one\n",
	})
	metrics := index.NewMetrics(prometheus.NewRegistry())

	p, err := project.Open(ctx, fs, "/p", config.Default(), project.WithMetrics(metrics))
	require.NoError(t, err)

	doc, err := p.Document(ctx, "/p/a.adoc")
	require.NoError(t, err)
	found, err := p.Index().Lookup(ctx, index.KindAttribute, "w", index.Scope{})
	require.NoError(t, err)
	assert.Empty(t, found)

	writeFiles(t, fs, map[string]string{
		"/p/a.adoc": ":v: one\n:w: two\n",
		"/p/b.adoc": ":w: three\n",
	})
	p.Invalidate()

	fresh, err := p.Document(ctx, "/p/a.adoc")
	require.NoError(t, err)
	assert.NotSame(t, doc, fresh)

	files, err := p.Files(ctx)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	found, err = p.Index().Lookup(ctx, index.KindAttribute, "w", index.Scope{})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Invalidations))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Builds))
}

// openHookFs runs onOpen before each file is opened.
type openHookFs struct {
	afero.Fs
	opens  int
	onOpen func()
}

func (me *openHookFs) Open(name string) (afero.File, error) {
	me.opens++
	if me.onOpen != nil {
		me.onOpen()
	}
	return me.Fs.Open(name)
}

func TestDocumentParsedAcrossInvalidateIsNotCached(t *testing.T) {
	ctx := context.Background()
	mem := afero.NewMemMapFs()
	writeFiles(t, mem, map[string]string{
		"/p/a.adoc": ":v: one\n",
	})
	fs := &openHookFs{Fs: mem}

	p, err := project.Open(ctx, fs, "/p", config.Default())
	require.NoError(t, err)

	fs.onOpen = func() {
		fs.onOpen = nil
		p.Invalidate()
	}

	first, err := p.Document(ctx, "/p/a.adoc")
	require.NoError(t, err)
	assert.Equal(t, 1, fs.opens)

	second, err := p.Document(ctx, "/p/a.adoc")
	require.NoError(t, err)
	assert.Equal(t, 2, fs.opens, "a document read before the invalidation must be read again")
	assert.NotSame(t, first, second)

	third, err := p.Document(ctx, "/p/a.adoc")
	require.NoError(t, err)
	assert.Equal(t, 2, fs.opens)
	assert.Same(t, second, third)
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/p/docs/antora.yml":                    "name: guide\nversion: '1.0'\n",
		"/p/docs/modules/ROOT/pages/index.adoc": "= Guide\n",
	})

	p, err := project.Open(ctx, fs, "/p", config.Default())
	require.NoError(t, err)
	c, err := p.Catalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"guide"}, c.Components())

	off := false
	cfg := config.Default()
	cfg.Antora = &off
	p, err = project.Open(ctx, fs, "/p", cfg)
	require.NoError(t, err)
	c, err = p.Catalog(ctx)
	require.NoError(t, err)
	assert.True(t, c.Empty())
}

func TestWatch(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.adoc"), []byte(":v: one\n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p, err := project.Open(ctx, afero.NewOsFs(), root, config.Default())
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, p.Close())
	}()

	files, err := p.Files(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)

	changes, err := p.Watch(ctx)
	require.NoError(t, err)

	added := filepath.Join(root, "sub", "b.adoc")
	require.NoError(t, os.WriteFile(added, []byte(":v: two\n"), 0o644))

	select {
	case path := <-changes:
		assert.Equal(t, added, path)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	files, err = p.Files(ctx)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
