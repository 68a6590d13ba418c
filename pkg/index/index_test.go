package index_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/goadoc/pkg/ast"
	"github.com/walteh/goadoc/pkg/index"
	"github.com/walteh/goadoc/pkg/parser"
)

var errBroken = errors.New("broken file")

type memSource struct {
	mu       sync.Mutex
	files    map[string]string
	broken   map[string]bool
	filesErr error
}

func (m *memSource) Files(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.filesErr != nil {
		return nil, m.filesErr
	}
	var out []string
	for path := range m.files {
		out = append(out, path)
	}
	sort.Strings(out)
	return out, nil
}

func (m *memSource) Document(ctx context.Context, path string) (*ast.Document, error) {
	m.mu.Lock()
	text, broken := m.files[path], m.broken[path]
	m.mu.Unlock()
	if broken {
		return nil, errBroken
	}
	return parser.ParseDocument(ctx, path, []byte(text))
}

func (m *memSource) set(path, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = text
}

func newIndex(t *testing.T, src index.Source) (*index.Index, *index.Metrics) {
	t.Helper()
	metrics := index.NewMetrics(prometheus.NewRegistry())
	x, err := index.New(src, "/p", 8, metrics)
	require.NoError(t, err)
	return x, metrics
}

func testSource() *memSource {
	return &memSource{
		files: map[string]string{
			"/p/a.adoc":       ":ImagesDir: img\n\n== Getting Started\n\n[[setup]]\n=== Setup\n\ntext [[inline-id]] more\n",
			"/p/b.adoc":       ":imagesdir: other\n\n[#Setup]\n== Later\n",
			"/p/build/c.adoc": ":generated: yes\n\n== Getting Started\n",
		},
		broken: map[string]bool{},
	}
}

func paths(entries []*index.Entry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Path)
	}
	return out
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	x, _ := newIndex(t, testSource())

	tests := []struct {
		name  string
		kind  index.Kind
		key   string
		scope index.Scope
		want  []string
	}{
		{name: "attribute is case insensitive", kind: index.KindAttribute, key: "IMAGESDIR", want: []string{"/p/a.adoc", "/p/b.adoc"}},
		{name: "block id is case sensitive", kind: index.KindBlockID, key: "setup", want: []string{"/p/a.adoc"}},
		{name: "block id other case", kind: index.KindBlockID, key: "Setup", want: []string{"/p/b.adoc"}},
		{name: "inline anchor", kind: index.KindBlockID, key: "inline-id", want: []string{"/p/a.adoc"}},
		{name: "generated section id", kind: index.KindBlockID, key: "_getting_started", want: []string{"/p/a.adoc", "/p/build/c.adoc"}},
		{name: "explicit id replaces generated one", kind: index.KindBlockID, key: "_setup", want: nil},
		{name: "section title", kind: index.KindSectionTitle, key: "Getting Started", want: []string{"/p/a.adoc", "/p/build/c.adoc"}},
		{name: "excluded scope", kind: index.KindSectionTitle, key: "getting-started", scope: index.Scope{Exclude: []string{"build/**"}}, want: []string{"/p/a.adoc"}},
		{name: "path scope", kind: index.KindAttribute, key: "imagesdir", scope: index.Scope{Paths: []string{"/p/b.adoc"}}, want: []string{"/p/b.adoc"}},
		{name: "missing", kind: index.KindAttribute, key: "nope", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := x.Lookup(ctx, tt.kind, tt.key, tt.scope)
			require.NoError(t, err)
			got := paths(found)
			sort.Strings(got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeys(t *testing.T) {
	ctx := context.Background()
	x, _ := newIndex(t, testSource())

	keys, err := x.Keys(ctx, index.KindAttribute, index.Scope{})
	require.NoError(t, err)
	assert.Equal(t, []string{"generated", "imagesdir"}, keys)

	keys, err = x.Keys(ctx, index.KindAttribute, index.Scope{Exclude: []string{"build/**"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"imagesdir"}, keys)

	entries, err := x.Entries(ctx, index.KindAttribute, index.Scope{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "ImagesDir", entries[1].Name)
}

func TestQueryCacheAndInvalidation(t *testing.T) {
	ctx := context.Background()
	src := testSource()
	x, metrics := newIndex(t, src)

	_, err := x.Lookup(ctx, index.KindAttribute, "imagesdir", index.Scope{})
	require.NoError(t, err)
	_, err = x.Lookup(ctx, index.KindAttribute, "ImagesDir", index.Scope{})
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Builds))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Misses))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Hits))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.Entries.WithLabelValues("attribute")))

	src.set("/p/d.adoc", ":imagesdir: d\n")

	found, err := x.Lookup(ctx, index.KindAttribute, "imagesdir", index.Scope{})
	require.NoError(t, err)
	assert.Len(t, found, 2, "stale until invalidated")

	x.Invalidate()
	found, err = x.Lookup(ctx, index.KindAttribute, "imagesdir", index.Scope{})
	require.NoError(t, err)
	assert.Len(t, found, 3)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Invalidations))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Builds))
}

func TestBuildSkipsBrokenFiles(t *testing.T) {
	ctx := context.Background()
	src := testSource()
	src.broken["/p/b.adoc"] = true
	x, metrics := newIndex(t, src)

	found, err := x.Lookup(ctx, index.KindAttribute, "imagesdir", index.Scope{})
	require.NoError(t, err)
	assert.Equal(t, []string{"/p/a.adoc"}, paths(found))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.BuildErrors))
}

func TestBuildFailsWhenFilesCannotBeListed(t *testing.T) {
	src := testSource()
	src.filesErr = errBroken
	x, _ := newIndex(t, src)

	_, err := x.Lookup(context.Background(), index.KindAttribute, "imagesdir", index.Scope{})
	require.ErrorIs(t, err, errBroken)
}

func TestConcurrentQueries(t *testing.T) {
	ctx := context.Background()
	x, _ := newIndex(t, testSource())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%4 == 0 {
				x.Invalidate()
			}
			_, err := x.Lookup(ctx, index.KindBlockID, "setup", index.Scope{})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	found, err := x.Lookup(ctx, index.KindBlockID, "setup", index.Scope{})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestNewRejectsZeroCache(t *testing.T) {
	_, err := index.New(testSource(), "/p", 0, nil)
	require.Error(t, err)
}
