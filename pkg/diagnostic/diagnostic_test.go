package diagnostic_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/goadoc/pkg/config"
	"github.com/walteh/goadoc/pkg/diagnostic"
	"github.com/walteh/goadoc/pkg/project"
	"github.com/walteh/goadoc/pkg/resolve"
)

func setup(t *testing.T, files map[string]string) *resolve.Resolver {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	cfg := config.Default()
	cfg.Attributes = map[string]string{"name": "world"}
	p, err := project.Open(context.Background(), fs, "/p", cfg)
	require.NoError(t, err)
	return resolve.New(p)
}

type found struct {
	Kind diagnostic.Kind
	Text string
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	r := setup(t, map[string]string{
		"/p/a.adoc": strings.Join([]string{
			":imagesdir: img",
			"",
			"Hello {name} and {missing}.",
			"",
			"See <<intro>> and <<nowhere>> and xref:b.adoc#gone[] and xref:b.adoc#top[] and xref:none.adoc#x[] and xref:shared-title[].",
			"",
			"image::cat.png[]",
			"",
			"image::dir/dog.png[]",
			"",
			"include::{undefined}/x.adoc[]",
			"",
			"[[intro]]",
			"== Intro",
			"",
		}, "\n"),
		"/p/b.adoc":      "[[top]]\n== Top\n\n== Shared Title\n",
		"/p/c.adoc":      "== Shared Title\n",
		"/p/img/cat.png": "png",
	})
	doc, err := r.Project().Document(ctx, "/p/a.adoc")
	require.NoError(t, err)

	diags, err := diagnostic.NewDefaultGenerator(r).Generate(ctx, doc)
	require.NoError(t, err)

	var got []found
	for _, d := range diags.All() {
		got = append(got, found{Kind: d.Kind, Text: d.Location.Text})
		assert.Equal(t, "/p/a.adoc", d.Path)
	}
	assert.Equal(t, []found{
		{Kind: diagnostic.AttributeNotFound, Text: "missing"},
		{Kind: diagnostic.AnchorNotFound, Text: "nowhere"},
		{Kind: diagnostic.BlockIDNotFound, Text: "gone"},
		{Kind: diagnostic.FileNotFound, Text: "none.adoc"},
		{Kind: diagnostic.FileNotFound, Text: "dir"},
		{Kind: diagnostic.AttributeNotFound, Text: "undefined"},
	}, got)

	assert.Len(t, diags.Errors, 2)
	assert.Len(t, diags.Warnings, 4)
	assert.Equal(t, 6, diags.Len())
}

func TestGenerateCleanDocument(t *testing.T) {
	ctx := context.Background()
	r := setup(t, map[string]string{
		"/p/a.adoc": "= Title\n\nText {name}\n",
	})
	doc, err := r.Project().Document(ctx, "/p/a.adoc")
	require.NoError(t, err)

	diags, err := diagnostic.Generate(ctx, r, doc)
	require.NoError(t, err)
	assert.Zero(t, diags.Len())

	_, err = diagnostic.Generate(ctx, r, nil)
	require.Error(t, err)
}

type brokenFinder struct{}

func (brokenFinder) FindSources(context.Context, string) ([]string, error) {
	return nil, errors.New("disk unavailable")
}

func TestGenerateReturnsSubstitutionErrors(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/a.adoc", []byte("See <<{target}>> and xref:{dir}/b.adoc[].\n"), 0o644))
	p, err := project.Open(ctx, fs, "/p", config.Default(), project.WithFinder(brokenFinder{}))
	require.NoError(t, err)
	r := resolve.New(p)

	doc, err := p.Document(ctx, "/p/a.adoc")
	require.NoError(t, err)

	_, err = diagnostic.Generate(ctx, r, doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk unavailable")
}

func TestFormatters(t *testing.T) {
	ctx := context.Background()
	text := "héllo {missing}\n"
	r := setup(t, map[string]string{"/p/t.adoc": text})
	doc, err := r.Project().Document(ctx, "/p/t.adoc")
	require.NoError(t, err)

	diags, err := diagnostic.Generate(ctx, r, doc)
	require.NoError(t, err)
	require.Equal(t, 1, diags.Len())

	t.Run("vscode", func(t *testing.T) {
		out, err := diagnostic.NewVSCodeFormatter().Format(diags)
		require.NoError(t, err)

		var decoded []map[string]any
		require.NoError(t, json.Unmarshal(out, &decoded))
		require.Len(t, decoded, 1)
		assert.Equal(t, float64(2), decoded[0]["severity"])
		assert.Equal(t, "attribute-not-found", decoded[0]["code"])
		assert.Equal(t, "/p/t.adoc", decoded[0]["file"])

		rng := decoded[0]["range"].(map[string]any)
		start := rng["start"].(map[string]any)
		end := rng["end"].(map[string]any)
		assert.Equal(t, float64(0), start["line"])
		assert.Equal(t, float64(8), start["character"])
		assert.Equal(t, float64(15), end["character"])
	})

	t.Run("text", func(t *testing.T) {
		out, err := diagnostic.NewTextFormatter(map[string]string{"/p/t.adoc": text}).Format(diags)
		require.NoError(t, err)

		want := "/p/t.adoc:1:8: warning: attribute \"missing\" is not defined [attribute-not-found]\n" +
			"  héllo {missing}\n" +
			"         ^^^^^^^\n"
		assert.Equal(t, want, string(out))
	})

	t.Run("text without sources", func(t *testing.T) {
		out, err := diagnostic.NewTextFormatter(nil).Format(diags)
		require.NoError(t, err)
		assert.Equal(t, "/p/t.adoc:1:9: warning: attribute \"missing\" is not defined [attribute-not-found]\n", string(out))
	})

	t.Run("nil", func(t *testing.T) {
		_, err := diagnostic.NewVSCodeFormatter().Format(nil)
		require.Error(t, err)
	})
}
