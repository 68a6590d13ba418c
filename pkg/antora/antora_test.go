package antora_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/goadoc/pkg/antora"
)

func TestParseResourceID(t *testing.T) {
	tests := []struct {
		input string
		want  antora.ResourceID
		ok    bool
	}{
		{"other.adoc", antora.ResourceID{}, false},
		{"../images/a.png", antora.ResourceID{}, false},
		{"https://example.com/a.adoc", antora.ResourceID{}, false},
		{"ROOT:index.adoc", antora.ResourceID{Module: "ROOT", Path: "index.adoc"}, true},
		{"partial$intro.adoc", antora.ResourceID{Family: "partial", Path: "intro.adoc"}, true},
		{"docs:admin:page$setup.adoc", antora.ResourceID{Component: "docs", Module: "admin", Family: "page", Path: "setup.adoc"}, true},
		{"2.0@docs::index.adoc", antora.ResourceID{Version: "2.0", Component: "docs", Module: "ROOT", Path: "index.adoc"}, true},
		{"1.0@index.adoc", antora.ResourceID{Version: "1.0", Path: "index.adoc"}, true},
		{"unknown$x.adoc", antora.ResourceID{}, false},
		{"a/b:c.adoc", antora.ResourceID{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := antora.ParseResourceID(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, antora.IsResourceID(tt.input))
		})
	}
}

func TestResourceIDString(t *testing.T) {
	id := antora.ResourceID{Version: "2.0", Component: "docs", Module: "admin", Family: "image", Path: "a.png"}
	assert.Equal(t, "2.0@docs:admin:image$a.png", id.String())

	back, ok := antora.ParseResourceID(id.String())
	require.True(t, ok)
	assert.Equal(t, id, back)
}

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		name       string
		yaml       string
		version    string
		prerelease bool
		wantErr    bool
	}{
		{name: "string version", yaml: "name: docs\nversion: '2.1'\n", version: "2.1"},
		{name: "numeric version", yaml: "name: docs\nversion: 3.0\n", version: "3.0"},
		{name: "unversioned", yaml: "name: docs\nversion: ~\n", version: antora.Unversioned},
		{name: "missing version", yaml: "name: docs\n", version: antora.Unversioned},
		{name: "prerelease flag", yaml: "name: docs\nversion: '4.0'\nprerelease: true\n", version: "4.0", prerelease: true},
		{name: "prerelease label", yaml: "name: docs\nversion: '4.0'\nprerelease: -beta\n", version: "4.0", prerelease: true},
		{name: "extra keys", yaml: "name: docs\nversion: '1'\nnav:\n- modules/ROOT/nav.adoc\nasciidoc:\n  attributes:\n    x: y\n", version: "1"},
		{name: "no name", yaml: "version: '1'\n", wantErr: true},
		{name: "broken", yaml: "name: [\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := antora.ParseDescriptor("/docs", []byte(tt.yaml))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "docs", d.Name)
			assert.Equal(t, tt.version, d.Version)
			assert.Equal(t, tt.prerelease, d.Prerelease)
			assert.Equal(t, filepath.Join("/docs", "modules"), d.ModulesDir())
		})
	}
}

func TestSortVersions(t *testing.T) {
	ds := []*antora.Descriptor{
		{Name: "c", Version: "main"},
		{Name: "c", Version: "1.10"},
		{Name: "c", Version: "2.0-beta.1"},
		{Name: "c", Version: "1.9"},
		{Name: "c", Version: "next", Prerelease: true},
		{Name: "c", Version: "dev"},
		{Name: "c", Version: "v1.2.3"},
	}
	antora.SortVersions(ds)

	got := make([]string, 0, len(ds))
	for _, d := range ds {
		got = append(got, d.Version)
	}
	assert.Equal(t, []string{"1.10", "1.9", "v1.2.3", "main", "dev", "2.0-beta.1", "next"}, got)
}

func TestNewer(t *testing.T) {
	stable := &antora.Descriptor{Version: "1.0"}
	pre := &antora.Descriptor{Version: "3.0", Prerelease: true}
	named := &antora.Descriptor{Version: "latest"}

	assert.True(t, antora.Newer(stable, pre))
	assert.False(t, antora.Newer(pre, stable))
	assert.True(t, antora.Newer(stable, named))
	assert.True(t, pre.IsPrerelease())
	assert.True(t, (&antora.Descriptor{Version: "2.0-rc.1"}).IsPrerelease())
	assert.False(t, named.IsPrerelease())
}

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
}

func TestDiscoverAndResolve(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/p/v1/antora.yml":                        "name: docs\nversion: '1.0'\n",
		"/p/v2/antora.yml":                        "name: docs\nversion: '2.0'\n",
		"/p/v3/antora.yml":                        "name: docs\nversion: '3.0'\nprerelease: true\n",
		"/p/other/antora.yml":                     "name: other\nversion: ~\n",
		"/p/node_modules/x/antora.yml":            "name: ignored\n",
		"/p/broken/antora.yml":                    "version: '1'\n",
		"/p/v1/modules/ROOT/pages/index.adoc":     "= Index",
		"/p/v1/modules/admin/pages/setup.adoc":    "= Setup",
		"/p/v2/modules/ROOT/pages/index.adoc":     "= Index",
		"/p/other/modules/ROOT/pages/index.adoc":  "= Other",
		"/p/v1/modules/admin/partials/intro.adoc": "intro",
	})

	cat, err := antora.Discover(ctx, fs, "/p", []string{"**/node_modules/**", "node_modules"})
	require.NoError(t, err)
	assert.Equal(t, []string{"docs", "other"}, cat.Components())
	assert.Equal(t, "2.0", cat.Lookup("docs", "").Version)
	assert.Equal(t, "1.0", cat.Lookup("docs", "1.0").Version)
	assert.Nil(t, cat.Lookup("ignored", ""))

	mod, ok := cat.ModuleOf("/p/v1/modules/admin/pages/setup.adoc")
	require.True(t, ok)
	assert.Equal(t, "admin", mod.Name)
	assert.Equal(t, "1.0", mod.Descriptor.Version)

	_, ok = cat.ModuleOf("/p/README.adoc")
	assert.False(t, ok)

	tests := []struct {
		name   string
		id     string
		family string
		want   string
		ok     bool
	}{
		{name: "same module", id: "admin:setup.adoc", family: "page", want: "/p/v1/modules/admin/pages/setup.adoc", ok: true},
		{name: "module only uses context version", id: "ROOT:index.adoc", family: "page", want: "/p/v1/modules/ROOT/pages/index.adoc", ok: true},
		{name: "family", id: "partial$intro.adoc", family: "page", want: "/p/v1/modules/admin/partials/intro.adoc", ok: true},
		{name: "component defaults to latest", id: "docs::index.adoc", family: "page", want: "/p/v2/modules/ROOT/pages/index.adoc", ok: true},
		{name: "explicit version", id: "1.0@docs:ROOT:index.adoc", family: "page", want: "/p/v1/modules/ROOT/pages/index.adoc", ok: true},
		{name: "unversioned component", id: "other::index.adoc", family: "page", want: "/p/other/modules/ROOT/pages/index.adoc", ok: true},
		{name: "image family default", id: "ROOT:logo.png", family: "image", want: "/p/v1/modules/ROOT/images/logo.png", ok: true},
		{name: "unknown component", id: "nope::index.adoc", family: "page"},
		{name: "unknown version", id: "9.0@docs::index.adoc", family: "page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := antora.ParseResourceID(tt.id)
			require.True(t, ok)
			got, ok := cat.Resolve(id, mod, tt.family)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}
