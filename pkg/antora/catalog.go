package antora

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// Module represents a module directory of a component version.
type Module struct {
	Descriptor *Descriptor
	Name       string
	Dir        string
}

// Catalog holds the component versions of a project.
type Catalog struct {
	descriptors []*Descriptor
}

// NewCatalog builds a catalog from already loaded descriptors.
func NewCatalog(ds ...*Descriptor) *Catalog {
	c := &Catalog{descriptors: append([]*Descriptor(nil), ds...)}
	SortVersions(c.descriptors)
	return c
}

// Discover walks root for antora.yml files. Paths matching one of the
// exclude globs, relative to root, are skipped. Descriptors that fail to
// load are logged and left out.
func Discover(ctx context.Context, fs afero.Fs, root string, exclude []string) (*Catalog, error) {
	var found []*Descriptor
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if rel, rerr := filepath.Rel(root, path); rerr == nil && rel != "." && excluded(filepath.ToSlash(rel), exclude) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() || info.Name() != DescriptorName {
			return nil
		}
		d, err := LoadDescriptor(fs, path)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("skipping antora descriptor")
			return nil
		}
		found = append(found, d)
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("discovering antora components in %s: %w", root, err)
	}

	zerolog.Ctx(ctx).Debug().Int("descriptors", len(found)).Msg("discovered antora components")
	return NewCatalog(found...), nil
}

func excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Empty reports whether the project has no Antora components.
func (c *Catalog) Empty() bool {
	return c == nil || len(c.descriptors) == 0
}

// Descriptors returns all component versions, latest versions first.
func (c *Catalog) Descriptors() []*Descriptor {
	if c == nil {
		return nil
	}
	return c.descriptors
}

// Components returns the sorted component names.
func (c *Catalog) Components() []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range c.Descriptors() {
		if !seen[d.Name] {
			seen[d.Name] = true
			out = append(out, d.Name)
		}
	}
	sort.Strings(out)
	return out
}

// Lookup returns the descriptor of a component version, or the latest
// version when version is empty.
func (c *Catalog) Lookup(component, version string) *Descriptor {
	for _, d := range c.Descriptors() {
		if d.Name != component {
			continue
		}
		if version == "" || d.Version == version {
			return d
		}
	}
	return nil
}

// ModuleOf finds the module containing file by walking up at most MaxDepth
// directories looking for <component>/modules/<module>.
func (c *Catalog) ModuleOf(file string) (*Module, bool) {
	if c.Empty() {
		return nil, false
	}
	dir := filepath.Dir(file)
	for depth := 0; depth < MaxDepth; depth++ {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if filepath.Base(parent) == "modules" {
			componentDir := filepath.Dir(parent)
			for _, d := range c.descriptors {
				if d.Dir == componentDir {
					return &Module{Descriptor: d, Name: filepath.Base(dir), Dir: dir}, true
				}
			}
		}
		dir = parent
	}
	return nil, false
}

// Resolve maps a resource id to a path. Coordinates missing from id are
// taken from the module the reference is made from; a component named
// without a version resolves to its latest version and to the ROOT module
// when no module is given. family is used when id names none.
func (c *Catalog) Resolve(id ResourceID, from *Module, family string) (string, bool) {
	var d *Descriptor
	module := id.Module

	switch {
	case id.Component == "" && from != nil:
		if id.Version == "" {
			d = from.Descriptor
		} else {
			d = c.Lookup(from.Descriptor.Name, id.Version)
		}
		if module == "" {
			module = from.Name
		}
	case id.Component != "":
		d = c.Lookup(id.Component, id.Version)
		if module == "" {
			module = RootModule
		}
	}
	if d == nil || module == "" {
		return "", false
	}

	if id.Family != "" {
		family = id.Family
	}
	familyDir, ok := FamilyDir(family)
	if !ok {
		return "", false
	}
	return filepath.Join(d.ModulesDir(), module, familyDir, filepath.FromSlash(id.Path)), true
}
