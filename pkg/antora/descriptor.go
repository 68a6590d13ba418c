package antora

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// DescriptorName is the file name of a component version descriptor.
const DescriptorName = "antora.yml"

// Unversioned is the version of a component declared with "version: ~".
const Unversioned = "~"

// Descriptor represents one antora.yml: a version of a component whose
// modules live under Dir/modules.
type Descriptor struct {
	Name       string
	Version    string
	Title      string
	StartPage  string
	Prerelease bool
	// Dir is the directory holding the antora.yml
	Dir string
}

type descriptorFile struct {
	Name       string    `yaml:"name"`
	Version    yaml.Node `yaml:"version"`
	Title      string    `yaml:"title"`
	StartPage  string    `yaml:"start_page"`
	Prerelease yaml.Node `yaml:"prerelease"`
}

// ParseDescriptor decodes the content of an antora.yml found in dir.
// Keys other than the ones used for resolution are ignored.
func ParseDescriptor(dir string, data []byte) (*Descriptor, error) {
	var raw descriptorFile
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
		return nil, errors.Errorf("parsing %s: %w", DescriptorName, err)
	}
	if raw.Name == "" {
		return nil, errors.Errorf("%s in %s has no name", DescriptorName, dir)
	}

	d := &Descriptor{
		Name:      raw.Name,
		Title:     raw.Title,
		StartPage: raw.StartPage,
		Dir:       dir,
		Version:   Unversioned,
	}

	switch v := raw.Version; {
	case v.Kind == 0 || v.Tag == "!!null":
	case v.Tag == "!!bool":
		// "version: true" takes the version from the branch name, unknown here
	default:
		if s := strings.TrimSpace(v.Value); s != "" {
			d.Version = s
		}
	}

	switch p := raw.Prerelease; {
	case p.Kind == 0 || p.Tag == "!!null":
	case p.Tag == "!!bool":
		d.Prerelease = p.Value == "true"
	default:
		d.Prerelease = p.Value != ""
	}
	return d, nil
}

// LoadDescriptor reads and decodes an antora.yml.
func LoadDescriptor(fs afero.Fs, path string) (*Descriptor, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading descriptor: %w", err)
	}
	return ParseDescriptor(filepath.Dir(path), data)
}

// ModulesDir is the directory holding the modules of the component version.
func (d *Descriptor) ModulesDir() string {
	return filepath.Join(d.Dir, "modules")
}

func (d *Descriptor) String() string {
	return d.Version + "@" + d.Name
}
