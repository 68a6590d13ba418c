// Package config loads project settings from .goadoc.yaml or .goadoc.hcl.
package config

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// DefaultMaxRecursionDepth bounds nested attribute substitution. Chains
// deeper than this stay unresolved.
const DefaultMaxRecursionDepth = 10

const DefaultCacheSize = 1024

// FileNames are looked up in this order in a project root.
var FileNames = []string{".goadoc.yaml", ".goadoc.yml", ".goadoc.hcl"}

var ErrInvalid = errors.New("invalid configuration")

// 📝 Config file structure
type Config struct {
	// 🔁 nested {attr} substitution depth
	MaxRecursionDepth int `json:"max_recursion_depth,omitempty" yaml:"max_recursion_depth,omitempty" hcl:"max_recursion_depth,optional"`

	// 📄 file extensions treated as AsciiDoc
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty" hcl:"extensions,optional"`

	// 🚫 doublestar globs, relative to the project root, left out of the index
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty" hcl:"exclude,optional"`

	// 🔧 attributes every document sees, below its own declarations
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty" hcl:"attributes,optional"`

	// 🧭 resolve Antora resource ids, on unless set to false
	Antora *bool `json:"antora,omitempty" yaml:"antora,omitempty" hcl:"antora,optional"`

	// 💾 entries of the index query cache
	CacheSize int `json:"cache_size,omitempty" yaml:"cache_size,omitempty" hcl:"cache_size,optional"`
}

// Default returns the configuration used when a project has no config file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.MaxRecursionDepth == 0 {
		c.MaxRecursionDepth = DefaultMaxRecursionDepth
	}
	if len(c.Extensions) == 0 {
		c.Extensions = []string{".adoc", ".asciidoc", ".asc", ".ad"}
	}
	if c.CacheSize == 0 {
		c.CacheSize = DefaultCacheSize
	}
	if c.Attributes == nil {
		c.Attributes = map[string]string{}
	}
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if c.MaxRecursionDepth < 1 {
		return errors.Errorf("max_recursion_depth %d: %w", c.MaxRecursionDepth, ErrInvalid)
	}
	if c.CacheSize < 1 {
		return errors.Errorf("cache_size %d: %w", c.CacheSize, ErrInvalid)
	}
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("exclude pattern %q: %w", pattern, ErrInvalid)
		}
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return errors.Errorf("extension %q must start with a dot: %w", ext, ErrInvalid)
		}
	}
	return nil
}

// AntoraEnabled reports whether resource ids are resolved.
func (c *Config) AntoraEnabled() bool {
	return c.Antora == nil || *c.Antora
}

// IsSource reports whether path has one of the configured extensions.
func (c *Config) IsSource(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range c.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// Excluded reports whether a slash separated path relative to the project
// root matches one of the exclude globs.
func (c *Config) Excluded(rel string) bool {
	for _, pattern := range c.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// 📝 Load config from file (supports YAML and HCL)
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	cfg, err := parse(path, data)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating %s: %w", path, err)
	}
	return cfg, nil
}

func parse(path string, data []byte) (*Config, error) {
	var cfg Config

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			// an empty file is an empty config
			if errors.Is(err, io.EOF) {
				return &cfg, nil
			}
			return nil, errors.Errorf("parsing YAML: %w", err)
		}
		return &cfg, nil
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	ctx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	diags = gohcl.DecodeBody(hclFile.Body, ctx, &cfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}
	return &cfg, nil
}

// Find returns the config file of a project root, if any.
func Find(fs afero.Fs, root string) (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(root, name)
		if ok, err := afero.Exists(fs, path); err == nil && ok {
			return path, true
		}
	}
	return "", false
}

// LoadProject loads the config file of a project root, or the defaults
// when it has none.
func LoadProject(fs afero.Fs, root string) (*Config, error) {
	path, ok := Find(fs, root)
	if !ok {
		return Default(), nil
	}
	return Load(fs, path)
}
