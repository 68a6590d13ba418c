// Package project ties a directory of AsciiDoc files to its configuration,
// parsed documents, Antora catalog and index.
package project

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"

	"github.com/walteh/goadoc/pkg/antora"
	"github.com/walteh/goadoc/pkg/ast"
	"github.com/walteh/goadoc/pkg/config"
	"github.com/walteh/goadoc/pkg/finder"
	"github.com/walteh/goadoc/pkg/index"
	"github.com/walteh/goadoc/pkg/parser"
)

type Project struct {
	ID     uuid.UUID
	Root   string
	Config *config.Config

	fs      afero.Fs
	finder  finder.SourceFinder
	metrics *index.Metrics
	index   *index.Index

	mu sync.RWMutex
	// generation counts invalidations; results computed across one are dropped
	generation uint64
	files      []string
	listed  bool
	docs    map[string]*ast.Document
	catalog *antora.Catalog

	watchMu  sync.Mutex
	watchers []*fsnotify.Watcher
}

type Option func(*Project)

// WithMetrics records index activity on m instead of unregistered collectors.
func WithMetrics(m *index.Metrics) Option {
	return func(p *Project) {
		p.metrics = m
	}
}

// WithFinder replaces the file discovery of the project.
func WithFinder(f finder.SourceFinder) Option {
	return func(p *Project) {
		p.finder = f
	}
}

// Open creates a project rooted at root. A nil cfg loads the config file
// of the root, or the defaults when there is none.
func Open(ctx context.Context, fs afero.Fs, root string, cfg *config.Config, opts ...Option) (*Project, error) {
	root = filepath.Clean(root)

	if cfg == nil {
		var err error
		cfg, err = config.LoadProject(fs, root)
		if err != nil {
			return nil, errors.Errorf("loading project config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Project{
		ID:     uuid.New(),
		Root:   root,
		Config: cfg,
		fs:     fs,
		docs:   map[string]*ast.Document{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.finder == nil {
		p.finder = finder.NewDefaultFinder(fs, cfg)
	}

	idx, err := index.New(p, root, cfg.CacheSize, p.metrics)
	if err != nil {
		return nil, err
	}
	p.index = idx

	zerolog.Ctx(ctx).Debug().Str("project", p.ID.String()).Str("root", root).Msg("opened project")
	return p, nil
}

// FS returns the file system the project reads from.
func (p *Project) FS() afero.Fs {
	return p.fs
}

func (p *Project) Index() *index.Index {
	return p.index
}

// Files returns the sorted source files of the project. The listing is kept
// until the next Invalidate.
func (p *Project) Files(ctx context.Context) ([]string, error) {
	p.mu.RLock()
	if p.listed {
		files := p.files
		p.mu.RUnlock()
		return files, nil
	}
	gen := p.generation
	p.mu.RUnlock()

	files, err := p.finder.FindSources(ctx, p.Root)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.generation == gen {
		p.files = files
		p.listed = true
	}
	return files, nil
}

// Document returns the parsed document at path, parsing it on first use.
// Paths outside the file listing are parsed all the same.
func (p *Project) Document(ctx context.Context, path string) (*ast.Document, error) {
	path = p.Abs(path)

	p.mu.RLock()
	doc, ok := p.docs[path]
	gen := p.generation
	p.mu.RUnlock()
	if ok {
		return doc, nil
	}

	content, err := afero.ReadFile(p.fs, path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}
	doc, err = parser.ParseDocument(ctx, path, content)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.generation != gen {
		return doc, nil
	}
	if cached, ok := p.docs[path]; ok {
		return cached, nil
	}
	p.docs[path] = doc
	return doc, nil
}

// Abs makes path absolute against the project root.
func (p *Project) Abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(p.Root, path)
}

// Catalog returns the Antora components of the project. It is empty when
// Antora support is turned off.
func (p *Project) Catalog(ctx context.Context) (*antora.Catalog, error) {
	p.mu.RLock()
	c := p.catalog
	gen := p.generation
	p.mu.RUnlock()
	if c != nil {
		return c, nil
	}

	c = antora.NewCatalog()
	if p.Config.AntoraEnabled() {
		var err error
		c, err = antora.Discover(ctx, p.fs, p.Root, p.Config.Exclude)
		if err != nil {
			return nil, err
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.generation != gen {
		return c, nil
	}
	if p.catalog == nil {
		p.catalog = c
	}
	return p.catalog, nil
}

// Invalidate forgets every parsed document, the file listing, the catalog
// and the index.
func (p *Project) Invalidate() {
	p.mu.Lock()
	p.generation++
	p.docs = map[string]*ast.Document{}
	p.files = nil
	p.listed = false
	p.catalog = nil
	p.mu.Unlock()

	p.index.Invalidate()
}

// Close stops every watcher.
func (p *Project) Close() error {
	p.watchMu.Lock()
	defer p.watchMu.Unlock()

	var err error
	for _, w := range p.watchers {
		err = multierr.Append(err, w.Close())
	}
	p.watchers = nil
	if err != nil {
		return errors.Errorf("closing project %s: %w", p.ID, err)
	}
	return nil
}
