// Package index keeps per project lookup tables of attribute declarations,
// block ids and section titles. Tables are built on the first query and
// dropped wholesale by Invalidate.
package index

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/goadoc/pkg/ast"
)

type Kind int

const (
	KindAttribute Kind = iota
	KindBlockID
	KindSectionTitle
)

func (k Kind) String() string {
	switch k {
	case KindAttribute:
		return "attribute"
	case KindBlockID:
		return "block_id"
	case KindSectionTitle:
		return "section_title"
	}
	return "unknown"
}

var kinds = []Kind{KindAttribute, KindBlockID, KindSectionTitle}

// Normalize turns a name into the lookup key of its kind: attribute names
// are case folded, block ids are kept as they are and section titles are
// lowercased and stripped of characters an id cannot hold.
func Normalize(kind Kind, name string) string {
	switch kind {
	case KindAttribute:
		return ast.NormalizeAttributeName(name)
	case KindSectionTitle:
		return ast.NormalizeSectionTitle(name)
	}
	return name
}

// Source supplies the documents of a project.
type Source interface {
	Files(ctx context.Context) ([]string, error)
	Document(ctx context.Context, path string) (*ast.Document, error)
}

// Entry represents one declaration of a key.
type Entry struct {
	Kind Kind
	Key  string
	// Name is the key as written
	Name    string
	Path    string
	Element *ast.Element
}

// Scope restricts queries. Entries in files matching one of the Exclude
// globs, relative to the index root, are left out; when Paths is set only
// entries from those files count.
type Scope struct {
	Exclude []string
	Paths   []string
}

func (s Scope) key() string {
	return strings.Join(s.Exclude, "\x00") + "\x01" + strings.Join(s.Paths, "\x00")
}

type cacheKey struct {
	kind       Kind
	key        string
	scope      string
	generation uint64
}

type Index struct {
	root    string
	source  Source
	metrics *Metrics

	mu         sync.RWMutex
	built      bool
	generation uint64
	entries    map[Kind]map[string][]*Entry

	cache *lru.Cache[cacheKey, []*Entry]
}

// New creates an index over the files of source below root.
func New(source Source, root string, cacheSize int, metrics *Metrics) (*Index, error) {
	cache, err := lru.New[cacheKey, []*Entry](cacheSize)
	if err != nil {
		return nil, errors.Errorf("creating query cache: %w", err)
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Index{
		root:    root,
		source:  source,
		metrics: metrics,
		cache:   cache,
	}, nil
}

// Invalidate drops every table and cached query result. The next query
// rebuilds the index.
func (x *Index) Invalidate() {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.built = false
	x.entries = nil
	x.generation++
	x.cache.Purge()
	x.metrics.Invalidations.Inc()
}

// Lookup returns the entries declaring name.
func (x *Index) Lookup(ctx context.Context, kind Kind, name string, scope Scope) ([]*Entry, error) {
	key := Normalize(kind, name)

	if err := x.readLock(ctx); err != nil {
		return nil, err
	}
	defer x.mu.RUnlock()

	ck := cacheKey{kind: kind, key: key, scope: scope.key(), generation: x.generation}
	if found, ok := x.cache.Get(ck); ok {
		x.metrics.Hits.Inc()
		return found, nil
	}
	x.metrics.Misses.Inc()

	found := x.filter(x.entries[kind][key], scope)
	x.cache.Add(ck, found)
	return found, nil
}

// Keys returns the sorted keys of a kind that have at least one entry in scope.
func (x *Index) Keys(ctx context.Context, kind Kind, scope Scope) ([]string, error) {
	all, err := x.Entries(ctx, kind, scope)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var keys []string
	for _, e := range all {
		if !seen[e.Key] {
			seen[e.Key] = true
			keys = append(keys, e.Key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Entries returns every entry of a kind in scope, ordered by key then path.
func (x *Index) Entries(ctx context.Context, kind Kind, scope Scope) ([]*Entry, error) {
	if err := x.readLock(ctx); err != nil {
		return nil, err
	}
	defer x.mu.RUnlock()

	var out []*Entry
	for _, list := range x.entries[kind] {
		out = append(out, x.filter(list, scope)...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Key != out[j].Key {
			return out[i].Key < out[j].Key
		}
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Element.Offset < out[j].Element.Offset
	})
	return out, nil
}

func (x *Index) filter(list []*Entry, scope Scope) []*Entry {
	if len(scope.Exclude) == 0 && len(scope.Paths) == 0 {
		return list
	}
	var out []*Entry
	for _, e := range list {
		if x.inScope(e.Path, scope) {
			out = append(out, e)
		}
	}
	return out
}

func (x *Index) inScope(path string, scope Scope) bool {
	if len(scope.Paths) > 0 {
		found := false
		for _, p := range scope.Paths {
			if filepath.Clean(p) == filepath.Clean(path) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	rel, err := filepath.Rel(x.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range scope.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	return true
}

// readLock returns holding the read lock over built tables.
func (x *Index) readLock(ctx context.Context) error {
	for {
		x.mu.RLock()
		if x.built {
			return nil
		}
		x.mu.RUnlock()
		if err := x.build(ctx); err != nil {
			return err
		}
	}
}

// build fills the tables. Files that fail to parse are skipped and logged.
func (x *Index) build(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.built {
		return nil
	}

	logger := zerolog.Ctx(ctx)

	files, err := x.source.Files(ctx)
	if err != nil {
		return errors.Errorf("listing files: %w", err)
	}

	entries := map[Kind]map[string][]*Entry{}
	for _, k := range kinds {
		entries[k] = map[string][]*Entry{}
	}
	add := func(e *Entry) {
		entries[e.Kind][e.Key] = append(entries[e.Kind][e.Key], e)
	}

	var result *multierror.Error
	for _, path := range files {
		doc, err := x.source.Document(ctx, path)
		if err != nil {
			x.metrics.BuildErrors.Inc()
			result = multierror.Append(result, errors.Errorf("indexing %s: %w", path, err))
			continue
		}
		for _, e := range DocumentEntries(doc) {
			add(e)
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		logger.Warn().Err(err).Int("skipped", result.Len()).Msg("index built with errors")
	}

	for _, k := range kinds {
		n := 0
		for _, list := range entries[k] {
			n += len(list)
		}
		x.metrics.Entries.WithLabelValues(k.String()).Set(float64(n))
	}

	x.entries = entries
	x.built = true
	x.metrics.Builds.Inc()
	logger.Debug().Int("files", len(files)).Uint64("generation", x.generation).Msg("built index")
	return nil
}

// DocumentEntries lists the declarations of one document. An id is
// recorded once per document, on the outermost element carrying it.
func DocumentEntries(doc *ast.Document) []*Entry {
	var out []*Entry
	ids := map[string]bool{}

	addID := func(id string, el *ast.Element) {
		if id == "" || ids[id] {
			return
		}
		ids[id] = true
		out = append(out, &Entry{Kind: KindBlockID, Key: id, Name: id, Path: doc.Path, Element: el})
	}

	ast.Walk(doc.Root, func(el *ast.Element) bool {
		switch el.Kind {
		case ast.KindAttributeDeclaration:
			out = append(out, &Entry{
				Kind:    KindAttribute,
				Key:     Normalize(KindAttribute, el.Name),
				Name:    el.Name,
				Path:    doc.Path,
				Element: el,
			})
		case ast.KindSection:
			if el.ID != "" {
				addID(el.ID, el)
			} else {
				addID(ast.AutoSectionID(el.Title), el)
			}
			if key := Normalize(KindSectionTitle, el.Title); key != "" {
				out = append(out, &Entry{Kind: KindSectionTitle, Key: key, Name: el.Title, Path: doc.Path, Element: el})
			}
		default:
			addID(el.ID, el)
		}
		return true
	})
	return out
}
