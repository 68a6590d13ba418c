package finder

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/goadoc/pkg/config"
)

// SourceFinder lists the AsciiDoc files of a project.
type SourceFinder interface {
	// FindSources returns the absolute paths of the source files below root
	FindSources(ctx context.Context, root string) ([]string, error)
}

// DefaultFinder walks a file system, keeping files with one of the
// configured extensions and leaving out excluded paths and hidden
// directories.
type DefaultFinder struct {
	fs  afero.Fs
	cfg *config.Config
}

// NewDefaultFinder creates a new DefaultFinder
func NewDefaultFinder(fs afero.Fs, cfg *config.Config) *DefaultFinder {
	if cfg == nil {
		cfg = config.Default()
	}
	return &DefaultFinder{fs: fs, cfg: cfg}
}

// FindSources implements SourceFinder. The result is sorted.
func (f *DefaultFinder) FindSources(ctx context.Context, root string) ([]string, error) {
	var found []string
	err := afero.Walk(f.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errors.Errorf("relative path of %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") || f.cfg.Excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !f.cfg.IsSource(path) || f.cfg.Excluded(rel) {
			return nil
		}
		found = append(found, path)
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("finding sources in %s: %w", root, err)
	}

	sort.Strings(found)
	return found, nil
}
