package project

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
)

// Watch invalidates the project on every file system change below the root
// until ctx is done or the project is closed. The changed paths are sent on
// the returned channel; changes are dropped when nobody keeps up with it.
// Watching needs a file system backed by the operating system.
func (p *Project) Watch(ctx context.Context) (<-chan string, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Errorf("creating watcher: %w", err)
	}

	if err := p.addWatches(ctx, w, p.Root); err != nil {
		return nil, multierr.Combine(err, w.Close())
	}

	p.watchMu.Lock()
	p.watchers = append(p.watchers, w)
	p.watchMu.Unlock()

	changes := make(chan string, 64)
	go p.processEvents(ctx, w, changes)

	zerolog.Ctx(ctx).Info().Str("root", p.Root).Msg("watching project")
	return changes, nil
}

// addWatches adds every directory below dir that discovery would enter.
func (p *Project) addWatches(ctx context.Context, w *fsnotify.Watcher, dir string) error {
	logger := zerolog.Ctx(ctx)
	err := afero.Walk(p.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != p.Root && p.skipDir(path) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("failed to watch directory")
			return nil
		}
		logger.Trace().Str("path", path).Msg("watching directory")
		return nil
	})
	if err != nil {
		return errors.Errorf("watching %s: %w", dir, err)
	}
	return nil
}

func (p *Project) skipDir(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return true
	}
	rel, err := filepath.Rel(p.Root, path)
	if err != nil {
		return false
	}
	return p.Config.Excluded(filepath.ToSlash(rel))
}

func (p *Project) processEvents(ctx context.Context, w *fsnotify.Watcher, changes chan<- string) {
	defer close(changes)
	logger := zerolog.Ctx(ctx)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := p.fs.Stat(event.Name); err == nil && info.IsDir() && !p.skipDir(event.Name) {
					if err := p.addWatches(ctx, w, event.Name); err != nil {
						logger.Warn().Err(err).Msg("failed to watch new directory")
					}
				}
			}

			p.Invalidate()
			logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("change detected, invalidated project")

			select {
			case changes <- event.Name:
			default:
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Error().Err(err).Msg("watcher error")
		}
	}
}
