package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for writes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Watch invalidates the memoized dataset whenever the file at path is
// written, created or renamed into place. Bursts of events within the
// debounce window cause a single invalidation.
//
// Watch blocks until ctx is cancelled and returns nil then. It returns an
// error only when the watcher cannot be started.
func (a *Accessor) Watch(ctx context.Context, path string) error {
	return a.watch(ctx, path, DefaultDebounce)
}

func (a *Accessor) watch(ctx context.Context, path string, debounce time.Duration) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve dataset path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so the directory is watched.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch dataset directory: %w", err)
	}
	a.logger.Debug("watching dataset file", "path", abs)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			a.logger.Debug("dataset file changed", "op", event.Op.String())

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				a.Invalidate()
				a.logger.Info("dataset invalidated after file change", "path", abs)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Error("dataset watcher error", "error", err)
		}
	}
}
