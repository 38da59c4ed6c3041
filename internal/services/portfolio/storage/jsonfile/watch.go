package jsonfile

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates the store cache when the backing file changes outside
// the process, for example when an operator edits it by hand.
type Watcher struct {
	store    *Store
	debounce time.Duration
	fsw      *fsnotify.Watcher
	// onReload is called after each invalidation; tests use it to synchronize.
	onReload func()
}

// NewWatcher watches the directory holding the store file. Editors usually
// replace files instead of writing in place, so the directory is watched
// rather than the file.
func (s *Store) NewWatcher(debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(s.path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	return &Watcher{store: s, debounce: debounce, fsw: fsw}, nil
}

// Close releases the watch without running it. Run closes it on return.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run blocks until ctx is done, invalidating the cache after a burst of
// events on the store file settles.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.store.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
			pending = true
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.store.logger.Warn().Err(err).Msg("content file watcher error")
		case <-timer.C:
			pending = false
			if !w.store.changedOnDisk() {
				continue
			}
			w.store.Invalidate()
			w.store.logger.Info().Msg("content file changed on disk, cache invalidated")
			if w.onReload != nil {
				w.onReload()
			}
		}
	}
}
