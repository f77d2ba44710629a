package book

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-runs a full book build whenever the book sources or any
// registered crate changes. Every rebuild starts from scratch; there
// is no incremental state to invalidate.
type Watcher struct {
	watcher      *fsnotify.Watcher
	rebuild      func() error
	debounceTime time.Duration
}

// NewWatcher creates a watcher over the given directories. rebuild is
// invoked after changes settle.
func NewWatcher(dirs []string, rebuild func() error) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:      watcher,
		rebuild:      rebuild,
		debounceTime: 500 * time.Millisecond,
	}

	for _, dir := range dirs {
		if err := w.addRecursively(dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}
	return w, nil
}

// Run blocks, rebuilding on changes, until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var debounceTimer *time.Timer
	rebuildCh := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			// New directories need watching too.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursively(event.Name); err != nil {
						log.Printf("warning: failed to watch new directory %s: %v", event.Name, err)
					}
				}
			}

			if debounceTimer != nil {
				if !debounceTimer.Stop() {
					select {
					case <-debounceTimer.C:
					default:
					}
				}
			}
			debounceTimer = time.AfterFunc(w.debounceTime, func() {
				select {
				case rebuildCh <- struct{}{}:
				default:
				}
			})

		case <-rebuildCh:
			start := time.Now()
			if err := w.rebuild(); err != nil {
				// Keep watching: the author is mid-edit and the next
				// save may fix the build.
				log.Printf("build failed: %v", err)
				continue
			}
			log.Printf("rebuilt in %v", time.Since(start).Round(time.Millisecond))

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		}
	}
}

func (w *Watcher) addRecursively(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Printf("warning: error accessing %s: %v", path, err)
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if info.Name() == "target" || info.Name() == ".git" {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			log.Printf("warning: failed to watch directory %s: %v", path, err)
		}
		return nil
	})
}
