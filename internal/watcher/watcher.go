// Package watcher triggers a reload when fixture directories change.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"filefixtures/internal/domain"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses editor save bursts into one reload
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a set of fixture directories
type Watcher struct {
	dirs      []string
	orderFile string
	onChange  func(path string)
	debounce  time.Duration
}

// New creates a watcher over dirs. onChange receives the last relevant
// path seen in each debounce window.
func New(dirs []string, orderFile string, onChange func(path string)) *Watcher {
	return &Watcher{
		dirs:      dirs,
		orderFile: orderFile,
		onChange:  onChange,
		debounce:  DefaultDebounce,
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Relevant reports whether a change to path should trigger a reload
func (w *Watcher) Relevant(path string) bool {
	return domain.IsFixturePath(path) || filepath.Base(path) == w.orderFile
}

// Watch blocks until the context is cancelled or the underlying watcher
// fails to start.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	for _, dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		slog.Info("Watching fixture directory", "dir", dir)
	}

	var timer *time.Timer
	fire := make(chan string, 1)

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.Relevant(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("Fixture change detected", "path", event.Name, "op", event.Op.String())

			if timer != nil {
				timer.Stop()
			}
			name := event.Name
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- name:
				default:
				}
			})

		case path := <-fire:
			slog.Info("Fixtures changed", "path", path)
			w.onChange(path)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", "error", err)

		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		}
	}
}
