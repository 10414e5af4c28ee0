// Package watch reports changes to the local store file.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events one SQLite commit produces.
const DefaultDebounce = 150 * time.Millisecond

// Watcher watches a database file and its journal/WAL siblings.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	base      string
	debounce  time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// New watches the directory containing path. Only events on path and files
// sharing its name as a prefix (path-wal, path-journal) are reported.
func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		base:      filepath.Base(abs),
		debounce:  debounce,
	}, nil
}

// Run calls onChange after each debounced burst of changes until ctx is done.
// onChange is never called concurrently with itself.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	defer w.fsWatcher.Close()

	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				w.schedule(fire)
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		case <-fire:
			onChange()
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	return strings.HasPrefix(filepath.Base(event.Name), w.base)
}

// schedule restarts the debounce timer.
func (w *Watcher) schedule(fire chan<- struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
