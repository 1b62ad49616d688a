package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce coalesces editor save bursts into one reload.
const WatchDebounce = 500 * time.Millisecond

// Watcher reports changes to the config file and its includes. It watches
// the parent directories so that atomic rename-on-save is seen.
type Watcher struct {
	fsw      *fsnotify.Watcher
	log      *slog.Logger
	onChange func()
	debounce time.Duration

	mu     sync.Mutex
	files  map[string]struct{}
	dirs   map[string]struct{}
	timer  *time.Timer
	closed bool
}

func NewWatcher(onChange func(), logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		fsw:      fsw,
		log:      logger.With("component", "config-watcher"),
		onChange: onChange,
		debounce: WatchDebounce,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
	}, nil
}

// Watch replaces the set of watched files.
func (w *Watcher) Watch(paths ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	files := make(map[string]struct{}, len(paths))
	dirs := make(map[string]struct{})
	for _, p := range paths {
		if p == "" {
			continue
		}
		p = filepath.Clean(p)
		files[p] = struct{}{}
		dirs[filepath.Dir(p)] = struct{}{}
	}

	for dir := range w.dirs {
		if _, keep := dirs[dir]; !keep {
			_ = w.fsw.Remove(dir)
		}
	}
	for dir := range dirs {
		if _, ok := w.dirs[dir]; ok {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			w.log.Warn("failed to watch config directory", "dir", dir, "error", err)
			delete(dirs, dir)
		}
	}
	w.files, w.dirs = files, dirs
}

// Serve processes file events until ctx is done.
func (w *Watcher) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !isRelevantEvent(event) {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[filepath.Clean(event.Name)]; !ok || w.closed {
		return
	}
	w.log.Debug("config file changed", "file", event.Name, "op", event.Op.String())
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	closed := w.closed
	w.timer = nil
	w.mu.Unlock()
	if !closed && w.onChange != nil {
		w.onChange()
	}
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// Close stops the watcher and cancels any pending reload.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
	return w.fsw.Close()
}

func isRelevantEvent(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) ||
		event.Has(fsnotify.Rename)
}
