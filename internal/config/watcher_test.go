package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_DebouncesWritesToWatchedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	other := filepath.Join(dir, "notes.txt")
	writeFile(t, path, "log_level: info\n")

	fired := make(chan struct{}, 8)
	w, err := NewWatcher(func() { fired <- struct{}{} }, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()
	w.debounce = 50 * time.Millisecond
	w.Watch(path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Serve(ctx)

	writeFile(t, other, "ignored\n")
	select {
	case <-fired:
		t.Fatalf("expected unrelated file to be ignored")
	case <-time.After(200 * time.Millisecond):
	}

	for i := 0; i < 3; i++ {
		writeFile(t, path, "log_level: debug\n")
	}
	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatalf("expected reload after write")
	}
	select {
	case <-fired:
		t.Fatalf("expected burst of writes to coalesce into one reload")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_CloseCancelsPendingReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "")

	fired := make(chan struct{}, 1)
	w, err := NewWatcher(func() { fired <- struct{}{} }, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	w.debounce = time.Hour
	w.Watch(path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Serve(ctx)

	writeFile(t, path, "log_level: debug\n")
	time.Sleep(100 * time.Millisecond)
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	w.fire()
	select {
	case <-fired:
		t.Fatalf("expected no reload after close")
	default:
	}
}
