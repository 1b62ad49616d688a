package ipc

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeHandler struct {
	mu        sync.Mutex
	reloads   int
	reloadErr error
}

func (h *fakeHandler) Reload() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reloads++
	return h.reloadErr
}

func (h *fakeHandler) Status() StatusData {
	return StatusData{BorderCount: 3, VisibleCount: 2, ActiveWindow: 0x42, ConfigPath: "/tmp/c.yaml", DaemonRunning: true}
}

func (h *fakeHandler) Borders() []BorderInfo {
	return []BorderInfo{
		{Window: 0x42, Overlay: 0x100, State: "active", Visible: true, Active: true},
		{Window: 0x43, Overlay: 0x101, State: "paused"},
	}
}

func (h *fakeHandler) Monitors() ([]MonitorInfo, error) {
	return nil, errors.New("no display")
}

func startServer(t *testing.T, h Handler) *Client {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bt.sock")
	srv := newServer(path, h)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	c := newClient(path)
	deadline := time.Now().Add(2 * time.Second)
	for c.Ping() != nil {
		if time.Now().After(deadline) {
			t.Fatalf("server did not start")
		}
		time.Sleep(10 * time.Millisecond)
	}
	return c
}

func TestServer_StatusAndBorders(t *testing.T) {
	c := startServer(t, &fakeHandler{})

	status, err := c.GetStatus()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.BorderCount != 3 || status.VisibleCount != 2 || status.ActiveWindow != 0x42 || !status.DaemonRunning {
		t.Fatalf("unexpected status %+v", status)
	}

	borders, err := c.ListBorders()
	if err != nil {
		t.Fatalf("list borders: %v", err)
	}
	if len(borders.Borders) != 2 || borders.Borders[1].State != "paused" {
		t.Fatalf("unexpected borders %+v", borders.Borders)
	}
}

func TestServer_ReloadPropagatesErrors(t *testing.T) {
	h := &fakeHandler{}
	c := startServer(t, h)

	if err := c.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	h.mu.Lock()
	h.reloadErr = errors.New("bad yaml")
	h.mu.Unlock()
	err := c.Reload()
	if err == nil || !strings.Contains(err.Error(), "bad yaml") {
		t.Fatalf("expected reload error, got %v", err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if got := h.reloads; got != 2 {
		t.Fatalf("expected 2 reloads, got %d", got)
	}
}

func TestServer_MonitorErrorAndUnknownCommand(t *testing.T) {
	c := startServer(t, &fakeHandler{})

	if _, err := c.GetMonitors(); err == nil || !strings.Contains(err.Error(), "no display") {
		t.Fatalf("expected monitor error, got %v", err)
	}
	if err := c.request("NOPE", nil); err == nil || !strings.Contains(err.Error(), "Unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestClient_NoDaemon(t *testing.T) {
	c := newClient(filepath.Join(t.TempDir(), "missing.sock"))
	if err := c.Ping(); err == nil || !strings.Contains(err.Error(), "is the daemon running") {
		t.Fatalf("expected connection error, got %v", err)
	}
}
