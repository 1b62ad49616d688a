package border

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/1broseidon/bordertile/internal/platform"
	"github.com/1broseidon/bordertile/internal/registry"
	"github.com/1broseidon/bordertile/internal/render"
	"github.com/1broseidon/bordertile/internal/timer"
)

// Manager owns every live border. Each border runs as a service under one
// supervisor and is reached through the registry.
type Manager struct {
	env      Env
	registry *Registry
	sup      *suture.Supervisor
	log      *slog.Logger
	active   atomic.Uint32
}

// NewManager wires a manager over the given window system and render device.
func NewManager(windows WindowSystem, device render.Device, timers *timer.Manager, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		registry: registry.New[platform.WindowID, *Handle](),
		log:      logger,
	}
	m.env = Env{
		Windows:      windows,
		Device:       device,
		Timers:       timers,
		Registry:     m.registry,
		Logger:       logger,
		ActiveWindow: m.ActiveWindow,
	}
	m.sup = suture.New("borders", suture.Spec{
		EventHook: func(e suture.Event) {
			logger.Debug("border supervisor event", "event", e.String())
		},
	})
	return m
}

// Serve runs the border supervisor until ctx ends.
func (m *Manager) Serve(ctx context.Context) error {
	return m.sup.Serve(ctx)
}

// SetActiveWindow records the focused window borders compare against.
func (m *Manager) SetActiveWindow(id platform.WindowID) {
	m.active.Store(uint32(id))
}

// ActiveWindow returns the last recorded focused window.
func (m *Manager) ActiveWindow() platform.WindowID {
	return platform.WindowID(m.active.Load())
}

// CreateBorder starts a border for window unless one exists or the settings
// disable it. It reports whether a border was started.
func (m *Manager) CreateBorder(window platform.WindowID, s Settings) bool {
	if !s.Enabled || window == 0 {
		return false
	}
	h := newHandle(window)
	if !m.registry.Insert(window, h) {
		return false
	}
	m.sup.Add(newBorder(m.env, window, s, h))
	m.log.Debug("border created", "window", window)
	return true
}

// DestroyBorder asks the border for window to tear down. It reports whether
// one was registered.
func (m *Manager) DestroyBorder(window platform.WindowID) bool {
	h, ok := m.registry.Lookup(window)
	if !ok {
		return false
	}
	h.Destroy()
	return true
}

// Lookup returns the handle for window.
func (m *Manager) Lookup(window platform.WindowID) (*Handle, bool) {
	return m.registry.Lookup(window)
}

// Post delivers msg to the border for window, if any.
func (m *Manager) Post(window platform.WindowID, msg Message) bool {
	h, ok := m.registry.Lookup(window)
	if !ok {
		return false
	}
	return h.Post(msg)
}

// PostAllVisible delivers msg to every border whose overlay is mapped.
func (m *Manager) PostAllVisible(msg Message) int {
	n := 0
	for _, e := range m.registry.Snapshot() {
		if e.Value.Visible() && e.Value.Post(msg) {
			n++
		}
	}
	return n
}

// HasVisibleBorder reports whether window has a border whose overlay is mapped.
func (m *Manager) HasVisibleBorder(window platform.WindowID) bool {
	h, ok := m.registry.Lookup(window)
	return ok && h.Visible()
}

// Snapshot returns the live handles.
func (m *Manager) Snapshot() []*Handle {
	entries := m.registry.Snapshot()
	out := make([]*Handle, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Value)
	}
	return out
}

// Tracked returns the windows that currently have a border.
func (m *Manager) Tracked() []platform.WindowID {
	entries := m.registry.Snapshot()
	out := make([]platform.WindowID, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Key)
	}
	return out
}

// Len is the number of live borders.
func (m *Manager) Len() int { return m.registry.Len() }

// DestroyAll destroys every border and waits up to timeout for them to
// release their overlays. It returns how many were still running.
func (m *Manager) DestroyAll(timeout time.Duration) int {
	handles := m.Snapshot()
	for _, h := range handles {
		h.Destroy()
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for i, h := range handles {
		select {
		case <-h.Done():
		case <-deadline.C:
			return pending(handles[i:])
		}
	}
	return 0
}

func pending(handles []*Handle) int {
	n := 0
	for _, h := range handles {
		select {
		case <-h.Done():
		default:
			n++
		}
	}
	return n
}
