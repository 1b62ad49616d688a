package border

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/bordertile/internal/platform"
	"github.com/1broseidon/bordertile/internal/registry"
	"github.com/1broseidon/bordertile/internal/render"
	"github.com/1broseidon/bordertile/internal/timer"
)

// WindowSystem is the subset of the platform backend a border drives.
type WindowSystem interface {
	FrameRect(windowID platform.WindowID) (platform.Rect, error)
	HasNativeBorder(windowID platform.WindowID) bool
	IsMinimized(windowID platform.WindowID) bool
	MonitorFor(windowID platform.WindowID) (platform.Display, error)
	DPIFor(windowID platform.WindowID) (float64, error)
	CornerPreference(windowID platform.WindowID) platform.CornerPreference

	CreateOverlay(tracking platform.WindowID) (platform.WindowID, error)
	PositionOverlay(overlay platform.WindowID, bounds platform.Rect, above platform.WindowID) error
	ShowOverlay(overlay platform.WindowID) error
	HideOverlay(overlay platform.WindowID) error
	DestroyOverlay(overlay platform.WindowID) error
}

// Registry maps tracked windows to border handles.
type Registry = registry.Registry[platform.WindowID, *Handle]

// Env carries the process-wide collaborators shared by every border.
type Env struct {
	Windows  WindowSystem
	Device   render.Device
	Timers   *timer.Manager
	Registry *Registry
	Logger   *slog.Logger

	// ActiveWindow returns the focused tracked window.
	ActiveWindow func() platform.WindowID
	// Now defaults to time.Now.
	Now func() time.Time
}

func (e Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Env) activeWindow() platform.WindowID {
	if e.ActiveWindow == nil {
		return 0
	}
	return e.ActiveWindow()
}

func (e Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// sleepCtx waits for d unless ctx ends or stop closes first.
func sleepCtx(ctx context.Context, stop <-chan struct{}, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	case <-stop:
		return false
	}
}
