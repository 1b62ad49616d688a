//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/1broseidon/bordertile/internal/x11"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// Connection exposes the X11 connection for the event source and render device.
func (b *LinuxBackend) Connection() *x11.Connection {
	if b == nil {
		return nil
	}
	return b.conn
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Accent returns the accent color expression from the X resource database.
func (b *LinuxBackend) Accent() (string, bool) {
	return b.conn.Resources().Accent()
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, b.displayFromMonitor(m))
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})
	return displays, nil
}

// ActiveWindow returns the currently active/focused window ID.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	wid, err := conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(wid), nil
}

// ListWindows lists managed normal windows, including hidden ones.
func (b *LinuxBackend) ListWindows() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	clients, err := conn.ClientWindows()
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(clients))
	for _, w := range clients {
		info, err := b.WindowInfo(WindowID(w))
		if err != nil {
			continue
		}
		windows = append(windows, info)
	}
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].ID < windows[j].ID
	})
	return windows, nil
}

// WindowInfo returns metadata and frame geometry for one window.
func (b *LinuxBackend) WindowInfo(windowID WindowID) (Window, error) {
	conn, err := b.connection()
	if err != nil {
		return Window{}, err
	}
	w := xproto.Window(windowID)
	rect, err := b.FrameRect(windowID)
	if err != nil {
		return Window{}, err
	}
	return Window{
		ID:     windowID,
		PID:    conn.WindowPID(w),
		AppID:  conn.WindowClass(w),
		Title:  conn.WindowTitle(w),
		Bounds: rect,
	}, nil
}

// FrameRect returns the window including server-side decorations.
func (b *LinuxBackend) FrameRect(windowID WindowID) (Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, err
	}
	g, err := conn.FrameGeometry(xproto.Window(windowID))
	if err != nil {
		return Rect{}, err
	}
	return rectFromGeometry(g), nil
}

// HasNativeBorder reports whether the window manager draws a frame edge the
// overlay should follow: not fullscreen, not maximized on both axes, shown.
func (b *LinuxBackend) HasNativeBorder(windowID WindowID) bool {
	if b.conn == nil {
		return false
	}
	s := b.conn.State(xproto.Window(windowID))
	if s.Fullscreen || s.Hidden || (s.MaxHorz && s.MaxVert) {
		return false
	}
	return b.IsVisible(windowID)
}

// IsVisible reports whether the window is mapped, not minimized and on the
// current desktop.
func (b *LinuxBackend) IsVisible(windowID WindowID) bool {
	if b.conn == nil {
		return false
	}
	w := xproto.Window(windowID)
	return b.conn.IsMapped(w) && !b.conn.State(w).Hidden && b.conn.OnCurrentDesktop(w)
}

func (b *LinuxBackend) IsMinimized(windowID WindowID) bool {
	if b.conn == nil {
		return false
	}
	w := xproto.Window(windowID)
	return b.conn.State(w).Hidden || b.conn.IsIconic(w)
}

// MonitorFor returns the display containing the window's center.
func (b *LinuxBackend) MonitorFor(windowID WindowID) (Display, error) {
	conn, err := b.connection()
	if err != nil {
		return Display{}, err
	}
	g, err := conn.FrameGeometry(xproto.Window(windowID))
	if err != nil {
		return Display{}, err
	}
	mon, err := conn.MonitorAt(g)
	if err != nil {
		return Display{}, err
	}
	return b.displayFromMonitor(mon), nil
}

// DPIFor returns Xft.dpi. X11 has one resource database, so every window
// shares it.
func (b *LinuxBackend) DPIFor(WindowID) (float64, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	return conn.Resources().DPI(), nil
}

func (b *LinuxBackend) CornerPreference(windowID WindowID) CornerPreference {
	if b.conn == nil {
		return CornerDefault
	}
	w := xproto.Window(windowID)
	s := b.conn.State(w)
	switch {
	case s.MaxHorz || s.MaxVert || s.Fullscreen:
		return CornerDoNotRound
	case b.conn.HasClientSideDecorations(w):
		return CornerRound
	default:
		return CornerDefault
	}
}

func (b *LinuxBackend) CreateOverlay(WindowID) (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	w, err := conn.CreateOverlay()
	return WindowID(w), err
}

func (b *LinuxBackend) PositionOverlay(overlay WindowID, bounds Rect, above WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	g := x11.Geometry{X: bounds.X, Y: bounds.Y, Width: bounds.Width, Height: bounds.Height}
	return conn.PositionOverlay(xproto.Window(overlay), g, xproto.Window(above))
}

func (b *LinuxBackend) ShowOverlay(overlay WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.ShowOverlay(xproto.Window(overlay))
}

func (b *LinuxBackend) HideOverlay(overlay WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.HideOverlay(xproto.Window(overlay))
}

func (b *LinuxBackend) DestroyOverlay(overlay WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.DestroyOverlay(xproto.Window(overlay))
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func (b *LinuxBackend) displayFromMonitor(m x11.Monitor) Display {
	return Display{
		ID:     m.ID,
		Name:   m.Name,
		Bounds: rectFromGeometry(m.Geometry()),
		Usable: rectFromGeometry(b.conn.UsableArea(m)),
	}
}

func rectFromGeometry(g x11.Geometry) Rect {
	return Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
}
