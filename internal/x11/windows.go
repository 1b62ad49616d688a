package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Geometry is a window rectangle in root coordinates.
type Geometry struct {
	X, Y          int
	Width, Height int
}

// WindowState is the subset of _NET_WM_STATE bordertile cares about.
type WindowState struct {
	Hidden     bool
	Fullscreen bool
	MaxHorz    bool
	MaxVert    bool
}

// ClientWindows returns the managed normal windows in _NET_CLIENT_LIST order.
func (c *Connection) ClientWindows() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}
	out := clients[:0]
	for _, w := range clients {
		if c.IsNormalWindow(w) {
			out = append(out, w)
		}
	}
	return out, nil
}

// ClientGeometry returns the client area translated to root coordinates.
func (c *Connection) ClientGeometry(windowID xproto.Window) (Geometry, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Geometry{}, fmt.Errorf("get geometry of 0x%x: %w", windowID, err)
	}
	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return Geometry{}, fmt.Errorf("translate coordinates of 0x%x: %w", windowID, err)
	}
	return Geometry{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// FrameGeometry returns the client area grown by _NET_FRAME_EXTENTS, i.e. the
// window as the user sees it including server-side decorations.
func (c *Connection) FrameGeometry(windowID xproto.Window) (Geometry, error) {
	g, err := c.ClientGeometry(windowID)
	if err != nil {
		return Geometry{}, err
	}
	left, right, top, bottom := c.GetFrameExtents(windowID)
	return Geometry{
		X:      g.X - left,
		Y:      g.Y - top,
		Width:  g.Width + left + right,
		Height: g.Height + top + bottom,
	}, nil
}

// GetFrameExtents returns the window decoration sizes (if available)
func (c *Connection) GetFrameExtents(windowID xproto.Window) (left, right, top, bottom int) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		return 0, 0, 0, 0
	}
	return int(extents.Left), int(extents.Right), int(extents.Top), int(extents.Bottom)
}

// HasClientSideDecorations reports whether the client draws its own frame,
// signalled by _GTK_FRAME_EXTENTS.
func (c *Connection) HasClientSideDecorations(windowID xproto.Window) bool {
	reply, err := xprop.GetProperty(c.XUtil, windowID, "_GTK_FRAME_EXTENTS")
	return err == nil && reply != nil && reply.ValueLen > 0
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION",
			"_NET_WM_WINDOW_TYPE_TOOLTIP",
			"_NET_WM_WINDOW_TYPE_MENU",
			"_NET_WM_WINDOW_TYPE_POPUP_MENU",
			"_NET_WM_WINDOW_TYPE_DROPDOWN_MENU":
			return false
		}
	}
	return len(types) == 0
}

// State reads _NET_WM_STATE.
func (c *Connection) State(windowID xproto.Window) WindowState {
	var s WindowState
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return s
	}
	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_HIDDEN":
			s.Hidden = true
		case "_NET_WM_STATE_FULLSCREEN":
			s.Fullscreen = true
		case "_NET_WM_STATE_MAXIMIZED_HORZ":
			s.MaxHorz = true
		case "_NET_WM_STATE_MAXIMIZED_VERT":
			s.MaxVert = true
		}
	}
	return s
}

// IsMapped reports whether the window is currently viewable.
func (c *Connection) IsMapped(windowID xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	return err == nil && attrs.MapState == xproto.MapStateViewable
}

// IsIconic reports ICCCM iconic state, the fallback for window managers that
// do not set _NET_WM_STATE_HIDDEN.
func (c *Connection) IsIconic(windowID xproto.Window) bool {
	state, err := icccm.WmStateGet(c.XUtil, windowID)
	return err == nil && state.State == icccm.StateIconic
}

func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// WindowPID returns _NET_WM_PID, or 0 when unset.
func (c *Connection) WindowPID(windowID xproto.Window) int {
	pid, err := ewmh.WmPidGet(c.XUtil, windowID)
	if err != nil {
		return 0
	}
	return int(pid)
}

// WindowClass returns the WM_CLASS class part.
func (c *Connection) WindowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

// WindowTitle prefers _NET_WM_NAME and falls back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}
