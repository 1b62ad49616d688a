package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

const overlayName = "bordertile overlay"

// CreateOverlay creates an unmapped, override-redirect, click-through window
// used to draw the border of one tracked window.
func (c *Connection) CreateOverlay() (xproto.Window, error) {
	conn := c.XUtil.Conn()
	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, fmt.Errorf("allocate overlay id: %w", err)
	}

	mask := uint32(xproto.CwBackPixel | xproto.CwBorderPixel | xproto.CwOverrideRedirect | xproto.CwColormap)
	values := []uint32{0, 0, 1, uint32(c.colormap)}
	err = xproto.CreateWindowChecked(conn, c.depth, wid, c.Root,
		0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput, c.visual,
		mask, values).Check()
	if err != nil {
		return 0, fmt.Errorf("create overlay window: %w", err)
	}

	if c.shape {
		// An empty input region lets pointer events fall through.
		err = shape.RectanglesChecked(conn, shape.SoSet, shape.SkInput, xproto.ClipOrderingUnsorted, wid, 0, 0, nil).Check()
		if err != nil {
			_ = xproto.DestroyWindowChecked(conn, wid).Check()
			return 0, fmt.Errorf("clear overlay input shape: %w", err)
		}
	}
	_ = ewmh.WmNameSet(c.XUtil, wid, overlayName)
	return wid, nil
}

// PositionOverlay moves and resizes the overlay and stacks it directly above
// the top-level frame of tracked.
func (c *Connection) PositionOverlay(overlay xproto.Window, g Geometry, tracked xproto.Window) error {
	conn := c.XUtil.Conn()
	geom := []uint32{
		uint32(int32(g.X)),
		uint32(int32(g.Y)),
		uint32(max(g.Width, 1)),
		uint32(max(g.Height, 1)),
	}
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)

	if sibling, err := c.topLevel(tracked); err == nil {
		err = xproto.ConfigureWindowChecked(conn, overlay,
			mask|xproto.ConfigWindowSibling|xproto.ConfigWindowStackMode,
			append(geom, uint32(sibling), xproto.StackModeAbove)).Check()
		if err == nil {
			return nil
		}
	}

	// The frame is not a sibling (or vanished); fall back to raising.
	err := xproto.ConfigureWindowChecked(conn, overlay,
		mask|xproto.ConfigWindowStackMode,
		append(geom, xproto.StackModeAbove)).Check()
	if err != nil {
		return fmt.Errorf("configure overlay 0x%x: %w", overlay, err)
	}
	return nil
}

// topLevel walks up from w to the child of the root that contains it, which
// is the window manager frame for reparented clients.
func (c *Connection) topLevel(w xproto.Window) (xproto.Window, error) {
	conn := c.XUtil.Conn()
	for {
		tree, err := xproto.QueryTree(conn, w).Reply()
		if err != nil {
			return 0, err
		}
		if tree.Parent == c.Root || tree.Parent == 0 {
			return w, nil
		}
		w = tree.Parent
	}
}

func (c *Connection) ShowOverlay(overlay xproto.Window) error {
	if err := xproto.MapWindowChecked(c.XUtil.Conn(), overlay).Check(); err != nil {
		return fmt.Errorf("map overlay 0x%x: %w", overlay, err)
	}
	return nil
}

func (c *Connection) HideOverlay(overlay xproto.Window) error {
	if err := xproto.UnmapWindowChecked(c.XUtil.Conn(), overlay).Check(); err != nil {
		return fmt.Errorf("unmap overlay 0x%x: %w", overlay, err)
	}
	return nil
}

func (c *Connection) DestroyOverlay(overlay xproto.Window) error {
	if err := xproto.DestroyWindowChecked(c.XUtil.Conn(), overlay).Check(); err != nil {
		return fmt.Errorf("destroy overlay 0x%x: %w", overlay, err)
	}
	return nil
}
