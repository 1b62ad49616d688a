package x11

import (
	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	// visual and depth used for overlay windows. ARGB when the screen
	// offers a 32-bit TrueColor visual, the root visual otherwise.
	visual   xproto.Visualid
	depth    byte
	colormap xproto.Colormap
	argb     bool
	shape    bool
}

// NewConnection establishes a connection to the X11 server and initializes required extensions
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	// Initialize keybind module (required for global hotkeys)
	keybind.Initialize(xu)

	c := &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}
	c.shape = shape.Init(xu.Conn()) == nil
	c.setupVisual()
	return c, nil
}

func (c *Connection) setupVisual() {
	screen := c.XUtil.Screen()
	c.visual = screen.RootVisual
	c.depth = screen.RootDepth
	c.colormap = screen.DefaultColormap

	for _, d := range screen.AllowedDepths {
		if d.Depth != 32 {
			continue
		}
		for _, v := range d.Visuals {
			if v.Class != xproto.VisualClassTrueColor {
				continue
			}
			cmap, err := xproto.NewColormapId(c.XUtil.Conn())
			if err != nil {
				return
			}
			if err := xproto.CreateColormapChecked(c.XUtil.Conn(), xproto.ColormapAllocNone, cmap, c.Root, v.VisualId).Check(); err != nil {
				return
			}
			c.visual, c.depth, c.colormap, c.argb = v.VisualId, 32, cmap, true
			return
		}
	}
}

// HasAlpha reports whether overlays use a 32-bit ARGB visual.
func (c *Connection) HasAlpha() bool { return c.argb }

// EventLoop starts the main X11 event loop (blocking)
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Quit stops EventLoop.
func (c *Connection) Quit() {
	xevent.Quit(c.XUtil)
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
