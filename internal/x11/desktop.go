package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// allDesktops is the _NET_WM_DESKTOP value of sticky windows.
const allDesktops = 0xFFFFFFFF

// OnCurrentDesktop reports whether w is shown on the current virtual
// desktop. Without _NET_CURRENT_DESKTOP or _NET_WM_DESKTOP hints every
// window counts as shown, so borders are never hidden on a WM that does not
// publish desktops.
func (c *Connection) OnCurrentDesktop(w xproto.Window) bool {
	current, err := ewmh.CurrentDesktopGet(c.XUtil)
	if err != nil {
		return true
	}
	desktop, err := ewmh.WmDesktopGet(c.XUtil, w)
	if err != nil {
		return true
	}
	return desktop == allDesktops || desktop == current
}
