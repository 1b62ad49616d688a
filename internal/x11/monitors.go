package x11

import (
	"fmt"
	"image"
	"slices"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor is an active RandR CRTC.
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

func (m Monitor) Geometry() Geometry {
	return Geometry{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
}

func (m Monitor) rect() image.Rectangle {
	return image.Rect(m.X, m.Y, m.X+m.Width, m.Y+m.Height)
}

func geometryOf(r image.Rectangle) Geometry {
	return Geometry{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// GetMonitors lists the enabled CRTCs, named after their first output.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	xc := c.XUtil.Conn()
	if err := randr.Init(xc); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	res, err := randr.GetScreenResources(xc, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(xc, crtc, res.ConfigTimestamp).Reply()
		if err != nil || info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}
		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(xc, info.Outputs[0], res.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}
		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   name,
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}
	return monitors, nil
}

// MonitorAt returns the monitor containing the center of g, falling back to
// the monitor under the pointer and then the first monitor.
func (c *Connection) MonitorAt(g Geometry) (Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return Monitor{}, err
	}
	if len(monitors) == 0 {
		return Monitor{}, fmt.Errorf("no monitors found")
	}

	center := image.Pt(g.X+g.Width/2, g.Y+g.Height/2)
	if i := monitorIndex(monitors, center); i >= 0 {
		return monitors[i], nil
	}
	if p, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		if i := monitorIndex(monitors, image.Pt(int(p.RootX), int(p.RootY))); i >= 0 {
			return monitors[i], nil
		}
	}
	return monitors[0], nil
}

func monitorIndex(monitors []Monitor, p image.Point) int {
	return slices.IndexFunc(monitors, func(m Monitor) bool { return p.In(m.rect()) })
}

// UsableArea returns mon minus the space reserved by dock struts. When no
// dock reserves space the _NET_WORKAREA of the current desktop is used.
func (c *Connection) UsableArea(mon Monitor) Geometry {
	if area, ok := c.strutArea(mon.rect()); ok {
		return geometryOf(area)
	}

	workAreas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workAreas) == 0 {
		return mon.Geometry()
	}
	desktop := 0
	if d, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(d) < len(workAreas) {
		desktop = int(d)
	}
	wa := workAreas[desktop]
	area := mon.rect().Intersect(image.Rect(int(wa.X), int(wa.Y), int(wa.X)+int(wa.Width), int(wa.Y)+int(wa.Height)))
	if area.Empty() {
		return mon.Geometry()
	}
	return geometryOf(area)
}

// strutArea shrinks mon by the struts of every dock window. ok is false when
// no dock overlaps mon.
func (c *Connection) strutArea(mon image.Rectangle) (image.Rectangle, bool) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return mon, false
	}
	root := image.Pt(int(rootGeom.Width), int(rootGeom.Height))

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return mon, false
	}

	var struts []ewmh.WmStrutPartial
	for _, w := range clients {
		types, err := ewmh.WmWindowTypeGet(c.XUtil, w)
		if err != nil || !slices.Contains(types, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, w); err == nil {
			struts = append(struts, *sp)
		} else if s, err := ewmh.WmStrutGet(c.XUtil, w); err == nil {
			struts = append(struts, fullStrut(s, root))
		}
	}
	return shrinkByStruts(mon, root, struts)
}

// fullStrut expands a legacy _NET_WM_STRUT to span the whole root edge.
func fullStrut(s *ewmh.WmStrut, root image.Point) ewmh.WmStrutPartial {
	w, h := uint(root.X-1), uint(root.Y-1)
	return ewmh.WmStrutPartial{
		Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
		LeftEndY: h, RightEndY: h, TopEndX: w, BottomEndX: w,
	}
}

// shrinkByStruts removes from mon the deepest overlap of each edge's
// reserved strip. Strut ranges are inclusive.
func shrinkByStruts(mon image.Rectangle, root image.Point, struts []ewmh.WmStrutPartial) (image.Rectangle, bool) {
	var left, right, top, bottom int
	depth := func(strip image.Rectangle, vertical bool) int {
		if strip.Empty() {
			return 0
		}
		isect := mon.Intersect(strip)
		if vertical {
			return isect.Dy()
		}
		return isect.Dx()
	}

	for _, sp := range struts {
		top = max(top, depth(image.Rect(int(sp.TopStartX), 0, int(sp.TopEndX)+1, int(sp.Top)), true))
		bottom = max(bottom, depth(image.Rect(int(sp.BottomStartX), root.Y-int(sp.Bottom), int(sp.BottomEndX)+1, root.Y), true))
		left = max(left, depth(image.Rect(0, int(sp.LeftStartY), int(sp.Left), int(sp.LeftEndY)+1), false))
		right = max(right, depth(image.Rect(root.X-int(sp.Right), int(sp.RightStartY), root.X, int(sp.RightEndY)+1), false))
	}
	if left == 0 && right == 0 && top == 0 && bottom == 0 {
		return mon, false
	}

	out := image.Rectangle{
		Min: image.Pt(mon.Min.X+left, mon.Min.Y+top),
		Max: image.Pt(mon.Max.X-right, mon.Max.Y-bottom),
	}
	out.Max.X = max(out.Max.X, out.Min.X+1)
	out.Max.Y = max(out.Max.Y, out.Min.Y+1)
	return out, true
}
