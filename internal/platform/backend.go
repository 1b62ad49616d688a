package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Expand grows the rect by n pixels on every side.
func (r Rect) Expand(n int) Rect {
	return Rect{X: r.X - n, Y: r.Y - n, Width: r.Width + 2*n, Height: r.Height + 2*n}
}

// Visible reports whether the rect has a positive area. Workspace switches
// briefly report degenerate geometry for windows that are not on screen.
func (r Rect) Visible() bool {
	return r.Width > 0 && r.Height > 0
}

func (r Rect) SameSize(o Rect) bool {
	return r.Width == o.Width && r.Height == o.Height
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID     WindowID
	PID    int
	AppID  string
	Title  string
	Bounds Rect
}

// CornerPreference is the window's preferred corner rounding, consulted when
// a border's style is auto.
type CornerPreference int

const (
	CornerDefault CornerPreference = iota
	CornerDoNotRound
	CornerRound
	CornerRoundSmall
)

func (c CornerPreference) String() string {
	switch c {
	case CornerDoNotRound:
		return "donotround"
	case CornerRound:
		return "round"
	case CornerRoundSmall:
		return "roundsmall"
	default:
		return "default"
	}
}

// Backend abstracts window-system operations the border daemon needs.
type Backend interface {
	Displays() ([]Display, error)
	ActiveWindow() (WindowID, error)
	ListWindows() ([]Window, error)
	WindowInfo(windowID WindowID) (Window, error)

	// FrameRect returns the window's outer frame including decorations.
	FrameRect(windowID WindowID) (Rect, error)
	HasNativeBorder(windowID WindowID) bool
	IsVisible(windowID WindowID) bool
	IsMinimized(windowID WindowID) bool
	MonitorFor(windowID WindowID) (Display, error)
	DPIFor(windowID WindowID) (float64, error)
	CornerPreference(windowID WindowID) CornerPreference

	CreateOverlay(tracking WindowID) (WindowID, error)
	PositionOverlay(overlay WindowID, bounds Rect, above WindowID) error
	ShowOverlay(overlay WindowID) error
	HideOverlay(overlay WindowID) error
	DestroyOverlay(overlay WindowID) error
}
