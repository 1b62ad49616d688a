// Package hook routes window-system events to border actors.
package hook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/1broseidon/bordertile/internal/border"
	"github.com/1broseidon/bordertile/internal/platform"
)

// Kind identifies a window-system event.
type Kind uint8

const (
	LocationChange Kind = iota + 1
	Reorder
	Foreground
	Show
	Uncloak
	Hide
	Cloak
	MinimizeStart
	MinimizeEnd
	Destroy
)

func (k Kind) String() string {
	switch k {
	case LocationChange:
		return "location_change"
	case Reorder:
		return "reorder"
	case Foreground:
		return "foreground"
	case Show:
		return "show"
	case Uncloak:
		return "uncloak"
	case Hide:
		return "hide"
	case Cloak:
		return "cloak"
	case MinimizeStart:
		return "minimize_start"
	case MinimizeEnd:
		return "minimize_end"
	case Destroy:
		return "destroy"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Event is one window-system notification. Window is zero for Reorder.
type Event struct {
	Kind   Kind
	Window platform.WindowID
}

// Borders is the part of the border manager the dispatcher drives.
type Borders interface {
	Lookup(window platform.WindowID) (*border.Handle, bool)
	HasVisibleBorder(window platform.WindowID) bool
	Post(window platform.WindowID, msg border.Message) bool
	PostAllVisible(msg border.Message) int
	CreateBorder(window platform.WindowID, s border.Settings) bool
	SetActiveWindow(window platform.WindowID)
}

// Resolver returns the settings for a window that should get a border. It
// reports false for windows that are not visible top-level clients.
type Resolver func(window platform.WindowID) (border.Settings, bool)

// Dispatcher turns events into border messages.
type Dispatcher struct {
	borders Borders
	resolve Resolver
	log     *slog.Logger
}

func NewDispatcher(borders Borders, resolve Resolver, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{borders: borders, resolve: resolve, log: logger}
}

// Run handles events until ctx ends or events is closed.
func (d *Dispatcher) Run(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-events:
			if !ok {
				return nil
			}
			d.Handle(e)
		}
	}
}

// Handle routes a single event.
func (d *Dispatcher) Handle(e Event) {
	switch e.Kind {
	case LocationChange:
		d.borders.Post(e.Window, border.LocationChange)
	case Reorder:
		d.borders.PostAllVisible(border.Reorder)
	case Foreground:
		d.borders.SetActiveWindow(e.Window)
		d.borders.PostAllVisible(border.Foreground)
		if !d.borders.HasVisibleBorder(e.Window) {
			d.borders.Post(e.Window, border.Foreground)
		}
	case Show, Uncloak:
		d.show(e.Window)
	case Hide, Cloak:
		d.borders.Post(e.Window, border.HideCloaked)
	case MinimizeStart:
		d.borders.Post(e.Window, border.MinimizeStart)
	case MinimizeEnd:
		d.borders.Post(e.Window, border.MinimizeEnd)
	case Destroy:
		d.borders.Post(e.Window, border.Destroy)
	default:
		d.log.Debug("ignoring window event", "kind", e.Kind, "window", e.Window)
	}
}

func (d *Dispatcher) show(window platform.WindowID) {
	if _, ok := d.borders.Lookup(window); ok {
		d.borders.Post(window, border.ShowUncloaked)
		return
	}
	if d.resolve == nil {
		return
	}
	s, ok := d.resolve(window)
	if !ok {
		return
	}
	if d.borders.CreateBorder(window, s) {
		d.log.Debug("created border on show", "window", window)
	}
}
