package border

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/1broseidon/bordertile/internal/platform"
)

// Message is a request delivered to a border's inbox.
type Message uint8

const (
	LocationChange Message = iota + 1
	Reorder
	Foreground
	ShowUncloaked
	HideCloaked
	MinimizeStart
	MinimizeEnd
	AnimationTick
	Destroy
)

func (m Message) String() string {
	switch m {
	case LocationChange:
		return "location_change"
	case Reorder:
		return "reorder"
	case Foreground:
		return "foreground"
	case ShowUncloaked:
		return "show_uncloaked"
	case HideCloaked:
		return "hide_cloaked"
	case MinimizeStart:
		return "minimize_start"
	case MinimizeEnd:
		return "minimize_end"
	case AnimationTick:
		return "animation_tick"
	case Destroy:
		return "destroy"
	default:
		return fmt.Sprintf("message(%d)", uint8(m))
	}
}

const inboxSize = 256

// timerSeq hands every handle its own animation timer id, so a border that
// replaces a slow-dying one for the same window never shares its timer.
var timerSeq atomic.Uint32

// Handle is the only way other goroutines reach a border. It carries the
// inbox and a few read-only status bits the border publishes.
type Handle struct {
	window platform.WindowID
	timer  uint32

	inbox     chan Message
	destroy   chan struct{}
	destroyed sync.Once
	done      chan struct{}
	finished  sync.Once

	visible atomic.Bool
	state   atomic.Value
	overlay atomic.Uint32
}

func newHandle(window platform.WindowID) *Handle {
	h := &Handle{
		window:  window,
		timer:   timerSeq.Add(1),
		inbox:   make(chan Message, inboxSize),
		destroy: make(chan struct{}),
		done:    make(chan struct{}),
	}
	h.state.Store(StateInitializing)
	return h
}

// Window is the tracked window this border decorates.
func (h *Handle) Window() platform.WindowID { return h.window }

// Overlay is the overlay window id, zero until created.
func (h *Handle) Overlay() platform.WindowID { return platform.WindowID(h.overlay.Load()) }

// Visible reports whether the overlay is currently mapped.
func (h *Handle) Visible() bool { return h.visible.Load() }

// State is the border's lifecycle state name.
func (h *Handle) State() string { return h.state.Load().(string) }

// Post queues msg without blocking. It reports false when the border is gone
// or its inbox is full. Destroy is delivered out of band and always succeeds.
func (h *Handle) Post(msg Message) bool {
	if msg == Destroy {
		h.Destroy()
		return true
	}
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.inbox <- msg:
		return true
	default:
		return false
	}
}

// Destroy asks the border to tear itself down. Safe to call repeatedly.
func (h *Handle) Destroy() {
	h.destroyed.Do(func() { close(h.destroy) })
}

// Done is closed once the border has released its overlay and left the registry.
func (h *Handle) Done() <-chan struct{} { return h.done }

func (h *Handle) finish() {
	h.finished.Do(func() { close(h.done) })
}
