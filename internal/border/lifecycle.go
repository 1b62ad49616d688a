package border

import (
	"context"
	"errors"
	"log/slog"

	"github.com/looplab/fsm"
)

// Lifecycle states
const (
	StateInitializing = "initializing"
	StateActive       = "active"
	StateHidden       = "hidden"
	StatePaused       = "paused"
	StateTerminal     = "terminal"
)

// Lifecycle events
const (
	eventShow     = "show"
	eventHide     = "hide"
	eventMinimize = "minimize"
	eventDestroy  = "destroy"
)

var live = []string{StateInitializing, StateActive, StateHidden, StatePaused}

func newLifecycle(h *Handle, log *slog.Logger) *fsm.FSM {
	return fsm.NewFSM(
		StateInitializing,
		fsm.Events{
			{Name: eventShow, Src: live, Dst: StateActive},
			{Name: eventHide, Src: live, Dst: StateHidden},
			{Name: eventMinimize, Src: live, Dst: StatePaused},
			{Name: eventDestroy, Src: live, Dst: StateTerminal},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				h.state.Store(e.Dst)
				log.Debug("border state", "from", e.Src, "to", e.Dst, "trigger", e.Event)
			},
		},
	)
}

// transition fires event, treating a self-transition as success.
func (b *Border) transition(event string) {
	err := b.lifecycle.Event(context.Background(), event)
	if err == nil {
		return
	}
	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return
	}
	b.log.Debug("ignored lifecycle event", "event", event, "state", b.lifecycle.Current(), "error", err)
}
