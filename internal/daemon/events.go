package daemon

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/bordertile/internal/hook"
	"github.com/1broseidon/bordertile/internal/platform"
	"github.com/1broseidon/bordertile/internal/x11"
)

// eventBuffer bounds the queue between the X event loop and the dispatcher.
const eventBuffer = 256

func translate(kind x11.EventKind) (hook.Kind, bool) {
	switch kind {
	case x11.EventLocationChange:
		return hook.LocationChange, true
	case x11.EventReorder:
		return hook.Reorder, true
	case x11.EventForeground:
		return hook.Foreground, true
	case x11.EventShow:
		return hook.Show, true
	case x11.EventHide:
		return hook.Hide, true
	case x11.EventMinimizeStart:
		return hook.MinimizeStart, true
	case x11.EventMinimizeEnd:
		return hook.MinimizeEnd, true
	case x11.EventDestroy:
		return hook.Destroy, true
	default:
		return 0, false
	}
}

// emitX11 is the x11.Emit callback. It runs on the X event loop.
func (d *Daemon) emitX11(kind x11.EventKind, window xproto.Window) {
	k, ok := translate(kind)
	if !ok {
		d.log.Debug("untranslated x11 event", "kind", kind, "window", window)
		return
	}
	d.emit(hook.Event{Kind: k, Window: platform.WindowID(window)})
}

// emit queues e without blocking. Dropped events are repaired by the
// reconciler on its next pass.
func (d *Daemon) emit(e hook.Event) {
	select {
	case d.events <- e:
	default:
		if n := d.dropped.Add(1); n == 1 || n%100 == 0 {
			d.log.Warn("event queue full, dropping events", "kind", e.Kind, "dropped", n)
		}
	}
}
