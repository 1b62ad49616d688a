package x11

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// EventKind classifies a client window change.
type EventKind uint8

const (
	EventLocationChange EventKind = iota + 1
	EventReorder
	EventForeground
	EventShow
	EventHide
	EventMinimizeStart
	EventMinimizeEnd
	EventDestroy
)

// Emit receives window events. It runs on the X event loop goroutine and
// must not block.
type Emit func(kind EventKind, window xproto.Window)

// EventSource watches the root window and every managed client and turns X
// notifications into EventKinds.
type EventSource struct {
	conn *Connection
	emit Emit
	log  *slog.Logger

	mu        sync.Mutex
	clients   map[xproto.Window]*clientState
	active    xproto.Window
	stacking  []xproto.Window
	listening bool
}

type clientState struct {
	mapped bool
	hidden bool
}

func NewEventSource(conn *Connection, emit Emit, logger *slog.Logger) *EventSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventSource{
		conn:    conn,
		emit:    emit,
		log:     logger,
		clients: make(map[xproto.Window]*clientState),
	}
}

// Start subscribes to root property changes and to every current client.
// Events are delivered once the connection's EventLoop runs.
func (s *EventSource) Start() error {
	xu := s.conn.XUtil
	if err := xwindow.New(xu, s.conn.Root).Listen(xproto.EventMaskPropertyChange); err != nil {
		return err
	}
	xevent.PropertyNotifyFun(s.onRootProperty).Connect(xu, s.conn.Root)

	s.mu.Lock()
	s.listening = true
	if w, err := s.conn.GetActiveWindow(); err == nil {
		s.active = w
	}
	s.mu.Unlock()

	s.syncClients()
	return nil
}

// Stop detaches every callback registered by Start.
func (s *EventSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.listening {
		return
	}
	s.listening = false
	xevent.Detach(s.conn.XUtil, s.conn.Root)
	for w := range s.clients {
		xevent.Detach(s.conn.XUtil, w)
	}
	clear(s.clients)
}

func (s *EventSource) onRootProperty(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
	name, err := xprop.AtomName(xu, ev.Atom)
	if err != nil {
		return
	}
	switch name {
	case "_NET_ACTIVE_WINDOW":
		w, err := ewmh.ActiveWindowGet(xu)
		if err != nil {
			return
		}
		s.mu.Lock()
		changed := w != s.active
		s.active = w
		s.mu.Unlock()
		if changed {
			s.emit(EventForeground, w)
		}
	case "_NET_CLIENT_LIST":
		s.syncClients()
	case "_NET_CLIENT_LIST_STACKING":
		stacking, err := ewmh.ClientListStackingGet(xu)
		if err != nil {
			return
		}
		s.mu.Lock()
		changed := !slices.Equal(stacking, s.stacking)
		s.stacking = stacking
		s.mu.Unlock()
		if changed {
			s.emit(EventReorder, 0)
		}
	}
}

// syncClients attaches to new clients and reports vanished ones as destroyed.
func (s *EventSource) syncClients() {
	clients, err := s.conn.ClientWindows()
	if err != nil {
		s.log.Debug("could not read client list", "error", err)
		return
	}

	present := make(map[xproto.Window]bool, len(clients))
	var added, removed []xproto.Window

	s.mu.Lock()
	for _, w := range clients {
		present[w] = true
		if _, ok := s.clients[w]; !ok {
			s.clients[w] = &clientState{}
			added = append(added, w)
		}
	}
	for w := range s.clients {
		if !present[w] {
			delete(s.clients, w)
			removed = append(removed, w)
		}
	}
	s.mu.Unlock()

	for _, w := range removed {
		xevent.Detach(s.conn.XUtil, w)
		s.emit(EventDestroy, w)
	}
	for _, w := range added {
		s.attach(w)
	}
}

func (s *EventSource) attach(w xproto.Window) {
	xu := s.conn.XUtil
	if err := xwindow.New(xu, w).Listen(xproto.EventMaskStructureNotify, xproto.EventMaskPropertyChange); err != nil {
		s.log.Debug("could not listen to client", "window", w, "error", err)
		return
	}

	state := s.conn.State(w)
	mapped := s.conn.IsMapped(w)
	s.mu.Lock()
	if cs, ok := s.clients[w]; ok {
		cs.mapped, cs.hidden = mapped, state.Hidden
	}
	s.mu.Unlock()

	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		s.emit(EventLocationChange, w)
	}).Connect(xu, w)
	xevent.MapNotifyFun(func(_ *xgbutil.XUtil, ev xevent.MapNotifyEvent) {
		if s.setMapped(w, true) {
			s.emit(EventShow, w)
		}
	}).Connect(xu, w)
	xevent.UnmapNotifyFun(func(_ *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
		if s.setMapped(w, false) && !s.conn.State(w).Hidden {
			s.emit(EventHide, w)
		}
	}).Connect(xu, w)
	xevent.DestroyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		s.forget(w)
		s.emit(EventDestroy, w)
	}).Connect(xu, w)
	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err != nil || name != "_NET_WM_STATE" {
			return
		}
		s.onStateChange(w)
	}).Connect(xu, w)

	if mapped && !state.Hidden {
		s.emit(EventShow, w)
	}
}

func (s *EventSource) onStateChange(w xproto.Window) {
	hidden := s.conn.State(w).Hidden
	s.mu.Lock()
	cs, ok := s.clients[w]
	changed := ok && cs.hidden != hidden
	if ok {
		cs.hidden = hidden
	}
	s.mu.Unlock()

	switch {
	case changed && hidden:
		s.emit(EventMinimizeStart, w)
	case changed && !hidden:
		s.emit(EventMinimizeEnd, w)
	default:
		// Maximize and fullscreen toggles change the frame and whether a
		// native border is drawn.
		s.emit(EventLocationChange, w)
	}
}

func (s *EventSource) setMapped(w xproto.Window, mapped bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs, ok := s.clients[w]
	if !ok || cs.mapped == mapped {
		return false
	}
	cs.mapped = mapped
	return true
}

func (s *EventSource) forget(w xproto.Window) {
	s.mu.Lock()
	delete(s.clients, w)
	s.mu.Unlock()
	xevent.Detach(s.conn.XUtil, w)
}
