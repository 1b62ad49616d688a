package hotkeys

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/bordertile/internal/config"
	"github.com/1broseidon/bordertile/internal/platform"
)

// Actions are the daemon operations reachable from the keyboard.
type Actions interface {
	Reload() error
	OpenConfig() error
	Exit()
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	actions Actions

	mu     sync.Mutex
	active bool
}

type binding struct {
	name     string
	sequence string
	run      func()
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend platform.Backend, actions Actions) *Handler {
	var xu *xgbutil.XUtil
	var root xproto.Window
	if accessor, ok := backend.(x11Accessor); ok {
		xu = accessor.XUtil()
		root = accessor.RootWindow()
	}

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:      xu,
		root:    root,
		actions: actions,
	}
}

// Apply replaces every registered shortcut with those in kb. Failed
// registrations are logged and skipped.
func (h *Handler) Apply(kb config.Keybindings) error {
	if h.xu == nil {
		return fmt.Errorf("hotkeys need an X11 backend")
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.active {
		keybind.Detach(h.xu, h.root)
		h.active = false
	}

	var failed []string
	for _, b := range bindingsFor(kb, h.actions) {
		if err := h.RegisterFunc(b.sequence, b.run); err != nil {
			log.Printf("Failed to register %s hotkey %q: %v", b.name, b.sequence, err)
			failed = append(failed, b.name)
			continue
		}
		h.active = true
		log.Printf("Registered %s hotkey: %s", b.name, b.sequence)
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to register hotkeys: %s", strings.Join(failed, ", "))
	}
	return nil
}

// bindingsFor lists the configured shortcuts; empty sequences are disabled.
func bindingsFor(kb config.Keybindings, actions Actions) []binding {
	all := []binding{
		{name: "reload", sequence: kb.Reload, run: func() {
			log.Println("Reload hotkey triggered")
			if err := actions.Reload(); err != nil {
				log.Printf("Reload failed: %v", err)
			}
		}},
		{name: "open_config", sequence: kb.OpenConfig, run: func() {
			if err := actions.OpenConfig(); err != nil {
				log.Printf("Failed to open config: %v", err)
			}
		}},
		{name: "exit", sequence: kb.Exit, run: func() {
			log.Println("Exit hotkey triggered")
			actions.Exit()
		}},
	}
	out := all[:0]
	for _, b := range all {
		if strings.TrimSpace(b.sequence) != "" {
			out = append(out, b)
		}
	}
	return out
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	if xu == nil {
		return
	}
	xevent.IgnoreMods = ignoreMasks(
		modMaskForKeysym(xu, "Num_Lock"),
		modMaskForKeysym(xu, "Scroll_Lock"),
	)
}

// ignoreMasks returns every combination of CapsLock, NumLock and ScrollLock
// so that shortcuts fire regardless of lock state.
func ignoreMasks(numLock, scrollLock uint16) []uint16 {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	ignore := []uint16{0}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		ignore = append(ignore, mask)
	}
	return ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
