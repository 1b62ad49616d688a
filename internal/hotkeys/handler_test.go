package hotkeys

import (
	"errors"
	"slices"
	"testing"

	"github.com/1broseidon/bordertile/internal/config"
)

type fakeActions struct {
	reloads, opens, exits int
}

func (a *fakeActions) Reload() error     { a.reloads++; return nil }
func (a *fakeActions) OpenConfig() error { a.opens++; return errors.New("no xdg-open") }
func (a *fakeActions) Exit()             { a.exits++ }

func TestBindingsFor_SkipsEmptySequences(t *testing.T) {
	actions := &fakeActions{}
	got := bindingsFor(config.Keybindings{Reload: "Mod4-b", OpenConfig: "  ", Exit: "Mod4-Shift-q"}, actions)
	if len(got) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(got))
	}
	if got[0].name != "reload" || got[1].name != "exit" {
		t.Fatalf("unexpected bindings %q %q", got[0].name, got[1].name)
	}

	for _, b := range got {
		b.run()
	}
	if actions.reloads != 1 || actions.exits != 1 || actions.opens != 0 {
		t.Fatalf("unexpected calls %+v", actions)
	}
}

func TestBindingsFor_OpenConfigErrorIsContained(t *testing.T) {
	actions := &fakeActions{}
	got := bindingsFor(config.Keybindings{OpenConfig: "Mod4-o"}, actions)
	if len(got) != 1 {
		t.Fatalf("expected 1 binding, got %d", len(got))
	}
	got[0].run()
	if actions.opens != 1 {
		t.Fatalf("expected open_config to run once, got %d", actions.opens)
	}
}

func TestIgnoreMasks_AllLockCombinations(t *testing.T) {
	const numLock, scrollLock = 1 << 4, 1 << 5
	got := ignoreMasks(numLock, scrollLock)
	if len(got) != 8 {
		t.Fatalf("expected 8 masks, got %d: %v", len(got), got)
	}
	for _, want := range []uint16{0, 2, numLock, 2 | numLock | scrollLock} {
		if !slices.Contains(got, want) {
			t.Fatalf("expected mask %d in %v", want, got)
		}
	}

	if got := ignoreMasks(0, 0); len(got) != 2 {
		t.Fatalf("expected caps only masks, got %v", got)
	}
}
