package daemon

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/bordertile/internal/border"
	"github.com/1broseidon/bordertile/internal/config"
	"github.com/1broseidon/bordertile/internal/hook"
	"github.com/1broseidon/bordertile/internal/platform"
	"github.com/1broseidon/bordertile/internal/render"
	"github.com/1broseidon/bordertile/internal/x11"
)

type fakeBackend struct {
	mu        sync.Mutex
	windows   map[platform.WindowID]platform.Window
	hidden    map[platform.WindowID]bool
	active    platform.WindowID
	nextID    platform.WindowID
	destroyed int
	listErr   error
}

func newFakeBackend(windows ...platform.Window) *fakeBackend {
	b := &fakeBackend{
		windows: make(map[platform.WindowID]platform.Window),
		hidden:  make(map[platform.WindowID]bool),
		nextID:  0x900,
	}
	for _, w := range windows {
		b.windows[w.ID] = w
	}
	return b
}

func (b *fakeBackend) remove(id platform.WindowID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.windows, id)
}

func (b *fakeBackend) Displays() ([]platform.Display, error) {
	return []platform.Display{{
		ID:     0,
		Name:   "DP-1",
		Bounds: platform.Rect{Width: 2560, Height: 1440},
		Usable: platform.Rect{Y: 32, Width: 2560, Height: 1408},
	}}, nil
}

func (b *fakeBackend) ActiveWindow() (platform.WindowID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active, nil
}

func (b *fakeBackend) ListWindows() ([]platform.Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listErr != nil {
		return nil, b.listErr
	}
	out := make([]platform.Window, 0, len(b.windows))
	for _, w := range b.windows {
		out = append(out, w)
	}
	return out, nil
}

func (b *fakeBackend) WindowInfo(id platform.WindowID) (platform.Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[id]
	if !ok {
		return platform.Window{}, errors.New("no such window")
	}
	return w, nil
}

func (b *fakeBackend) FrameRect(id platform.WindowID) (platform.Rect, error) {
	w, err := b.WindowInfo(id)
	return w.Bounds, err
}

func (b *fakeBackend) HasNativeBorder(platform.WindowID) bool { return true }

func (b *fakeBackend) IsVisible(id platform.WindowID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.windows[id]
	return ok && !b.hidden[id]
}

func (b *fakeBackend) IsMinimized(platform.WindowID) bool { return false }

func (b *fakeBackend) MonitorFor(platform.WindowID) (platform.Display, error) {
	return platform.Display{Name: "DP-1", Bounds: platform.Rect{Width: 2560, Height: 1440}}, nil
}

func (b *fakeBackend) DPIFor(platform.WindowID) (float64, error) { return 96, nil }

func (b *fakeBackend) CornerPreference(platform.WindowID) platform.CornerPreference {
	return platform.CornerDefault
}

func (b *fakeBackend) CreateOverlay(platform.WindowID) (platform.WindowID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	return b.nextID, nil
}

func (b *fakeBackend) PositionOverlay(platform.WindowID, platform.Rect, platform.WindowID) error {
	return nil
}

func (b *fakeBackend) ShowOverlay(platform.WindowID) error { return nil }
func (b *fakeBackend) HideOverlay(platform.WindowID) error { return nil }

func (b *fakeBackend) DestroyOverlay(platform.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.destroyed++
	return nil
}

type fakeSurface struct{}

func (fakeSurface) Resize(int, int) error                      { return nil }
func (fakeSurface) Present(*image.RGBA, image.Rectangle) error { return nil }
func (fakeSurface) Release() error                             { return nil }

type fakeDevice struct{}

func (fakeDevice) NewSurface(uint32, int, int) (render.Surface, error) { return fakeSurface{}, nil }

func window(id platform.WindowID, class string) platform.Window {
	return platform.Window{
		ID:     id,
		AppID:  class,
		Title:  class + " window",
		Bounds: platform.Rect{X: 10, Y: 10, Width: 300, Height: 200},
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func loadConfig(t *testing.T, path string) *config.LoadResult {
	t.Helper()
	res, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return res
}

func startDaemon(t *testing.T, b *fakeBackend, path string) *Daemon {
	t.Helper()
	d := newDaemon(b, fakeDevice{}, loadConfig(t, path), Options{ReconcileInterval: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	done := d.startServices(ctx)
	t.Cleanup(func() {
		cancel()
		d.manager.DestroyAll(time.Second)
		<-done
		d.timers.StopAll()
	})
	return d
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

const disableTerminals = `
global:
  initialize_delay: 0
window_rules:
  - match: {kind: class, value: terminal}
    enabled: false
`

func TestCreateExisting_SkipsDisabledAndHiddenWindows(t *testing.T) {
	b := newFakeBackend(window(1, "firefox"), window(2, "terminal"), window(3, "code"))
	b.hidden[3] = true
	d := startDaemon(t, b, writeConfig(t, disableTerminals))

	if n := d.createExisting(); n != 1 {
		t.Fatalf("expected 1 border, got %d", n)
	}
	if _, ok := d.manager.Lookup(1); !ok {
		t.Fatalf("expected border for firefox")
	}
	if _, ok := d.manager.Lookup(2); ok {
		t.Fatalf("expected no border for disabled class")
	}
	if _, ok := d.manager.Lookup(3); ok {
		t.Fatalf("expected no border for hidden window")
	}
}

func TestStatusAndBorders_DescribeLiveBorders(t *testing.T) {
	b := newFakeBackend(window(7, "firefox"), window(5, "code"))
	d := startDaemon(t, b, writeConfig(t, disableTerminals))
	d.manager.SetActiveWindow(7)
	d.createExisting()

	waitFor(t, "visible borders", func() bool { return d.Status().VisibleCount == 2 })

	status := d.Status()
	if status.BorderCount != 2 || status.ActiveWindow != 7 || !status.DaemonRunning {
		t.Fatalf("unexpected status %+v", status)
	}
	if !strings.HasSuffix(status.ConfigPath, "config.yaml") {
		t.Fatalf("unexpected config path %q", status.ConfigPath)
	}

	borders := d.Borders()
	if len(borders) != 2 {
		t.Fatalf("expected 2 borders, got %d", len(borders))
	}
	if borders[0].Window != 5 || borders[1].Window != 7 {
		t.Fatalf("expected borders sorted by window, got %d, %d", borders[0].Window, borders[1].Window)
	}
	if !borders[1].Active || borders[0].Active {
		t.Fatalf("expected only window 7 to be active")
	}
	if borders[1].Class != "firefox" || borders[1].Overlay == 0 {
		t.Fatalf("unexpected border info %+v", borders[1])
	}
}

func TestMonitors_MapsDisplays(t *testing.T) {
	d := newDaemon(newFakeBackend(), fakeDevice{}, loadConfig(t, writeConfig(t, "")), Options{})
	monitors, err := d.Monitors()
	if err != nil {
		t.Fatalf("monitors: %v", err)
	}
	if len(monitors) != 1 || monitors[0].Name != "DP-1" || monitors[0].Width != 2560 {
		t.Fatalf("unexpected monitors %+v", monitors)
	}
	m := monitors[0]
	if m.UsableX != 0 || m.UsableY != 32 || m.UsableWidth != 2560 || m.UsableHeight != 1408 {
		t.Fatalf("expected usable area below a 32px panel, got %+v", m)
	}
}

func TestReload_RecreatesBordersWithNewRules(t *testing.T) {
	b := newFakeBackend(window(1, "firefox"), window(2, "terminal"))
	path := writeConfig(t, disableTerminals)
	d := startDaemon(t, b, path)
	d.createExisting()
	first, _ := d.manager.Lookup(1)

	if err := os.WriteFile(path, []byte("log_level: debug\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := d.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}

	if d.Config().LogLevel != "debug" {
		t.Fatalf("expected reloaded log level, got %q", d.Config().LogLevel)
	}
	if d.manager.Len() != 2 {
		t.Fatalf("expected 2 borders after reload, got %d", d.manager.Len())
	}
	second, _ := d.manager.Lookup(1)
	if second == first {
		t.Fatalf("expected border to be recreated")
	}
	select {
	case <-first.Done():
	default:
		t.Fatalf("expected old border to be finished")
	}
}

func TestReload_InvalidConfigKeepsRunningState(t *testing.T) {
	b := newFakeBackend(window(1, "firefox"))
	path := writeConfig(t, disableTerminals)
	d := startDaemon(t, b, path)
	d.createExisting()
	before, _ := d.manager.Lookup(1)

	if err := os.WriteFile(path, []byte("log_level: loud\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := d.Reload(); err == nil {
		t.Fatalf("expected reload error")
	}
	if d.Config().LogLevel != "info" {
		t.Fatalf("expected previous config to stay active, got %q", d.Config().LogLevel)
	}
	if after, _ := d.manager.Lookup(1); after != before {
		t.Fatalf("expected border to be left alone")
	}
}

func TestApplyLevel_FollowsConfig(t *testing.T) {
	var level slog.LevelVar
	newDaemon(newFakeBackend(), fakeDevice{}, loadConfig(t, writeConfig(t, "log_level: warning\n")), Options{Level: &level})
	if got := level.Level(); got != slog.LevelWarn {
		t.Fatalf("expected WARN level, got %s", got)
	}
}

func TestReconciler_RepairsDrift(t *testing.T) {
	b := newFakeBackend(window(1, "firefox"), window(2, "code"), window(9, "gone"))
	d := startDaemon(t, b, writeConfig(t, disableTerminals))
	s := border.DefaultSettings()
	s.InitializeDelay = 0
	d.manager.CreateBorder(1, s)
	d.manager.CreateBorder(9, s)
	waitFor(t, "initial borders", func() bool {
		h, ok := d.manager.Lookup(9)
		return ok && h.Visible()
	})
	b.remove(9)

	created, destroyed := d.reconciler.reconcile()
	if created != 1 || destroyed != 1 {
		t.Fatalf("expected 1 created and 1 destroyed, got %d/%d", created, destroyed)
	}
	if _, ok := d.manager.Lookup(2); !ok {
		t.Fatalf("expected missing border to be created")
	}
	waitFor(t, "vanished border to exit", func() bool {
		_, ok := d.manager.Lookup(9)
		return !ok
	})
}

func TestReconciler_ListErrorChangesNothing(t *testing.T) {
	b := newFakeBackend(window(1, "firefox"))
	b.listErr = errors.New("connection lost")
	d := startDaemon(t, b, writeConfig(t, disableTerminals))
	d.manager.CreateBorder(1, border.DefaultSettings())

	if created, destroyed := d.reconciler.reconcile(); created != 0 || destroyed != 0 {
		t.Fatalf("expected no changes, got %d/%d", created, destroyed)
	}
	if d.manager.Len() != 1 {
		t.Fatalf("expected border to survive, got %d", d.manager.Len())
	}
}

func TestEvents_ShowCreatesAndDestroyRemoves(t *testing.T) {
	b := newFakeBackend(window(4, "firefox"))
	d := startDaemon(t, b, writeConfig(t, disableTerminals))

	d.emitX11(x11.EventShow, 4)
	waitFor(t, "border on show", func() bool {
		h, ok := d.manager.Lookup(4)
		return ok && h.Visible()
	})

	b.remove(4)
	d.emitX11(x11.EventDestroy, 4)
	waitFor(t, "border removal", func() bool {
		_, ok := d.manager.Lookup(4)
		return !ok
	})
}

func TestEmit_DropsWhenQueueIsFull(t *testing.T) {
	d := newDaemon(newFakeBackend(), fakeDevice{}, loadConfig(t, writeConfig(t, "")), Options{})
	for i := 0; i < eventBuffer+5; i++ {
		d.emit(hook.Event{Kind: hook.Reorder})
	}
	if got := d.dropped.Load(); got != 5 {
		t.Fatalf("expected 5 dropped events, got %d", got)
	}
}

func TestTranslate_CoversEveryX11Kind(t *testing.T) {
	cases := map[x11.EventKind]hook.Kind{
		x11.EventLocationChange: hook.LocationChange,
		x11.EventReorder:        hook.Reorder,
		x11.EventForeground:     hook.Foreground,
		x11.EventShow:           hook.Show,
		x11.EventHide:           hook.Hide,
		x11.EventMinimizeStart:  hook.MinimizeStart,
		x11.EventMinimizeEnd:    hook.MinimizeEnd,
		x11.EventDestroy:        hook.Destroy,
	}
	for in, want := range cases {
		got, ok := translate(in)
		if !ok || got != want {
			t.Fatalf("translate(%d): expected %s, got %s (%v)", in, want, got, ok)
		}
	}
	if _, ok := translate(0); ok {
		t.Fatalf("expected unknown kind to be rejected")
	}
}

func TestHotkeyReload_IsQueued(t *testing.T) {
	d := newDaemon(newFakeBackend(), fakeDevice{}, loadConfig(t, writeConfig(t, "")), Options{})
	actions := hotkeyActions{d}
	if err := actions.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if err := actions.Reload(); err != nil {
		t.Fatalf("second reload: %v", err)
	}
	if len(d.reloadCh) != 1 {
		t.Fatalf("expected one pending reload, got %d", len(d.reloadCh))
	}
}

func TestSettingsSource_AccentFromBackend(t *testing.T) {
	src := accentFunc(staticAccent("#ff0000"))
	c, err := src()
	if err != nil {
		t.Fatalf("accent: %v", err)
	}
	if c.R != 1 || c.G != 0 || c.B != 0 {
		t.Fatalf("expected red accent, got %+v", c)
	}

	if _, err := accentFunc(staticAccent("nope"))(); err == nil {
		t.Fatalf("expected invalid accent to fail")
	}
}

type staticAccent string

func (s staticAccent) Accent() (string, bool) { return string(s), s != "" }
