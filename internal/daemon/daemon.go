// Package daemon wires the configuration, the X11 backend and the border
// manager into the long-running bordertile process.
package daemon

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/1broseidon/bordertile/internal/border"
	"github.com/1broseidon/bordertile/internal/config"
	"github.com/1broseidon/bordertile/internal/hook"
	"github.com/1broseidon/bordertile/internal/hotkeys"
	"github.com/1broseidon/bordertile/internal/ipc"
	"github.com/1broseidon/bordertile/internal/platform"
	"github.com/1broseidon/bordertile/internal/render"
	"github.com/1broseidon/bordertile/internal/timer"
	"github.com/1broseidon/bordertile/internal/x11"
)

// destroyTimeout bounds how long a reload or shutdown waits for borders to
// release their overlays.
const destroyTimeout = 2 * time.Second

// Options configure a daemon.
type Options struct {
	// ConfigPath defaults to config.DefaultConfigPath.
	ConfigPath string
	Logger     *slog.Logger
	// Level is adjusted to the configured log_level on start and reload.
	Level *slog.LevelVar
	// ReconcileInterval defaults to 10s.
	ReconcileInterval time.Duration
}

// Daemon owns every long-lived component of the border process.
type Daemon struct {
	log   *slog.Logger
	level *slog.LevelVar

	backend platform.Backend
	linux   *platform.LinuxBackend
	source  *x11.EventSource
	hotkeys *hotkeys.Handler
	watcher *config.Watcher
	ipc     *ipc.Server

	timers     *timer.Manager
	manager    *border.Manager
	settings   *SettingsSource
	dispatcher *hook.Dispatcher
	reconciler *Reconciler
	sup        *suture.Supervisor

	events   chan hook.Event
	dropped  atomic.Uint64
	reloadCh chan struct{}

	reloadMu   sync.Mutex
	resMu      sync.RWMutex
	res        *config.LoadResult
	configPath string

	started time.Time
	cancel  context.CancelFunc
}

// New loads the configuration and connects to the X server.
func New(opts Options) (*Daemon, error) {
	path := opts.ConfigPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		return nil, err
	}
	conn := backend.Connection()
	if !conn.HasAlpha() {
		opts.logger().Warn("no 32-bit visual available, borders will not be translucent")
	}

	d := newDaemon(backend, x11.NewDevice(conn), res, opts)
	d.linux = backend
	d.source = x11.NewEventSource(conn, d.emitX11, d.log.With("component", "x11-events"))
	d.hotkeys = hotkeys.NewHandler(backend, hotkeyActions{d})

	srv, err := ipc.NewServer(d)
	if err != nil {
		backend.Disconnect()
		return nil, err
	}
	d.ipc = srv

	w, err := config.NewWatcher(d.requestReload, d.log)
	if err != nil {
		d.log.Warn("config hot reload unavailable", "error", err)
	} else {
		d.watcher = w
	}
	return d, nil
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// newDaemon builds the window-system independent parts of a daemon.
func newDaemon(backend platform.Backend, device render.Device, res *config.LoadResult, opts Options) *Daemon {
	logger := opts.logger()
	d := &Daemon{
		log:        logger,
		level:      opts.Level,
		backend:    backend,
		timers:     timer.New(),
		events:     make(chan hook.Event, eventBuffer),
		reloadCh:   make(chan struct{}, 1),
		res:        res,
		configPath: res.Path,
		started:    time.Now(),
	}
	d.applyLevel(res.Config)

	d.manager = border.NewManager(backend, device, d.timers, logger.With("component", "borders"))
	d.settings = NewSettingsSource(backend, res.Config, logger)
	d.dispatcher = hook.NewDispatcher(d.manager, d.settings.Resolve, logger.With("component", "dispatcher"))
	d.reconciler = NewReconciler(ReconcilerConfig{
		Interval: opts.ReconcileInterval,
		Logger:   logger.With("component", "reconciler"),
	}, d.manager, backend.ListWindows, d.settings.Resolve)

	d.sup = suture.New("bordertile", suture.Spec{
		EventHook: func(e suture.Event) {
			logger.Warn("daemon supervisor event", "event", e.String())
		},
	})
	return d
}

// serviceFunc adapts a blocking function to suture.Service.
type serviceFunc struct {
	name  string
	serve func(ctx context.Context) error
}

func (s serviceFunc) Serve(ctx context.Context) error { return s.serve(ctx) }
func (s serviceFunc) String() string                  { return s.name }

// startServices launches the supervised services and returns the
// supervisor's completion channel.
func (d *Daemon) startServices(ctx context.Context) <-chan error {
	d.sup.Add(d.manager)
	d.sup.Add(serviceFunc{name: "dispatcher", serve: func(ctx context.Context) error {
		return d.dispatcher.Run(ctx, d.events)
	}})
	d.sup.Add(serviceFunc{name: "reload", serve: d.reloadLoop})
	d.sup.Add(d.reconciler)
	if d.ipc != nil {
		d.sup.Add(serviceFunc{name: "ipc", serve: d.ipc.Serve})
	}
	if d.watcher != nil {
		d.sup.Add(serviceFunc{name: "config-watcher", serve: d.watcher.Serve})
		d.watchConfig(d.result())
	}
	return d.sup.ServeBackground(ctx)
}

// Run starts every service, creates borders for the existing windows and
// runs the X event loop until ctx ends or Exit is called. Closing the
// connection on the way out unblocks the loop.
func (d *Daemon) Run(ctx context.Context) error {
	if d.linux == nil {
		return errors.New("daemon has no X11 connection")
	}
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	defer cancel()

	done := d.startServices(ctx)

	if active, err := d.backend.ActiveWindow(); err == nil {
		d.manager.SetActiveWindow(active)
	}
	if err := d.source.Start(); err != nil {
		cancel()
		<-done
		return fmt.Errorf("failed to subscribe to window events: %w", err)
	}
	if err := d.hotkeys.Apply(d.Config().Keybindings); err != nil {
		d.log.Warn("some hotkeys are unavailable", "error", err)
	}
	n := d.createExisting()
	d.log.Info("daemon started", "borders", n, "config", d.configPath)

	conn := d.linux.Connection()
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		conn.EventLoop()
	}()
	select {
	case <-ctx.Done():
	case <-loopDone:
	}
	conn.Quit()

	d.log.Info("shutting down")
	d.source.Stop()
	cancel()
	if left := d.manager.DestroyAll(destroyTimeout); left > 0 {
		d.log.Warn("borders did not stop in time", "count", left)
	}
	err := <-done
	d.timers.StopAll()
	if d.watcher != nil {
		d.watcher.Close()
	}
	d.linux.Disconnect()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// createExisting creates borders for every current window. Windows that
// already exist are shown without the initialization delay.
func (d *Daemon) createExisting() int {
	windows, err := d.backend.ListWindows()
	if err != nil {
		d.log.Error("failed to list windows", "error", err)
		return 0
	}
	n := 0
	for _, w := range windows {
		if !d.backend.IsVisible(w.ID) {
			continue
		}
		s := d.settings.For(w)
		s.InitializeDelay = 0
		if d.manager.CreateBorder(w.ID, s) {
			n++
		}
	}
	return n
}

// Reload re-reads the configuration and recreates every border. On error the
// running configuration and borders are left untouched.
func (d *Daemon) Reload() error {
	d.reloadMu.Lock()
	defer d.reloadMu.Unlock()

	res, err := config.LoadFromPath(d.configPath)
	if err != nil {
		d.log.Error("config reload failed", "error", err)
		return err
	}

	d.resMu.Lock()
	d.res = res
	d.resMu.Unlock()
	d.applyLevel(res.Config)
	d.settings.Set(res.Config)

	if left := d.manager.DestroyAll(destroyTimeout); left > 0 {
		d.log.Warn("borders did not stop before reload", "count", left)
	}
	n := d.createExisting()

	if d.hotkeys != nil {
		if err := d.hotkeys.Apply(res.Config.Keybindings); err != nil {
			d.log.Warn("some hotkeys are unavailable", "error", err)
		}
	}
	d.watchConfig(res)
	d.log.Info("config reloaded", "borders", n, "files", len(res.Files))
	return nil
}

// requestReload schedules a reload without blocking; requests that arrive
// while one is pending are merged.
func (d *Daemon) requestReload() {
	select {
	case d.reloadCh <- struct{}{}:
	default:
	}
}

func (d *Daemon) reloadLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.reloadCh:
			_ = d.Reload()
		}
	}
}

func (d *Daemon) watchConfig(res *config.LoadResult) {
	if d.watcher == nil {
		return
	}
	if !res.Config.MonitorConfigChanges {
		d.watcher.Watch()
		return
	}
	paths := append([]string{res.Path}, res.Files...)
	slices.Sort(paths)
	d.watcher.Watch(slices.Compact(paths)...)
}

func (d *Daemon) applyLevel(cfg *config.Config) {
	if d.level != nil {
		d.level.Set(cfg.SlogLevel())
	}
}

func (d *Daemon) result() *config.LoadResult {
	d.resMu.RLock()
	defer d.resMu.RUnlock()
	return d.res
}

// Config returns the running configuration.
func (d *Daemon) Config() *config.Config {
	return d.result().Config
}

// OpenConfig opens the configuration file with xdg-open, writing the
// defaults first when it does not exist yet.
func (d *Daemon) OpenConfig() error {
	path := d.configPath
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		data, err := config.DefaultConfig().Marshal()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write default config: %w", err)
		}
	}

	cmd := exec.Command("xdg-open", path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch xdg-open: %w", err)
	}
	go cmd.Wait()
	return nil
}

// Exit stops Run.
func (d *Daemon) Exit() {
	if d.cancel != nil {
		d.cancel()
	}
}

// Status implements ipc.Handler.
func (d *Daemon) Status() ipc.StatusData {
	visible := 0
	for _, h := range d.manager.Snapshot() {
		if h.Visible() {
			visible++
		}
	}
	return ipc.StatusData{
		BorderCount:   d.manager.Len(),
		VisibleCount:  visible,
		ActiveWindow:  uint32(d.manager.ActiveWindow()),
		ConfigPath:    d.configPath,
		UptimeSeconds: int64(time.Since(d.started).Seconds()),
		DaemonRunning: true,
	}
}

// Borders implements ipc.Handler.
func (d *Daemon) Borders() []ipc.BorderInfo {
	active := d.manager.ActiveWindow()
	handles := d.manager.Snapshot()
	slices.SortFunc(handles, func(a, b *border.Handle) int {
		return cmp.Compare(a.Window(), b.Window())
	})

	out := make([]ipc.BorderInfo, 0, len(handles))
	for _, h := range handles {
		info := ipc.BorderInfo{
			Window:  uint32(h.Window()),
			Overlay: uint32(h.Overlay()),
			State:   h.State(),
			Visible: h.Visible(),
			Active:  h.Window() == active,
		}
		if w, err := d.backend.WindowInfo(h.Window()); err == nil {
			info.Title = w.Title
			info.Class = w.AppID
		}
		out = append(out, info)
	}
	return out
}

// Monitors implements ipc.Handler.
func (d *Daemon) Monitors() ([]ipc.MonitorInfo, error) {
	displays, err := d.backend.Displays()
	if err != nil {
		return nil, err
	}
	out := make([]ipc.MonitorInfo, 0, len(displays))
	for _, m := range displays {
		out = append(out, ipc.MonitorInfo{
			ID:           m.ID,
			Name:         m.Name,
			X:            m.Bounds.X,
			Y:            m.Bounds.Y,
			Width:        m.Bounds.Width,
			Height:       m.Bounds.Height,
			UsableX:      m.Usable.X,
			UsableY:      m.Usable.Y,
			UsableWidth:  m.Usable.Width,
			UsableHeight: m.Usable.Height,
		})
	}
	return out, nil
}

// hotkeyActions defers reloads to the reload loop so the X event loop that
// runs key callbacks never waits on borders.
type hotkeyActions struct{ d *Daemon }

func (a hotkeyActions) Reload() error {
	a.d.requestReload()
	return nil
}

func (a hotkeyActions) OpenConfig() error { return a.d.OpenConfig() }
func (a hotkeyActions) Exit()             { a.d.Exit() }
