package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/bordertile/internal/border"
	"github.com/1broseidon/bordertile/internal/hook"
	"github.com/1broseidon/bordertile/internal/platform"
)

// Borders is the part of the border manager the reconciler repairs.
type Borders interface {
	Tracked() []platform.WindowID
	Lookup(window platform.WindowID) (*border.Handle, bool)
	CreateBorder(window platform.WindowID, s border.Settings) bool
	DestroyBorder(window platform.WindowID) bool
}

// WindowLister returns the current managed windows.
type WindowLister func() ([]platform.Window, error)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically compares live borders against the window list and
// corrects drift left by missed or dropped events.
type Reconciler struct {
	interval    time.Duration
	borders     Borders
	listWindows WindowLister
	resolve     hook.Resolver
	logger      *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, borders Borders, listWindows WindowLister, resolve hook.Resolver) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval:    interval,
		borders:     borders,
		listWindows: listWindows,
		resolve:     resolve,
		logger:      logger,
	}
}

func (r *Reconciler) String() string { return "reconciler" }

// Serve runs the reconciliation loop until ctx is cancelled.
func (r *Reconciler) Serve(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return ctx.Err()
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// reconcile performs a single pass and reports how many borders it created
// and destroyed.
func (r *Reconciler) reconcile() (created, destroyed int) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	windows, err := r.listWindows()
	if err != nil {
		r.logger.Error("reconciler: failed to list windows", "error", err)
		return 0, 0
	}

	actual := make(map[platform.WindowID]bool, len(windows))
	for _, w := range windows {
		actual[w.ID] = true
	}

	for _, id := range r.borders.Tracked() {
		if actual[id] {
			continue
		}
		if r.borders.DestroyBorder(id) {
			r.logger.Info("reconciler: destroyed border of vanished window", "window", id)
			destroyed++
		}
	}

	if r.resolve == nil {
		return created, destroyed
	}
	for _, w := range windows {
		if _, ok := r.borders.Lookup(w.ID); ok {
			continue
		}
		s, ok := r.resolve(w.ID)
		if !ok {
			continue
		}
		if r.borders.CreateBorder(w.ID, s) {
			r.logger.Info("reconciler: created missing border", "window", w.ID, "class", w.AppID)
			created++
		}
	}
	return created, destroyed
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() {
	r.reconcile()
}
