package border

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/looplab/fsm"
	"github.com/thejerf/suture/v4"

	"github.com/1broseidon/bordertile/internal/animation"
	"github.com/1broseidon/bordertile/internal/colors"
	"github.com/1broseidon/bordertile/internal/effect"
	"github.com/1broseidon/bordertile/internal/platform"
	"github.com/1broseidon/bordertile/internal/render"
	"github.com/1broseidon/bordertile/internal/timer"
)

// Border decorates one tracked window. All fields are owned by the goroutine
// running Serve; other goroutines talk to it through its Handle.
type Border struct {
	env      Env
	log      *slog.Logger
	handle   *Handle
	tracking platform.WindowID
	overlay  platform.WindowID
	settings Settings

	// rect is the tracked frame grown by the stroke width and effect padding,
	// in root coordinates. The overlay covers exactly this rect.
	rect    platform.Rect
	monitor platform.Display
	dpi     float64
	width   int
	radius  float64
	padding int

	active        bool
	activePaint   colors.Paint
	inactivePaint colors.Paint
	anim          *animation.Manager
	effects       *effect.Manager
	res           *render.Resources
	lastRender    time.Time

	paused    bool
	visible   bool
	lifecycle *fsm.FSM
	terminal  bool
	exited    bool
}

func newBorder(env Env, tracking platform.WindowID, s Settings, h *Handle) *Border {
	log := env.logger().With("window", fmt.Sprintf("0x%x", uint32(tracking)))
	return &Border{
		env:           env,
		log:           log,
		handle:        h,
		tracking:      tracking,
		settings:      s,
		activePaint:   s.ActiveColor,
		inactivePaint: s.InactiveColor,
		anim:          animation.NewManager(s.ActiveAnimations, s.InactiveAnimations, s.FPS),
		effects:       effect.NewManager(s.ActiveEffects, s.InactiveEffects),
		lifecycle:     newLifecycle(h, log),
	}
}

// String names the service in supervisor logs.
func (b *Border) String() string {
	return fmt.Sprintf("border(0x%x)", uint32(b.tracking))
}

// Serve runs the border until it is destroyed or fails. It never asks to be
// restarted; a border that stops is gone.
func (b *Border) Serve(ctx context.Context) error {
	if b.exited {
		return suture.ErrDoNotRestart
	}
	defer b.exit()

	if err := b.initialize(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			b.log.Error("could not initialize border", "error", err)
		}
		return suture.ErrDoNotRestart
	}

	for !b.terminal {
		select {
		case <-ctx.Done():
			return suture.ErrDoNotRestart
		case <-b.handle.destroy:
			return suture.ErrDoNotRestart
		case msg := <-b.handle.inbox:
			b.dispatch(ctx, msg)
		}
	}
	return suture.ErrDoNotRestart
}

func (b *Border) dispatch(ctx context.Context, msg Message) {
	switch msg {
	case LocationChange:
		b.onLocationChange()
	case Reorder:
		b.onReorder()
	case Foreground:
		b.onForeground()
	case ShowUncloaked:
		b.onShowUncloaked()
	case HideCloaked:
		b.onHideCloaked()
	case MinimizeStart:
		b.onMinimizeStart()
	case MinimizeEnd:
		b.onMinimizeEnd(ctx)
	case AnimationTick:
		b.onAnimationTick()
	case Destroy:
		b.terminal = true
	default:
		b.log.Debug("ignoring unknown message", "message", msg)
	}
}

func (b *Border) initialize(ctx context.Context) error {
	overlay, err := b.env.Windows.CreateOverlay(b.tracking)
	if err != nil {
		return fmt.Errorf("create overlay: %w", err)
	}
	b.overlay = overlay
	b.handle.overlay.Store(uint32(overlay))

	if err := b.loadMetrics(); err != nil {
		return err
	}

	if !sleepCtx(ctx, b.handle.destroy, b.settings.InitializeDelay) {
		return context.Canceled
	}

	b.res, err = render.Create(b.env.Device, uint32(b.overlay), toImageRect(b.monitor.Bounds), b.width, b.padding)
	if err != nil {
		return fmt.Errorf("create render resources: %w", err)
	}

	delay := b.settings.InitializeDelay
	b.updateColor(&delay)

	onScreen, err := b.updateRect()
	if err != nil {
		return err
	}

	if onScreen && b.env.Windows.HasNativeBorder(b.tracking) {
		if err := b.position(true); err != nil {
			return err
		}
		if err := b.render(); err != nil {
			return err
		}
		b.transition(eventShow)
	} else {
		b.transition(eventHide)
	}

	b.setTimer()

	if b.env.Windows.IsMinimized(b.tracking) {
		b.onMinimizeStart()
	}
	b.log.Debug("border initialized", "rect", b.rect, "width", b.width, "radius", b.radius, "padding", b.padding)
	return nil
}

// loadMetrics reads monitor and DPI and derives stroke width, radius and padding.
func (b *Border) loadMetrics() error {
	mon, err := b.env.Windows.MonitorFor(b.tracking)
	if err != nil {
		return fmt.Errorf("monitor for window: %w", err)
	}
	b.monitor = mon

	dpi, err := b.env.Windows.DPIFor(b.tracking)
	if err != nil {
		return fmt.Errorf("dpi for window: %w", err)
	}
	b.dpi = dpi
	b.updateWidthRadius()
	b.padding = b.effects.Padding()
	return nil
}

func (b *Border) updateWidthRadius() {
	b.width = b.settings.ScaledWidth(b.dpi)
	b.radius = b.settings.Style.CornerRadius(b.width, b.dpi, b.env.Windows.CornerPreference(b.tracking))
}

// updateRect grows the tracked frame into rect. A degenerate frame, as seen
// mid workspace switch, leaves rect as it was and reports false.
func (b *Border) updateRect() (bool, error) {
	r, err := b.env.Windows.FrameRect(b.tracking)
	if err != nil {
		return false, fmt.Errorf("frame rect: %w", err)
	}
	if !r.Visible() {
		return false, nil
	}
	b.rect = r.Expand(b.width + b.padding)
	return true, nil
}

// position moves the overlay onto rect and stacks it above the tracked
// window, mapping it first when show is set and it is hidden.
func (b *Border) position(show bool) error {
	if err := b.env.Windows.PositionOverlay(b.overlay, b.rect, b.tracking); err != nil {
		return fmt.Errorf("position overlay: %w", err)
	}
	if show && !b.visible {
		if err := b.env.Windows.ShowOverlay(b.overlay); err != nil {
			return fmt.Errorf("show overlay: %w", err)
		}
		b.setVisible(true)
	}
	return nil
}

func (b *Border) hide() {
	if !b.visible {
		return
	}
	if err := b.env.Windows.HideOverlay(b.overlay); err != nil {
		b.log.Warn("could not hide overlay", "error", err)
	}
	b.setVisible(false)
}

func (b *Border) setVisible(v bool) {
	b.visible = v
	b.handle.visible.Store(v)
}

// updateColor refreshes the focus flag and paint opacities. A nil delay
// means the change came from a focus event and may animate.
func (b *Border) updateColor(delay *time.Duration) {
	b.active = b.tracking == b.env.activeWindow()

	if !b.anim.Current(b.active).Has(animation.Fade) {
		b.snapOpacities()
		return
	}
	if delay != nil && *delay == 0 {
		b.snapOpacities()
		b.anim.SnapFade(b.active)
		return
	}
	b.anim.Flags.ShouldFade = true
}

func (b *Border) snapOpacities() {
	top, bottom := &b.activePaint, &b.inactivePaint
	if !b.active {
		top, bottom = bottom, top
	}
	top.SetOpacity(1)
	bottom.SetOpacity(0)
}

func (b *Border) timerID() uint32 { return b.handle.timer }

func (b *Border) needsTimer() bool {
	return b.anim.HasAnimations() || b.activePaint.Animated() || b.inactivePaint.Animated()
}

func (b *Border) setTimer() {
	if !b.needsTimer() || b.env.Timers == nil {
		return
	}
	h := b.handle
	err := b.env.Timers.Add(b.timerID(), b.anim.Interval(), func() { h.Post(AnimationTick) })
	switch {
	case err == nil:
		b.anim.ResetClock(b.env.now())
	case errors.Is(err, timer.ErrTimerExists):
		b.log.Debug("animation timer already running", "timer", b.timerID())
	default:
		b.log.Warn("could not start animation timer", "error", err)
	}
}

func (b *Border) killTimer() {
	if b.env.Timers != nil {
		b.env.Timers.Remove(b.timerID())
	}
}

// fail logs err and ends the border.
func (b *Border) fail(err error) {
	b.log.Error("border failed; destroying", "error", err)
	b.terminal = true
}

// exit releases everything the border owns. It runs exactly once.
func (b *Border) exit() {
	if b.exited {
		return
	}
	b.exited = true
	b.terminal = true
	b.paused = true

	b.killTimer()
	if b.env.Registry != nil {
		b.env.Registry.RemoveIfPresent(b.tracking, b.handle)
	}
	if b.res != nil {
		if err := b.res.Release(); err != nil {
			b.log.Debug("release render resources", "error", err)
		}
		b.res = nil
	}
	if b.overlay != 0 {
		if err := b.env.Windows.DestroyOverlay(b.overlay); err != nil {
			b.log.Debug("destroy overlay", "error", err)
		}
	}
	b.setVisible(false)
	b.transition(eventDestroy)
	b.handle.finish()
	b.log.Debug("border exited")
}

func toImageRect(r platform.Rect) image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}
