package border

import (
	"context"
	"fmt"
	"image"

	"github.com/1broseidon/bordertile/internal/animation"
	"github.com/1broseidon/bordertile/internal/effect"
	"github.com/1broseidon/bordertile/internal/render"
)

func (b *Border) onLocationChange() {
	if b.paused {
		return
	}
	if !b.env.Windows.HasNativeBorder(b.tracking) {
		b.hide()
		b.transition(eventHide)
		return
	}

	old := b.rect
	moved, err := b.refreshMonitor()
	if err != nil {
		b.fail(err)
		return
	}
	onScreen, err := b.updateRect()
	if err != nil {
		b.fail(err)
		return
	}
	if !onScreen {
		b.hide()
		b.transition(eventHide)
		return
	}
	wasVisible := b.visible
	if err := b.position(true); err != nil {
		b.fail(err)
		return
	}
	b.transition(eventShow)
	if !wasVisible || moved || !old.SameSize(b.rect) {
		if err := b.render(); err != nil {
			b.fail(err)
		}
	}
}

// refreshMonitor picks up monitor and DPI changes after a move, resizing
// render buffers when either differs. It reports whether anything changed.
func (b *Border) refreshMonitor() (bool, error) {
	mon, err := b.env.Windows.MonitorFor(b.tracking)
	if err != nil {
		return false, fmt.Errorf("monitor for window: %w", err)
	}
	dpi, err := b.env.Windows.DPIFor(b.tracking)
	if err != nil {
		return false, fmt.Errorf("dpi for window: %w", err)
	}
	if mon.ID == b.monitor.ID && mon.Bounds == b.monitor.Bounds && dpi == b.dpi {
		return false, nil
	}

	b.monitor, b.dpi = mon, dpi
	b.updateWidthRadius()
	if err := b.res.Update(toImageRect(mon.Bounds), b.width, b.padding); err != nil {
		return false, fmt.Errorf("resize render resources: %w", err)
	}
	b.effects.Invalidate()
	b.log.Debug("border moved monitors", "monitor", mon.Name, "dpi", dpi, "width", b.width)
	return true, nil
}

func (b *Border) onReorder() {
	if b.paused || !b.visible {
		return
	}
	if err := b.position(false); err != nil {
		b.fail(err)
	}
}

func (b *Border) onForeground() {
	b.updateColor(nil)
	if b.paused {
		return
	}
	if b.visible {
		if err := b.position(false); err != nil {
			b.fail(err)
			return
		}
	}
	if err := b.render(); err != nil {
		b.fail(err)
	}
}

func (b *Border) onShowUncloaked() {
	onScreen, err := b.updateRect()
	if err != nil {
		b.fail(err)
		return
	}
	if !onScreen {
		return
	}
	if b.env.Windows.HasNativeBorder(b.tracking) {
		if err := b.position(true); err != nil {
			b.fail(err)
			return
		}
		if err := b.render(); err != nil {
			b.fail(err)
			return
		}
		b.transition(eventShow)
	} else {
		b.hide()
		b.transition(eventHide)
	}
	b.setTimer()
	b.paused = false
}

func (b *Border) onHideCloaked() {
	b.hide()
	b.killTimer()
	b.paused = true
	b.transition(eventHide)
}

func (b *Border) onMinimizeStart() {
	b.hide()
	b.activePaint.SetOpacity(0)
	b.inactivePaint.SetOpacity(0)
	b.killTimer()
	b.paused = true
	b.transition(eventMinimize)
}

func (b *Border) onMinimizeEnd(ctx context.Context) {
	delay := b.settings.UnminimizeDelay
	if !sleepCtx(ctx, b.handle.destroy, delay) {
		b.terminal = true
		return
	}
	b.anim.ResetClock(b.env.now())

	b.updateColor(&delay)
	onScreen, err := b.updateRect()
	if err != nil {
		b.fail(err)
		return
	}
	if !onScreen || !b.env.Windows.HasNativeBorder(b.tracking) {
		b.hide()
		b.transition(eventHide)
	} else {
		if err := b.position(true); err != nil {
			b.fail(err)
			return
		}
		if err := b.render(); err != nil {
			b.fail(err)
			return
		}
		b.transition(eventShow)
	}
	b.setTimer()
	b.paused = false
}

func (b *Border) onAnimationTick() {
	if b.paused {
		return
	}
	now := b.env.now()
	updated := b.anim.Step(now, animation.Target{
		Active:        b.active,
		ActivePaint:   &b.activePaint,
		InactivePaint: &b.inactivePaint,
		Width:         float64(b.rect.Width),
		Height:        float64(b.rect.Height),
	})
	if !updated || !b.anim.RenderDue(now, b.lastRender) {
		return
	}
	if err := b.render(); err != nil {
		b.fail(err)
	}
}

func (b *Border) frame() render.Frame {
	top, bottom := &b.activePaint, &b.inactivePaint
	if !b.active {
		top, bottom = bottom, top
	}
	return render.Frame{
		Size:    image.Pt(b.rect.Width, b.rect.Height),
		Width:   float64(b.width),
		Offset:  float64(b.settings.Offset),
		Padding: float64(b.padding),
		Radius:  b.radius,
		Bottom:  bottom,
		Top:     top,
	}
}

// render draws and presents one frame. A lost device is rebuilt and the frame
// retried once; any other failure is returned.
func (b *Border) render() error {
	b.lastRender = b.env.now()
	if b.res == nil || !b.rect.Visible() {
		return nil
	}

	f := b.frame()
	err := b.res.Draw(f, b.program(b.res.Size()))
	if err == nil || !render.IsDeviceLost(err) {
		return err
	}

	b.log.Warn("render device lost; recreating resources", "error", err)
	if err := b.res.Release(); err != nil {
		b.log.Debug("release lost render resources", "error", err)
	}
	if err := b.res.Recreate(toImageRect(b.monitor.Bounds), b.width, b.padding); err != nil {
		return fmt.Errorf("recreate render resources: %w", err)
	}
	b.effects.Invalidate()
	return b.res.Draw(f, b.program(b.res.Size()))
}

func (b *Border) program(size image.Point) *effect.Program {
	if !b.effects.Enabled() {
		return nil
	}
	return b.effects.Program(b.active, size)
}
