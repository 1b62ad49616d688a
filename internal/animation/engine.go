package animation

import (
	"math"
	"time"

	"github.com/1broseidon/bordertile/internal/colors"
)

// Target is the paint state an animation tick mutates.
type Target struct {
	Active        bool
	ActivePaint   *colors.Paint
	InactivePaint *colors.Paint
	// Width and Height of the overlay geometry; rotations pivot on its center.
	Width, Height float64
}

func (t Target) paints() [2]*colors.Paint {
	return [2]*colors.Paint{t.ActivePaint, t.InactivePaint}
}

// Step advances the animations configured for the target's focus state by the
// time elapsed since the previous Step. It reports whether any paint changed.
func (m *Manager) Step(now time.Time, t Target) bool {
	elapsed := m.elapsed(now)
	updated := m.rotateGradients(elapsed, t)

	current := m.Current(t.Active)
	if current.Len() == 0 {
		for _, p := range t.paints() {
			p.ResetTransform()
		}
		return updated
	}

	for _, a := range current.items {
		switch a.Kind {
		case Spiral, ReverseSpiral:
			if a.Play(m, t, elapsed) {
				updated = true
			}
		case Fade:
			if m.Flags.ShouldFade && a.Play(m, t, elapsed) {
				updated = true
			}
		}
	}
	return updated
}

// Play applies one animation. It returns false when the animation cannot run.
func (a Animation) Play(m *Manager, t Target, elapsed time.Duration) bool {
	if a.Duration <= 0 {
		return false
	}
	switch a.Kind {
	case Spiral:
		a.spiral(m, t, elapsed, 1)
	case ReverseSpiral:
		a.spiral(m, t, elapsed, -1)
	case Fade:
		a.fade(m, t, elapsed)
	default:
		return false
	}
	return true
}

func (a Animation) delta(elapsed time.Duration) float64 {
	return float64(elapsed) / float64(a.Duration)
}

func (a Animation) spiral(m *Manager, t Target, elapsed time.Duration, direction float64) {
	p := m.Progress.Spiral + a.delta(elapsed)*direction
	if p < 0 || p > 1 {
		p = wrapUnit(p)
	}
	m.Progress.Spiral = p
	m.Progress.Angle = 360 * a.Easing.Ease(p)

	rot := colors.Rotation(m.Progress.Angle, math.Floor(t.Width/2), math.Floor(t.Height/2))
	for _, paint := range t.paints() {
		paint.SetTransform(rot)
	}
}

func (a Animation) fade(m *Manager, t Target, elapsed time.Duration) {
	if t.ActivePaint.Opacity() == 0 && t.InactivePaint.Opacity() == 0 {
		// First appearance: start the visible paint from zero.
		if t.Active {
			m.Progress.Fade = 0
		} else {
			m.Progress.Fade = 1
		}
		m.Flags.FadeToVisible = true
	}

	direction := 1.0
	if !t.Active {
		direction = -1
	}
	m.Progress.Fade += a.delta(elapsed) * direction

	if m.Progress.Fade < 0 || m.Progress.Fade > 1 {
		final := math.Min(math.Max(m.Progress.Fade, 0), 1)
		t.ActivePaint.SetOpacity(final)
		t.InactivePaint.SetOpacity(1 - final)
		m.Progress.Fade = final
		m.Flags.FadeToVisible = false
		m.Flags.ShouldFade = false
		return
	}

	y := a.Easing.Ease(m.Progress.Fade)
	var activeOp, inactiveOp float64
	switch {
	case m.Flags.FadeToVisible && t.Active:
		activeOp, inactiveOp = y, 0
	case m.Flags.FadeToVisible:
		activeOp, inactiveOp = 0, 1-y
	default:
		activeOp, inactiveOp = y, 1-y
	}
	t.ActivePaint.SetOpacity(activeOp)
	t.InactivePaint.SetOpacity(inactiveOp)
}

// rotateGradients turns animated gradient axes at a fixed rate.
func (m *Manager) rotateGradients(elapsed time.Duration, t Target) bool {
	animated := false
	for _, p := range t.paints() {
		if p.Animated() {
			animated = true
		}
	}
	if !animated {
		return false
	}

	m.Progress.Gradient = math.Mod(m.Progress.Gradient+360*float64(elapsed)/float64(GradientRevolution), 360)
	for _, p := range t.paints() {
		p.SetAngle(m.Progress.Gradient)
	}
	return elapsed > 0
}

func wrapUnit(v float64) float64 {
	r := math.Mod(v, 1)
	if r < 0 {
		r += 1
	}
	if r >= 1 {
		r = 0
	}
	return r
}
