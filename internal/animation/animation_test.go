package animation

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/1broseidon/bordertile/internal/colors"
)

func TestBezier_EndpointsAreFixed(t *testing.T) {
	for _, e := range easings {
		p := e.Points()
		b, err := NewBezier(p[0], p[1], p[2], p[3])
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", e, err)
		}
		if b.At(0) != 0 || b.At(1) != 1 {
			t.Fatalf("%s: expected fixed endpoints, got %v and %v", e, b.At(0), b.At(1))
		}
	}
}

func TestBezier_DiagonalIsIdentity(t *testing.T) {
	b, err := NewBezier(0.3, 0.3, 0.8, 0.8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, x := range []float64{0, 0.1, 0.25, 0.5, 0.77, 1} {
		if got := b.At(x); got != x {
			t.Fatalf("expected identity at %v, got %v", x, got)
		}
	}
}

func TestBezier_RejectsOutOfRangeX(t *testing.T) {
	if _, err := NewBezier(-0.1, 0, 1, 1); !errors.Is(err, ErrInvalidControlPoint) {
		t.Fatalf("expected ErrInvalidControlPoint, got %v", err)
	}
	if _, err := NewBezier(0, 0, 1.2, 1); !errors.Is(err, ErrInvalidControlPoint) {
		t.Fatalf("expected ErrInvalidControlPoint, got %v", err)
	}
	if _, err := NewBezier(0.68, -0.6, 0.32, 1.6); err != nil {
		t.Fatalf("expected overshooting y to be accepted, got %v", err)
	}
}

func TestBezier_EaseInOutIsSymmetric(t *testing.T) {
	e, err := ParseEasing("EaseInOut")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := e.Ease(0.5); math.Abs(got-0.5) > 0.01 {
		t.Fatalf("expected ~0.5 at midpoint, got %v", got)
	}
	if e.Ease(0.2) >= 0.2 {
		t.Fatalf("expected slow start")
	}
}

func TestParseEasing_NameForms(t *testing.T) {
	for _, in := range []string{"EaseInOutSine", "ease_in_out_sine", "ease-in-out-sine", "EASEINOUTSINE"} {
		e, err := ParseEasing(in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", in, err)
		}
		if e.String() != "EaseInOutSine" {
			t.Fatalf("%s: expected EaseInOutSine, got %s", in, e)
		}
	}

	e, err := ParseEasing("")
	if err != nil || e.String() != "Linear" {
		t.Fatalf("expected empty easing to be Linear, got %s (%v)", e, err)
	}

	e, err = ParseEasing("wobble")
	if err == nil {
		t.Fatalf("expected error for unknown easing")
	}
	if e.String() != "Linear" {
		t.Fatalf("expected Linear fallback, got %s", e)
	}
}

func TestParseEasing_CubicBezierLiteral(t *testing.T) {
	e, err := ParseEasing("cubic-bezier(0.1, 0.7, 1.0, 0.1)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Points() != [4]float64{0.1, 0.7, 1.0, 0.1} {
		t.Fatalf("unexpected control points %v", e.Points())
	}
	if _, err := ParseEasing("cubic-bezier(1.5, 0, 0, 1)"); !errors.Is(err, ErrInvalidControlPoint) {
		t.Fatalf("expected ErrInvalidControlPoint, got %v", err)
	}
	if _, err := ParseEasing("cubic-bezier(0, 0, 1)"); err == nil {
		t.Fatalf("expected error for three values")
	}
}

func TestParseEasing_CubicBezierSpellings(t *testing.T) {
	for _, s := range []string{
		"cubic_bezier(0.25, 0.1, 0.25, 1)",
		"CubicBezier(0.25, 0.1, 0.25, 1)",
		"cubicbezier(0.25,0.1,0.25,1)",
		" Cubic-Bezier(0.25, 0.1, 0.25, 1) ",
	} {
		e, err := ParseEasing(s)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", s, err)
		}
		if e.Points() != [4]float64{0.25, 0.1, 0.25, 1} {
			t.Fatalf("%q: unexpected control points %v", s, e.Points())
		}
	}
}

func TestParseDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"1.5s":  1500 * time.Millisecond,
		"250ms": 250 * time.Millisecond,
		"2S":    2 * time.Second,
		"10MS":  10 * time.Millisecond,
	}
	for in, want := range cases {
		got, err := ParseDuration(in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", in, err)
		}
		if got != want {
			t.Fatalf("%s: expected %v, got %v", in, want, got)
		}
	}
	for _, in := range []string{"", "fast", "10", "-5ms", "1m"} {
		if _, err := ParseDuration(in); err == nil {
			t.Fatalf("%q: expected error", in)
		}
	}
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"spiral":         Spiral,
		"ReverseSpiral":  ReverseSpiral,
		"reverse_spiral": ReverseSpiral,
		"Fade":           Fade,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Fatalf("%s: expected %v, got %v (%v)", in, want, got, err)
		}
	}
	if _, err := ParseKind("bounce"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestSet_SpiralKindsShareSlot(t *testing.T) {
	s := NewSet(
		Animation{Kind: Spiral, Duration: time.Second},
		Animation{Kind: Fade, Duration: time.Second},
		Animation{Kind: ReverseSpiral, Duration: 2 * time.Second},
	)
	if s.Len() != 2 {
		t.Fatalf("expected 2 animations, got %d", s.Len())
	}
	if s.Has(Spiral) || !s.Has(ReverseSpiral) {
		t.Fatalf("expected reverse spiral to replace spiral")
	}
}

func newTarget(active bool) (Target, *colors.Paint, *colors.Paint) {
	a := colors.NewSolid(colors.Color{R: 1, A: 1})
	i := colors.NewSolid(colors.Color{B: 1, A: 1})
	return Target{Active: active, ActivePaint: &a, InactivePaint: &i, Width: 100, Height: 50}, &a, &i
}

func TestStep_SpiralWrapsForward(t *testing.T) {
	m := NewManager(NewSet(Animation{Kind: Spiral, Duration: time.Second, Easing: Linear}), Set{}, 60)
	target, active, inactive := newTarget(true)

	t0 := time.Unix(100, 0)
	m.ResetClock(t0)
	if !m.Step(t0.Add(1500*time.Millisecond), target) {
		t.Fatalf("expected spiral to update")
	}
	if math.Abs(m.Progress.Spiral-0.5) > 1e-9 {
		t.Fatalf("expected wrapped progress 0.5, got %v", m.Progress.Spiral)
	}
	if math.Abs(m.Progress.Angle-180) > 1e-6 {
		t.Fatalf("expected angle 180, got %v", m.Progress.Angle)
	}
	if active.Transform() != inactive.Transform() || active.Transform() == colors.Identity {
		t.Fatalf("expected both paints to share a rotation")
	}
}

func TestStep_ReverseSpiralWrapsBelowZero(t *testing.T) {
	m := NewManager(NewSet(Animation{Kind: ReverseSpiral, Duration: time.Second}), Set{}, 60)
	target, _, _ := newTarget(true)

	t0 := time.Unix(100, 0)
	m.ResetClock(t0)
	m.Step(t0.Add(250*time.Millisecond), target)
	if m.Progress.Spiral < 0 || m.Progress.Spiral >= 1 {
		t.Fatalf("expected progress in [0,1), got %v", m.Progress.Spiral)
	}
	if math.Abs(m.Progress.Spiral-0.75) > 1e-9 {
		t.Fatalf("expected 0.75, got %v", m.Progress.Spiral)
	}
}

func TestStep_FadeToVisibleThenClamps(t *testing.T) {
	fade := Animation{Kind: Fade, Duration: 200 * time.Millisecond, Easing: Linear}
	m := NewManager(NewSet(fade), NewSet(fade), 60)
	target, active, inactive := newTarget(true)
	active.SetOpacity(0)
	inactive.SetOpacity(0)
	m.Flags.ShouldFade = true

	t0 := time.Unix(100, 0)
	m.ResetClock(t0)
	m.Step(t0.Add(100*time.Millisecond), target)
	if !m.Flags.FadeToVisible {
		t.Fatalf("expected fade-to-visible")
	}
	if math.Abs(active.Opacity()-0.5) > 1e-9 || inactive.Opacity() != 0 {
		t.Fatalf("expected (0.5, 0), got (%v, %v)", active.Opacity(), inactive.Opacity())
	}

	m.Step(t0.Add(300*time.Millisecond), target)
	if m.Progress.Fade != 1 {
		t.Fatalf("expected progress clamped to 1, got %v", m.Progress.Fade)
	}
	if active.Opacity()+inactive.Opacity() != 1 || active.Opacity() != 1 {
		t.Fatalf("expected terminal split (1, 0), got (%v, %v)", active.Opacity(), inactive.Opacity())
	}
	if m.Flags.ShouldFade || m.Flags.FadeToVisible {
		t.Fatalf("expected fade flags cleared")
	}
}

func TestStep_CrossFadeToInactive(t *testing.T) {
	fade := Animation{Kind: Fade, Duration: 100 * time.Millisecond}
	m := NewManager(NewSet(fade), NewSet(fade), 60)
	target, active, inactive := newTarget(false)
	active.SetOpacity(1)
	inactive.SetOpacity(0)
	m.Progress.Fade = 1
	m.Flags.ShouldFade = true

	t0 := time.Unix(100, 0)
	m.ResetClock(t0)
	m.Step(t0.Add(25*time.Millisecond), target)
	if math.Abs(active.Opacity()-0.75) > 1e-9 || math.Abs(inactive.Opacity()-0.25) > 1e-9 {
		t.Fatalf("expected (0.75, 0.25), got (%v, %v)", active.Opacity(), inactive.Opacity())
	}

	m.Step(t0.Add(500*time.Millisecond), target)
	if m.Progress.Fade != 0 || active.Opacity() != 0 || inactive.Opacity() != 1 {
		t.Fatalf("expected terminal inactive split, got fade=%v (%v, %v)", m.Progress.Fade, active.Opacity(), inactive.Opacity())
	}
}

func TestStep_FadeIdleWithoutShouldFade(t *testing.T) {
	m := NewManager(NewSet(Animation{Kind: Fade, Duration: time.Second}), Set{}, 60)
	target, _, _ := newTarget(true)
	t0 := time.Unix(100, 0)
	m.ResetClock(t0)
	if m.Step(t0.Add(time.Second), target) {
		t.Fatalf("expected no update while should_fade is unset")
	}
}

func TestStep_NoAnimationsResetsTransforms(t *testing.T) {
	m := NewManager(Set{}, NewSet(Animation{Kind: Spiral, Duration: time.Second}), 60)
	target, active, inactive := newTarget(true)
	active.SetTransform(colors.Rotation(45, 0, 0))
	inactive.SetTransform(colors.Rotation(45, 0, 0))

	if m.Step(time.Unix(100, 0), target) {
		t.Fatalf("expected no update without active animations")
	}
	if active.Transform() != colors.Identity || inactive.Transform() != colors.Identity {
		t.Fatalf("expected identity transforms")
	}
}

func TestManager_RenderDue(t *testing.T) {
	m := NewManager(Set{}, Set{}, 50)
	last := time.Unix(100, 0)
	if m.RenderDue(last.Add(10*time.Millisecond), last) {
		t.Fatalf("expected render to wait for the 20ms interval")
	}
	if !m.RenderDue(last.Add(19500*time.Microsecond), last) {
		t.Fatalf("expected jitter slack to allow render")
	}
	if !m.RenderDue(last, time.Time{}) {
		t.Fatalf("expected first render to be due")
	}
}

func TestManager_DefaultFPS(t *testing.T) {
	m := NewManager(Set{}, Set{}, 0)
	if m.FPS() != DefaultFPS || m.Interval() != time.Second/DefaultFPS {
		t.Fatalf("expected default fps, got %d", m.FPS())
	}
}
