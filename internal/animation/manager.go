package animation

import (
	"slices"
	"time"
)

// Animation is one configured behavior for a focus state.
type Animation struct {
	Kind     Kind
	Duration time.Duration
	Easing   Easing
}

// Set holds at most one animation per kind. Spiral and ReverseSpiral share a
// slot, so inserting one replaces the other.
type Set struct {
	items []Animation
}

// NewSet builds a set; later entries replace earlier ones of the same slot.
func NewSet(anims ...Animation) Set {
	var s Set
	for _, a := range anims {
		s.Insert(a)
	}
	return s
}

// Insert adds a, returning the animation it replaced if any.
func (s *Set) Insert(a Animation) (Animation, bool) {
	for i, existing := range s.items {
		if existing.Kind.slot() == a.Kind.slot() {
			s.items[i] = a
			return existing, true
		}
	}
	s.items = append(s.items, a)
	return Animation{}, false
}

func (s Set) Get(k Kind) (Animation, bool) {
	for _, a := range s.items {
		if a.Kind == k {
			return a, true
		}
	}
	return Animation{}, false
}

func (s Set) Has(k Kind) bool {
	_, ok := s.Get(k)
	return ok
}

func (s Set) All() []Animation { return slices.Clone(s.items) }

func (s Set) Len() int { return len(s.items) }

// Progress holds live animation scalars.
type Progress struct {
	Fade   float64
	Spiral float64
	// Angle is the spiral rotation in degrees, [0,360).
	Angle float64
	// Gradient is the rotation of animated gradient axes in degrees.
	Gradient float64
}

type Flags struct {
	// FadeToVisible marks a fade from both paints invisible.
	FadeToVisible bool
	// ShouldFade engages the fade animation on subsequent ticks.
	ShouldFade bool
}

// GradientRevolution is how long an animated gradient takes to turn once.
const GradientRevolution = 1800 * time.Millisecond

// Manager holds a border's per-state animation sets and their live progress.
type Manager struct {
	Active   Set
	Inactive Set
	Progress Progress
	Flags    Flags

	fps      int
	lastTick time.Time
}

func NewManager(active, inactive Set, fps int) *Manager {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Manager{Active: active, Inactive: inactive, fps: fps}
}

func (m *Manager) FPS() int { return m.fps }

// Interval is the timer period and the minimum spacing between renders.
func (m *Manager) Interval() time.Duration {
	return time.Second / time.Duration(m.fps)
}

// Current returns the set for the given focus state.
func (m *Manager) Current(active bool) Set {
	if active {
		return m.Active
	}
	return m.Inactive
}

func (m *Manager) HasAnimations() bool {
	return m.Active.Len() > 0 || m.Inactive.Len() > 0
}

// ResetClock restarts elapsed-time accounting at now.
func (m *Manager) ResetClock(now time.Time) {
	m.lastTick = now
}

// elapsed returns the time since the previous tick and records now.
func (m *Manager) elapsed(now time.Time) time.Duration {
	if m.lastTick.IsZero() {
		m.lastTick = now
		return 0
	}
	d := now.Sub(m.lastTick)
	m.lastTick = now
	if d < 0 {
		return 0
	}
	return d
}

// RenderDue reports whether at least one interval has passed since lastRender.
// A millisecond of slack absorbs timer jitter.
func (m *Manager) RenderDue(now, lastRender time.Time) bool {
	if lastRender.IsZero() {
		return true
	}
	return now.Sub(lastRender) >= m.Interval()-time.Millisecond
}

// SnapFade sets the fade progress to the terminal value for the focus state.
func (m *Manager) SnapFade(active bool) {
	if active {
		m.Progress.Fade = 1
	} else {
		m.Progress.Fade = 0
	}
}
