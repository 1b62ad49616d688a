package effect

import (
	"image"
	"slices"
)

// Manager holds the effect descriptors for both focus states and lazily
// compiles one program per state.
type Manager struct {
	active   []Descriptor
	inactive []Descriptor

	activeProgram   *Program
	inactiveProgram *Program
}

func NewManager(active, inactive []Descriptor) *Manager {
	return &Manager{active: slices.Clone(active), inactive: slices.Clone(inactive)}
}

func (m *Manager) Active() []Descriptor   { return slices.Clone(m.active) }
func (m *Manager) Inactive() []Descriptor { return slices.Clone(m.inactive) }

// Enabled reports whether either state has effects.
func (m *Manager) Enabled() bool {
	return len(m.active) > 0 || len(m.inactive) > 0
}

// Padding is the margin the effects need around the stroke.
func (m *Manager) Padding() int {
	return Padding(m.active, m.inactive)
}

// SetDescriptors replaces both lists and drops compiled programs.
func (m *Manager) SetDescriptors(active, inactive []Descriptor) {
	m.active = slices.Clone(active)
	m.inactive = slices.Clone(inactive)
	m.Invalidate()
}

// Invalidate drops compiled programs; call it when bitmaps are reallocated.
func (m *Manager) Invalidate() {
	m.activeProgram = nil
	m.inactiveProgram = nil
}

// Program returns the compiled program for the focus state, rebuilding it
// when none exists or the bitmap size changed.
func (m *Manager) Program(active bool, size image.Point) *Program {
	slot, descs := &m.inactiveProgram, m.inactive
	if active {
		slot, descs = &m.activeProgram, m.active
	}
	if *slot == nil || (*slot).size != size {
		*slot = Compile(Build(descs), size)
	}
	return *slot
}
