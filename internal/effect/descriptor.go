package effect

import (
	"fmt"
	"math"
	"strings"
)

// Kind selects the post-processing applied to the border stroke.
type Kind int

const (
	Glow Kind = iota
	Shadow
)

const (
	DefaultStandardDeviation = 8.0
	DefaultOpacity           = 1.0
)

func (k Kind) String() string {
	switch k {
	case Glow:
		return "glow"
	case Shadow:
		return "shadow"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "glow":
		return Glow, nil
	case "shadow":
		return Shadow, nil
	}
	return 0, fmt.Errorf("unknown effect kind %q", s)
}

// Translation is an offset in pixels.
type Translation struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Descriptor configures one effect layer.
type Descriptor struct {
	Kind              Kind
	StandardDeviation float64
	Opacity           float64
	Translation       Translation
}

// NewDescriptor returns a descriptor with default parameters.
func NewDescriptor(kind Kind) Descriptor {
	return Descriptor{
		Kind:              kind,
		StandardDeviation: DefaultStandardDeviation,
		Opacity:           DefaultOpacity,
	}
}

// reach is how far, in pixels, the effect can extend past the stroke.
func (d Descriptor) reach() int {
	off := math.Max(math.Abs(d.Translation.X), math.Abs(d.Translation.Y))
	return int(math.Ceil(3*math.Max(d.StandardDeviation, 0) + off))
}

// Padding returns the margin needed around the stroke so that no effect in
// descs is clipped. It is zero for an empty list.
func Padding(descs ...[]Descriptor) int {
	pad := 0
	for _, list := range descs {
		for _, d := range list {
			pad = max(pad, d.reach())
		}
	}
	return pad
}
