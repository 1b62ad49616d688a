package border

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/1broseidon/bordertile/internal/animation"
	"github.com/1broseidon/bordertile/internal/colors"
	"github.com/1broseidon/bordertile/internal/effect"
	"github.com/1broseidon/bordertile/internal/platform"
)

const (
	DefaultWidth           = 2
	DefaultOffset          = -1
	DefaultInitializeDelay = 250 * time.Millisecond
	DefaultUnminimizeDelay = 200 * time.Millisecond
)

// StyleKind selects how corner radius is derived.
type StyleKind int

const (
	StyleAuto StyleKind = iota
	StyleRound
	StyleSmallRound
	StyleSquare
	StyleRadius
)

// Style is a corner style; Radius is only used by StyleRadius.
type Style struct {
	Kind   StyleKind
	Radius float64
}

// ParseStyle accepts auto, round, small_round, square and radius(N).
func ParseStyle(s string) (Style, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch strings.ReplaceAll(v, "-", "_") {
	case "", "auto":
		return Style{Kind: StyleAuto}, nil
	case "round":
		return Style{Kind: StyleRound}, nil
	case "small_round", "smallround":
		return Style{Kind: StyleSmallRound}, nil
	case "square":
		return Style{Kind: StyleSquare}, nil
	}

	if inner, ok := strings.CutPrefix(v, "radius("); ok && strings.HasSuffix(inner, ")") {
		n, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(inner, ")")), 64)
		if err != nil {
			return Style{}, fmt.Errorf("invalid border style %q: %w", s, err)
		}
		if n < 0 {
			return Style{Kind: StyleAuto}, nil
		}
		return Style{Kind: StyleRadius, Radius: n}, nil
	}
	return Style{}, fmt.Errorf("invalid border style %q", s)
}

func (s Style) String() string {
	switch s.Kind {
	case StyleRound:
		return "round"
	case StyleSmallRound:
		return "small_round"
	case StyleSquare:
		return "square"
	case StyleRadius:
		return fmt.Sprintf("radius(%g)", s.Radius)
	default:
		return "auto"
	}
}

// CornerRadius returns the stroke radius in pixels for a scaled width.
func (s Style) CornerRadius(width int, dpi float64, pref platform.CornerPreference) float64 {
	base := float64(width) / 2
	scale := dpi / 96
	switch s.Kind {
	case StyleRound:
		return 8*scale + base
	case StyleSmallRound:
		return 4*scale + base
	case StyleSquare:
		return 0
	case StyleRadius:
		return s.Radius * scale
	}

	switch pref {
	case platform.CornerDoNotRound:
		return 0
	case platform.CornerRoundSmall:
		return 4*scale + base
	default:
		return 8*scale + base
	}
}

// Settings is the resolved rule for one tracked window.
type Settings struct {
	Enabled bool
	Width   int
	Offset  int
	Style   Style

	ActiveColor   colors.Paint
	InactiveColor colors.Paint

	ActiveAnimations   animation.Set
	InactiveAnimations animation.Set
	FPS                int

	ActiveEffects   []effect.Descriptor
	InactiveEffects []effect.Descriptor

	InitializeDelay time.Duration
	UnminimizeDelay time.Duration
}

// DefaultSettings is an enabled border with engine defaults.
func DefaultSettings() Settings {
	return Settings{
		Enabled:         true,
		Width:           DefaultWidth,
		Offset:          DefaultOffset,
		ActiveColor:     colors.NewSolid(colors.Color{A: 1}),
		InactiveColor:   colors.NewSolid(colors.Color{A: 1}),
		FPS:             animation.DefaultFPS,
		InitializeDelay: DefaultInitializeDelay,
		UnminimizeDelay: DefaultUnminimizeDelay,
	}
}

// ScaledWidth converts the configured width to pixels at dpi.
func (s Settings) ScaledWidth(dpi float64) int {
	if dpi <= 0 {
		dpi = 96
	}
	return int(math.Round(float64(s.Width) * dpi / 96))
}
