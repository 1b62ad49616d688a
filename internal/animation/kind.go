package animation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind identifies an animation behavior.
type Kind int

const (
	Spiral Kind = iota
	ReverseSpiral
	Fade
)

const (
	DefaultSpiralDuration = 1800 * time.Millisecond
	DefaultFadeDuration   = 200 * time.Millisecond
	DefaultFPS            = 60
)

func (k Kind) String() string {
	switch k {
	case Spiral:
		return "spiral"
	case ReverseSpiral:
		return "reverse_spiral"
	case Fade:
		return "fade"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// DefaultDuration is used when an animation omits or misspells its duration.
func (k Kind) DefaultDuration() time.Duration {
	if k == Fade {
		return DefaultFadeDuration
	}
	return DefaultSpiralDuration
}

// slot groups kinds that may not coexist in one set.
func (k Kind) slot() Kind {
	if k == ReverseSpiral {
		return Spiral
	}
	return k
}

// ParseKind accepts "spiral", "reverse_spiral" (or "ReverseSpiral",
// "reverse-spiral") and "fade".
func ParseKind(s string) (Kind, error) {
	switch strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s))) {
	case "spiral":
		return Spiral, nil
	case "reversespiral":
		return ReverseSpiral, nil
	case "fade":
		return Fade, nil
	}
	return 0, fmt.Errorf("unknown animation kind %q", s)
}

var durationPattern = regexp.MustCompile(`(?i)^([\d.]+)(ms|s)$`)

// ParseDuration parses "250ms" or "1.5s".
func ParseDuration(s string) (time.Duration, error) {
	m := durationPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("invalid duration %q: expected a number followed by ms or s", s)
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if strings.EqualFold(m[2], "s") {
		v *= 1000
	}
	return time.Duration(v * float64(time.Millisecond)), nil
}
