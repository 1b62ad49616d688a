package animation

import (
	"fmt"
	"strconv"
	"strings"
)

// Easing is a named timing curve.
type Easing struct {
	name  string
	curve Bezier
}

// Linear is the default easing.
var Linear = Easing{name: "Linear", curve: Bezier{0, 0, 1, 1}}

var easings = []Easing{
	Linear,
	{"EaseIn", Bezier{0.42, 0, 1, 1}},
	{"EaseInSine", Bezier{0.12, 0, 0.39, 0}},
	{"EaseInQuad", Bezier{0.11, 0, 0.5, 0}},
	{"EaseInCubic", Bezier{0.32, 0, 0.67, 0}},
	{"EaseInQuart", Bezier{0.5, 0, 0.75, 0}},
	{"EaseInQuint", Bezier{0.64, 0, 0.78, 0}},
	{"EaseInExpo", Bezier{0.7, 0, 0.84, 0}},
	{"EaseInCirc", Bezier{0.55, 0, 1, 0.45}},
	{"EaseInBack", Bezier{0.36, 0, 0.66, -0.56}},
	{"EaseOut", Bezier{0, 0, 0.58, 1}},
	{"EaseOutSine", Bezier{0.61, 1, 0.88, 1}},
	{"EaseOutQuad", Bezier{0.5, 1, 0.89, 1}},
	{"EaseOutCubic", Bezier{0.33, 1, 0.68, 1}},
	{"EaseOutQuart", Bezier{0.25, 1, 0.5, 1}},
	{"EaseOutQuint", Bezier{0.22, 1, 0.36, 1}},
	{"EaseOutExpo", Bezier{0.16, 1, 0.3, 1}},
	{"EaseOutCirc", Bezier{0, 0.55, 0.45, 1}},
	{"EaseOutBack", Bezier{0.34, 1.56, 0.64, 1}},
	{"EaseInOut", Bezier{0.42, 0, 0.58, 1}},
	{"EaseInOutSine", Bezier{0.37, 0, 0.63, 1}},
	{"EaseInOutQuad", Bezier{0.45, 0, 0.55, 1}},
	{"EaseInOutCubic", Bezier{0.65, 0, 0.35, 1}},
	{"EaseInOutQuart", Bezier{0.76, 0, 0.24, 1}},
	{"EaseInOutQuint", Bezier{0.83, 0, 0.17, 1}},
	{"EaseInOutExpo", Bezier{0.87, 0, 0.13, 1}},
	{"EaseInOutCirc", Bezier{0.85, 0, 0.15, 1}},
	{"EaseInOutBack", Bezier{0.68, -0.6, 0.32, 1.6}},
}

var easingsByKey = func() map[string]Easing {
	m := make(map[string]Easing, len(easings))
	for _, e := range easings {
		m[easingKey(e.name)] = e
	}
	return m
}()

// easingKey folds "EaseInOut", "ease_in_out" and "ease-in-out" together.
func easingKey(s string) string {
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(s))
}

// ParseEasing resolves a named easing or a cubic-bezier(x1, y1, x2, y2) literal.
// An empty string yields Linear.
func ParseEasing(s string) (Easing, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Linear, nil
	}

	if strings.HasPrefix(easingKey(trimmed), "cubicbezier(") {
		return parseCubicBezier(trimmed)
	}

	if e, ok := easingsByKey[easingKey(trimmed)]; ok {
		return e, nil
	}
	return Linear, fmt.Errorf("unknown easing %q", s)
}

func parseCubicBezier(s string) (Easing, error) {
	open := strings.IndexByte(s, '(')
	if !strings.HasSuffix(s, ")") {
		return Linear, fmt.Errorf("easing %q is missing a closing parenthesis", s)
	}
	parts := strings.Split(s[open+1:len(s)-1], ",")
	if len(parts) != 4 {
		return Linear, fmt.Errorf("easing %q needs four control values", s)
	}

	var p [4]float64
	for i, raw := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Linear, fmt.Errorf("easing %q value %d: %w", s, i+1, err)
		}
		p[i] = v
	}
	curve, err := NewBezier(p[0], p[1], p[2], p[3])
	if err != nil {
		return Linear, fmt.Errorf("easing %q: %w", s, err)
	}
	return Easing{name: fmt.Sprintf("cubic-bezier(%g, %g, %g, %g)", p[0], p[1], p[2], p[3]), curve: curve}, nil
}

func (e Easing) String() string {
	if e.name == "" {
		return Linear.name
	}
	return e.name
}

// Points returns the control coordinates of the curve.
func (e Easing) Points() [4]float64 {
	if e.name == "" {
		return Linear.curve.Points()
	}
	return e.curve.Points()
}

// Ease maps progress through the curve. The zero Easing is linear.
func (e Easing) Ease(x float64) float64 {
	if e.name == "" {
		return x
	}
	return e.curve.At(x)
}
