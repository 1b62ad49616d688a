package colors

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Point is a position in unit-square coordinates relative to the window rect.
type Point [2]float64

// Coordinates is the start and end of a gradient axis.
type Coordinates struct {
	Start Point `yaml:"start" json:"start"`
	End   Point `yaml:"end" json:"end"`
}

// DefaultDirection is used when a gradient names no direction.
const DefaultDirection = "to right"

var namedDirections = map[string]Coordinates{
	"to right":        {Start: Point{0, 0.5}, End: Point{1, 0.5}},
	"to left":         {Start: Point{1, 0.5}, End: Point{0, 0.5}},
	"to top":          {Start: Point{0.5, 1}, End: Point{0.5, 0}},
	"to bottom":       {Start: Point{0.5, 0}, End: Point{0.5, 1}},
	"to top right":    {Start: Point{0, 1}, End: Point{1, 0}},
	"to top left":     {Start: Point{1, 1}, End: Point{0, 0}},
	"to bottom right": {Start: Point{0, 0}, End: Point{1, 1}},
	"to bottom left":  {Start: Point{1, 0}, End: Point{0, 1}},
}

var fallbackDirection = Coordinates{Start: Point{0.5, 1}, End: Point{0.5, 0}}

// Direction is either a named or angular direction string ("to right",
// "45deg") or explicit coordinates.
type Direction struct {
	Name   string
	Coords *Coordinates
}

// Resolve returns the unit-square coordinates for d.
func (d Direction) Resolve() Coordinates {
	if d.Coords != nil {
		return *d.Coords
	}
	return ParseDirection(d.Name)
}

// ParseDirection maps a direction string to coordinates. Unknown names map to
// a bottom-to-top axis.
func ParseDirection(s string) Coordinates {
	name := strings.Join(strings.Fields(strings.ToLower(s)), " ")
	if name == "" {
		name = DefaultDirection
	}
	if c, ok := namedDirections[name]; ok {
		return c
	}
	if deg, ok := strings.CutSuffix(name, "deg"); ok {
		if v, err := strconv.ParseFloat(strings.TrimSpace(deg), 64); err == nil {
			return AngleCoordinates(v)
		}
	}
	return fallbackDirection
}

// AngleCoordinates intersects a line through the unit-square center at the
// given angle with the square's edges.
func AngleCoordinates(deg float64) Coordinates {
	rad := -deg * math.Pi / 180
	norm := math.Mod(math.Abs(deg), 360)

	var m float64
	switch norm {
	case 90, 270:
		m = math.Copysign(math.MaxFloat64, deg)
	default:
		m = math.Tan(rad)
	}
	b := -m*0.5 + 0.5

	xs, xe := 0.0, 1.0
	if norm >= 90 && norm < 270 {
		xs, xe = 1, 0
	}

	edge := func(x float64) Point {
		y := m*x + b
		switch {
		case y >= 0 && y <= 1:
			return Point{x, y}
		case y >= 1:
			return Point{(1 - b) / m, 1}
		default:
			return Point{-b / m, 0}
		}
	}
	return Coordinates{Start: edge(xs), End: edge(xe)}
}

// GradientSpec is the mapping form of a gradient definition.
type GradientSpec struct {
	Colors    []string
	Direction Direction
	Animate   bool
}

// ParseGradient parses the functional form
// gradient(c1, c2, ..., [direction], [true|false]).
func ParseGradient(expr string, opts Options) (Paint, error) {
	s := strings.TrimSpace(expr)
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") || !strings.EqualFold(s[:open], "gradient") {
		return Paint{}, fmt.Errorf("%w: %q is not a gradient() expression", ErrInvalidColor, expr)
	}

	spec := GradientSpec{Direction: Direction{Name: DefaultDirection}}
	args := splitArgs(s[open+1 : len(s)-1])
	for i, arg := range args {
		last := i == len(args)-1
		lower := strings.ToLower(arg)
		switch {
		case last && (lower == "true" || lower == "false"):
			spec.Animate = lower == "true"
		case isDirection(lower):
			spec.Direction = Direction{Name: lower}
		default:
			spec.Colors = append(spec.Colors, arg)
		}
	}
	return FromGradient(spec, opts)
}

func isDirection(s string) bool {
	if strings.HasPrefix(s, "to ") {
		return true
	}
	deg, ok := strings.CutSuffix(s, "deg")
	if !ok {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(deg), 64)
	return err == nil
}

// FromGradient builds a paint from a gradient definition. A single color
// collapses to a solid paint.
func FromGradient(spec GradientSpec, opts Options) (Paint, error) {
	switch len(spec.Colors) {
	case 0:
		return Paint{}, fmt.Errorf("%w: gradient has no colors", ErrInvalidColor)
	case 1:
		c, err := ParseColor(spec.Colors[0], opts)
		if err != nil {
			return Paint{}, err
		}
		return NewSolid(c), nil
	}

	stops := make([]Stop, 0, len(spec.Colors))
	last := float64(len(spec.Colors) - 1)
	for i, raw := range spec.Colors {
		c, err := ParseColor(raw, opts)
		if err != nil {
			return Paint{}, fmt.Errorf("gradient stop %d: %w", i, err)
		}
		stops = append(stops, Stop{Position: float64(i) / last, Color: c})
	}
	return NewGradient(stops, spec.Direction.Resolve(), spec.Animate), nil
}

// Parse resolves a paint expression: any color form accepted by ParseColor,
// or a gradient() expression.
func Parse(expr string, opts Options) (Paint, error) {
	s := strings.TrimSpace(expr)
	if strings.HasPrefix(strings.ToLower(s), "gradient(") {
		return ParseGradient(s, opts)
	}
	c, err := ParseColor(s, opts)
	if err != nil {
		return Paint{}, err
	}
	return NewSolid(c), nil
}
