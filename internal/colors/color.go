package colors

import (
	"errors"
	"fmt"
	imgcolor "image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is wrapped by every parse failure in this package.
var ErrInvalidColor = errors.New("invalid color")

// DefaultAccent is used when no accent source is configured or the source fails.
var DefaultAccent = Color{R: 0, G: 0x78 / 255.0, B: 0xd4 / 255.0, A: 1}

// Color is a straight-alpha RGBA color with components in [0,1].
type Color struct {
	R, G, B, A float64
}

// RGBA implements image/color.Color (premultiplied, 16-bit).
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.Premultiplied(1).RGBA()
}

// Premultiplied returns the color with its alpha scaled by opacity and applied
// to the color channels.
func (c Color) Premultiplied(opacity float64) imgcolor.RGBA64 {
	a := clamp01(c.A * opacity)
	return imgcolor.RGBA64{
		R: uint16(clamp01(c.R)*a*0xffff + 0.5),
		G: uint16(clamp01(c.G)*a*0xffff + 0.5),
		B: uint16(clamp01(c.B)*a*0xffff + 0.5),
		A: uint16(a*0xffff + 0.5),
	}
}

// Lerp interpolates between c and o by t in straight alpha.
func (c Color) Lerp(o Color, t float64) Color {
	return Color{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A + (o.A-c.A)*t,
	}
}

// Options controls context-dependent parts of color resolution.
type Options struct {
	// Active selects the active variant of the desktop accent color.
	Active bool
	// Accent queries the desktop accent color. Nil means DefaultAccent.
	Accent func() (Color, error)
}

func (o Options) accent() Color {
	base := DefaultAccent
	if o.Accent != nil {
		if c, err := o.Accent(); err == nil {
			base = c
		}
	}
	if o.Active {
		return Color{R: base.R, G: base.G, B: base.B, A: 1}
	}
	avg := (base.R + base.G + base.B) / 3
	return Color{
		R: avg/1.5 + base.R/10,
		G: avg/1.5 + base.G/10,
		B: avg/1.5 + base.B/10,
		A: 1,
	}
}

// ParseColor resolves a single color expression: hex, rgb()/rgba(), a named
// ANSI color, "accent", "transparent", or darken()/lighten() of any of those.
func ParseColor(s string, opts Options) (Color, error) {
	expr := strings.TrimSpace(s)
	lower := strings.ToLower(expr)

	switch {
	case lower == "":
		return Color{}, fmt.Errorf("%w: empty expression", ErrInvalidColor)
	case lower == "accent":
		return opts.accent(), nil
	case lower == "transparent":
		return Color{}, nil
	case strings.HasPrefix(lower, "#"):
		return parseHex(expr)
	case strings.HasPrefix(lower, "rgb(") || strings.HasPrefix(lower, "rgba("):
		return parseRGB(expr)
	case strings.HasPrefix(lower, "darken(") || strings.HasPrefix(lower, "lighten("):
		return parseAdjust(expr, opts)
	}

	if c, ok := ansiColor(lower); ok {
		return c, nil
	}
	return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

func parseHex(s string) (Color, error) {
	hex := s[1:]
	switch len(hex) {
	case 3, 4:
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	case 6, 8:
	default:
		return Color{}, fmt.Errorf("%w: hex %q must have 3, 4, 6 or 8 digits", ErrInvalidColor, s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: hex %q: %v", ErrInvalidColor, s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}

func parseRGB(s string) (Color, error) {
	open := strings.IndexByte(s, '(')
	if !strings.HasSuffix(s, ")") || open < 0 {
		return Color{}, fmt.Errorf("%w: %q is missing parentheses", ErrInvalidColor, s)
	}
	parts := strings.Split(s[open+1:len(s)-1], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("%w: %q needs 3 or 4 components", ErrInvalidColor, s)
	}

	var ch [3]float64
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q component %d: %v", ErrInvalidColor, s, i+1, err)
		}
		ch[i] = float64(min(max(n, 0), 255)) / 255
	}

	alpha := 1.0
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q alpha: %v", ErrInvalidColor, s, err)
		}
		alpha = clamp01(a)
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: alpha}, nil
}

func parseAdjust(s string, opts Options) (Color, error) {
	open := strings.IndexByte(s, '(')
	if !strings.HasSuffix(s, ")") {
		return Color{}, fmt.Errorf("%w: %q is missing a closing parenthesis", ErrInvalidColor, s)
	}
	fn := strings.ToLower(s[:open])
	args := splitArgs(s[open+1 : len(s)-1])
	if len(args) != 2 {
		return Color{}, fmt.Errorf("%w: %s() takes a color and a percentage", ErrInvalidColor, fn)
	}

	base, err := ParseColor(args[0], opts)
	if err != nil {
		return Color{}, err
	}
	pct, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(args[1]), "%"), 64)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %s() percentage %q: %v", ErrInvalidColor, fn, args[1], err)
	}

	if fn == "darken" {
		return Darken(base, pct), nil
	}
	return Lighten(base, pct), nil
}

// Hex formats c as #rrggbb, dropping alpha.
func (c Color) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

// Darken lowers the HSL lightness of c by pct percent of its current value.
func Darken(c Color, pct float64) Color {
	return adjustLightness(c, -pct)
}

// Lighten raises the HSL lightness of c by pct percent of its current value.
func Lighten(c Color, pct float64) Color {
	return adjustLightness(c, pct)
}

func adjustLightness(c Color, pct float64) Color {
	h, s, l := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsl()
	l = clamp01(l + l*pct/100)
	out := colorful.Hsl(h, s, l).Clamped()
	return Color{R: out.R, G: out.G, B: out.B, A: c.A}
}

// splitArgs splits a comma separated list, ignoring commas nested in parentheses.
func splitArgs(s string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" || len(out) > 0 {
		out = append(out, tail)
	}
	return out
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), 1)
}
