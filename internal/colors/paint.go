package colors

import (
	"image"
	imgcolor "image/color"
	"math"
	"slices"

	"golang.org/x/image/math/f64"
)

// Identity is the identity affine transform.
var Identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// Stop is a gradient color stop at a position in [0,1].
type Stop struct {
	Position float64
	Color    Color
}

// Paint is either a solid color or a linear gradient, plus the opacity and
// transform the animation engine drives.
type Paint struct {
	gradient  bool
	solid     Color
	stops     []Stop
	direction Coordinates
	animate   bool

	opacity      float64
	transform    f64.Aff3
	hasTransform bool
}

// NewSolid returns an opaque-by-default solid paint.
func NewSolid(c Color) Paint {
	return Paint{solid: c, opacity: 1}
}

// NewGradient returns a gradient paint. Stops are copied and sorted.
func NewGradient(stops []Stop, dir Coordinates, animate bool) Paint {
	s := slices.Clone(stops)
	slices.SortStableFunc(s, func(a, b Stop) int {
		switch {
		case a.Position < b.Position:
			return -1
		case a.Position > b.Position:
			return 1
		}
		return 0
	})
	return Paint{gradient: true, stops: s, direction: dir, animate: animate, opacity: 1}
}

func (p *Paint) IsGradient() bool { return p.gradient }

// Color returns the solid color, or the first stop of a gradient.
func (p *Paint) Color() Color {
	if p.gradient && len(p.stops) > 0 {
		return p.stops[0].Color
	}
	return p.solid
}

func (p *Paint) Stops() []Stop { return slices.Clone(p.stops) }

func (p *Paint) Direction() Coordinates { return p.direction }

// Animated reports whether the gradient direction rotates over time.
func (p *Paint) Animated() bool { return p.gradient && p.animate }

func (p *Paint) Opacity() float64 { return p.opacity }

func (p *Paint) SetOpacity(o float64) { p.opacity = clamp01(o) }

// Transform returns the current transform, identity when none was set.
func (p *Paint) Transform() f64.Aff3 {
	if !p.hasTransform {
		return Identity
	}
	return p.transform
}

func (p *Paint) SetTransform(m f64.Aff3) {
	p.transform = m
	p.hasTransform = true
}

func (p *Paint) ResetTransform() {
	p.transform = Identity
	p.hasTransform = false
}

// SetAngle points an animated gradient's axis at deg degrees.
func (p *Paint) SetAngle(deg float64) {
	if !p.Animated() {
		return
	}
	p.direction = AngleCoordinates(deg)
}

// Rotation returns a rotation by deg degrees about (cx, cy).
func Rotation(deg, cx, cy float64) f64.Aff3 {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return f64.Aff3{
		cos, -sin, cx - cos*cx + sin*cy,
		sin, cos, cy - sin*cx - cos*cy,
	}
}

// Source returns an image usable as a draw source over bounds. Gradient
// coordinates are scaled to bounds and the paint's transform is applied.
func (p *Paint) Source(bounds image.Rectangle) image.Image {
	if !p.gradient || len(p.stops) == 0 {
		return image.NewUniform(p.Color().Premultiplied(p.opacity))
	}

	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	ox, oy := float64(bounds.Min.X), float64(bounds.Min.Y)
	g := &gradientImage{
		bounds:  bounds,
		stops:   p.stops,
		opacity: p.opacity,
		sx:      ox + p.direction.Start[0]*w,
		sy:      oy + p.direction.Start[1]*h,
	}
	g.dx = ox + p.direction.End[0]*w - g.sx
	g.dy = oy + p.direction.End[1]*h - g.sy
	g.len2 = g.dx*g.dx + g.dy*g.dy

	inv, ok := invert(p.Transform())
	if !ok {
		inv = Identity
	}
	g.inverse = inv
	return g
}

type gradientImage struct {
	bounds  image.Rectangle
	stops   []Stop
	opacity float64
	inverse f64.Aff3

	sx, sy, dx, dy, len2 float64
}

func (g *gradientImage) ColorModel() imgcolor.Model { return imgcolor.RGBA64Model }

func (g *gradientImage) Bounds() image.Rectangle { return g.bounds }

func (g *gradientImage) At(x, y int) imgcolor.Color {
	return g.RGBA64At(x, y)
}

func (g *gradientImage) RGBA64At(x, y int) imgcolor.RGBA64 {
	px, py := float64(x)+0.5, float64(y)+0.5
	m := g.inverse
	ux := m[0]*px + m[1]*py + m[2]
	uy := m[3]*px + m[4]*py + m[5]

	t := 0.0
	if g.len2 > 0 {
		t = ((ux-g.sx)*g.dx + (uy-g.sy)*g.dy) / g.len2
	}
	return sample(g.stops, clamp01(t)).Premultiplied(g.opacity)
}

func sample(stops []Stop, t float64) Color {
	if t <= stops[0].Position {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t <= b.Position {
			span := b.Position - a.Position
			if span <= 0 {
				return b.Color
			}
			return a.Color.Lerp(b.Color, (t-a.Position)/span)
		}
	}
	return stops[len(stops)-1].Color
}

func invert(m f64.Aff3) (f64.Aff3, bool) {
	det := m[0]*m[4] - m[1]*m[3]
	if det == 0 || math.IsNaN(det) {
		return f64.Aff3{}, false
	}
	a, b := m[4]/det, -m[1]/det
	d, e := -m[3]/det, m[0]/det
	return f64.Aff3{
		a, b, -(a*m[2] + b*m[5]),
		d, e, -(d*m[2] + e*m[5]),
	}, true
}
