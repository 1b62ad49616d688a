package render

import (
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// kappa places cubic control points for a quarter circle.
const kappa = 0.5523

// RectF is a floating point rectangle in bitmap coordinates.
type RectF struct {
	Left, Top, Right, Bottom float64
}

func (r RectF) Inset(d float64) RectF {
	return RectF{r.Left + d, r.Top + d, r.Right - d, r.Bottom - d}
}

func (r RectF) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// StrokeRect draws a rectangle outline of the given stroke width centered on
// r, with corner radius rad (0 for square corners), filled from src.
func StrokeRect(z *vector.Rasterizer, dst *image.RGBA, area image.Rectangle, r RectF, width, rad float64, src image.Image) {
	if width <= 0 {
		return
	}
	outer := r.Inset(-width / 2)
	inner := r.Inset(width / 2)

	z.Reset(area.Dx(), area.Dy())
	z.DrawOp = draw.Over
	ox, oy := float64(area.Min.X), float64(area.Min.Y)

	roundedRect(z, outer, rad+width/2, ox, oy, false)
	if !inner.Empty() {
		roundedRect(z, inner, max(rad-width/2, 0), ox, oy, true)
	}
	z.Draw(dst, area, src, area.Min)
}

// FillOutside makes every pixel of area opaque except the inside of the
// rounded rectangle r.
func FillOutside(z *vector.Rasterizer, dst *image.RGBA, area image.Rectangle, r RectF, rad float64) {
	z.Reset(area.Dx(), area.Dy())
	z.DrawOp = draw.Src
	w, h := float32(area.Dx()), float32(area.Dy())
	z.MoveTo(0, 0)
	z.LineTo(w, 0)
	z.LineTo(w, h)
	z.LineTo(0, h)
	z.ClosePath()
	if !r.Empty() {
		roundedRect(z, r, rad, float64(area.Min.X), float64(area.Min.Y), true)
	}
	z.Draw(dst, area, image.Opaque, image.Point{})
}

// roundedRect appends a closed rounded rectangle to the rasterizer path,
// clockwise or, when reverse is set, counter-clockwise so it cuts a hole.
func roundedRect(z *vector.Rasterizer, r RectF, rad, ox, oy float64, reverse bool) {
	rad = min(rad, (r.Right-r.Left)/2, (r.Bottom-r.Top)/2)
	l, t := float32(r.Left-ox), float32(r.Top-oy)
	rt, b := float32(r.Right-ox), float32(r.Bottom-oy)

	if rad <= 0 {
		z.MoveTo(l, t)
		if reverse {
			z.LineTo(l, b)
			z.LineTo(rt, b)
			z.LineTo(rt, t)
		} else {
			z.LineTo(rt, t)
			z.LineTo(rt, b)
			z.LineTo(l, b)
		}
		z.ClosePath()
		return
	}

	rd := float32(rad)
	k := float32(kappa * rad)
	z.MoveTo(l+rd, t)
	if reverse {
		z.CubeTo(l+rd-k, t, l, t+rd-k, l, t+rd)
		z.LineTo(l, b-rd)
		z.CubeTo(l, b-rd+k, l+rd-k, b, l+rd, b)
		z.LineTo(rt-rd, b)
		z.CubeTo(rt-rd+k, b, rt, b-rd+k, rt, b-rd)
		z.LineTo(rt, t+rd)
		z.CubeTo(rt, t+rd-k, rt-rd+k, t, rt-rd, t)
	} else {
		z.LineTo(rt-rd, t)
		z.CubeTo(rt-rd+k, t, rt, t+rd-k, rt, t+rd)
		z.LineTo(rt, b-rd)
		z.CubeTo(rt, b-rd+k, rt-rd+k, b, rt-rd, b)
		z.LineTo(l+rd, b)
		z.CubeTo(l+rd-k, b, l, b-rd+k, l, b-rd)
		z.LineTo(l, t+rd)
		z.CubeTo(l, t+rd-k, l+rd-k, t, l+rd, t)
	}
	z.ClosePath()
}
