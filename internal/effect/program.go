package effect

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Program is a compiled effect tree bound to a bitmap size. It is replayed on
// every frame until the descriptors or the bitmap size change.
type Program struct {
	root Node
	size image.Point
}

// Compile binds root to bitmaps of the given size.
func Compile(root Node, size image.Point) *Program {
	return &Program{root: root, size: size}
}

func (p *Program) Size() image.Point { return p.size }

// Passthrough reports whether the program copies the border unchanged.
func (p *Program) Passthrough() bool {
	s, ok := p.root.(*Source)
	return ok && s.Input == BorderInput
}

// Execute evaluates the program over region, reading the border and mask
// bitmaps and writing the result into dst.
func (p *Program) Execute(dst, border, mask *image.RGBA, region image.Rectangle) error {
	for _, b := range []*image.RGBA{dst, border, mask} {
		if b == nil {
			return fmt.Errorf("execute effect program: missing bitmap")
		}
		if b.Bounds().Size() != p.size {
			return fmt.Errorf("execute effect program: bitmap size %v does not match program size %v", b.Bounds().Size(), p.size)
		}
	}
	region = region.Intersect(dst.Bounds())
	if region.Empty() {
		return nil
	}

	ev := evaluator{
		region: region,
		inputs: map[Input]*image.RGBA{BorderInput: border, MaskInput: mask},
		memo:   make(map[Node]*image.RGBA),
	}
	out := ev.eval(p.root)
	draw.Draw(dst, region, out, region.Min, draw.Src)
	return nil
}

type evaluator struct {
	region image.Rectangle
	inputs map[Input]*image.RGBA
	memo   map[Node]*image.RGBA
}

func (e *evaluator) alloc() *image.RGBA {
	return image.NewRGBA(e.region)
}

func (e *evaluator) eval(n Node) *image.RGBA {
	if img, ok := e.memo[n]; ok {
		return img
	}

	var out *image.RGBA
	switch n := n.(type) {
	case *Source:
		out = e.inputs[n.Input].SubImage(e.region).(*image.RGBA)
	case *Blur:
		out = e.alloc()
		copyRGBA(out, e.eval(n.In))
		gaussianBlur(out, n.StandardDeviation)
	case *ShadowNode:
		out = e.alloc()
		alphaOnly(out, e.eval(n.In))
		gaussianBlur(out, n.StandardDeviation)
	case *Opacity:
		out = e.alloc()
		copyRGBA(out, e.eval(n.In))
		scaleRGBA(out, n.Value)
	case *Translate:
		out = e.alloc()
		src := e.eval(n.In)
		if n.X == float64(int(n.X)) && n.Y == float64(int(n.Y)) {
			sp := src.Bounds().Min.Sub(image.Pt(int(n.X), int(n.Y)))
			draw.Draw(out, out.Bounds(), src, sp, draw.Src)
		} else {
			m := f64.Aff3{1, 0, n.X, 0, 1, n.Y}
			draw.BiLinear.Transform(out, m, src, src.Bounds(), draw.Src, nil)
		}
	case *Composite:
		out = e.alloc()
		for _, in := range n.Inputs {
			draw.Draw(out, out.Bounds(), e.eval(in), e.region.Min, draw.Over)
		}
	case *AlphaMask:
		out = e.alloc()
		draw.DrawMask(out, out.Bounds(), e.eval(n.In), e.region.Min, e.eval(n.Mask), e.region.Min, draw.Src)
	default:
		out = e.alloc()
	}

	e.memo[n] = out
	return out
}

func copyRGBA(dst, src *image.RGBA) {
	r := dst.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		copy(dst.Pix[dst.PixOffset(r.Min.X, y):dst.PixOffset(r.Max.X, y)], src.Pix[src.PixOffset(r.Min.X, y):src.PixOffset(r.Max.X, y)])
	}
}

func alphaOnly(dst, src *image.RGBA) {
	r := dst.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		d := dst.Pix[dst.PixOffset(r.Min.X, y):dst.PixOffset(r.Max.X, y)]
		s := src.Pix[src.PixOffset(r.Min.X, y):src.PixOffset(r.Max.X, y)]
		for i := 3; i < len(d); i += 4 {
			d[i] = s[i]
		}
	}
}

func scaleRGBA(img *image.RGBA, v float64) {
	if v >= 1 {
		return
	}
	if v <= 0 {
		clear(img.Pix)
		return
	}
	scale := uint32(v*256 + 0.5)
	for i, p := range img.Pix {
		img.Pix[i] = uint8(uint32(p) * scale >> 8)
	}
}
