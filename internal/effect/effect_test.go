package effect

import (
	"image"
	"image/color"
	"testing"
)

func TestBuild_NoDescriptorsIsPassthrough(t *testing.T) {
	root := Build(nil)
	src, ok := root.(*Source)
	if !ok || src.Input != BorderInput {
		t.Fatalf("expected raw border source, got %#v", root)
	}
}

func TestBuild_DecomposesOpacityAboveOne(t *testing.T) {
	d := NewDescriptor(Glow)
	d.Opacity = 2.5
	d.Translation = Translation{X: 3, Y: -2}

	mask, ok := Build([]Descriptor{d}).(*AlphaMask)
	if !ok {
		t.Fatalf("expected alpha mask root")
	}
	comp, ok := mask.In.(*Composite)
	if !ok {
		t.Fatalf("expected composite under mask")
	}
	// 1 + 1 + 0.5 effect copies, then the raw border on top.
	if len(comp.Inputs) != 4 {
		t.Fatalf("expected 4 composite inputs, got %d", len(comp.Inputs))
	}
	want := []float64{1, 1, 0.5}
	var base Node
	for i, op := range want {
		tr, ok := comp.Inputs[i].(*Translate)
		if !ok || tr.X != 3 || tr.Y != -2 {
			t.Fatalf("input %d: expected translate(3,-2), got %#v", i, comp.Inputs[i])
		}
		o := tr.In.(*Opacity)
		if o.Value != op {
			t.Fatalf("input %d: expected opacity %v, got %v", i, op, o.Value)
		}
		if base == nil {
			base = o.In
		} else if base != o.In {
			t.Fatalf("expected copies to share one blur node")
		}
	}
	if _, ok := base.(*Blur); !ok {
		t.Fatalf("expected glow to blur, got %#v", base)
	}
	if src, ok := comp.Inputs[3].(*Source); !ok || src.Input != BorderInput {
		t.Fatalf("expected raw border last")
	}
}

func TestBuild_ShadowKind(t *testing.T) {
	comp := Build([]Descriptor{NewDescriptor(Shadow)}).(*AlphaMask).In.(*Composite)
	op := comp.Inputs[0].(*Translate).In.(*Opacity)
	if _, ok := op.In.(*ShadowNode); !ok {
		t.Fatalf("expected shadow node, got %#v", op.In)
	}
}

func TestSplitOpacity(t *testing.T) {
	cases := []struct {
		in   float64
		want []float64
	}{
		{0, nil},
		{0.4, []float64{0.4}},
		{1, []float64{1}},
		{2, []float64{1, 1}},
		{3.25, []float64{1, 1, 1, 0.25}},
	}
	for _, tc := range cases {
		got := splitOpacity(tc.in)
		if len(got) != len(tc.want) {
			t.Fatalf("%v: expected %v, got %v", tc.in, tc.want, got)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%v: expected %v, got %v", tc.in, tc.want, got)
			}
		}
	}
}

func TestPadding(t *testing.T) {
	if Padding() != 0 || Padding(nil, nil) != 0 {
		t.Fatalf("expected zero padding without effects")
	}
	glow := NewDescriptor(Glow)
	shadow := NewDescriptor(Shadow)
	shadow.StandardDeviation = 4
	shadow.Translation = Translation{X: 10}
	if got := Padding([]Descriptor{glow}, []Descriptor{shadow}); got != 24 {
		t.Fatalf("expected padding 24, got %d", got)
	}
}

func bitmaps(size image.Point) (dst, border, mask *image.RGBA) {
	r := image.Rectangle{Max: size}
	return image.NewRGBA(r), image.NewRGBA(r), image.NewRGBA(r)
}

func TestProgram_PassthroughCopiesBorder(t *testing.T) {
	size := image.Pt(20, 20)
	dst, border, mask := bitmaps(size)
	border.SetRGBA(5, 5, color.RGBA{255, 0, 0, 255})

	p := Compile(Build(nil), size)
	if !p.Passthrough() {
		t.Fatalf("expected passthrough program")
	}
	if err := p.Execute(dst, border, mask, image.Rect(0, 0, 10, 10)); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := dst.RGBAAt(5, 5); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("expected copied pixel, got %+v", got)
	}
}

func TestProgram_MaskPunchesInterior(t *testing.T) {
	size := image.Pt(40, 40)
	dst, border, mask := bitmaps(size)
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			border.SetRGBA(x, y, color.RGBA{0, 0, 255, 255})
			if x < 10 || x >= 30 || y < 10 || y >= 30 {
				mask.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
			}
		}
	}

	p := Compile(Build([]Descriptor{NewDescriptor(Glow)}), size)
	if err := p.Execute(dst, border, mask, image.Rect(0, 0, 40, 40)); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if a := dst.RGBAAt(20, 20).A; a != 0 {
		t.Fatalf("expected interior punched out, got alpha %d", a)
	}
	if a := dst.RGBAAt(2, 2).A; a != 255 {
		t.Fatalf("expected border region opaque, got alpha %d", a)
	}
}

func TestProgram_GlowSpreadsBeyondStroke(t *testing.T) {
	size := image.Pt(40, 40)
	dst, border, mask := bitmaps(size)
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			mask.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
		}
		border.SetRGBA(20, y, color.RGBA{255, 255, 255, 255})
	}

	d := NewDescriptor(Glow)
	d.StandardDeviation = 3
	p := Compile(Build([]Descriptor{d}), size)
	if err := p.Execute(dst, border, mask, image.Rect(0, 0, 40, 40)); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if a := dst.RGBAAt(23, 20).A; a == 0 {
		t.Fatalf("expected glow next to the stroke")
	}
	if a := dst.RGBAAt(5, 20).A; a != 0 {
		t.Fatalf("expected no glow far from the stroke, got %d", a)
	}
}

func TestProgram_RejectsMismatchedBitmaps(t *testing.T) {
	dst, border, mask := bitmaps(image.Pt(10, 10))
	p := Compile(Build(nil), image.Pt(20, 20))
	if err := p.Execute(dst, border, mask, dst.Bounds()); err == nil {
		t.Fatalf("expected size mismatch error")
	}
}

func TestManager_CachesUntilInvalidated(t *testing.T) {
	m := NewManager([]Descriptor{NewDescriptor(Glow)}, nil)
	if !m.Enabled() {
		t.Fatalf("expected manager enabled")
	}

	size := image.Pt(100, 50)
	first := m.Program(true, size)
	if m.Program(true, size) != first {
		t.Fatalf("expected cached program")
	}
	if m.Program(true, image.Pt(120, 50)) == first {
		t.Fatalf("expected rebuild after resize")
	}
	if !m.Program(false, size).Passthrough() {
		t.Fatalf("expected inactive program to be passthrough")
	}

	second := m.Program(true, size)
	m.SetDescriptors(nil, nil)
	if m.Program(true, size) == second {
		t.Fatalf("expected rebuild after descriptor change")
	}
	if m.Enabled() {
		t.Fatalf("expected manager disabled with no descriptors")
	}
}
