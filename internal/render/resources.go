package render

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/1broseidon/bordertile/internal/colors"
	"github.com/1broseidon/bordertile/internal/effect"
)

// Resources owns the surface of one overlay and the bitmap triad drawn into
// it: the presentation target, the pre-effect border bitmap and the mask.
// They exist together or not at all.
type Resources struct {
	device  Device
	overlay uint32
	surface Surface

	Target *image.RGBA
	Border *image.RGBA
	Mask   *image.RGBA

	raster *vector.Rasterizer
}

// BufferSize is the bitmap size for a monitor of the given size: the monitor
// plus room for the stroke and effect padding on every side.
func BufferSize(monitor image.Rectangle, borderWidth, padding int) image.Point {
	extra := 2 * (borderWidth + padding)
	return image.Pt(monitor.Dx()+extra, monitor.Dy()+extra)
}

// Create binds a new surface to overlay and allocates the bitmap triad.
func Create(dev Device, overlay uint32, monitor image.Rectangle, borderWidth, padding int) (*Resources, error) {
	if dev == nil {
		return nil, errors.New("create render resources: no device")
	}
	size := BufferSize(monitor, borderWidth, padding)
	surface, err := dev.NewSurface(overlay, size.X, size.Y)
	if err != nil {
		return nil, fmt.Errorf("create surface for overlay %d: %w", overlay, err)
	}

	r := &Resources{device: dev, overlay: overlay, surface: surface}
	r.allocate(size)
	return r, nil
}

func (r *Resources) allocate(size image.Point) {
	bounds := image.Rectangle{Max: size}
	r.Target = image.NewRGBA(bounds)
	r.Border = image.NewRGBA(bounds)
	r.Mask = image.NewRGBA(bounds)
	r.raster = vector.NewRasterizer(size.X, size.Y)
}

// Size returns the current bitmap size.
func (r *Resources) Size() image.Point {
	if r == nil || r.Target == nil {
		return image.Point{}
	}
	return r.Target.Bounds().Size()
}

// Ready reports whether the surface and bitmaps are allocated.
func (r *Resources) Ready() bool {
	return r != nil && r.surface != nil && r.Target != nil
}

// Update resizes the existing surface and reallocates the bitmaps for a new
// monitor or stroke size. The surface binding is kept.
func (r *Resources) Update(monitor image.Rectangle, borderWidth, padding int) error {
	if !r.Ready() {
		return errors.New("update render resources: not created")
	}
	size := BufferSize(monitor, borderWidth, padding)
	r.Target, r.Border, r.Mask = nil, nil, nil
	if err := r.surface.Resize(size.X, size.Y); err != nil {
		return fmt.Errorf("resize surface: %w", err)
	}
	r.allocate(size)
	return nil
}

// Recreate releases everything and binds a fresh surface to the same overlay.
// It is the recovery path for ErrDeviceLost. A lost surface often fails to
// release; callers that can tolerate that should Release first themselves.
func (r *Resources) Recreate(monitor image.Rectangle, borderWidth, padding int) error {
	if err := r.Release(); err != nil {
		return fmt.Errorf("release surface for overlay %d: %w", r.overlay, err)
	}
	size := BufferSize(monitor, borderWidth, padding)
	surface, err := r.device.NewSurface(r.overlay, size.X, size.Y)
	if err != nil {
		return fmt.Errorf("recreate surface for overlay %d: %w", r.overlay, err)
	}
	r.surface = surface
	r.allocate(size)
	return nil
}

// Release frees the surface and bitmaps.
func (r *Resources) Release() error {
	if r == nil || r.surface == nil {
		return nil
	}
	err := r.surface.Release()
	r.surface = nil
	r.Target, r.Border, r.Mask = nil, nil, nil
	return err
}

// Frame describes one border frame.
type Frame struct {
	// Size of the overlay, i.e. the tracked frame plus stroke and padding.
	Size    image.Point
	Width   float64
	Offset  float64
	Padding float64
	Radius  float64
	// Bottom is drawn first, Top over it. Paints with zero opacity are skipped.
	Bottom *colors.Paint
	Top    *colors.Paint
}

// StrokeBounds is the rectangle the stroke is centered on.
func (f Frame) StrokeBounds() RectF {
	inset := f.Width/2 + f.Padding - f.Offset
	return RectF{
		Left:   inset,
		Top:    inset,
		Right:  float64(f.Size.X) - inset,
		Bottom: float64(f.Size.Y) - inset,
	}
}

// Draw renders f through prog and presents it.
func (r *Resources) Draw(f Frame, prog *effect.Program) error {
	if !r.Ready() {
		return errors.New("draw frame: render resources not created")
	}
	area := image.Rectangle{Max: f.Size}.Intersect(r.Target.Bounds())
	if area.Empty() {
		return nil
	}

	clearRect(r.Border, area)
	rect := f.StrokeBounds()
	for _, p := range []*colors.Paint{f.Bottom, f.Top} {
		if p == nil || p.Opacity() <= 0 {
			continue
		}
		StrokeRect(r.raster, r.Border, area, rect, f.Width, f.Radius, p.Source(area))
	}

	if prog == nil || prog.Passthrough() {
		draw.Draw(r.Target, area, r.Border, area.Min, draw.Src)
	} else {
		FillOutside(r.raster, r.Mask, area, rect.Inset(f.Width/2), max(f.Radius-f.Width/2, 0))
		if err := prog.Execute(r.Target, r.Border, r.Mask, area); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}
	}

	if err := r.surface.Present(r.Target, area); err != nil {
		return fmt.Errorf("present frame: %w", err)
	}
	return nil
}

func clearRect(img *image.RGBA, area image.Rectangle) {
	for y := area.Min.Y; y < area.Max.Y; y++ {
		clear(img.Pix[img.PixOffset(area.Min.X, y):img.PixOffset(area.Max.X, y)])
	}
}
