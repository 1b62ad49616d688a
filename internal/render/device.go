package render

import (
	"errors"
	"image"
)

// ErrDeviceLost marks presentation failures that are cured by recreating the
// surface. Surfaces wrap it; every other present error is fatal.
var ErrDeviceLost = errors.New("render device lost")

// IsDeviceLost reports whether err is in the recoverable class.
func IsDeviceLost(err error) bool {
	return errors.Is(err, ErrDeviceLost)
}

// Device creates presentation surfaces bound to overlay windows.
type Device interface {
	NewSurface(overlay uint32, width, height int) (Surface, error)
}

// Surface is the presentation buffer of one overlay window.
type Surface interface {
	// Resize reallocates the buffer without rebinding the overlay.
	Resize(width, height int) error
	// Present copies area of img to the overlay.
	Present(img *image.RGBA, area image.Rectangle) error
	Release() error
}
