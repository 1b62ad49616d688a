package effect

import (
	"image"
	"math"
)

// gaussianBlur approximates a Gaussian blur of the given standard deviation
// with three successive box blurs. Pixels outside the image count as
// transparent so the blur fades out at the edges.
func gaussianBlur(img *image.RGBA, sigma float64) {
	if sigma <= 0 {
		return
	}
	r := img.Bounds()
	w, h := r.Dx(), r.Dy()
	if w == 0 || h == 0 {
		return
	}

	tmp := make([]uint8, len(img.Pix))
	for _, box := range boxSizes(sigma, 3) {
		radius := (box - 1) / 2
		boxBlurH(img.Pix, tmp, img.Stride, w, h, radius)
		boxBlurV(tmp, img.Pix, img.Stride, w, h, radius)
	}
}

// boxSizes returns n odd box widths whose successive application
// approximates a Gaussian with standard deviation sigma.
func boxSizes(sigma float64, n int) []int {
	wIdeal := math.Sqrt(12*sigma*sigma/float64(n) + 1)
	wl := int(math.Floor(wIdeal))
	if wl%2 == 0 {
		wl--
	}
	wu := wl + 2
	mIdeal := (12*sigma*sigma - float64(n*wl*wl) - float64(4*n*wl) - float64(3*n)) / float64(-4*wl-4)
	m := int(math.Round(mIdeal))

	sizes := make([]int, n)
	for i := range sizes {
		if i < m {
			sizes[i] = wl
		} else {
			sizes[i] = wu
		}
	}
	return sizes
}

func boxBlurH(src, dst []uint8, stride, w, h, radius int) {
	if radius <= 0 {
		copy(dst, src)
		return
	}
	div := uint32(2*radius + 1)
	for y := 0; y < h; y++ {
		row := y * stride
		for c := 0; c < 4; c++ {
			var sum uint32
			for x := 0; x <= radius && x < w; x++ {
				sum += uint32(src[row+x*4+c])
			}
			for x := 0; x < w; x++ {
				dst[row+x*4+c] = uint8(sum / div)
				if in := x + radius + 1; in < w {
					sum += uint32(src[row+in*4+c])
				}
				if out := x - radius; out >= 0 {
					sum -= uint32(src[row+out*4+c])
				}
			}
		}
	}
}

func boxBlurV(src, dst []uint8, stride, w, h, radius int) {
	if radius <= 0 {
		copy(dst, src)
		return
	}
	div := uint32(2*radius + 1)
	for x := 0; x < w; x++ {
		col := x * 4
		for c := 0; c < 4; c++ {
			var sum uint32
			for y := 0; y <= radius && y < h; y++ {
				sum += uint32(src[y*stride+col+c])
			}
			for y := 0; y < h; y++ {
				dst[y*stride+col+c] = uint8(sum / div)
				if in := y + radius + 1; in < h {
					sum += uint32(src[in*stride+col+c])
				}
				if out := y - radius; out >= 0 {
					sum -= uint32(src[out*stride+col+c])
				}
			}
		}
	}
}
