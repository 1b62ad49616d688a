package x11

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/bordertile/internal/render"
)

func TestPackBGRA_SwapsChannelsForArea(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(1, 2, color.RGBA{R: 10, G: 20, B: 30, A: 40})
	img.SetRGBA(2, 2, color.RGBA{R: 50, G: 60, B: 70, A: 80})

	buf := packBGRA(nil, img, image.Rect(1, 2, 3, 3))
	want := []byte{30, 20, 10, 40, 70, 60, 50, 80}
	if len(buf) != len(want) {
		t.Fatalf("expected %d bytes, got %d", len(want), len(buf))
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("byte %d: expected %d, got %d", i, want[i], buf[i])
		}
	}
}

func TestPackBGRA_ReusesBuffer(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	buf := make([]byte, 0, 1024)
	out := packBGRA(buf, img, image.Rect(0, 0, 2, 2))
	if &out[0] != &buf[:1][0] {
		t.Fatalf("expected buffer to be reused")
	}
}

func TestPresentError_ClassifiesDeviceLoss(t *testing.T) {
	lost := presentError(fmt.Errorf("put image: %w", xproto.DrawableError{}))
	if !render.IsDeviceLost(lost) {
		t.Fatalf("expected BadDrawable to be device lost, got %v", lost)
	}

	other := presentError(errors.New("connection reset"))
	if render.IsDeviceLost(other) {
		t.Fatalf("expected generic error to be fatal")
	}
}
