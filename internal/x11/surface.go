package x11

import (
	"errors"
	"fmt"
	"image"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/bordertile/internal/render"
)

// putImageHeader is the fixed part of a PutImage request in bytes.
const putImageHeader = 24

// Device presents border bitmaps to overlay windows with PutImage.
type Device struct {
	conn *Connection
}

var _ render.Device = (*Device)(nil)

func NewDevice(conn *Connection) *Device {
	return &Device{conn: conn}
}

// NewSurface binds a graphics context to the overlay window.
func (d *Device) NewSurface(overlay uint32, width, height int) (render.Surface, error) {
	conn := d.conn.XUtil.Conn()
	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		return nil, fmt.Errorf("allocate gc: %w", err)
	}
	if err := xproto.CreateGCChecked(conn, gc, xproto.Drawable(overlay), 0, nil).Check(); err != nil {
		return nil, presentError(fmt.Errorf("create gc: %w", err))
	}

	maxBytes := int(xproto.Setup(conn).MaximumRequestLength) * 4
	return &surface{
		conn:     d.conn,
		window:   xproto.Window(overlay),
		gc:       gc,
		width:    width,
		height:   height,
		maxBytes: maxBytes,
	}, nil
}

type surface struct {
	conn     *Connection
	window   xproto.Window
	gc       xproto.Gcontext
	width    int
	height   int
	maxBytes int
	buf      []byte
}

// Resize only records the new bounds; the overlay window is the buffer.
func (s *surface) Resize(width, height int) error {
	s.width, s.height = width, height
	s.buf = nil
	return nil
}

// Present uploads area of img in row chunks that fit one request.
func (s *surface) Present(img *image.RGBA, area image.Rectangle) error {
	area = area.Intersect(img.Bounds())
	if area.Empty() {
		return nil
	}
	rowBytes := area.Dx() * 4
	rows := max((s.maxBytes-putImageHeader)/rowBytes, 1)

	conn := s.conn.XUtil.Conn()
	for y := area.Min.Y; y < area.Max.Y; y += rows {
		chunk := image.Rect(area.Min.X, y, area.Max.X, min(y+rows, area.Max.Y))
		s.buf = packBGRA(s.buf, img, chunk)
		err := xproto.PutImageChecked(conn, xproto.ImageFormatZPixmap,
			xproto.Drawable(s.window), s.gc,
			uint16(chunk.Dx()), uint16(chunk.Dy()),
			int16(chunk.Min.X), int16(chunk.Min.Y),
			0, s.conn.depth, s.buf).Check()
		if err != nil {
			return presentError(fmt.Errorf("put image: %w", err))
		}
	}
	return nil
}

func (s *surface) Release() error {
	if s.gc == 0 {
		return nil
	}
	err := xproto.FreeGCChecked(s.conn.XUtil.Conn(), s.gc).Check()
	s.gc = 0
	return err
}

// packBGRA converts premultiplied RGBA pixels in r to the server's 32-bit
// little-endian ZPixmap layout, reusing buf when it is large enough.
func packBGRA(buf []byte, img *image.RGBA, r image.Rectangle) []byte {
	n := r.Dx() * r.Dy() * 4
	if cap(buf) < n {
		buf = make([]byte, n)
	}
	buf = buf[:n]
	i := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.Pix[img.PixOffset(r.Min.X, y):img.PixOffset(r.Max.X, y)]
		for x := 0; x < len(row); x += 4 {
			buf[i+0] = row[x+2]
			buf[i+1] = row[x+1]
			buf[i+2] = row[x+0]
			buf[i+3] = row[x+3]
			i += 4
		}
	}
	return buf
}

// presentError marks errors caused by a vanished drawable or context as
// recoverable device loss.
func presentError(err error) error {
	var (
		drawable xproto.DrawableError
		gc       xproto.GContextError
		pixmap   xproto.PixmapError
		window   xproto.WindowError
	)
	switch {
	case errors.As(err, &drawable), errors.As(err, &gc), errors.As(err, &pixmap), errors.As(err, &window):
		return fmt.Errorf("%w: %v", render.ErrDeviceLost, err)
	}
	return err
}
