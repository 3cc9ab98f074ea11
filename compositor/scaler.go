package compositor

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/chromakey/pixel"
)

// Scaler stretches images into pixel buffers. It keeps a premultiplied
// scratch image between calls and is not safe for concurrent use.
type Scaler struct {
	interp  Interpolation
	scratch *image.RGBA
}

// NewScaler creates a Scaler using the given kernel.
func NewScaler(interp Interpolation) *Scaler {
	return &Scaler{interp: interp}
}

// Scale stretches src to fill dst exactly, ignoring aspect ratio.
// Sources that already have dst's size are copied without resampling.
func (s *Scaler) Scale(dst *pixel.Buffer, src image.Image) error {
	sb := src.Bounds()
	if sb.Empty() {
		return ErrEmptyImage
	}
	w, h := dst.Size()
	if sb.Dx() == w && sb.Dy() == h {
		dst.CopyImage(src)
		return nil
	}

	if s.scratch == nil || s.scratch.Rect.Dx() != w || s.scratch.Rect.Dy() != h {
		s.scratch = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	// Buffers are passed as *image.NRGBA views so x/image/draw can use its
	// fast paths.
	if b, ok := src.(*pixel.Buffer); ok {
		src = b.NRGBA()
	}
	s.interp.interpolator().Scale(s.scratch, s.scratch.Bounds(), src, sb, xdraw.Src, nil)
	dst.CopyImage(s.scratch)
	return nil
}
