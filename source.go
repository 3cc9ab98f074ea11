package chromakey

import (
	"image"
	"reflect"

	"github.com/gogpu/chromakey/pixel"
)

// PixelBuffer is a width×height non-premultiplied RGBA buffer.
// It implements image.Image, so a buffer can serve as background media.
type PixelBuffer = pixel.Buffer

// NewPixelBuffer allocates a zeroed buffer.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return pixel.NewBuffer(width, height)
}

// FrameSource supplies input frames.
//
// Size reports the natural frame size; a Session reads it once per Start to
// size its buffers. Frame returns the current frame. Frames whose size
// differs from Size are stretched to fit.
type FrameSource interface {
	Size() (width, height int)
	Frame() (image.Image, error)
}

// Presenter receives every composited frame.
//
// The buffer is only valid for the duration of the call. Present runs on
// the draw cycle and must not call Session.Stop, Start, DrawOnce or
// SetTargetColorFromPixel.
type Presenter interface {
	Present(buf *PixelBuffer) error
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(buf *PixelBuffer) error

// Present calls f(buf).
func (f PresenterFunc) Present(buf *PixelBuffer) error {
	return f(buf)
}

type stillSource struct {
	img image.Image
}

// StillSource returns a FrameSource that yields img on every call.
// A nil img yields a nil FrameSource, which NewSession rejects.
func StillSource(img image.Image) FrameSource {
	if isNil(img) {
		return nil
	}
	return stillSource{img: img}
}

func (s stillSource) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s stillSource) Frame() (image.Image, error) {
	return s.img, nil
}

// stillImage marks background media whose pixels never change.
type stillImage struct {
	image.Image
}

// StillImage marks img as a still picture for SetBackgroundMedia. A still
// background is stretched once per SetBackgroundMedia call and reused, so
// later changes to img's pixels are not shown. Unmarked images are
// stretched every cycle. A nil img yields nil.
func StillImage(img image.Image) image.Image {
	if isNil(img) {
		return nil
	}
	if still, ok := img.(stillImage); ok {
		return still
	}
	return stillImage{Image: img}
}

// isNil reports whether v is nil or an interface holding a nil pointer,
// map, slice, func or channel.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
