// Package pixel provides the RGBA pixel buffer and color types exchanged
// between the keyer, the compositor and the session.
//
// A Buffer holds interleaved, non-premultiplied R, G, B, A bytes in row-major
// order, top row first. Its length is always width*height*4.
package pixel

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
)

// BytesPerPixel is the number of bytes per RGBA pixel.
const BytesPerPixel = 4

// Common errors for buffer construction.
var (
	// ErrInvalidDimensions is returned when width or height is negative.
	ErrInvalidDimensions = errors.New("pixel: invalid dimensions")

	// ErrDataTooSmall is returned when provided data does not match width*height*4.
	ErrDataTooSmall = errors.New("pixel: data length does not match dimensions")
)

// Buffer represents a rectangular non-premultiplied RGBA pixel buffer.
//
// Buffer implements image.Image, so it can be passed anywhere an image
// source is accepted (for example as a background).
//
// Thread safety: concurrent reads are safe. Writes require external
// synchronization, or disjoint pixel ranges per goroutine.
type Buffer struct {
	width  int
	height int
	data   []uint8 // RGBA format, 4 bytes per pixel
}

// NewBuffer creates a new buffer with the given dimensions.
// Negative dimensions are treated as zero.
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*BytesPerPixel),
	}
}

// FromBytes wraps existing data without copying.
// The length of data must be exactly width*height*4.
func FromBytes(data []uint8, width, height int) (*Buffer, error) {
	if width < 0 || height < 0 {
		return nil, ErrInvalidDimensions
	}
	if len(data) != width*height*BytesPerPixel {
		return nil, fmt.Errorf("%w: got %d bytes for %dx%d", ErrDataTooSmall, len(data), width, height)
	}
	return &Buffer{width: width, height: height, data: data}, nil
}

// FromImage creates a buffer holding a copy of img's pixels.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	b := NewBuffer(bounds.Dx(), bounds.Dy())
	b.CopyImage(img)
	return b
}

// CopyImage copies img into b without scaling, anchored at img.Bounds().Min.
// Pixels outside img are left unchanged. *image.NRGBA sources are copied row
// by row, *image.RGBA sources are un-premultiplied, anything else goes
// through image/draw.
func (b *Buffer) CopyImage(img image.Image) {
	bounds := img.Bounds()
	w := min(bounds.Dx(), b.width)
	h := min(bounds.Dy(), b.height)
	if w <= 0 || h <= 0 {
		return
	}

	switch src := img.(type) {
	case *Buffer:
		for y := range h {
			copy(b.data[y*b.Stride():y*b.Stride()+w*BytesPerPixel], src.data[y*src.Stride():])
		}
	case *image.NRGBA:
		for y := range h {
			si := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(b.data[y*b.Stride():y*b.Stride()+w*BytesPerPixel], src.Pix[si:si+w*BytesPerPixel])
		}
	case *image.RGBA:
		for y := range h {
			si := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			di := y * b.Stride()
			for x := 0; x < w*BytesPerPixel; x += BytesPerPixel {
				r, g, bl, a := Unpremultiply(src.Pix[si+x], src.Pix[si+x+1], src.Pix[si+x+2], src.Pix[si+x+3])
				b.data[di+x+0] = r
				b.data[di+x+1] = g
				b.data[di+x+2] = bl
				b.data[di+x+3] = a
			}
		}
	default:
		draw.Draw(b.NRGBA(), image.Rect(0, 0, w, h), img, bounds.Min, draw.Src)
	}
}

// Unpremultiply converts a premultiplied RGBA pixel to straight alpha.
func Unpremultiply(r, g, b, a uint8) (uint8, uint8, uint8, uint8) {
	switch a {
	case 0:
		return 0, 0, 0, 0
	case 255:
		return r, g, b, a
	}
	ua := uint32(a)
	return uint8((uint32(r)*255 + ua/2) / ua),
		uint8((uint32(g)*255 + ua/2) / ua),
		uint8((uint32(b)*255 + ua/2) / ua),
		a
}

// Width returns the width of the buffer.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the height of the buffer.
func (b *Buffer) Height() int {
	return b.height
}

// Size returns the width and height of the buffer.
func (b *Buffer) Size() (width, height int) {
	return b.width, b.height
}

// Data returns the raw pixel data (RGBA format).
func (b *Buffer) Data() []uint8 {
	return b.data
}

// Stride returns the number of bytes per row.
func (b *Buffer) Stride() int {
	return b.width * BytesPerPixel
}

// offset returns the index of pixel (x, y), or -1 when out of bounds.
func (b *Buffer) offset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return (y*b.width + x) * BytesPerPixel
}

// RGBAAt returns the channels of pixel (x, y).
// ok is false when the coordinates are outside the buffer.
func (b *Buffer) RGBAAt(x, y int) (r, g, bl, a uint8, ok bool) {
	i := b.offset(x, y)
	if i < 0 {
		return 0, 0, 0, 0, false
	}
	return b.data[i], b.data[i+1], b.data[i+2], b.data[i+3], true
}

// SetRGBA sets the channels of pixel (x, y).
// Out-of-bounds coordinates are ignored.
func (b *Buffer) SetRGBA(x, y int, r, g, bl, a uint8) {
	i := b.offset(x, y)
	if i < 0 {
		return
	}
	b.data[i+0] = r
	b.data[i+1] = g
	b.data[i+2] = bl
	b.data[i+3] = a
}

// Fill sets every pixel to c with the given alpha.
func (b *Buffer) Fill(c Color, alpha uint8) {
	if len(b.data) == 0 {
		return
	}
	b.data[0], b.data[1], b.data[2], b.data[3] = c.R, c.G, c.B, alpha
	// Doubling copy: each pass duplicates the already-filled prefix.
	for filled := BytesPerPixel; filled < len(b.data); filled *= 2 {
		copy(b.data[filled:], b.data[:filled])
	}
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	data := make([]uint8, len(b.data))
	copy(data, b.data)
	return &Buffer{width: b.width, height: b.height, data: data}
}

// CopyFrom copies src into b. Both buffers must have the same dimensions.
func (b *Buffer) CopyFrom(src *Buffer) error {
	if src.width != b.width || src.height != b.height {
		return fmt.Errorf("%w: %dx%d into %dx%d", ErrInvalidDimensions, src.width, src.height, b.width, b.height)
	}
	copy(b.data, src.data)
	return nil
}

// NRGBA returns an *image.NRGBA view sharing the buffer's memory.
// Writes through the view modify the buffer.
func (b *Buffer) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.data,
		Stride: b.Stride(),
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}

// ToImage returns a copy of the buffer as an *image.NRGBA.
func (b *Buffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	copy(img.Pix, b.data)
	return img
}

// SavePNG saves the buffer to a PNG file.
func (b *Buffer) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}

	if err := png.Encode(f, b.NRGBA()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// At implements the image.Image interface.
func (b *Buffer) At(x, y int) color.Color {
	r, g, bl, a, ok := b.RGBAAt(x, y)
	if !ok {
		return color.NRGBA{}
	}
	return color.NRGBA{R: r, G: g, B: bl, A: a}
}

// Bounds implements the image.Image interface.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// ColorModel implements the image.Image interface.
func (b *Buffer) ColorModel() color.Model {
	return color.NRGBAModel
}
