// Package compositor renders a background and overlays a keyed frame on it.
//
// The background is either a solid color (written with alpha 255) or an
// image stretched, without preserving aspect ratio, to exactly fill the
// output. The keyed frame is then drawn on top with straight-alpha
// source-over compositing, so pixels the keyer made transparent show the
// background and opaque pixels show the frame.
package compositor

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/chromakey/internal/blend"
	"github.com/gogpu/chromakey/internal/parallel"
	"github.com/gogpu/chromakey/pixel"
)

// Common errors for compositing.
var (
	// ErrSizeMismatch is returned when a destination buffer does not have the
	// compositor's dimensions.
	ErrSizeMismatch = errors.New("compositor: buffer size does not match output size")

	// ErrEmptyImage is returned when a background image has an empty bounds
	// rectangle.
	ErrEmptyImage = errors.New("compositor: background image is empty")
)

// Background describes what the keyed frame is drawn over.
type Background struct {
	// Color is the solid fill used when Image is nil.
	Color pixel.Color

	// Image, when set, is stretched to the output size instead of filling
	// with Color.
	Image image.Image

	// Static marks Image as unchanging between frames (a still picture, as
	// opposed to a video frame). Static images are scaled once and cached
	// per Version.
	Static bool

	// Version identifies the Image for caching. Callers bump it whenever
	// they switch to a different static image.
	Version uint64
}

// Compositor renders output frames of a fixed size.
//
// A Compositor keeps scratch buffers between frames and is not safe for
// concurrent use.
type Compositor struct {
	width  int
	height int
	interp Interpolation

	pool    *parallel.WorkerPool
	ownPool bool

	scaler *Scaler

	// cache holds the last scaled static background.
	cache        *pixel.Buffer
	cacheVersion uint64
	cacheValid   bool

	// stretch receives keyed frames whose size differs from the output.
	stretch *pixel.Buffer
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithInterpolation sets the kernel used to stretch background images.
func WithInterpolation(i Interpolation) Option {
	return func(c *Compositor) {
		c.interp = i
	}
}

// WithWorkers overlays frames using a dedicated pool of n workers.
// n <= 1 overlays on the calling goroutine.
func WithWorkers(n int) Option {
	return func(c *Compositor) {
		if n <= 1 {
			c.pool, c.ownPool = nil, false
			return
		}
		c.pool, c.ownPool = parallel.NewWorkerPool(n), true
	}
}

// WithPool overlays frames on a shared pool. The Compositor does not close it.
func WithPool(p *parallel.WorkerPool) Option {
	return func(c *Compositor) {
		c.pool, c.ownPool = p, false
	}
}

// New creates a compositor producing width×height frames.
// Negative dimensions are treated as zero.
func New(width, height int, opts ...Option) *Compositor {
	c := &Compositor{
		width:  max(width, 0),
		height: max(height, 0),
		interp: BiLinear,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.scaler = NewScaler(c.interp)
	return c
}

// Size returns the output dimensions.
func (c *Compositor) Size() (width, height int) {
	return c.width, c.height
}

// Interpolation returns the background resampling kernel.
func (c *Compositor) Interpolation() Interpolation {
	return c.interp
}

// Close releases the compositor's own worker pool, if any.
func (c *Compositor) Close() {
	if c.ownPool && c.pool != nil {
		c.pool.Close()
	}
}

// Invalidate drops the cached static background.
func (c *Compositor) Invalidate() {
	c.cacheValid = false
}

func (c *Compositor) checkSize(dst *pixel.Buffer) error {
	if dst.Width() != c.width || dst.Height() != c.height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrSizeMismatch, dst.Width(), dst.Height(), c.width, c.height)
	}
	return nil
}

// Composite fills dst with bg and draws keyed over it.
// keyed is stretched with nearest-neighbour sampling when its size differs
// from the output.
func (c *Compositor) Composite(dst, keyed *pixel.Buffer, bg Background) error {
	if err := c.DrawBackground(dst, bg); err != nil {
		return err
	}
	return c.Overlay(dst, keyed)
}

// Fill sets every pixel of dst to col with alpha 255.
func (c *Compositor) Fill(dst *pixel.Buffer, col pixel.Color) error {
	if err := c.checkSize(dst); err != nil {
		return err
	}
	dst.Fill(col, 255)
	return nil
}

// DrawBackground renders bg into dst: a solid fill when bg.Image is nil,
// otherwise the image stretched to the output size.
func (c *Compositor) DrawBackground(dst *pixel.Buffer, bg Background) error {
	if bg.Image == nil {
		return c.Fill(dst, bg.Color)
	}
	if err := c.checkSize(dst); err != nil {
		return err
	}

	if bg.Static && c.cacheValid && c.cacheVersion == bg.Version {
		return dst.CopyFrom(c.cache)
	}

	if err := c.scaler.Scale(dst, bg.Image); err != nil {
		return err
	}

	if bg.Static {
		if c.cache == nil {
			c.cache = pixel.NewBuffer(c.width, c.height)
		}
		if err := c.cache.CopyFrom(dst); err != nil {
			return err
		}
		c.cacheVersion = bg.Version
		c.cacheValid = true
	}
	return nil
}

// Overlay draws src over dst with straight-alpha source-over compositing.
func (c *Compositor) Overlay(dst, src *pixel.Buffer) error {
	if err := c.checkSize(dst); err != nil {
		return err
	}
	if src.Width() != c.width || src.Height() != c.height {
		src = c.stretchNearest(src)
	}

	d, s := dst.Data(), src.Data()
	stride := dst.Stride()
	parallel.ForEachBand(c.pool, c.height, func(y0, y1 int) {
		blend.SourceOverRow(d[y0*stride:y1*stride], s[y0*stride:y1*stride], (y1-y0)*c.width)
	})
	return nil
}

// stretchNearest scales src to the output size by nearest-neighbour sampling,
// copying straight-alpha bytes so transparent pixels keep their RGB.
func (c *Compositor) stretchNearest(src *pixel.Buffer) *pixel.Buffer {
	if c.stretch == nil {
		c.stretch = pixel.NewBuffer(c.width, c.height)
	}
	out := c.stretch.Data()
	srcW, srcH := src.Size()
	if srcW == 0 || srcH == 0 {
		clear(out)
		return c.stretch
	}

	in := src.Data()
	for dy := range c.height {
		sy := dy * srcH / c.height
		row := dy * c.width * pixel.BytesPerPixel
		for dx := range c.width {
			sx := dx * srcW / c.width
			si := (sy*srcW + sx) * pixel.BytesPerPixel
			di := row + dx*pixel.BytesPerPixel
			copy(out[di:di+pixel.BytesPerPixel], in[si:si+pixel.BytesPerPixel])
		}
	}
	return c.stretch
}
