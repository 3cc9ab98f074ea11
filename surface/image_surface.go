// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/chromakey/pixel"
)

// ImageSurface is a CPU-based surface backed by an *image.NRGBA.
//
// It is the default surface for software presentation and satisfies
// chromakey.Presenter through Present.
//
// Example:
//
//	s := surface.NewImageSurface(640, 480)
//	defer s.Close()
//
//	s.Clear(color.Black)
//	s.Blit(logo, image.Rect(0, 0, 64, 64))
//	img := s.Snapshot()
type ImageSurface struct {
	width  int
	height int
	img    *image.NRGBA

	// scaler is the kernel used by Blit.
	scaler xdraw.Scaler

	// closed tracks if Close has been called
	closed bool
}

// NewImageSurface creates a new CPU-based surface with the given dimensions.
// Non-positive dimensions are raised to 1.
func NewImageSurface(width, height int) *ImageSurface {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return NewImageSurfaceFromImage(image.NewNRGBA(image.Rect(0, 0, width, height)))
}

// NewImageSurfaceFromImage creates a surface backed by an existing image.
// The surface will render into the provided image directly.
func NewImageSurfaceFromImage(img *image.NRGBA) *ImageSurface {
	bounds := img.Bounds()
	return &ImageSurface{
		width:  bounds.Dx(),
		height: bounds.Dy(),
		img:    img,
		scaler: xdraw.BiLinear,
	}
}

// SetScaler sets the kernel used by Blit. The default is bilinear.
func (s *ImageSurface) SetScaler(k xdraw.Scaler) {
	if k != nil {
		s.scaler = k
	}
}

// Width returns the surface width.
func (s *ImageSurface) Width() int {
	return s.width
}

// Height returns the surface height.
func (s *ImageSurface) Height() int {
	return s.height
}

// Clear fills the entire surface with the given color.
func (s *ImageSurface) Clear(c color.Color) {
	if s.closed {
		return
	}
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// ReadPixels copies the pixels inside r into a new buffer.
func (s *ImageSurface) ReadPixels(r image.Rectangle) (*pixel.Buffer, error) {
	if s.closed {
		return nil, ErrClosed
	}
	r = r.Add(s.img.Rect.Min)
	if !r.In(s.img.Rect) {
		return nil, fmt.Errorf("%w: %v not in %v", ErrOutOfBounds, r, s.img.Rect)
	}
	return pixel.FromImage(s.img.SubImage(r)), nil
}

// WritePixels replaces the surface contents with buf.
func (s *ImageSurface) WritePixels(buf *pixel.Buffer) error {
	if s.closed {
		return ErrClosed
	}
	if buf.Width() != s.width || buf.Height() != s.height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrSizeMismatch, buf.Width(), buf.Height(), s.width, s.height)
	}

	data := buf.Data()
	rowBytes := s.width * pixel.BytesPerPixel
	for y := range s.height {
		si := y * buf.Stride()
		di := s.img.PixOffset(s.img.Rect.Min.X, s.img.Rect.Min.Y+y)
		copy(s.img.Pix[di:di+rowBytes], data[si:si+rowBytes])
	}
	return nil
}

// Present writes a composited frame to the surface.
func (s *ImageSurface) Present(buf *pixel.Buffer) error {
	return s.WritePixels(buf)
}

// Blit stretches src to exactly cover dst.
func (s *ImageSurface) Blit(src image.Image, dst image.Rectangle) error {
	if s.closed {
		return ErrClosed
	}
	if src.Bounds().Empty() || dst.Empty() {
		return nil
	}
	if b, ok := src.(*pixel.Buffer); ok {
		src = b.NRGBA()
	}
	// Clipping is done by the scaler, which keeps the full dst mapping.
	s.scaler.Scale(s.img, dst.Add(s.img.Rect.Min), src, src.Bounds(), xdraw.Src, nil)
	return nil
}

// Snapshot returns a copy of the surface contents.
func (s *ImageSurface) Snapshot() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, s.width, s.height))
	rowBytes := s.width * pixel.BytesPerPixel
	for y := range s.height {
		si := s.img.PixOffset(s.img.Rect.Min.X, s.img.Rect.Min.Y+y)
		copy(out.Pix[y*out.Stride:y*out.Stride+rowBytes], s.img.Pix[si:si+rowBytes])
	}
	return out
}

// Image returns the underlying image. Writes to it are visible on the
// surface.
func (s *ImageSurface) Image() *image.NRGBA {
	return s.img
}

// Resize discards the contents and reallocates the surface.
func (s *ImageSurface) Resize(width, height int) error {
	if s.closed {
		return ErrClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("surface: invalid size %dx%d", width, height)
	}
	s.width, s.height = width, height
	s.img = image.NewNRGBA(image.Rect(0, 0, width, height))
	return nil
}

// Capabilities returns the surface's capabilities.
func (s *ImageSurface) Capabilities() Capabilities {
	return Capabilities{
		SupportsResize:   true,
		SupportsReadback: true,
	}
}

// Close releases the surface. The backing image stays valid.
func (s *ImageSurface) Close() error {
	s.closed = true
	return nil
}

// Compile-time interface checks.
var (
	_ Surface          = (*ImageSurface)(nil)
	_ ResizableSurface = (*ImageSurface)(nil)
	_ CapableSurface   = (*ImageSurface)(nil)
)
