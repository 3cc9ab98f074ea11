// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"image"
	"image/color"

	"github.com/gogpu/chromakey/pixel"
)

// Surface errors.
var (
	// ErrClosed is returned by operations on a closed surface.
	ErrClosed = errors.New("surface: closed")

	// ErrSizeMismatch is returned when a written frame does not match the
	// surface size.
	ErrSizeMismatch = errors.New("surface: frame size does not match surface")

	// ErrOutOfBounds is returned when a read rectangle is not inside the
	// surface.
	ErrOutOfBounds = errors.New("surface: rectangle out of bounds")
)

// Surface is a rectangular RGBA canvas frames are presented to.
//
// Surfaces are NOT thread-safe. Each surface should be used from a single
// goroutine, or external synchronization must be used.
type Surface interface {
	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int

	// Clear fills the entire surface with the given color.
	Clear(c color.Color)

	// ReadPixels copies the pixels inside r into a new buffer.
	// r must lie within the surface.
	ReadPixels(r image.Rectangle) (*pixel.Buffer, error)

	// WritePixels replaces the surface contents with buf, which must have
	// the surface's size.
	WritePixels(buf *pixel.Buffer) error

	// Blit stretches src to exactly cover dst, ignoring aspect ratio.
	// Parts of dst outside the surface are clipped.
	Blit(src image.Image, dst image.Rectangle) error

	// Snapshot returns a copy of the surface contents.
	Snapshot() *image.NRGBA

	// Close releases all resources associated with the surface.
	// Close is idempotent; multiple calls are safe.
	Close() error
}

// ResizableSurface is an optional interface for surfaces that support resizing.
type ResizableSurface interface {
	Surface

	// Resize changes the surface dimensions. Existing content is discarded.
	Resize(width, height int) error
}

// Capabilities describes the optional features a surface supports.
type Capabilities struct {
	// SupportsResize indicates Resize is available.
	SupportsResize bool

	// SupportsReadback indicates ReadPixels and Snapshot are cheap.
	// GPU or remote surfaces may need a slow readback.
	SupportsReadback bool

	// MaxWidth is the maximum supported width (0 = unlimited).
	MaxWidth int

	// MaxHeight is the maximum supported height (0 = unlimited).
	MaxHeight int
}

// CapableSurface is an optional interface for querying surface capabilities.
type CapableSurface interface {
	Surface

	// Capabilities returns the surface's capabilities.
	Capabilities() Capabilities
}

// Options configures surface creation.
type Options struct {
	// Width is the surface width in pixels.
	Width int

	// Height is the surface height in pixels.
	Height int

	// BackgroundColor is the initial fill. Nil leaves the surface
	// transparent black.
	BackgroundColor color.Color

	// Custom holds backend-specific settings.
	Custom map[string]any
}
