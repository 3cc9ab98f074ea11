// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides pixel surfaces that composited frames are
// presented to.
//
// Surface is a capability interface over a rectangular RGBA canvas: read a
// region back, write a whole frame, stretch an image into a rectangle, take
// a snapshot. It decouples the draw cycle from where frames end up.
//
// # Surface Types
//
//   - ImageSurface: CPU surface backed by *image.NRGBA
//   - Third-party backends via registry
//
// # Registry
//
// Backends register a factory under a name and priority:
//
//	surface.Register("window", 100, func(opts surface.Options) (surface.Surface, error) {
//	    return newWindowSurface(opts.Width, opts.Height)
//	}, windowAvailable)
//
//	// Later, pick the best available one:
//	s, err := surface.NewSurface(640, 480)
//
// # Usage
//
// An ImageSurface is a chromakey.Presenter:
//
//	s := surface.NewImageSurface(w, h)
//	defer s.Close()
//
//	session, err := chromakey.NewSession(src, chromakey.WithPresenter(s))
//	...
//	img := s.Snapshot()
package surface
