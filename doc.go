// Package chromakey provides real-time chroma-key compositing for Go.
//
// # Overview
//
// chromakey takes live video frames and a key color and produces frames in
// which pixels close to the key color are replaced by a background, either a
// solid color or an image stretched to the frame size. Every other pixel
// passes through unchanged.
//
// # Quick Start
//
//	import "github.com/gogpu/chromakey"
//
//	// Key green out of every frame and show a still picture behind it
//	s, err := chromakey.NewSession(camera,
//	    chromakey.WithPresenter(display))
//	if err != nil {
//	    return err
//	}
//	s.SetBackgroundMedia(chromakey.StillImage(beach))
//	s.SetThreshold(100)
//	if err := s.Start(); err != nil {
//	    return err
//	}
//	defer s.Close()
//
// # Keying
//
// A pixel is keyed out when the Euclidean RGB distance between it and the
// key color is strictly less than the effective threshold. Keyed pixels
// keep their RGB and get alpha 0. The effective threshold is 255 minus the
// caller-facing value passed to SetThreshold, so larger caller values key
// fewer pixels. No clamping is applied.
//
// # Draw Cycle
//
// Each cycle reads the settings once, captures a frame from the
// FrameSource, keys it, fills the output with the background, draws the
// keyed frame over it with source-over alpha compositing and hands the
// result to the Presenter. The next cycle is scheduled only after the
// current one completes. A collaborator failure stops the session; the
// error is available from Err and passed to the WithErrorHandler callback.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Session, Settings, Scheduler, FrameSource, Presenter
//   - pixel: the RGBA buffer and color types
//   - keyer: color-distance classification
//   - compositor: background rendering and alpha overlay
//   - surface: CPU pixel surfaces usable as presenters
//   - Internal: blend (pixel arithmetic), parallel (row-band workers),
//     sequence (image-sequence sources), config (CLI configuration)
//
// # Coordinate System
//
// Origin (0,0) is the top-left pixel, X increases right and Y increases
// down. Buffers are row-major, top to bottom.
package chromakey

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
