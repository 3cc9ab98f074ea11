package compositor

import (
	"fmt"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// Interpolation selects the resampling kernel used to stretch background
// images to the output size.
type Interpolation uint8

const (
	// NearestNeighbor picks the closest source pixel. Fastest, blocky.
	NearestNeighbor Interpolation = iota

	// ApproxBiLinear is a fast approximation of bilinear filtering.
	ApproxBiLinear

	// BiLinear blends the four nearest source pixels. This is the default
	// and is close to what browsers do when drawing a scaled image.
	BiLinear

	// CatmullRom uses a cubic kernel. Slowest, sharpest.
	CatmullRom
)

const unknownInterpolation = "Unknown"

// String returns the name of the interpolation mode.
func (i Interpolation) String() string {
	switch i {
	case NearestNeighbor:
		return "nearest"
	case ApproxBiLinear:
		return "approx-bilinear"
	case BiLinear:
		return "bilinear"
	case CatmullRom:
		return "catmull-rom"
	default:
		return unknownInterpolation
	}
}

// ParseInterpolation parses the names returned by Interpolation.String.
// Matching is case-insensitive.
func ParseInterpolation(s string) (Interpolation, error) {
	for i := NearestNeighbor; i <= CatmullRom; i++ {
		if strings.EqualFold(s, i.String()) {
			return i, nil
		}
	}
	return BiLinear, fmt.Errorf("compositor: unknown interpolation %q", s)
}

// interpolator returns the x/image/draw kernel for i.
func (i Interpolation) interpolator() xdraw.Interpolator {
	switch i {
	case NearestNeighbor:
		return xdraw.NearestNeighbor
	case ApproxBiLinear:
		return xdraw.ApproxBiLinear
	case CatmullRom:
		return xdraw.CatmullRom
	default:
		return xdraw.BiLinear
	}
}
