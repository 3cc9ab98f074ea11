package chromakey

import (
	"fmt"
	"image"
	"math"
)

// Default settings of a new Session.
const (
	// DefaultThreshold is the caller-facing threshold of a new session.
	DefaultThreshold = 100

	// thresholdBase is subtracted from caller-facing thresholds to get the
	// effective distance cutoff.
	thresholdBase = 255
)

// Settings is the keying configuration of a Session.
//
// A Settings value is a snapshot: Session.Settings returns a copy, and the
// draw cycle copies the whole struct once at the start of every cycle.
type Settings struct {
	// TargetColor is the key color.
	TargetColor Color

	// UserThreshold is the caller-facing threshold. Higher values key fewer
	// pixels; see Threshold for the effective cutoff.
	UserThreshold float64

	// BackgroundColor fills the output when BackgroundMedia is nil.
	BackgroundColor Color

	// BackgroundMedia, when non-nil, is an image.Image or a FrameSource
	// stretched behind the keyed frame instead of BackgroundColor.
	BackgroundMedia any
}

// DefaultSettings returns the settings of a new Session: green key color,
// threshold 100 and a green background color.
func DefaultSettings() Settings {
	return Settings{
		TargetColor:     RGB(0, 255, 0),
		UserThreshold:   DefaultThreshold,
		BackgroundColor: RGB(0, 255, 0),
	}
}

// Threshold returns the effective distance cutoff, 255 - UserThreshold.
// There is no clamping: a caller value above 255 yields a negative cutoff
// that keys nothing, and a negative caller value yields a cutoff above 255.
func (s Settings) Threshold() float64 {
	return thresholdBase - s.UserThreshold
}

// HasBackgroundMedia reports whether the background media is active.
func (s Settings) HasBackgroundMedia() bool {
	return s.BackgroundMedia != nil
}

func (s Settings) validate() error {
	if math.IsNaN(s.UserThreshold) {
		return fmt.Errorf("chromakey: threshold is NaN: %w", ErrInvalidArgument)
	}
	if s.BackgroundMedia != nil {
		return checkMedia(s.BackgroundMedia)
	}
	return nil
}

// checkMedia reports whether src can be used as background media.
func checkMedia(src any) error {
	if isNil(src) {
		return fmt.Errorf("chromakey: background media is nil: %w", ErrInvalidArgument)
	}
	switch m := src.(type) {
	case stillImage:
		return checkMedia(m.Image)
	case FrameSource:
		if w, h := m.Size(); w <= 0 || h <= 0 {
			return fmt.Errorf("chromakey: background source size %dx%d: %w", w, h, ErrInvalidArgument)
		}
	case image.Image:
		if m.Bounds().Empty() {
			return fmt.Errorf("chromakey: background image is empty: %w", ErrInvalidArgument)
		}
	default:
		return fmt.Errorf("chromakey: unsupported background media %T: %w", src, ErrInvalidArgument)
	}
	return nil
}
