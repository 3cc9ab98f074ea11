package chromakey

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/gogpu/chromakey/pixel"
)

// Color is an 8-bit RGB color.
type Color = pixel.Color

// RGB creates a color from its channels.
func RGB(r, g, b uint8) Color {
	return pixel.RGB(r, g, b)
}

// ParseColor parses a color written as hex ("#0f0", "#00ff00"), a CSS color
// name ("green", "hotpink") or three comma-separated channel values
// ("0, 255, 0").
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Color{}, fmt.Errorf("chromakey: empty color: %w", ErrInvalidArgument)
	}

	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return Color{}, fmt.Errorf("chromakey: color %q: %w", s, ErrInvalidArgument)
		}
		r, g, b := c.RGB255()
		return RGB(r, g, b), nil
	}

	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		values := make([]float64, len(parts))
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return Color{}, fmt.Errorf("chromakey: color %q: %w", s, ErrInvalidArgument)
			}
			values[i] = v
		}
		return ColorFromValues(values)
	}

	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return RGB(c.R, c.G, c.B), nil
	}
	return Color{}, fmt.Errorf("chromakey: unknown color %q: %w", s, ErrInvalidArgument)
}

// ColorFromValues converts a three-element sequence of numbers into a Color.
//
// v may be a Color, or a slice or array of any integer or floating-point
// type, or a []any holding such numbers. Values are rounded and clamped to
// [0, 255]. Anything else, including strings, sequences of the wrong length
// and NaN or infinite values, fails with ErrInvalidArgument.
func ColorFromValues(v any) (Color, error) {
	if c, ok := v.(Color); ok {
		return c, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return Color{}, fmt.Errorf("chromakey: color must be a sequence of 3 numbers, got %T: %w", v, ErrInvalidArgument)
	}
	if rv.Len() != 3 {
		return Color{}, fmt.Errorf("chromakey: color must have 3 channels, got %d: %w", rv.Len(), ErrInvalidArgument)
	}

	var ch [3]uint8
	for i := range 3 {
		f, ok := number(rv.Index(i))
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return Color{}, fmt.Errorf("chromakey: color channel %d is not a number: %w", i, ErrInvalidArgument)
		}
		ch[i] = uint8(math.Round(min(max(f, 0), 255)))
	}
	return RGB(ch[0], ch[1], ch[2]), nil
}

// number extracts a float64 from a reflected integer or float value,
// looking through interfaces.
func number(v reflect.Value) (float64, bool) {
	for v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	default:
		return 0, false
	}
}

// ThresholdFromValue interprets v as a caller-facing threshold number.
//
// Integers, floats and numeric strings (surrounding space ignored, the empty
// string reads as 0) are accepted. Strings are parsed as decimal floats, so
// hex forms such as "0x10" are rejected, and booleans are not numbers. NaN,
// other strings and other types fail with ErrInvalidArgument.
func ThresholdFromValue(v any) (float64, error) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return 0, fmt.Errorf("chromakey: threshold %q is not a number: %w", s, ErrInvalidArgument)
		}
		return f, nil
	}

	if v == nil {
		return 0, fmt.Errorf("chromakey: threshold is nil: %w", ErrInvalidArgument)
	}
	f, ok := number(reflect.ValueOf(v))
	if !ok || math.IsNaN(f) {
		return 0, fmt.Errorf("chromakey: threshold %v (%T) is not a number: %w", v, v, ErrInvalidArgument)
	}
	return f, nil
}
