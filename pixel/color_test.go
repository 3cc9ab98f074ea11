package pixel

import (
	"image/color"
	"math"
	"testing"
)

func TestColorDistance(t *testing.T) {
	tests := []struct {
		a, b Color
		want float64
	}{
		{Green, Green, 0},
		{Green, Red, math.Sqrt(255*255 + 255*255)},
		{Black, White, math.Sqrt(3 * 255 * 255)},
		{RGB(1, 2, 3), RGB(4, 6, 3), 5},
	}

	for _, tt := range tests {
		if got := tt.a.Distance(tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%v.Distance(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestColorDistanceSymmetric(t *testing.T) {
	colors := []Color{Black, White, Red, Green, Blue, RGB(12, 200, 99), RGB(255, 1, 128)}
	for _, a := range colors {
		if a.DistanceSquared(a) != 0 {
			t.Errorf("%v.DistanceSquared(self) = %d, want 0", a, a.DistanceSquared(a))
		}
		for _, b := range colors {
			if a.Distance(b) != b.Distance(a) {
				t.Errorf("Distance(%v,%v) != Distance(%v,%v)", a, b, b, a)
			}
		}
	}
}

func TestColorString(t *testing.T) {
	if got := RGB(0, 255, 16).String(); got != "#00ff10" {
		t.Errorf("String() = %q, want %q", got, "#00ff10")
	}
}

func TestFromColor(t *testing.T) {
	// Premultiplied half-transparent red converts back to full red.
	c := FromColor(color.RGBA{R: 128, G: 0, B: 0, A: 128})
	if c != Red {
		t.Errorf("FromColor() = %v, want %v", c, Red)
	}
	if n := Green.NRGBA(); n != (color.NRGBA{G: 255, A: 255}) {
		t.Errorf("NRGBA() = %v", n)
	}
}
