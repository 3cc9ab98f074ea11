package chromakey

import (
	"image"
	"testing"
)

func TestStillSource(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src := StillSource(img)
	if w, h := src.Size(); w != 3 || h != 2 {
		t.Errorf("Size() = %d, %d, want 3, 2", w, h)
	}
	for range 2 {
		got, err := src.Frame()
		if err != nil || got != img {
			t.Errorf("Frame() = %v, %v; want the image", got, err)
		}
	}

	if src := StillSource(nil); src != nil {
		t.Errorf("StillSource(nil) = %v, want nil", src)
	}
	if src := StillSource((*image.RGBA)(nil)); src != nil {
		t.Errorf("StillSource(nil pointer) = %v, want nil", src)
	}
}

func TestStillImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	still := StillImage(img)
	if still.Bounds() != img.Bounds() {
		t.Errorf("Bounds() = %v, want %v", still.Bounds(), img.Bounds())
	}
	if again := StillImage(still); again != still {
		t.Error("StillImage wrapped an already still image twice")
	}
	if StillImage(nil) != nil || StillImage((*PixelBuffer)(nil)) != nil {
		t.Error("StillImage(nil) should be nil")
	}

	bg, err := background(Settings{BackgroundMedia: still}, 7)
	if err != nil {
		t.Fatal(err)
	}
	if !bg.Static || bg.Version != 7 || bg.Image != image.Image(img) {
		t.Errorf("background(still) = %+v, want static image version 7", bg)
	}

	bg, err = background(Settings{BackgroundMedia: img}, 7)
	if err != nil {
		t.Fatal(err)
	}
	if bg.Static {
		t.Error("plain image background is static")
	}
}

func TestIsNil(t *testing.T) {
	var nilMap map[string]int
	tests := []struct {
		in   any
		want bool
	}{
		{nil, true},
		{(*image.RGBA)(nil), true},
		{nilMap, true},
		{[]int(nil), true},
		{image.NewRGBA(image.Rect(0, 0, 1, 1)), false},
		{7, false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isNil(tt.in); got != tt.want {
			t.Errorf("isNil(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
