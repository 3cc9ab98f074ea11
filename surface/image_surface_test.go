// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/chromakey/pixel"
)

func TestNewImageSurface(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"normal", 100, 50, 100, 50},
		{"zero width", 0, 50, 1, 50},
		{"negative height", 10, -5, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewImageSurface(tt.width, tt.height)
			if s.Width() != tt.wantW || s.Height() != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", s.Width(), s.Height(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestImageSurface_WriteReadPixels(t *testing.T) {
	s := NewImageSurface(3, 2)
	buf := pixel.NewBuffer(3, 2)
	buf.SetRGBA(0, 0, 1, 2, 3, 255)
	buf.SetRGBA(2, 1, 9, 8, 7, 0)

	if err := s.WritePixels(buf); err != nil {
		t.Fatalf("WritePixels() error = %v", err)
	}

	got, err := s.ReadPixels(image.Rect(2, 1, 3, 2))
	if err != nil {
		t.Fatalf("ReadPixels() error = %v", err)
	}
	r, g, b, a, _ := got.RGBAAt(0, 0)
	if r != 9 || g != 8 || b != 7 || a != 0 {
		t.Errorf("ReadPixels pixel = (%d,%d,%d,%d), want (9,8,7,0)", r, g, b, a)
	}

	snap := s.Snapshot()
	if c := snap.NRGBAAt(0, 0); c != (color.NRGBA{1, 2, 3, 255}) {
		t.Errorf("Snapshot(0,0) = %v, want {1 2 3 255}", c)
	}
	if c := snap.NRGBAAt(2, 1); c != (color.NRGBA{9, 8, 7, 0}) {
		t.Errorf("Snapshot(2,1) = %v, want transparent pixel with RGB kept", c)
	}

	// Snapshot is a copy.
	snap.SetNRGBA(0, 0, color.NRGBA{})
	if c := s.Image().NRGBAAt(0, 0); c.A != 255 {
		t.Error("modifying Snapshot changed the surface")
	}
}

func TestImageSurface_Errors(t *testing.T) {
	s := NewImageSurface(2, 2)

	if err := s.WritePixels(pixel.NewBuffer(3, 2)); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("WritePixels(wrong size) error = %v, want ErrSizeMismatch", err)
	}
	if _, err := s.ReadPixels(image.Rect(1, 1, 3, 3)); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("ReadPixels(outside) error = %v, want ErrOutOfBounds", err)
	}
	if err := s.Resize(0, 4); err == nil {
		t.Error("Resize(0, 4) error = nil")
	}

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := s.Present(pixel.NewBuffer(2, 2)); !errors.Is(err, ErrClosed) {
		t.Errorf("Present() after Close error = %v, want ErrClosed", err)
	}
	if err := s.Blit(pixel.NewBuffer(1, 1), image.Rect(0, 0, 1, 1)); !errors.Is(err, ErrClosed) {
		t.Errorf("Blit() after Close error = %v, want ErrClosed", err)
	}
	if _, err := s.ReadPixels(image.Rect(0, 0, 1, 1)); !errors.Is(err, ErrClosed) {
		t.Errorf("ReadPixels() after Close error = %v, want ErrClosed", err)
	}
}

func TestImageSurface_ClearAndBlit(t *testing.T) {
	s := NewImageSurface(4, 4)
	s.SetScaler(xdraw.NearestNeighbor)
	s.Clear(color.NRGBA{0, 0, 255, 255})

	src := pixel.NewBuffer(1, 1)
	src.Fill(pixel.Red, 255)
	if err := s.Blit(src, image.Rect(0, 0, 2, 2)); err != nil {
		t.Fatal(err)
	}

	img := s.Image()
	for y := range 4 {
		for x := range 4 {
			want := color.NRGBA{0, 0, 255, 255}
			if x < 2 && y < 2 {
				want = color.NRGBA{255, 0, 0, 255}
			}
			if got := img.NRGBAAt(x, y); got != want {
				t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestImageSurface_Resize(t *testing.T) {
	s := NewImageSurface(2, 2)
	if !s.Capabilities().SupportsResize {
		t.Fatal("ImageSurface should support resize")
	}
	if err := s.Resize(5, 3); err != nil {
		t.Fatal(err)
	}
	if s.Width() != 5 || s.Height() != 3 || s.Snapshot().Rect.Dx() != 5 {
		t.Errorf("after Resize size = %dx%d", s.Width(), s.Height())
	}
}

func TestImageSurface_FromSubImage(t *testing.T) {
	parent := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	sub := parent.SubImage(image.Rect(2, 2, 4, 4)).(*image.NRGBA)
	s := NewImageSurfaceFromImage(sub)

	buf := pixel.NewBuffer(2, 2)
	buf.Fill(pixel.Green, 255)
	if err := s.WritePixels(buf); err != nil {
		t.Fatal(err)
	}
	if c := parent.NRGBAAt(3, 3); c != (color.NRGBA{0, 255, 0, 255}) {
		t.Errorf("parent (3,3) = %v, want green", c)
	}
	if c := parent.NRGBAAt(1, 1); c.A != 0 {
		t.Errorf("parent (1,1) = %v, want untouched", c)
	}

	got, err := s.ReadPixels(image.Rect(0, 0, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	if _, g, _, _, _ := got.RGBAAt(0, 0); g != 255 {
		t.Errorf("ReadPixels green = %d, want 255", g)
	}
}

func TestSavePNG(t *testing.T) {
	s := NewImageSurface(2, 3)
	s.Clear(color.NRGBA{10, 20, 30, 255})

	path := filepath.Join(t.TempDir(), "out.png")
	if err := SavePNG(s, path); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 3 {
		t.Errorf("decoded size = %v, want 2x3", img.Bounds())
	}
	if got := color.NRGBAModel.Convert(img.At(1, 2)); got != (color.NRGBA{10, 20, 30, 255}) {
		t.Errorf("decoded pixel = %v, want {10 20 30 255}", got)
	}

	if err := SavePNG(s, filepath.Join(t.TempDir(), "missing", "out.png")); err == nil {
		t.Error("SavePNG() into missing dir error = nil")
	}
}
