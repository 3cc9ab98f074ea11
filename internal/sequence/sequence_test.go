package sequence

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func writeImage(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".png":
		err = png.Encode(f, img)
	case ".bmp":
		err = bmp.Encode(f, img)
	case ".tif":
		err = tiff.Encode(f, img, nil)
	case ".gif":
		err = gif.Encode(f, img, nil)
	default:
		_, err = f.WriteString("not an image")
	}
	if err != nil {
		t.Fatal(err)
	}
}

// redAt returns the red channel of img's top-left pixel.
func redAt(img image.Image) uint8 {
	r, _, _, _ := img.At(img.Bounds().Min.X, img.Bounds().Min.Y).RGBA()
	return uint8(r >> 8)
}

func TestOpenDirectoryOrdersFrames(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "frame_002.bmp"), solidImage(3, 2, color.NRGBA{R: 20, A: 255}))
	writeImage(t, filepath.Join(dir, "frame_001.png"), solidImage(3, 2, color.NRGBA{R: 10, A: 255}))
	writeImage(t, filepath.Join(dir, "frame_003.tif"), solidImage(3, 2, color.NRGBA{R: 30, A: 255}))
	writeImage(t, filepath.Join(dir, "notes.txt"), nil)

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if w, h := s.Size(); w != 3 || h != 2 {
		t.Errorf("Size() = %d, %d, want 3, 2", w, h)
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}

	for _, want := range []uint8{10, 20, 30} {
		img, err := s.Frame()
		if err != nil {
			t.Fatalf("Frame() error = %v", err)
		}
		if got := redAt(img); got != want {
			t.Errorf("frame red = %d, want %d", got, want)
		}
	}

	if _, err := s.Frame(); !errors.Is(err, io.EOF) {
		t.Errorf("Frame() past end error = %v, want io.EOF", err)
	}

	s.Rewind()
	img, err := s.Frame()
	if err != nil || redAt(img) != 10 {
		t.Errorf("Frame() after Rewind = %v, %v; want first frame", img, err)
	}
}

func TestLoopingSource(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a.png"), solidImage(1, 1, color.NRGBA{R: 1, A: 255}))
	writeImage(t, filepath.Join(dir, "b.gif"), solidImage(1, 1, color.NRGBA{R: 255, A: 255}))

	s, err := Open(dir, WithLoop(true))
	if err != nil {
		t.Fatal(err)
	}
	for i := range 5 {
		if _, err := s.Frame(); err != nil {
			t.Fatalf("Frame() #%d error = %v", i, err)
		}
	}
}

func TestOpenSingleFileAndGlob(t *testing.T) {
	dir := t.TempDir()
	one := filepath.Join(dir, "one.png")
	writeImage(t, one, solidImage(4, 5, color.NRGBA{A: 255}))
	writeImage(t, filepath.Join(dir, "two.png"), solidImage(4, 5, color.NRGBA{A: 255}))

	s, err := Open(one)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 {
		t.Errorf("single file Len() = %d, want 1", s.Len())
	}

	s, err = Open(filepath.Join(dir, "*.png"))
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 {
		t.Errorf("glob Len() = %d, want 2", s.Len())
	}
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Open(dir); !errors.Is(err, ErrNoFrames) {
		t.Errorf("Open(empty dir) error = %v, want ErrNoFrames", err)
	}
	if _, err := Open(filepath.Join(dir, "*.png")); !errors.Is(err, ErrNoFrames) {
		t.Errorf("Open(no matches) error = %v, want ErrNoFrames", err)
	}
	if _, err := New(nil); !errors.Is(err, ErrNoFrames) {
		t.Errorf("New(nil) error = %v, want ErrNoFrames", err)
	}

	bad := filepath.Join(dir, "bad.png")
	writeImage(t, filepath.Join(dir, "bad.txt"), nil)
	if err := os.Rename(filepath.Join(dir, "bad.txt"), bad); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(bad); err == nil {
		t.Error("Open(corrupt file) error = nil")
	}
}

func TestSupported(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.PNG", true},
		{"b.jpeg", true},
		{"c.webp", true},
		{"d.tiff", true},
		{"e.txt", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := Supported(tt.path); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
