package compositor

import (
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/gogpu/chromakey/pixel"
)

// checkAll fails the test unless every pixel of b equals want.
func checkAll(t *testing.T, b *pixel.Buffer, want [4]uint8) {
	t.Helper()
	d := b.Data()
	for i := 0; i < len(d); i += 4 {
		got := [4]uint8{d[i], d[i+1], d[i+2], d[i+3]}
		if got != want {
			t.Fatalf("pixel %d = %v, want %v", i/4, got, want)
		}
	}
}

func keyedOut(w, h int) *pixel.Buffer {
	b := pixel.NewBuffer(w, h)
	b.Fill(pixel.Green, 0)
	return b
}

func TestCompositeSolidBackgroundFullyKeyed(t *testing.T) {
	c := New(2, 2)
	dst := pixel.NewBuffer(2, 2)

	err := c.Composite(dst, keyedOut(2, 2), Background{Color: pixel.RGB(10, 20, 30)})
	if err != nil {
		t.Fatalf("Composite() error = %v", err)
	}
	checkAll(t, dst, [4]uint8{10, 20, 30, 255})
}

func TestCompositeOpaqueFrameOccludesBackground(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	frame := pixel.NewBuffer(8, 5)
	rng.Read(frame.Data())
	for i := 3; i < len(frame.Data()); i += 4 {
		frame.Data()[i] = 255
	}

	bgImg := pixel.NewBuffer(8, 5)
	bgImg.Fill(pixel.Blue, 255)

	for _, bg := range []Background{
		{Color: pixel.RGB(1, 2, 3)},
		{Image: bgImg, Static: true, Version: 1},
	} {
		c := New(8, 5)
		dst := pixel.NewBuffer(8, 5)
		if err := c.Composite(dst, frame, bg); err != nil {
			t.Fatal(err)
		}
		for i, v := range frame.Data() {
			if dst.Data()[i] != v {
				t.Fatalf("byte %d = %d, want %d", i, dst.Data()[i], v)
			}
		}
	}
}

func TestCompositeImageBackgroundFullyKeyed(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	bgImg := pixel.NewBuffer(6, 4)
	rng.Read(bgImg.Data())
	for i := 3; i < len(bgImg.Data()); i += 4 {
		bgImg.Data()[i] = 255
	}

	c := New(6, 4)
	dst := pixel.NewBuffer(6, 4)
	if err := c.Composite(dst, keyedOut(6, 4), Background{Image: bgImg}); err != nil {
		t.Fatal(err)
	}
	for i, v := range bgImg.Data() {
		if dst.Data()[i] != v {
			t.Fatalf("byte %d = %d, want background %d", i, dst.Data()[i], v)
		}
	}
}

func TestDrawBackgroundStretches(t *testing.T) {
	// 2x1 source: red, blue. Nearest-neighbour to 4x2 doubles each column.
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{B: 255, A: 255})

	c := New(4, 2, WithInterpolation(NearestNeighbor))
	dst := pixel.NewBuffer(4, 2)
	if err := c.DrawBackground(dst, Background{Image: src}); err != nil {
		t.Fatal(err)
	}

	for y := range 2 {
		for x := range 4 {
			r, _, b, a, _ := dst.RGBAAt(x, y)
			wantRed := x < 2
			if a != 255 || (wantRed && r != 255) || (!wantRed && b != 255) {
				t.Errorf("pixel (%d,%d) = r%d b%d a%d, want red=%v", x, y, r, b, a, wantRed)
			}
		}
	}
}

func TestDrawBackgroundUniformAnyKernel(t *testing.T) {
	src := image.NewUniform(color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	img := image.NewRGBA(image.Rect(0, 0, 3, 7))
	for y := range 7 {
		for x := range 3 {
			img.Set(x, y, src.C)
		}
	}

	for i := NearestNeighbor; i <= CatmullRom; i++ {
		c := New(10, 4, WithInterpolation(i))
		dst := pixel.NewBuffer(10, 4)
		if err := c.DrawBackground(dst, Background{Image: img}); err != nil {
			t.Fatalf("%v: %v", i, err)
		}
		checkAll(t, dst, [4]uint8{200, 100, 50, 255})
	}
}

func TestDrawBackgroundStaticCache(t *testing.T) {
	img := pixel.NewBuffer(2, 2)
	img.Fill(pixel.Red, 255)

	c := New(4, 4)
	dst := pixel.NewBuffer(4, 4)

	static := Background{Image: img, Static: true, Version: 1}
	if err := c.DrawBackground(dst, static); err != nil {
		t.Fatal(err)
	}
	checkAll(t, dst, [4]uint8{255, 0, 0, 255})

	// Same version: the cached scale is reused even though the pixels changed.
	img.Fill(pixel.Blue, 255)
	if err := c.DrawBackground(dst, static); err != nil {
		t.Fatal(err)
	}
	checkAll(t, dst, [4]uint8{255, 0, 0, 255})

	static.Version = 2
	if err := c.DrawBackground(dst, static); err != nil {
		t.Fatal(err)
	}
	checkAll(t, dst, [4]uint8{0, 0, 255, 255})

	// Non-static sources are rescaled every frame.
	img.Fill(pixel.Green, 255)
	if err := c.DrawBackground(dst, Background{Image: img, Version: 2}); err != nil {
		t.Fatal(err)
	}
	checkAll(t, dst, [4]uint8{0, 255, 0, 255})

	c.Invalidate()
	img.Fill(pixel.White, 255)
	if err := c.DrawBackground(dst, static); err != nil {
		t.Fatal(err)
	}
	checkAll(t, dst, [4]uint8{255, 255, 255, 255})
}

func TestOverlayBlendsPartialAlpha(t *testing.T) {
	c := New(1, 1)
	dst := pixel.NewBuffer(1, 1)
	dst.Fill(pixel.Black, 255)

	src := pixel.NewBuffer(1, 1)
	src.SetRGBA(0, 0, 255, 0, 0, 128)

	if err := c.Overlay(dst, src); err != nil {
		t.Fatal(err)
	}
	checkAll(t, dst, [4]uint8{128, 0, 0, 255})
}

func TestOverlayStretchesKeyedFrame(t *testing.T) {
	src := pixel.NewBuffer(2, 1)
	src.SetRGBA(0, 0, 255, 0, 0, 255)
	src.SetRGBA(1, 0, 0, 0, 0, 0)

	c := New(4, 2)
	dst := pixel.NewBuffer(4, 2)
	bg := Background{Color: pixel.Blue}
	if err := c.Composite(dst, src, bg); err != nil {
		t.Fatal(err)
	}

	for y := range 2 {
		for x := range 4 {
			r, _, b, _, _ := dst.RGBAAt(x, y)
			if x < 2 && r != 255 {
				t.Errorf("pixel (%d,%d) r = %d, want frame red", x, y, r)
			}
			if x >= 2 && b != 255 {
				t.Errorf("pixel (%d,%d) b = %d, want background blue", x, y, b)
			}
		}
	}
}

func TestCompositeErrors(t *testing.T) {
	c := New(2, 2)

	err := c.Composite(pixel.NewBuffer(3, 2), keyedOut(2, 2), Background{})
	if !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("wrong dst size error = %v, want ErrSizeMismatch", err)
	}

	empty := image.NewNRGBA(image.Rect(0, 0, 0, 5))
	err = c.Composite(pixel.NewBuffer(2, 2), keyedOut(2, 2), Background{Image: empty})
	if !errors.Is(err, ErrEmptyImage) {
		t.Errorf("empty background error = %v, want ErrEmptyImage", err)
	}
}

func TestOverlayParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	const w, h = 50, 97

	bg := pixel.NewBuffer(w, h)
	rng.Read(bg.Data())
	frame := pixel.NewBuffer(w, h)
	rng.Read(frame.Data())

	seq := bg.Clone()
	if err := New(w, h).Overlay(seq, frame); err != nil {
		t.Fatal(err)
	}

	c := New(w, h, WithWorkers(4))
	defer c.Close()
	par := bg.Clone()
	if err := c.Overlay(par, frame); err != nil {
		t.Fatal(err)
	}

	for i, v := range seq.Data() {
		if par.Data()[i] != v {
			t.Fatalf("byte %d: parallel %d, sequential %d", i, par.Data()[i], v)
		}
	}
}

func TestParseInterpolation(t *testing.T) {
	tests := []struct {
		in      string
		want    Interpolation
		wantErr bool
	}{
		{"nearest", NearestNeighbor, false},
		{"BiLinear", BiLinear, false},
		{"approx-bilinear", ApproxBiLinear, false},
		{"catmull-rom", CatmullRom, false},
		{"lanczos", BiLinear, true},
	}
	for _, tt := range tests {
		got, err := ParseInterpolation(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseInterpolation(%q) = %v, %v; want %v, err %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
	if Interpolation(99).String() != "Unknown" {
		t.Errorf("String() of unknown mode = %q", Interpolation(99).String())
	}
}
