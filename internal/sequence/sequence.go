// Package sequence reads numbered image files as a stream of video frames.
//
// Supported formats: PNG, JPEG, GIF (first frame), BMP, TIFF and WebP.
package sequence

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Sequence errors.
var (
	// ErrNoFrames is returned when a directory or pattern matches no image
	// files.
	ErrNoFrames = errors.New("sequence: no frames")
)

// Extensions lists the file extensions Open picks up from a directory.
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// Supported reports whether path has an image extension Open recognizes.
func Supported(path string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(path)))
}

// Source yields the frames of an image sequence in order.
//
// Source is safe for concurrent use.
type Source struct {
	paths  []string
	loop   bool
	width  int
	height int

	mu   sync.Mutex
	next int
}

// Option configures a Source.
type Option func(*Source)

// WithLoop restarts the sequence after the last frame instead of
// returning io.EOF.
func WithLoop(loop bool) Option {
	return func(s *Source) {
		s.loop = loop
	}
}

// Open creates a Source from a directory (every supported image in it,
// sorted by name), a single image file, or a glob pattern.
func Open(path string, opts ...Option) (*Source, error) {
	paths, err := list(path)
	if err != nil {
		return nil, err
	}
	return New(paths, opts...)
}

func list(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err == nil && !info.IsDir() {
		return []string{path}, nil
	}

	var matches []string
	if err == nil {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("sequence: read dir: %w", err)
		}
		for _, e := range entries {
			if !e.IsDir() && Supported(e.Name()) {
				matches = append(matches, filepath.Join(path, e.Name()))
			}
		}
	} else {
		matches, err = filepath.Glob(path)
		if err != nil {
			return nil, fmt.Errorf("sequence: pattern %q: %w", path, err)
		}
	}

	slices.Sort(matches)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFrames, path)
	}
	return matches, nil
}

// New creates a Source over the given files. The frame size is taken from
// the first file.
func New(paths []string, opts ...Option) (*Source, error) {
	if len(paths) == 0 {
		return nil, ErrNoFrames
	}

	cfg, err := decodeConfig(paths[0])
	if err != nil {
		return nil, err
	}

	s := &Source{
		paths:  slices.Clone(paths),
		width:  cfg.Width,
		height: cfg.Height,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Size returns the size of the first frame.
func (s *Source) Size() (width, height int) {
	return s.width, s.height
}

// Len returns the number of frames in one pass.
func (s *Source) Len() int {
	return len(s.paths)
}

// Frame decodes and returns the next frame. At the end of the sequence it
// returns io.EOF, or starts over when looping.
func (s *Source) Frame() (image.Image, error) {
	s.mu.Lock()
	if s.next >= len(s.paths) {
		if !s.loop {
			s.mu.Unlock()
			return nil, io.EOF
		}
		s.next = 0
	}
	path := s.paths[s.next]
	s.next++
	s.mu.Unlock()

	return Load(path)
}

// Rewind restarts the sequence at the first frame.
func (s *Source) Rewind() {
	s.mu.Lock()
	s.next = 0
	s.mu.Unlock()
}

// Load decodes an image file, detecting the format from its content.
func Load(path string) (image.Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("sequence: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("sequence: decode %s: %w", path, err)
	}
	return img, nil
}

func decodeConfig(path string) (image.Config, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return image.Config{}, fmt.Errorf("sequence: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Config{}, fmt.Errorf("sequence: decode %s: %w", path, err)
	}
	return cfg, nil
}
