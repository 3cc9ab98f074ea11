package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gogpu/chromakey"
	"github.com/gogpu/chromakey/surface"
)

// output fans composited frames out to every sink and signals Done once
// the frame limit is reached. Frames past the limit are dropped.
type output struct {
	sinks []chromakey.Presenter
	limit int

	mu    sync.Mutex
	count int
	done  chan struct{}
}

func newOutput(limit int) *output {
	return &output{limit: limit, done: make(chan struct{})}
}

func (o *output) add(p chromakey.Presenter) {
	o.sinks = append(o.sinks, p)
}

// Present implements chromakey.Presenter.
func (o *output) Present(buf *chromakey.PixelBuffer) error {
	o.mu.Lock()
	if o.limit > 0 && o.count >= o.limit {
		o.mu.Unlock()
		return nil
	}
	o.count++
	n := o.count
	o.mu.Unlock()

	for _, s := range o.sinks {
		if err := s.Present(buf); err != nil {
			return err
		}
	}
	if o.limit > 0 && n == o.limit {
		close(o.done)
	}
	return nil
}

// Done is closed after the last frame within the limit was presented.
func (o *output) Done() <-chan struct{} {
	return o.done
}

// Count returns the number of frames presented.
func (o *output) Count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.count
}

// fileWriter writes every frame to a numbered PNG file through a surface.
type fileWriter struct {
	dir     string
	pattern string
	surf    surface.Surface
	n       int
}

func newFileWriter(dir, pattern string, width, height int) (*fileWriter, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}
	surf, err := surface.NewSurface(width, height)
	if err != nil {
		return nil, err
	}
	return &fileWriter{dir: dir, pattern: pattern, surf: surf}, nil
}

// Present implements chromakey.Presenter.
func (w *fileWriter) Present(buf *chromakey.PixelBuffer) error {
	if err := w.surf.WritePixels(buf); err != nil {
		return err
	}
	w.n++
	path := filepath.Join(w.dir, fmt.Sprintf(w.pattern, w.n))
	return surface.SavePNG(w.surf, path)
}

// Close releases the surface.
func (w *fileWriter) Close() error {
	return w.surf.Close()
}
