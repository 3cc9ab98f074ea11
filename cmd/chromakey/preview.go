package main

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/chromakey"
)

// upperHalf draws the top pixel of a cell in the foreground color and the
// bottom pixel in the background color, giving two pixel rows per line.
const upperHalf = '▀'

// preview renders composited frames in the terminal with 24-bit color.
// Esc, q or Ctrl-C closes Done.
type preview struct {
	screen tcell.Screen

	mu sync.Mutex

	quit     chan struct{}
	quitOnce sync.Once
	closed   chan struct{}
	fini     sync.Once
}

// openPreview takes over the controlling terminal.
func openPreview() (*preview, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return newPreview(screen)
}

// newPreview initializes screen and starts reading its events.
func newPreview(screen tcell.Screen) (*preview, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()
	screen.Clear()

	p := &preview{
		screen: screen,
		quit:   make(chan struct{}),
		closed: make(chan struct{}),
	}
	go p.events()
	return p, nil
}

func (p *preview) events() {
	for {
		ev := p.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				p.quitOnce.Do(func() { close(p.quit) })
			}
		case *tcell.EventResize:
			p.mu.Lock()
			p.screen.Sync()
			p.mu.Unlock()
		}
	}
}

// Done is closed when the user asks to quit.
func (p *preview) Done() <-chan struct{} {
	return p.quit
}

// Present implements chromakey.Presenter. The frame is stretched to the
// terminal with nearest-neighbour sampling.
func (p *preview) Present(buf *chromakey.PixelBuffer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	select {
	case <-p.closed:
		return nil
	default:
	}

	cols, rows := p.screen.Size()
	bw, bh := buf.Size()
	if cols <= 0 || rows <= 0 || bw == 0 || bh == 0 {
		return nil
	}

	for cy := range rows {
		top := cy * 2 * bh / (rows * 2)
		bottom := (cy*2 + 1) * bh / (rows * 2)
		for cx := range cols {
			x := cx * bw / cols
			style := tcell.StyleDefault.
				Foreground(cellColor(buf, x, top)).
				Background(cellColor(buf, x, bottom))
			p.screen.SetContent(cx, cy, upperHalf, nil, style)
		}
	}
	p.screen.Show()
	return nil
}

// cellColor returns the pixel at (x, y) as a terminal color.
func cellColor(buf *chromakey.PixelBuffer, x, y int) tcell.Color {
	r, g, b, _, _ := buf.RGBAAt(x, y)
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// Close restores the terminal.
func (p *preview) Close() error {
	p.fini.Do(func() {
		p.mu.Lock()
		close(p.closed)
		p.screen.Fini()
		p.mu.Unlock()
	})
	return nil
}
