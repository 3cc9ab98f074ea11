package chromakey

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/gogpu/chromakey/compositor"
	"github.com/gogpu/chromakey/internal/parallel"
	"github.com/gogpu/chromakey/keyer"
	"github.com/gogpu/chromakey/pixel"
)

// Session runs the capture, key, composite and present cycle for one frame
// source.
//
// A Session starts stopped. Start schedules the first cycle and each cycle
// schedules the next one after it completes, so cycles never overlap.
// Settings may change at any time; a cycle reads them once when it begins.
//
// All methods are safe for concurrent use.
type Session struct {
	id        string
	src       FrameSource
	sched     Scheduler
	presenter Presenter
	onError   func(error)
	interp    compositor.Interpolation

	pool  *parallel.WorkerPool
	keyer *keyer.Keyer

	settingsMu sync.Mutex
	settings   Settings
	bgVersion  uint64

	// cycleMu serializes cycles with Start, DrawOnce and color picking.
	// Lock order: cycleMu, then mu.
	cycleMu  sync.Mutex
	width    int
	height   int
	input    *pixel.Buffer
	back     *pixel.Buffer
	captured bool
	comp     *compositor.Compositor
	scaler   *compositor.Scaler

	mu      sync.Mutex
	running bool
	gen     uint64
	handle  Handle
	err     error

	outMu sync.RWMutex
	front *pixel.Buffer

	frames atomic.Uint64
}

// NewSession creates a stopped session reading frames from src.
func NewSession(src FrameSource, opts ...Option) (*Session, error) {
	if isNil(src) {
		return nil, fmt.Errorf("chromakey: nil frame source: %w", ErrInvalidArgument)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.settings.validate(); err != nil {
		return nil, err
	}
	if o.scheduler == nil {
		o.scheduler = NewTimerScheduler(DefaultFrameInterval)
	}

	s := &Session{
		id:        uuid.NewString(),
		src:       src,
		sched:     o.scheduler,
		presenter: o.presenter,
		onError:   o.onError,
		interp:    o.interp,
		settings:  o.settings,
		scaler:    compositor.NewScaler(o.interp),
	}
	if o.workers > 1 {
		s.pool = parallel.NewWorkerPool(o.workers)
	}
	s.keyer = keyer.New(keyer.WithPool(s.pool))
	return s, nil
}

// ID returns the session identifier used in log records.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) logger() *slog.Logger {
	return Logger().With(slog.String("session", s.id))
}

// Start begins the draw loop. It reads the source size, allocates the
// session buffers and schedules the first cycle. Start on a running session
// does nothing.
func (s *Session) Start() error {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if running {
		return nil
	}

	if err := s.prepare(); err != nil {
		return err
	}

	s.mu.Lock()
	s.running = true
	s.err = nil
	s.gen++
	gen := s.gen
	s.handle = s.sched.Schedule(func() { s.tick(gen) })
	s.mu.Unlock()

	s.logger().Info("session started", "width", s.width, "height", s.height)
	return nil
}

// Stop ends the draw loop. A cycle already in progress completes before
// Stop returns; no cycle starts afterwards. Stop on a stopped session does
// nothing.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.gen++
	h := s.handle
	s.handle = nil
	s.mu.Unlock()

	if h != nil {
		h.Cancel()
	}
	// Wait out an in-flight cycle.
	s.cycleMu.Lock()
	s.cycleMu.Unlock() //nolint:staticcheck // empty critical section is intended

	s.logger().Info("session stopped", "frames", s.frames.Load())
}

// Close stops the session and releases its worker pool.
func (s *Session) Close() {
	s.Stop()
	if s.pool != nil {
		s.pool.Close()
	}
}

// DrawOnce runs one cycle synchronously and returns its error. A session
// that was never started sizes its buffers from the source first. Unlike a
// scheduled cycle, a failing DrawOnce does not stop the session.
func (s *Session) DrawOnce() error {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	if s.input == nil {
		if err := s.prepare(); err != nil {
			return err
		}
	}
	return s.cycle()
}

// Running reports whether the draw loop is active.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Err returns the error that stopped the last run, or nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Frames returns the number of completed cycles.
func (s *Session) Frames() uint64 {
	return s.frames.Load()
}

// Size returns the frame size captured at the last Start, or 0, 0.
func (s *Session) Size() (width, height int) {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()
	return s.width, s.height
}

// Output returns a copy of the latest composited frame, or nil before the
// first cycle completes.
func (s *Session) Output() *PixelBuffer {
	s.outMu.RLock()
	defer s.outMu.RUnlock()
	if s.front == nil {
		return nil
	}
	return s.front.Clone()
}

// prepare sizes the session buffers from the source. Caller holds cycleMu.
func (s *Session) prepare() error {
	w, h := s.src.Size()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("chromakey: frame source size %dx%d: %w", w, h, ErrInvalidArgument)
	}
	if s.input != nil && w == s.width && h == s.height {
		return nil
	}

	if s.comp != nil {
		s.comp.Close()
	}
	s.width, s.height = w, h
	s.input = pixel.NewBuffer(w, h)
	s.back = pixel.NewBuffer(w, h)
	s.captured = false
	s.comp = compositor.New(w, h,
		compositor.WithInterpolation(s.interp),
		compositor.WithPool(s.pool))
	return nil
}

// tick is the scheduled cycle for generation gen.
func (s *Session) tick(gen uint64) {
	s.cycleMu.Lock()

	s.mu.Lock()
	live := s.running && s.gen == gen
	s.mu.Unlock()
	if !live {
		s.cycleMu.Unlock()
		return
	}

	err := s.cycle()

	s.mu.Lock()
	live = s.running && s.gen == gen
	switch {
	case err != nil:
		if live {
			s.running = false
			s.gen++
			s.handle = nil
		}
		s.err = err
	case live:
		s.handle = s.sched.Schedule(func() { s.tick(gen) })
	}
	s.mu.Unlock()
	s.cycleMu.Unlock()

	if err != nil {
		s.logger().Error("draw cycle failed, session stopped", "err", err)
		if s.onError != nil {
			s.onError(err)
		}
	}
}

// cycle captures, keys, composites and presents one frame.
// Caller holds cycleMu.
func (s *Session) cycle() error {
	set, version := s.snapshot()

	frame, err := s.src.Frame()
	if err != nil {
		return fmt.Errorf("chromakey: read frame: %w", err)
	}
	if frame == nil {
		return fmt.Errorf("chromakey: frame source returned no frame: %w", ErrInvalidArgument)
	}
	if err := s.scaler.Scale(s.input, frame); err != nil {
		return fmt.Errorf("chromakey: capture frame: %w", err)
	}
	s.captured = true

	bg, err := background(set, version)
	if err != nil {
		return err
	}

	if err := s.keyer.Key(s.input, set.TargetColor, set.Threshold()); err != nil {
		return fmt.Errorf("chromakey: key frame: %w", err)
	}
	if s.back == nil || s.back.Width() != s.width || s.back.Height() != s.height {
		s.back = pixel.NewBuffer(s.width, s.height)
	}
	if err := s.comp.Composite(s.back, s.input, bg); err != nil {
		return fmt.Errorf("chromakey: composite: %w", err)
	}

	s.outMu.Lock()
	s.front, s.back = s.back, s.front
	s.outMu.Unlock()

	if s.presenter != nil {
		if err := s.presenter.Present(s.front); err != nil {
			return fmt.Errorf("chromakey: present: %w", err)
		}
	}

	n := s.frames.Add(1)
	s.logger().Debug("frame composited",
		"frame", n,
		"source", fmt.Sprintf("%dx%d", frame.Bounds().Dx(), frame.Bounds().Dy()),
		"background", backgroundKind(bg))
	return nil
}

// background resolves the background for one cycle.
//
// A FrameSource is read and an image is rescaled every cycle, so canvases
// drawn into between cycles show their new pixels. Images marked with
// StillImage are scaled once per SetBackgroundMedia call.
func background(set Settings, version uint64) (compositor.Background, error) {
	switch m := set.BackgroundMedia.(type) {
	case nil:
		return compositor.Background{Color: set.BackgroundColor}, nil
	case FrameSource:
		img, err := m.Frame()
		if err != nil {
			return compositor.Background{}, fmt.Errorf("chromakey: read background: %w", err)
		}
		if img == nil {
			return compositor.Background{}, fmt.Errorf("chromakey: background source returned no frame: %w", ErrInvalidArgument)
		}
		return compositor.Background{Image: img}, nil
	case stillImage:
		return compositor.Background{Image: m.Image, Static: true, Version: version}, nil
	case image.Image:
		return compositor.Background{Image: m}, nil
	default:
		return compositor.Background{}, fmt.Errorf("chromakey: unsupported background media %T: %w", m, ErrInvalidArgument)
	}
}

func backgroundKind(bg compositor.Background) string {
	switch {
	case bg.Image == nil:
		return "color"
	case bg.Static:
		return "still"
	default:
		return "image"
	}
}

func (s *Session) snapshot() (Settings, uint64) {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()
	return s.settings, s.bgVersion
}

// Settings returns a copy of the current settings.
func (s *Session) Settings() Settings {
	set, _ := s.snapshot()
	return set
}

// TargetColor returns the key color.
func (s *Session) TargetColor() Color {
	return s.Settings().TargetColor
}

// Threshold returns the effective distance cutoff, 255 minus the value last
// passed to SetThreshold.
func (s *Session) Threshold() float64 {
	return s.Settings().Threshold()
}

func (s *Session) update(fn func(*Settings)) {
	s.settingsMu.Lock()
	fn(&s.settings)
	s.settingsMu.Unlock()
}

// SetTargetColor sets the key color.
func (s *Session) SetTargetColor(c Color) {
	s.update(func(set *Settings) { set.TargetColor = c })
}

// SetTargetColorValues sets the key color from a sequence of three numbers.
// See ColorFromValues for the accepted forms. On error the key color is
// unchanged.
func (s *Session) SetTargetColorValues(v any) error {
	c, err := ColorFromValues(v)
	if err != nil {
		return err
	}
	s.SetTargetColor(c)
	return nil
}

// SetTargetColorFromPixel sets the key color to the pixel at (x, y) of the
// last captured input frame. It fails with ErrNotStarted before any frame
// was captured and with ErrOutOfBounds outside the frame.
func (s *Session) SetTargetColorFromPixel(x, y int) error {
	s.cycleMu.Lock()
	if !s.captured {
		s.cycleMu.Unlock()
		return fmt.Errorf("chromakey: pick color: %w", ErrNotStarted)
	}
	r, g, b, _, ok := s.input.RGBAAt(x, y)
	w, h := s.width, s.height
	s.cycleMu.Unlock()

	if !ok {
		return fmt.Errorf("chromakey: pick color at (%d, %d) in %dx%d frame: %w", x, y, w, h, ErrOutOfBounds)
	}
	s.SetTargetColor(RGB(r, g, b))
	return nil
}

// SetThreshold sets the caller-facing threshold v; the effective cutoff
// becomes 255 - v. Values are not clamped. NaN fails with
// ErrInvalidArgument.
func (s *Session) SetThreshold(v float64) error {
	if math.IsNaN(v) {
		return fmt.Errorf("chromakey: threshold is NaN: %w", ErrInvalidArgument)
	}
	s.update(func(set *Settings) { set.UserThreshold = v })
	return nil
}

// SetThresholdValue sets the threshold from a number or numeric string.
// See ThresholdFromValue for the accepted forms.
func (s *Session) SetThresholdValue(v any) error {
	f, err := ThresholdFromValue(v)
	if err != nil {
		return err
	}
	return s.SetThreshold(f)
}

// SetBackgroundColor fills the background with c and clears any
// background media.
func (s *Session) SetBackgroundColor(c Color) {
	s.update(func(set *Settings) {
		set.BackgroundColor = c
		set.BackgroundMedia = nil
	})
}

// SetBackgroundColorValues sets the background color from a sequence of
// three numbers. On error the background is unchanged.
func (s *Session) SetBackgroundColorValues(v any) error {
	c, err := ColorFromValues(v)
	if err != nil {
		return err
	}
	s.SetBackgroundColor(c)
	return nil
}

// SetBackgroundMedia stretches src behind the keyed frame instead of the
// background color. src is an image.Image (including *PixelBuffer), an
// image wrapped with StillImage, or a FrameSource. Images are rescaled every
// cycle unless wrapped with StillImage. nil (including nil pointers), empty
// images and other kinds fail with ErrInvalidArgument and leave the
// background unchanged.
func (s *Session) SetBackgroundMedia(src any) error {
	if err := checkMedia(src); err != nil {
		return err
	}
	s.settingsMu.Lock()
	s.settings.BackgroundMedia = src
	s.bgVersion++
	s.settingsMu.Unlock()
	return nil
}
