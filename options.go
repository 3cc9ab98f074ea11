package chromakey

import (
	"time"

	"github.com/gogpu/chromakey/compositor"
)

// Option configures a Session during creation.
//
// Example:
//
//	// 60 Hz timer, bilinear background scaling
//	s, err := chromakey.NewSession(src)
//
//	// Host-driven refresh loop with four workers
//	var sched chromakey.ManualScheduler
//	s, err := chromakey.NewSession(src,
//	    chromakey.WithScheduler(&sched),
//	    chromakey.WithWorkers(4))
type Option func(*sessionOptions)

// sessionOptions holds optional configuration for Session creation.
type sessionOptions struct {
	scheduler Scheduler
	workers   int
	interp    compositor.Interpolation
	presenter Presenter
	onError   func(error)
	settings  Settings
}

// defaultOptions returns the default session options.
func defaultOptions() sessionOptions {
	return sessionOptions{
		workers:  1,
		interp:   compositor.BiLinear,
		settings: DefaultSettings(),
	}
}

// WithScheduler sets the scheduler that drives the draw loop.
// The default is a TimerScheduler with DefaultFrameInterval.
func WithScheduler(s Scheduler) Option {
	return func(o *sessionOptions) {
		o.scheduler = s
	}
}

// WithFrameInterval drives the draw loop with a TimerScheduler using d.
func WithFrameInterval(d time.Duration) Option {
	return func(o *sessionOptions) {
		o.scheduler = NewTimerScheduler(d)
	}
}

// WithWorkers keys and composites each frame on n goroutines, splitting it
// into row bands. n <= 1 processes frames on the draw goroutine.
func WithWorkers(n int) Option {
	return func(o *sessionOptions) {
		o.workers = n
	}
}

// WithInterpolation sets the kernel used to stretch background media and
// input frames whose size differs from the session size.
func WithInterpolation(i compositor.Interpolation) Option {
	return func(o *sessionOptions) {
		o.interp = i
	}
}

// WithPresenter hands every composited frame to p.
func WithPresenter(p Presenter) Option {
	return func(o *sessionOptions) {
		o.presenter = p
	}
}

// WithErrorHandler registers fn to be called when a draw cycle fails and
// the session stops. fn runs on the draw goroutine after the session's
// locks are released, so it may call Start.
func WithErrorHandler(fn func(error)) Option {
	return func(o *sessionOptions) {
		o.onError = fn
	}
}

// WithSettings replaces the default settings.
func WithSettings(s Settings) Option {
	return func(o *sessionOptions) {
		o.settings = s
	}
}
