package chromakey

import (
	"testing"
	"time"

	"github.com/gogpu/chromakey/compositor"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.workers != 1 {
		t.Errorf("workers = %d, want 1", o.workers)
	}
	if o.interp != compositor.BiLinear {
		t.Errorf("interp = %v, want BiLinear", o.interp)
	}
	if o.scheduler != nil || o.presenter != nil || o.onError != nil {
		t.Error("default options should not set scheduler, presenter or error handler")
	}
	if o.settings != DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", o.settings)
	}
}

func TestOptionsApply(t *testing.T) {
	var sched ManualScheduler
	p := PresenterFunc(func(*PixelBuffer) error { return nil })
	set := DefaultSettings()
	set.UserThreshold = 30

	o := defaultOptions()
	for _, opt := range []Option{
		WithScheduler(&sched),
		WithWorkers(4),
		WithInterpolation(compositor.CatmullRom),
		WithPresenter(p),
		WithErrorHandler(func(error) {}),
		WithSettings(set),
	} {
		opt(&o)
	}

	if o.scheduler != &sched {
		t.Error("WithScheduler did not set the scheduler")
	}
	if o.workers != 4 {
		t.Errorf("workers = %d, want 4", o.workers)
	}
	if o.interp != compositor.CatmullRom {
		t.Errorf("interp = %v, want CatmullRom", o.interp)
	}
	if o.presenter == nil || o.onError == nil {
		t.Error("presenter or error handler not set")
	}
	if o.settings.UserThreshold != 30 {
		t.Errorf("settings.UserThreshold = %v, want 30", o.settings.UserThreshold)
	}
}

func TestWithFrameInterval(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want time.Duration
	}{
		{time.Second / 30, time.Second / 30},
		{0, DefaultFrameInterval},
		{-time.Millisecond, DefaultFrameInterval},
	}
	for _, tt := range tests {
		o := defaultOptions()
		WithFrameInterval(tt.in)(&o)
		ts, ok := o.scheduler.(*TimerScheduler)
		if !ok {
			t.Fatalf("WithFrameInterval(%v) scheduler = %T, want *TimerScheduler", tt.in, o.scheduler)
		}
		if ts.Interval() != tt.want {
			t.Errorf("WithFrameInterval(%v) interval = %v, want %v", tt.in, ts.Interval(), tt.want)
		}
	}
}
