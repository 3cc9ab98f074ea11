package chromakey

import (
	"sync"
	"time"
)

// DefaultFrameInterval is the tick interval of a TimerScheduler created
// without an explicit interval: one display refresh at 60 Hz.
const DefaultFrameInterval = time.Second / 60

// Handle cancels a scheduled callback.
type Handle interface {
	// Cancel prevents the callback from running if it has not started.
	// Cancel is safe to call more than once.
	Cancel()
}

// Scheduler runs callbacks later, once each.
//
// Schedule must not run fn synchronously: a Session schedules its next
// cycle while the current one still holds the session's locks.
type Scheduler interface {
	Schedule(fn func()) Handle
}

// TimerScheduler runs each callback on its own goroutine after a fixed
// interval.
type TimerScheduler struct {
	interval time.Duration
}

// NewTimerScheduler creates a scheduler with the given interval.
// A non-positive interval selects DefaultFrameInterval.
func NewTimerScheduler(interval time.Duration) *TimerScheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &TimerScheduler{interval: interval}
}

// Interval returns the delay before each callback runs.
func (s *TimerScheduler) Interval() time.Duration {
	return s.interval
}

// Schedule runs fn once after the interval.
func (s *TimerScheduler) Schedule(fn func()) Handle {
	return timerHandle{t: time.AfterFunc(s.interval, fn)}
}

type timerHandle struct {
	t *time.Timer
}

func (h timerHandle) Cancel() {
	h.t.Stop()
}

// ManualScheduler holds callbacks until Tick runs them.
// It lets hosts drive sessions from their own refresh loop and makes
// lifecycle tests deterministic.
//
// ManualScheduler is safe for concurrent use. The zero value is ready.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []*manualTask
}

type manualTask struct {
	s  *ManualScheduler
	fn func()
}

// Schedule queues fn for the next Tick.
func (s *ManualScheduler) Schedule(fn func()) Handle {
	t := &manualTask{s: s, fn: fn}
	s.mu.Lock()
	s.pending = append(s.pending, t)
	s.mu.Unlock()
	return t
}

// Cancel removes the task from its scheduler's queue.
func (t *manualTask) Cancel() {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.pending {
		if p == t {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

// Tick runs every callback queued before the call and returns how many ran.
// Callbacks scheduled while Tick runs wait for the next Tick.
func (s *ManualScheduler) Tick() int {
	s.mu.Lock()
	tasks := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, t := range tasks {
		t.fn()
	}
	return len(tasks)
}

// Pending returns the number of queued callbacks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
