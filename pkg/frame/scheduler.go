// Package frame provides the display-synchronized scheduling primitives the
// cursor engine runs on.
//
// A [Scheduler] models a single UI thread. Work reaches it three ways:
//
//   - [Scheduler.PostFrameCallback] registers a one-shot callback for the next
//     rendered frame. Callbacks that want to keep running re-post themselves.
//   - [Scheduler.PostDelayed] runs a function once a deadline has passed.
//   - [Scheduler.Dispatch] queues a function from any goroutine. This is the
//     only goroutine-safe entry point and is how asynchronous notifications
//     are marshalled onto the UI thread.
//
// The host calls [Scheduler.DoFrame] once per display frame, or lets a
// [Loop] do it. DoFrame drains the dispatch queue first, then fires due
// timers, then runs the frame callbacks posted for this frame.
package frame

import (
	"sort"
	"sync"
	"time"

	"github.com/go-drift/tvcursor/pkg/errors"
)

// FrameCallback is invoked with the frame timestamp in nanoseconds.
type FrameCallback interface {
	DoFrame(frameTimeNanos int64)
}

// FrameFunc adapts a function to FrameCallback. A *FrameFunc is comparable,
// so it can be removed after posting.
type FrameFunc func(frameTimeNanos int64)

// DoFrame calls f.
func (f *FrameFunc) DoFrame(frameTimeNanos int64) { (*f)(frameTimeNanos) }

// Scheduler is a single-threaded frame and callback scheduler.
//
// Except for Dispatch, Wake and Pending, methods must be called from the
// thread that drives DoFrame.
type Scheduler struct {
	clock Clock

	mu    sync.Mutex
	queue []func() // guarded by mu
	wake  chan struct{}

	callbacks []FrameCallback
	timers    []*Timer
	seq       uint64
	inFrame   bool
}

// NewScheduler creates a scheduler reading time from clock.
// A nil clock uses SystemClock.
func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock
	}
	return &Scheduler{
		clock: clock,
		wake:  make(chan struct{}, 1),
	}
}

// Now returns the scheduler's current time.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// Dispatch schedules a callback to run on the UI thread at the start of the
// next frame. Safe for concurrent use. Returns false if callback is nil.
func (s *Scheduler) Dispatch(callback func()) bool {
	if callback == nil {
		return false
	}
	s.mu.Lock()
	s.queue = append(s.queue, callback)
	s.mu.Unlock()
	s.notify()
	return true
}

// Wake returns a channel that receives after Dispatch queues work.
func (s *Scheduler) Wake() <-chan struct{} {
	return s.wake
}

// Pending reports whether dispatched callbacks are waiting. Safe for
// concurrent use.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue) > 0
}

func (s *Scheduler) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// PostFrameCallback registers cb to run on the next frame. Posting a
// callback that is already pending is a no-op.
func (s *Scheduler) PostFrameCallback(cb FrameCallback) {
	if cb == nil {
		return
	}
	for _, existing := range s.callbacks {
		if existing == cb {
			return
		}
	}
	s.callbacks = append(s.callbacks, cb)
	s.notify()
}

// RemoveFrameCallback cancels a pending frame callback.
func (s *Scheduler) RemoveFrameCallback(cb FrameCallback) {
	for i, existing := range s.callbacks {
		if existing == cb {
			s.callbacks = append(s.callbacks[:i], s.callbacks[i+1:]...)
			return
		}
	}
}

// HasFrameCallbacks reports whether any frame callback is pending.
func (s *Scheduler) HasFrameCallbacks() bool {
	return len(s.callbacks) > 0
}

// Timer is a pending delayed callback.
type Timer struct {
	sched    *Scheduler
	deadline time.Time
	seq      uint64
	fn       func()
	done     bool
}

// Stop cancels the timer. It returns false if the timer already fired or
// was stopped.
func (t *Timer) Stop() bool {
	if t == nil || t.done {
		return false
	}
	t.done = true
	t.sched.removeTimer(t)
	return true
}

// PostDelayed runs fn on the UI thread once d has elapsed on the scheduler's
// clock. Timers are checked on every DoFrame.
func (s *Scheduler) PostDelayed(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &Timer{sched: s, deadline: s.clock.Now().Add(d), seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	sort.Slice(s.timers, func(i, j int) bool {
		if s.timers[i].deadline.Equal(s.timers[j].deadline) {
			return s.timers[i].seq < s.timers[j].seq
		}
		return s.timers[i].deadline.Before(s.timers[j].deadline)
	})
	s.notify()
	return t
}

func (s *Scheduler) removeTimer(t *Timer) {
	for i, existing := range s.timers {
		if existing == t {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}

// NextDeadline returns the earliest pending timer deadline.
func (s *Scheduler) NextDeadline() (time.Time, bool) {
	if len(s.timers) == 0 {
		return time.Time{}, false
	}
	return s.timers[0].deadline, true
}

// DoFrame runs one frame: dispatched callbacks, due timers, then the frame
// callbacks that were pending when the frame started. Panics in callbacks
// are recovered and reported so one bad callback cannot stall the loop.
func (s *Scheduler) DoFrame(frameTimeNanos int64) {
	if s.inFrame {
		return
	}
	s.inFrame = true
	defer func() { s.inFrame = false }()

	for _, cb := range s.drainQueue() {
		s.run("frame.dispatch", cb)
	}

	now := s.clock.Now()
	limit := s.seq
	for len(s.timers) > 0 && !s.timers[0].deadline.After(now) {
		t := s.timers[0]
		if t.seq > limit {
			// Posted by a timer in this frame; runs next frame.
			break
		}
		s.timers = s.timers[1:]
		t.done = true
		if t.fn != nil {
			s.run("frame.timer", t.fn)
		}
	}

	callbacks := s.callbacks
	s.callbacks = nil
	for _, cb := range callbacks {
		s.run("frame.callback", func() { cb.DoFrame(frameTimeNanos) })
	}
}

func (s *Scheduler) drainQueue() []func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return nil
	}
	callbacks := s.queue
	s.queue = nil
	return callbacks
}

func (s *Scheduler) run(op string, fn func()) {
	defer errors.Recover(op)
	fn()
}
