package frame

import (
	"sync"
	"time"
)

// Clock provides time for the scheduler. The default implementation uses
// system time. Tests inject a FakeClock to control timing deterministically.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = realClock{}

// fakeEpoch is where every FakeClock starts, so frame times are the same on
// every run.
var fakeEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// FakeClock is a manually advanced Clock. It can also step a Scheduler so
// timers and frame callbacks observe the same instant. Safe for concurrent
// use.
type FakeClock struct {
	mu      sync.Mutex
	elapsed time.Duration
}

func NewFakeClock() *FakeClock {
	return &FakeClock{}
}

func (c *FakeClock) Now() time.Time {
	return fakeEpoch.Add(c.Elapsed())
}

// Elapsed is the total time the clock has been advanced.
func (c *FakeClock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

// Advance moves the clock forward by d. Negative durations are ignored.
func (c *FakeClock) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.elapsed += d
	c.mu.Unlock()
}

// Step advances the clock by d and runs one frame of s at the new time,
// which it returns in nanoseconds.
func (c *FakeClock) Step(s *Scheduler, d time.Duration) int64 {
	c.Advance(d)
	now := c.Now().UnixNano()
	s.DoFrame(now)
	return now
}

// StepN runs n frames of s spaced interval apart.
func (c *FakeClock) StepN(s *Scheduler, n int, interval time.Duration) {
	for i := 0; i < n; i++ {
		c.Step(s, interval)
	}
}
