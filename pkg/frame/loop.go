package frame

import (
	"context"
	"time"
)

// DefaultFrameRate is used when a Loop is created with a non-positive rate.
const DefaultFrameRate = 60

// Loop drives a Scheduler from a goroutine. While frame callbacks are
// pending it calls DoFrame at the frame rate; otherwise it sleeps until work
// is dispatched or the next timer is due.
//
// Hosts with a real vsync source (a platform choreographer) call
// Scheduler.DoFrame directly instead.
type Loop struct {
	sched    *Scheduler
	interval time.Duration
}

// NewLoop creates a loop for sched running at fps frames per second.
func NewLoop(sched *Scheduler, fps int) *Loop {
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	return &Loop{sched: sched, interval: time.Second / time.Duration(fps)}
}

// Interval returns the frame interval.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Run drives frames until ctx is cancelled. It returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		if l.sched.HasFrameCallbacks() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				l.step()
			}
			continue
		}

		var timerC <-chan time.Time
		var idle *time.Timer
		if deadline, ok := l.sched.NextDeadline(); ok {
			idle = time.NewTimer(max(deadline.Sub(l.sched.Now()), 0))
			timerC = idle.C
		}

		select {
		case <-ctx.Done():
			if idle != nil {
				idle.Stop()
			}
			return ctx.Err()
		case <-l.sched.Wake():
		case <-timerC:
		}
		if idle != nil {
			idle.Stop()
		}
		l.step()
	}
}

func (l *Loop) step() {
	l.sched.DoFrame(l.sched.Now().UnixNano())
}
