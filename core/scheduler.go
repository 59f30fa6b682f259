package core

import (
	"sync/atomic"
	"time"
)

// EventId is a handle to a scheduled timer. Cancellation is idempotent and
// synchronous.
type EventId struct {
	cancelled *atomic.Bool
	timer     *time.Timer
}

// Cancel stops the timer if it has not already fired or been cancelled.
// Safe to call more than once and safe to call on the zero value.
func (e EventId) Cancel() {
	if e.cancelled == nil {
		return
	}
	if e.cancelled.CompareAndSwap(false, true) {
		e.timer.Stop()
	}
}

// Loop is the single-threaded cooperative event loop every table mutation,
// pipeline step, and timer callback runs on. There is no internal locking
// anywhere in this repo's forwarding core;
// data-race freedom is structural, guaranteed by every mutation passing
// through Loop.Post.
type Loop struct {
	tasks chan func()
	done  chan struct{}
}

// NewLoop creates a Loop with the given task queue depth.
func NewLoop(queueDepth int) *Loop {
	return &Loop{
		tasks: make(chan func(), queueDepth),
		done:  make(chan struct{}),
	}
}

// Post enqueues fn to run on the loop goroutine. Safe to call from any
// goroutine (timers, external management transport callbacks); fn itself
// must never block.
func (l *Loop) Post(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.done:
	}
}

// Run drains the task queue until Stop is called. Intended to be the body
// of the one goroutine that owns all forwarder state.
func (l *Loop) Run() {
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-l.done:
			return
		}
	}
}

// Stop terminates Run. Idempotent.
func (l *Loop) Stop() {
	select {
	case <-l.done:
	default:
		close(l.done)
	}
}

// Scheduler schedules callbacks to run on a Loop after a delay, backed by
// the monotonic Clock. This is the only source of asynchrony the
// forwarding core depends on.
type Scheduler struct {
	loop *Loop
}

// NewScheduler binds a Scheduler to the Loop its callbacks will be posted
// to.
func NewScheduler(loop *Loop) *Scheduler {
	return &Scheduler{loop: loop}
}

// Schedule runs fn on the owning Loop after delay elapses.
func (s *Scheduler) Schedule(delay time.Duration, fn func()) EventId {
	cancelled := &atomic.Bool{}
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		if cancelled.Load() {
			return
		}
		s.loop.Post(fn)
	})
	return EventId{cancelled: cancelled, timer: timer}
}

// ScheduleEvery runs fn on the owning Loop repeatedly at the given
// interval until cancelled, used by the DeadNonceList's mark-insertion and
// capacity-adjustment timers.
func (s *Scheduler) ScheduleEvery(interval time.Duration, fn func()) EventId {
	cancelled := &atomic.Bool{}
	var timer *time.Timer
	var tick func()
	tick = func() {
		if cancelled.Load() {
			return
		}
		s.loop.Post(fn)
		timer.Reset(interval)
	}
	timer = time.AfterFunc(interval, tick)
	return EventId{cancelled: cancelled, timer: timer}
}
