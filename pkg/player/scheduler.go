package player

import (
	"context"
	"time"
)

// Timer is a pending one-shot callback
type Timer interface {
	// Stop cancels the callback. It reports false if the callback already
	// fired or was already stopped.
	Stop() bool
}

// Scheduler runs fn once after delay, on the thread that owns the session.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Timer
}

// SerialScheduler runs every scheduled callback on the goroutine that calls Run.
// It is the headless counterpart of the UI event thread.
type SerialScheduler struct {
	queue chan func()
	done  chan struct{}
}

// NewSerialScheduler creates a scheduler. Callbacks only run once Run is called.
func NewSerialScheduler() *SerialScheduler {
	return &SerialScheduler{
		queue: make(chan func(), 16),
		done:  make(chan struct{}),
	}
}

// Schedule implements Scheduler
func (s *SerialScheduler) Schedule(delay time.Duration, fn func()) Timer {
	return time.AfterFunc(delay, func() { s.Do(fn) })
}

// Do queues fn to run on the Run goroutine. It is dropped once Run has returned.
func (s *SerialScheduler) Do(fn func()) {
	select {
	case s.queue <- fn:
	case <-s.done:
	}
}

// Run executes queued callbacks one at a time until ctx is done.
// Run must only be called once.
func (s *SerialScheduler) Run(ctx context.Context) error {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-s.queue:
			fn()
		}
	}
}
