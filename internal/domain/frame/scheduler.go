// Package frame coalesces live-transform updates into animation frames.
//
// At most one frame is pending at any time. Requesting a frame while one is
// pending replaces it, so a burst of pointer moves produces a single update
// computed from the newest state rather than a queue of stale deltas.
package frame

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Interval is one frame at 60Hz
const Interval = 16 * time.Millisecond

// Scheduler runs at most one pending callback per frame interval
type Scheduler struct {
	mu       sync.Mutex
	clock    clock.Clock
	interval time.Duration
	pending  *clock.Timer // Protected by mu
	seq      uint64       // Protected by mu; bumps invalidate in-flight callbacks
	stopped  bool         // Protected by mu
}

// NewScheduler creates a scheduler on the given clock. A zero interval
// means Interval.
func NewScheduler(c clock.Clock, interval time.Duration) *Scheduler {
	if c == nil {
		c = clock.New()
	}
	if interval <= 0 {
		interval = Interval
	}
	return &Scheduler{clock: c, interval: interval}
}

// Request schedules fn for the next frame, dropping any frame still pending.
// Returns false once the scheduler is stopped.
func (s *Scheduler) Request(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return false
	}
	s.cancelLocked()

	seq := s.seq
	s.pending = s.clock.AfterFunc(s.interval, func() {
		s.mu.Lock()
		if s.stopped || s.seq != seq {
			s.mu.Unlock()
			return
		}
		s.pending = nil
		s.mu.Unlock()

		fn()
	})
	return true
}

// Cancel drops the pending frame, if any
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
}

// Stop cancels the pending frame and refuses further requests
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	s.stopped = true
}

// Pending reports whether a frame is waiting to run
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pending != nil
}

func (s *Scheduler) cancelLocked() {
	s.seq++
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}
