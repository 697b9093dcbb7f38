// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package throttle bounds the frequency of a repeated mutation without ever
// dropping its final value.
package throttle

import (
	"sync"
	"time"
)

// =============================================================================
// CLOCK ABSTRACTION
// =============================================================================

// Clock abstracts wall-clock time and timer scheduling so throttling is
// deterministically testable.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is an outstanding scheduled call.
type Timer interface {
	Stop() bool
}

// SystemClock is the real-time Clock used outside tests.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// =============================================================================
// THROTTLER
// =============================================================================

// state is the throttler's scheduling state.
type state int

const (
	stateIdle state = iota
	stateScheduled
)

// Throttler rate-limits calls to a mutation fn(arg).
//
// Policy is immediate-then-coalesce-trailing:
//   - the first call after a quiescent period runs immediately;
//   - a call arriving within the interval of the last run is not dropped but
//     parked in a single pending slot (newest argument wins) and runs exactly
//     once when the remaining interval elapses;
//   - the mutation is never run concurrently with itself.
//
// A pure debounce would swallow the final text of a rapid token stream; this
// policy guarantees the most recent argument always eventually applies.
type Throttler[T any] struct {
	mu sync.Mutex

	fn       func(T)
	interval time.Duration
	clock    Clock

	state      state
	lastRun    time.Time
	pending    T
	hasPending bool
	timer      Timer
}

// New creates a throttler around fn with the given interval, using the system
// clock.
func New[T any](fn func(T), interval time.Duration) *Throttler[T] {
	return NewWithClock(fn, interval, SystemClock{})
}

// NewWithClock creates a throttler with an explicit clock.
func NewWithClock[T any](fn func(T), interval time.Duration, clock Clock) *Throttler[T] {
	return &Throttler[T]{
		fn:       fn,
		interval: interval,
		clock:    clock,
		state:    stateIdle,
	}
}

// Call submits arg to the wrapped mutation under the throttling policy.
func (t *Throttler[T]) Call(arg T) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()

	switch t.state {
	case stateIdle:
		t.runLocked(arg, now)
		t.scheduleLocked()
	case stateScheduled:
		if now.Sub(t.lastRun) >= t.interval {
			// Timer is still outstanding but the interval has already
			// passed (timer drift); run immediately.
			t.runLocked(arg, now)
		} else {
			t.pending = arg
			t.hasPending = true
		}
	}
}

// Flush runs any pending argument immediately and cancels the outstanding
// timer. Used on stream completion so the final value never waits out the
// interval.
func (t *Throttler[T]) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if t.hasPending {
		t.runLocked(t.pending, t.clock.Now())
	}
	t.state = stateIdle
}

// Stop cancels the outstanding timer and discards any pending argument.
func (t *Throttler[T]) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	var zero T
	t.pending = zero
	t.hasPending = false
	t.state = stateIdle
}

// =============================================================================
// INTERNAL
// =============================================================================

// runLocked executes the mutation and clears the pending slot.
// Caller must hold t.mu.
func (t *Throttler[T]) runLocked(arg T, now time.Time) {
	t.fn(arg)
	t.lastRun = now
	var zero T
	t.pending = zero
	t.hasPending = false
}

// scheduleLocked arms the trailing timer. Caller must hold t.mu.
func (t *Throttler[T]) scheduleLocked() {
	t.state = stateScheduled
	t.timer = t.clock.AfterFunc(t.interval, t.fire)
}

// fire is the timer callback: run the pending argument if one survived,
// re-arming the timer; otherwise fall back to Idle.
func (t *Throttler[T]) fire() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != stateScheduled {
		return
	}

	if t.hasPending {
		t.runLocked(t.pending, t.clock.Now())
		t.timer = t.clock.AfterFunc(t.interval, t.fire)
		return
	}

	t.timer = nil
	t.state = stateIdle
}
