package testutil

import (
	"sync"
	"time"
)

// DefaultEpoch is the first instant handed out by NewDeterministicClock when
// no start time is given.
var DefaultEpoch = time.Date(2026, time.January, 1, 9, 0, 0, 0, time.UTC)

// DeterministicClock is a thread-safe wall clock that advances by a fixed
// step on every read.
//
// Replays driven by it produce identical timestamps on every run, and every
// timestamp is strictly later than the previous one, so created_at ordering
// is total.
type DeterministicClock struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	now   time.Time
}

// NewDeterministicClock creates a clock starting at start. A zero start uses
// DefaultEpoch; a non-positive step uses one second.
func NewDeterministicClock(start time.Time, step time.Duration) *DeterministicClock {
	if start.IsZero() {
		start = DefaultEpoch
	}
	if step <= 0 {
		step = time.Second
	}
	return &DeterministicClock{start: start, step: step, now: start}
}

// Now returns the current instant and advances the clock by one step.
// Suitable as a state.Reducer Now function.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Current returns the instant the next Now call will return.
func (c *DeterministicClock) Current() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Reset rewinds the clock to its start.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.start
}
