// Package flowtest provides a virtual clock for driving flow.Runner in tests.
package flowtest

import (
	"sort"
	"sync"
	"time"

	"github.com/zjrosen/chaindemo/internal/flow"
)

// Clock is a manually advanced flow.Clock. Callbacks run synchronously
// inside Advance, in due-time order, ties broken by scheduling order.
type Clock struct {
	mu      sync.Mutex
	now     time.Duration
	seq     uint64
	pending []*timer
}

type timer struct {
	clock *Clock
	at    time.Duration
	seq   uint64
	f     func()
}

// NewClock returns a clock at virtual time zero.
func NewClock() *Clock {
	return &Clock{}
}

// AfterFunc implements flow.Clock.
func (c *Clock) AfterFunc(d time.Duration, f func()) flow.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d < 0 {
		d = 0
	}
	c.seq++
	t := &timer{clock: c, at: c.now + d, seq: c.seq, f: f}
	c.pending = append(c.pending, t)
	return t
}

// Stop implements flow.Timer.
func (t *timer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	for i, p := range t.clock.pending {
		if p == t {
			t.clock.pending = append(t.clock.pending[:i], t.clock.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Now returns the elapsed virtual time.
func (c *Clock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Pending returns the number of scheduled callbacks.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Advance moves virtual time forward by d, running every callback that
// comes due. Callbacks scheduled while advancing run too if they fall
// inside the window.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.popDue(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.at
		c.mu.Unlock()

		next.f()
	}
}

// popDue removes and returns the earliest timer due at or before target.
// Must be called with c.mu held.
func (c *Clock) popDue(target time.Duration) *timer {
	if len(c.pending) == 0 {
		return nil
	}
	sort.SliceStable(c.pending, func(i, j int) bool {
		if c.pending[i].at != c.pending[j].at {
			return c.pending[i].at < c.pending[j].at
		}
		return c.pending[i].seq < c.pending[j].seq
	})
	first := c.pending[0]
	if first.at > target {
		return nil
	}
	c.pending = c.pending[1:]
	return first
}
