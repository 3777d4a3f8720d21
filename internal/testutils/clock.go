// Package testutils holds test doubles shared across the engine's test
// suites, most importantly the virtual clock that lets delivery-pacing tests
// advance logical time instead of sleeping.
package testutils

import (
	"sync"
	"time"
)

// FakeClock implements ports.Clock with manually advanced time.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	waiters []waiter
	blocked chan struct{}
}

type waiter struct {
	at time.Time
	ch chan time.Time
}

// NewFakeClock creates a clock frozen at the given instant.
func NewFakeClock(at time.Time) *FakeClock {
	return &FakeClock{now: at}
}

// Now returns the current virtual time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// After registers a waiter that fires once Advance moves past d.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- c.now
		return ch
	}
	c.waiters = append(c.waiters, waiter{at: c.now.Add(d), ch: ch})
	if c.blocked != nil {
		close(c.blocked)
		c.blocked = nil
	}
	return ch
}

// Advance moves virtual time forward and fires every waiter whose deadline
// has passed.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	remaining := c.waiters[:0]
	for _, w := range c.waiters {
		if !w.at.After(c.now) {
			w.ch <- c.now
		} else {
			remaining = append(remaining, w)
		}
	}
	c.waiters = remaining
}

// BlockUntilWaiter returns once at least one waiter is registered. It lets a
// test synchronize with a goroutine that is about to pace itself.
func (c *FakeClock) BlockUntilWaiter() {
	c.mu.Lock()
	if len(c.waiters) > 0 {
		c.mu.Unlock()
		return
	}
	if c.blocked == nil {
		c.blocked = make(chan struct{})
	}
	ch := c.blocked
	c.mu.Unlock()
	<-ch
}
