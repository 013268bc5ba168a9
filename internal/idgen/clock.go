package idgen

import (
	"sync"
	"time"
)

// Clock provides the current time.
// Abstracted so generator behavior around second boundaries can be tested deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock implements Clock with controllable time. Safe for concurrent use.
type FixedClock struct {
	mu      sync.Mutex
	current time.Time
}

// NewFixedClock creates a FixedClock set to the given time.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{current: t}
}

// Now returns the clock's current time.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.current
}

// Advance moves the clock by d, which may be negative.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = c.current.Add(d)
}

// Set sets the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = t
}
