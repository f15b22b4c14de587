// Package clock provides the time source shared by time-dependent services.
package clock

import (
	"sync"
	"time"
)

// Clock reports the current instant.
type Clock interface {
	Now() time.Time
}

// Real implements Clock using the system time in UTC.
type Real struct{}

func (Real) Now() time.Time { return time.Now().UTC() }

// Mock is a controllable clock for tests.
type Mock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMock returns a Mock frozen at now.
func NewMock(now time.Time) *Mock {
	return &Mock{now: now.UTC()}
}

func (c *Mock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Mock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the clock to t.
func (c *Mock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t.UTC()
}

// OrReal returns c, or Real when c is nil.
func OrReal(c Clock) Clock {
	if c == nil {
		return Real{}
	}
	return c
}

// ToMillis converts t to the Unix millisecond form used in storage.
func ToMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts a stored Unix millisecond value to a UTC time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
