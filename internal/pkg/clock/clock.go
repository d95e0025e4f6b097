// Package clock provides a tiny time abstraction so business rules that depend
// on "today" can be exercised against a deterministic instant.
package clock

import (
	"sync"
	"time"
)

// Clocker abstracts time so callers can replace real time in tests.
type Clocker interface {
	Now() time.Time
}

// TimeClocker is the production clock implementation backed by time.Now.
type TimeClocker struct {
	loc *time.Location
}

// New returns a TimeClocker that reads the current system time in the process
// local timezone.
func New() *TimeClocker {
	return &TimeClocker{}
}

// NewIn returns a TimeClocker whose readings are converted to loc.
func NewIn(loc *time.Location) *TimeClocker {
	return &TimeClocker{loc: loc}
}

// Now returns the current system time.
func (c *TimeClocker) Now() time.Time {
	now := time.Now()
	if c.loc != nil {
		return now.In(c.loc)
	}
	return now
}

// Fixed is a Clocker frozen at a given instant until moved with Set or Advance.
type Fixed struct {
	mu sync.RWMutex
	t  time.Time
}

// NewFixed returns a clock that always reports t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t}
}

// Now returns the frozen instant.
func (f *Fixed) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.t
}

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.t = t
	f.mu.Unlock()
}

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}
