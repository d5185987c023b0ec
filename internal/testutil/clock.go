package testutil

import (
	"sync"
	"time"
)

// Reference instants shared by tests: the hour starting 2013-07-18T00:00Z.
var (
	T0 = time.Date(2013, 7, 18, 0, 0, 0, 0, time.UTC)
	T1 = T0.Add(time.Hour)
)

// At returns T0 shifted by d.
func At(d time.Duration) time.Time {
	return T0.Add(d)
}

// StepClock yields evenly spaced timestamps for building observation
// fixtures.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu    sync.Mutex
	base  time.Time
	step  time.Duration
	count int64
}

// NewStepClock creates a clock whose first call to Next returns base.
func NewStepClock(base time.Time, step time.Duration) *StepClock {
	return &StepClock{base: base, step: step}
}

// Next returns the next timestamp. Successive calls never repeat a value
// as long as step is positive.
func (c *StepClock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.base.Add(time.Duration(c.count) * c.step)
	c.count++
	return t
}

// Count returns how many timestamps have been issued.
func (c *StepClock) Count() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Reset restarts the sequence at base.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count = 0
}
