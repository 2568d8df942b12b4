package testing

import (
	"sync"
	"time"
)

// ManualClock is a controllable clock for time-dependent behavior.
type ManualClock struct {
	mu      sync.RWMutex
	current time.Time
}

func NewManualClock() *ManualClock {
	return &ManualClock{
		current: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (c *ManualClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}
