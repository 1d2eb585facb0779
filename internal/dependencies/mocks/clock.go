package mocks

import (
	"sort"
	"sync"
	"time"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing.
// Timers fire synchronously from Advance and Set, in due order.
type MockClock struct {
	mu          sync.Mutex
	CurrentTime time.Time
	timers      []*mockTimer
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

type mockTimer struct {
	clock   *MockClock
	due     time.Time
	f       func()
	stopped bool
	fired   bool
}

// Stop cancels the timer if it has not fired yet
func (t *mockTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CurrentTime
}

// AfterFunc registers f to run once the mocked time reaches now+d
func (c *MockClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &mockTimer{clock: c, due: c.CurrentTime.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by the given duration, firing due timers
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.CurrentTime.Add(d)
	c.mu.Unlock()
	c.Set(target)
}

// Set sets the clock to the given time, firing due timers
func (c *MockClock) Set(t time.Time) {
	for {
		c.mu.Lock()
		next := c.nextDue(t)
		if next == nil {
			c.CurrentTime = t
			c.mu.Unlock()
			return
		}
		if next.due.After(c.CurrentTime) {
			c.CurrentTime = next.due
		}
		next.fired = true
		c.mu.Unlock()

		// Callbacks may register new timers
		next.f()
	}
}

// PendingTimers returns the number of timers that have neither fired nor been stopped
func (c *MockClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			count++
		}
	}
	return count
}

func (c *MockClock) nextDue(limit time.Time) *mockTimer {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			live = append(live, t)
		}
	}
	c.timers = live
	sort.SliceStable(c.timers, func(i, j int) bool {
		return c.timers[i].due.Before(c.timers[j].due)
	})
	if len(c.timers) == 0 || c.timers[0].due.After(limit) {
		return nil
	}
	return c.timers[0]
}
