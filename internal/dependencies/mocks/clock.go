package mocks

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mcoot/roomwarden/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing.
// Tickers and timers only fire when the clock is advanced.
type MockClock struct {
	mu          sync.Mutex
	CurrentTime time.Time
	tickers     []*MockTicker
	timers      []*mockTimer
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

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

// NewTicker creates a MockTicker driven by Advance
func (c *MockClock) NewTicker(d time.Duration) clock.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &MockTicker{
		ch:       make(chan time.Time, 1),
		interval: d,
		next:     c.CurrentTime.Add(d),
	}
	c.tickers = append(c.tickers, t)
	return t
}

// AfterFunc registers f to run synchronously once Advance passes d
func (c *MockClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &mockTimer{at: c.CurrentTime.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward, firing due tickers and timers
func (c *MockClock) Advance(d time.Duration) {
	c.Set(c.Now().Add(d))
}

// Set sets the clock to the given time, firing due tickers and timers
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	c.CurrentTime = t
	for _, tk := range c.tickers {
		tk.fire(t)
	}
	var due []*mockTimer
	pending := c.timers[:0]
	for _, tm := range c.timers {
		switch {
		case tm.stopped.Load():
		case !tm.at.After(t):
			due = append(due, tm)
		default:
			pending = append(pending, tm)
		}
	}
	c.timers = pending
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, tm := range due {
		tm.f()
	}
}

// PendingTimers returns the number of timers that have not fired
func (c *MockClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, tm := range c.timers {
		if !tm.stopped.Load() {
			n++
		}
	}
	return n
}

// ActiveTickers returns the number of tickers that have not been stopped
func (c *MockClock) ActiveTickers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, tk := range c.tickers {
		if !tk.stopped.Load() {
			n++
		}
	}
	return n
}

// MockTicker is a ticker that fires when its MockClock is advanced
type MockTicker struct {
	ch       chan time.Time
	interval time.Duration
	next     time.Time
	stopped  atomic.Bool
}

// C returns the tick channel
func (t *MockTicker) C() <-chan time.Time { return t.ch }

// Stop stops further ticks
func (t *MockTicker) Stop() { t.stopped.Store(true) }

// fire delivers at most one tick per advance, like a real ticker dropping
// ticks for slow receivers
func (t *MockTicker) fire(now time.Time) {
	if t.stopped.Load() || now.Before(t.next) {
		return
	}
	for !now.Before(t.next) {
		t.next = t.next.Add(t.interval)
	}
	select {
	case t.ch <- now:
	default:
	}
}

type mockTimer struct {
	at      time.Time
	f       func()
	stopped atomic.Bool
}

func (t *mockTimer) Stop() bool {
	return !t.stopped.Swap(true)
}
