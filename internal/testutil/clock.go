package testutil

import (
	"sync"
	"time"
)

// ManualClock is a decay.Clock whose time only moves when Advance is called.
//
// Each ticker it hands out has a one-slot buffer and drops ticks the
// receiver has not collected yet, like time.Ticker. Advance a single
// interval at a time and wait for the receiver when every tick matters.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*manualTicker
}

type manualTicker struct {
	period  time.Duration
	elapsed time.Duration
	ch      chan time.Time
	stopped bool
}

// NewManualClock creates a clock frozen at a fixed instant.
func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Tick implements decay.Clock.
func (c *ManualClock) Tick(d time.Duration) (<-chan time.Time, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &manualTicker{period: d, ch: make(chan time.Time, 1)}
	c.tickers = append(c.tickers, t)

	return t.ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		t.stopped = true
	}
}

// Advance moves time forward by d and fires every ticker whose period elapsed.
// Returns the number of ticks delivered (dropped ticks are not counted).
func (c *ManualClock) Advance(d time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
	delivered := 0
	for _, t := range c.tickers {
		if t.stopped {
			continue
		}
		t.elapsed += d
		for t.elapsed >= t.period {
			t.elapsed -= t.period
			select {
			case t.ch <- c.now:
				delivered++
			default:
			}
		}
	}
	return delivered
}

// Now returns the clock's current instant.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Active returns the number of tickers not yet released.
func (c *ManualClock) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.tickers {
		if !t.stopped {
			n++
		}
	}
	return n
}
