package decay

import "time"

// Clock produces periodic ticks.
type Clock interface {
	// Tick returns a channel that receives a value every d, and a function
	// that releases the underlying timer.
	Tick(d time.Duration) (<-chan time.Time, func())
}

// WallClock ticks with time.Ticker. Slow receivers drop ticks, and ticks
// are delivered whenever the host schedules them (no catch-up).
type WallClock struct{}

// Tick implements Clock.
func (WallClock) Tick(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}
