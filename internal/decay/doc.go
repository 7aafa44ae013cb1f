// Package decay runs the recurring timer that lowers happiness.
//
// A Ticker has two states. It is Running from the moment Start returns and
// becomes Stopped exactly once, on Stop or when the parent context ends.
// There is no way back to Running; a new session starts a new Ticker.
//
// Stop is synchronous: when it returns, the tick goroutine has exited and no
// tick is in flight or will fire later. Stop must not be called from inside
// the tick function.
//
// Ticks come from a Clock so tests can drive time by hand
// (see internal/testutil.ManualClock).
package decay
