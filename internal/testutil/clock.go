package testutil

import "sync/atomic"

// SharedClock stamps trace events with sequence numbers that keep counting
// across harness runs, so several actions executed in one test share a single
// timeline. The first Next returns 1.
//
// Thread-safety: all methods are safe for concurrent use.
type SharedClock struct {
	seq atomic.Int64
}

// Next advances the clock and returns the new sequence number.
func (c *SharedClock) Next() int64 {
	return c.seq.Add(1)
}

// Last returns the most recently issued sequence number, 0 if none.
func (c *SharedClock) Last() int64 {
	return c.seq.Load()
}

// Rewind resets the clock so the next call to Next returns 1.
func (c *SharedClock) Rewind() {
	c.seq.Store(0)
}
