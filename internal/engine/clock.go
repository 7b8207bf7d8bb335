package engine

import "sync/atomic"

// Sequencer issues monotonically increasing sequence numbers.
// Implemented by Clock and by the deterministic test clock.
type Sequencer interface {
	Next() int64
	Current() int64
}

var _ Sequencer = (*Clock)(nil)

// Clock hands out definition sequence numbers.
//
// Every class the engine materializes is stamped with the next value, so
// registry listings and snapshots order classes by definition rather than
// by name or map iteration.
//
// Thread-safety: Clock is safe for concurrent use.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock whose next value is start+1.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
