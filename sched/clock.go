// Package sched provides a deterministic, manually-advanced event
// scheduler satisfying the fdc.Scheduler collaborator interface. It is a
// sorted-linked-list event queue, generalized from a fixed small enum of
// event kinds into an opaque per-callback context value.
package sched

import "time"

type entry struct {
	clock    int64
	context  any
	callback func(nowNs int64, context any)
	next     *entry
}

// Clock is a single-threaded, clock-ordered event queue. Time only
// advances when Advance is called; nothing here touches the wall clock,
// which is what makes tests against it deterministic.
type Clock struct {
	head *entry
	now  int64
}

// New returns a Clock starting at time zero.
func New() *Clock {
	return &Clock{}
}

// Now reports the current scheduler time in nanoseconds.
func (c *Clock) Now() int64 { return c.now }

// Schedule arranges for callback to run when the clock reaches now+delay,
// carrying context through unchanged. Ties are broken in the order they
// were scheduled.
func (c *Clock) Schedule(delay time.Duration, context any, callback func(nowNs int64, context any)) {
	clock := c.now + int64(delay)
	e := &entry{clock: clock, context: context, callback: callback}

	ptr := &c.head
	for *ptr != nil && (*ptr).clock <= clock {
		ptr = &(*ptr).next
	}
	e.next = *ptr
	*ptr = e
}

// Advance moves the clock forward by delta, dispatching every callback
// due at or before the new time, in clock order. A callback that
// schedules further callbacks during dispatch will have those considered
// in the same Advance call if they fall within the new time. While a
// callback runs, Now reports that callback's own due time, so delays it
// schedules are measured from when it fired.
func (c *Clock) Advance(delta time.Duration) {
	target := c.now + int64(delta)
	for c.head != nil && c.head.clock <= target {
		e := c.head
		c.head = e.next
		c.now = e.clock
		e.callback(e.clock, e.context)
	}
	c.now = target
}

// Pending reports how many callbacks are currently queued, for tests that
// want to assert a command produced (or didn't produce) further work.
func (c *Clock) Pending() int {
	n := 0
	for e := c.head; e != nil; e = e.next {
		n++
	}
	return n
}
