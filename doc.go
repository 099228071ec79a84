// Package faketimers provides a virtual-time scheduler for deterministically
// exercising code that relies on asynchronous scheduling primitives:
// one-shot timeouts, periodic intervals, microtask-like "next tick"
// callbacks, and macrotask-like "immediate" callbacks.
//
// Host code under test registers callbacks through the same shapes as a
// real host environment's scheduling primitives, but when a Scheduler's
// fakes are installed those registrations enqueue into an in-process
// simulated clock that advances only under explicit control via Drain
// operations such as AdvanceTimersByTime or RunAllTimers.
package faketimers
