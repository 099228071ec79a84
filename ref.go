package faketimers

// TimerRef is the opaque handle type a host normally hands back from a
// "set a timer" operation: an integer on a POSIX-like host, a stateful
// object handle on a browser-like host. The scheduler never inspects a
// TimerRef itself; it only ever round-trips it through a Bridge.
type TimerRef = any

// Bridge translates between a host's opaque TimerRef and the scheduler's
// internal monotonic integer ids. It is supplied at construction time
// (spec.md §4.5) so the same scheduler core can back hosts with entirely
// different handle representations.
type Bridge struct {
	// IDToRef converts an internal id into the TimerRef shape the host
	// expects to receive back from set{Timeout,Interval,Immediate} and
	// requestAnimationFrame.
	IDToRef func(id int64) TimerRef
	// RefToID converts a TimerRef received by a clear{Timeout,Interval,
	// Immediate}/cancelAnimationFrame call back into an internal id. The
	// second return value is false if ref does not correspond to any id
	// this bridge minted (e.g. nil, or a foreign handle) — callers treat
	// that the same as "unknown id", i.e. a no-op.
	RefToID func(ref TimerRef) (int64, bool)
}

// IntBridge returns a Bridge for the common case of a POSIX-like host
// where TimerRef is simply the internal id, boxed as an int64.
func IntBridge() Bridge {
	return Bridge{
		IDToRef: func(id int64) TimerRef { return id },
		RefToID: func(ref TimerRef) (int64, bool) {
			switch v := ref.(type) {
			case int64:
				return v, true
			case int:
				return int64(v), true
			default:
				return 0, false
			}
		},
	}
}
