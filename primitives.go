package faketimers

// Callback is the shape every scheduled callback is normalized to once it
// reaches internal storage: a zero-argument thunk, already bound to
// whatever positional arguments the registering call supplied (spec.md §3,
// "captured callback ... already bound to its positional arguments").
type Callback func()

// bind closes over fn and args so later invocation needs no arguments of
// its own. Callers are expected to have already applied the nil-callback
// short-circuit (SPEC_FULL.md §4) before reaching here.
func bind(fn func(args ...any), args []any) Callback {
	return func() { fn(args...) }
}

// The function shapes a Host binds its scheduling-primitive families to.
// These mirror the real host primitives this package stands in for.
type (
	// SetTimeoutFunc schedules cb to run once after delayMs, passing args.
	SetTimeoutFunc func(cb func(args ...any), delayMs float64, args ...any) TimerRef
	// ClearTimeoutFunc cancels a timeout previously returned by a
	// SetTimeoutFunc. Clearing an unknown or already-fired ref is a no-op.
	ClearTimeoutFunc func(ref TimerRef)
	// SetIntervalFunc schedules cb to run repeatedly every delayMs.
	SetIntervalFunc func(cb func(args ...any), delayMs float64, args ...any) TimerRef
	// ClearIntervalFunc cancels an interval previously returned by a
	// SetIntervalFunc.
	ClearIntervalFunc func(ref TimerRef)
	// NextTickFunc schedules cb to run before any macrotask in the current
	// drain cycle (spec.md's microtask-like family). It has no handle to
	// cancel by design — ticks, like Node's process.nextTick, are fired
	// once queued.
	NextTickFunc func(cb func(args ...any), args ...any)
	// SetImmediateFunc schedules cb to run after ticks but with no delay.
	SetImmediateFunc func(cb func(args ...any), args ...any) TimerRef
	// ClearImmediateFunc cancels an immediate previously returned by a
	// SetImmediateFunc.
	ClearImmediateFunc func(ref TimerRef)
	// RequestAnimationFrameFunc schedules cb to run on the next simulated
	// frame boundary, receiving the virtual clock reading in milliseconds.
	RequestAnimationFrameFunc func(cb func(nowMs float64)) TimerRef
	// CancelAnimationFrameFunc cancels a frame request previously returned
	// by a RequestAnimationFrameFunc.
	CancelAnimationFrameFunc func(ref TimerRef)
)
