package faketimers

import (
	"sync"
	"time"
)

// NewRealHost returns a Host whose bindings are genuine asynchronous
// scheduling primitives built on the standard library's time package, in
// the style of leononame/clock's realTimer/realTicker wrapping
// time.AfterFunc/time.NewTicker. It is meant to seed a Scheduler's
// "original primitives" table (so UseRealTimers/RunWithRealTimers have
// something real to restore) and as the default Host for callers that
// have no scripting-runtime globals of their own to bind against.
func NewRealHost() *MapHost {
	h := NewFullMapHost()
	r := &realPrimitives{}
	h.Set(PrimitiveSetTimeout, SetTimeoutFunc(r.setTimeout))
	h.Set(PrimitiveClearTimeout, ClearTimeoutFunc(r.clear))
	h.Set(PrimitiveSetInterval, SetIntervalFunc(r.setInterval))
	h.Set(PrimitiveClearInterval, ClearIntervalFunc(r.clear))
	h.Set(PrimitiveNextTick, NextTickFunc(r.nextTick))
	h.Set(PrimitiveSetImmediate, SetImmediateFunc(r.setImmediate))
	h.Set(PrimitiveClearImmediate, ClearImmediateFunc(r.clear))
	h.Set(PrimitiveRequestAnimationFrame, RequestAnimationFrameFunc(r.requestAnimationFrame))
	h.Set(PrimitiveCancelAnimationFrame, CancelAnimationFrameFunc(r.clear))
	return h
}

// realPrimitives backs NewRealHost. Every handle it hands out is a
// *realHandle wrapped as a TimerRef; clear (shared by every clear/cancel
// family, since each just stops whatever was scheduled) type-asserts it
// back.
type realPrimitives struct{}

// realHandle is the TimerRef concrete type for a NewRealHost-backed
// scheduler: either a one-shot *time.Timer, or, for an interval, the
// channel that stops the goroutine draining its *time.Ticker.
type realHandle struct {
	mu     sync.Mutex
	closed bool
	timer  *time.Timer
	stop   chan struct{}
}

func (r *realPrimitives) setTimeout(cb func(args ...any), delayMs float64, args ...any) TimerRef {
	if cb == nil {
		return nil
	}
	d := time.Duration(coerceDelay(delayMs)) * time.Millisecond
	t := time.AfterFunc(d, func() { cb(args...) })
	return &realHandle{timer: t}
}

func (r *realPrimitives) setImmediate(cb func(args ...any), args ...any) TimerRef {
	return r.setTimeout(cb, 0, args...)
}

func (r *realPrimitives) nextTick(cb func(args ...any), args ...any) {
	if cb == nil {
		return
	}
	// A zero-delay AfterFunc runs on its own goroutine once the current
	// goroutine yields, which is the closest stdlib analog to a
	// microtask queue that always drains ahead of the next macrotask.
	time.AfterFunc(0, func() { cb(args...) })
}

func (r *realPrimitives) requestAnimationFrame(cb func(nowMs float64)) TimerRef {
	if cb == nil {
		return nil
	}
	d := time.Duration(1000.0/60.0*float64(time.Millisecond))
	t := time.AfterFunc(d, func() { cb(float64(time.Now().UnixMilli())) })
	return &realHandle{timer: t}
}

func (r *realPrimitives) setInterval(cb func(args ...any), delayMs float64, args ...any) TimerRef {
	if cb == nil {
		return nil
	}
	d := time.Duration(coerceDelay(delayMs)) * time.Millisecond
	if d <= 0 {
		d = time.Millisecond
	}
	ticker := time.NewTicker(d)
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				cb(args...)
			case <-stop:
				ticker.Stop()
				return
			}
		}
	}()
	return &realHandle{stop: stop}
}

func (r *realPrimitives) clear(ref TimerRef) {
	h, ok := ref.(*realHandle)
	if !ok || h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	if h.timer != nil {
		h.timer.Stop()
	}
	if h.stop != nil {
		close(h.stop)
	}
}
