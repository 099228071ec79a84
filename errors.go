package faketimers

import (
	"errors"
	"fmt"
)

// ErrUnexpectedTimerKind is returned (wrapped with the offending id) when
// a stored timer's kind is neither timeout nor interval. Per spec.md §7
// this indicates internal corruption and should never occur in a correct
// build; it exists so the failure is loud and attributable instead of a
// silent misfire.
var ErrUnexpectedTimerKind = errors.New("faketimers: unexpected timer kind")

// RecursionError is raised when a drain loop reaches its configured
// maxLoops without exhausting its queue (spec.md §7, "Recursion-bound
// exceeded"). Scheduler state is left intact: the remaining queued work is
// still present and further drains may be attempted once the runaway
// rescheduling is fixed.
type RecursionError struct {
	// Drain names which drain loop hit the bound: "ticks", "immediates",
	// or "timers".
	Drain string
	// MaxLoops is the configured bound that was reached.
	MaxLoops int
	// SchedulerID is the owning Scheduler's InstanceID, so a test harness
	// juggling more than one scheduler can tell which one wedged.
	SchedulerID string
}

func (e *RecursionError) Error() string {
	return fmt.Sprintf("faketimers[%s]: %s drain exceeded maxLoops (%d); a callback is probably rescheduling itself unconditionally", e.SchedulerID, e.Drain, e.MaxLoops)
}

func unexpectedTimerKind(id int64, kind timerKind) error {
	return fmt.Errorf("%w: id=%d kind=%v", ErrUnexpectedTimerKind, id, kind)
}
