package faketimers

import (
	"fmt"
	"runtime"
	"strings"
)

// StackFormatter is the external collaborator that renders a caller's
// stack trace for the "no fakes installed" warning (spec.md §6,
// "stackConfig — opaque configuration forwarded to the external
// stack-formatter"). This package only consumes it at that one call site.
type StackFormatter interface {
	// Format renders a human-readable stack trace, skipping the
	// innermost skip frames (which belong to the scheduler's own drain
	// machinery, not the caller's code). config is forwarded verbatim
	// from whatever was supplied to New via WithStackConfig.
	Format(config any, skip int) string
}

// DefaultStackFormatter is a StackFormatter built on runtime.Callers and
// runtime.CallersFrames, in the style of benbjohnson/clock's hook-matching
// walk over the call stack. It ignores config entirely; it exists so a
// Scheduler constructed without WithStackFormatter still produces a
// useful warning instead of none at all.
type DefaultStackFormatter struct{}

// Format renders up to 32 frames above skip as "file:line function" lines.
func (DefaultStackFormatter) Format(_ any, skip int) string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return "(no stack available)"
	}
	frames := runtime.CallersFrames(pcs[:n])
	var b strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, "\t%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return b.String()
}
