package faketimers

import (
	"fmt"
	"io"
	"log"
	"os"
)

// warner is the minimal leveled logger used for the not-installed warning
// (spec.md §7: "non-fatal ... emit a warning including a formatted stack
// trace. Do not throw."). It follows betrace-hq-betrace's
// backend/internal/observability/logger.go house style — a thin wrapper
// over the standard library's log package rather than a structured
// logging framework — since no repo in the example pack reaches for one
// just to emit an occasional diagnostic line.
type warner struct {
	out *log.Logger
}

func newWarner(w io.Writer) *warner {
	if w == nil {
		w = os.Stderr
	}
	return &warner{out: log.New(w, "", log.LstdFlags)}
}

func (w *warner) warnf(format string, args ...any) {
	w.out.Print("WARN faketimers: " + fmt.Sprintf(format, args...))
}
