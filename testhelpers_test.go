package faketimers

import (
	"testing"
	"time"
)

// timeoutAfter returns a channel that fires shortly after the real-timer
// assertions in host_test.go have had a chance to observe their outcome.
// It exists only to bound those tests' wait time; it carries no relation
// to the virtual clock under test elsewhere in this package.
func timeoutAfter(t *testing.T) <-chan time.Time {
	t.Helper()
	return time.After(200 * time.Millisecond)
}
