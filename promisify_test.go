package faketimers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeoutAsFutureResolvesOnDrain(t *testing.T) {
	s, _ := newTestScheduler()
	f := TimeoutAsFuture(s, 100, "done")

	select {
	case <-f.Chan():
		t.Fatal("future resolved before any drain")
	default:
	}

	require.NoError(t, s.AdvanceTimersByTime(100))
	assert.Equal(t, "done", f.Await())
}

func TestTimeoutAsFutureCarriesTypedValue(t *testing.T) {
	s, _ := newTestScheduler()
	f := TimeoutAsFuture(s, 0, 42)
	require.NoError(t, s.RunAllTimers())
	assert.Equal(t, 42, f.Await())
}
