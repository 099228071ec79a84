package faketimers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecursionErrorMessage(t *testing.T) {
	err := &RecursionError{Drain: "timers", MaxLoops: 7, SchedulerID: "abc-123"}
	msg := err.Error()
	assert.Contains(t, msg, "timers")
	assert.Contains(t, msg, "7")
	assert.Contains(t, msg, "abc-123")
}

func TestUnexpectedTimerKindWraps(t *testing.T) {
	err := unexpectedTimerKind(5, timerKind(99))
	assert.True(t, errors.Is(err, ErrUnexpectedTimerKind))
	assert.Contains(t, err.Error(), "id=5")
}
