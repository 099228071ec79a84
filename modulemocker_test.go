package faketimers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassthroughMockerReturnsImplUnchanged(t *testing.T) {
	var mocker ModuleMocker = PassthroughMocker{}
	impl := SetTimeoutFunc(func(cb func(args ...any), delayMs float64, args ...any) TimerRef { return nil })
	got := mocker.Fn("setTimeout", impl)
	_, ok := got.(SetTimeoutFunc)
	assert.True(t, ok)
}

// recordingMocker is a tiny stand-in for the real module-mocker
// collaborator (spec.md §1: "specified only at its interface"), used here
// to verify a Scheduler actually routes every fake through it.
type recordingMocker struct {
	names []string
}

func (m *recordingMocker) Fn(name string, impl any) any {
	m.names = append(m.names, name)
	return impl
}

func TestSchedulerRoutesEveryFakeThroughModuleMocker(t *testing.T) {
	mocker := &recordingMocker{}
	host := NewFullMapHost()
	s := New(host, IntBridge(), WithModuleMocker(mocker))
	s.UseFakeTimers()

	require.NotEmpty(t, mocker.names)
	assert.Contains(t, mocker.names, "setTimeout")
	assert.Contains(t, mocker.names, "requestAnimationFrame")
}
