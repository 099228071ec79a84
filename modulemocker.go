package faketimers

// ModuleMocker is the external collaborator that produces mockable
// stand-ins for the fake primitives (spec.md §1, "Deliberately out of
// scope"). Its full instrumentation surface — call recording, assertion
// helpers — lives outside this package; a Scheduler only ever consumes
// the factory method, so that is all this interface exposes.
type ModuleMocker interface {
	// Fn wraps impl in a callable that records its invocations and
	// forwards to impl, returning the wrapped callable. name labels the
	// wrapped function for whatever reporting the mocker does; a
	// Scheduler always passes the host-facing primitive name (e.g.
	// "setTimeout") here.
	Fn(name string, impl any) any
}

// PassthroughMocker is a ModuleMocker that performs no recording at all —
// Fn returns impl unchanged. It is the default used when a Scheduler is
// constructed without WithModuleMocker, so the scheduler works standalone
// without pulling in a real instrumentation facility.
type PassthroughMocker struct{}

// Fn returns impl unchanged.
func (PassthroughMocker) Fn(_ string, impl any) any { return impl }
