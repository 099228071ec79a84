package faketimers

// buildFakes lazily constructs the table of fake primitives, wrapping each
// one through the configured ModuleMocker (spec.md §4.1, "the first time
// fakes are installed").
func (s *Scheduler) buildFakes() map[Primitive]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fakes != nil {
		return s.fakes
	}
	mocker := s.moduleMocker
	fakes := map[Primitive]any{
		PrimitiveSetTimeout:            mocker.Fn(PrimitiveSetTimeout.String(), SetTimeoutFunc(s.SetTimeout)),
		PrimitiveClearTimeout:          mocker.Fn(PrimitiveClearTimeout.String(), ClearTimeoutFunc(s.ClearTimeout)),
		PrimitiveSetInterval:           mocker.Fn(PrimitiveSetInterval.String(), SetIntervalFunc(s.SetInterval)),
		PrimitiveClearInterval:         mocker.Fn(PrimitiveClearInterval.String(), ClearIntervalFunc(s.ClearInterval)),
		PrimitiveNextTick:              mocker.Fn(PrimitiveNextTick.String(), NextTickFunc(s.NextTick)),
		PrimitiveSetImmediate:          mocker.Fn(PrimitiveSetImmediate.String(), SetImmediateFunc(s.SetImmediate)),
		PrimitiveClearImmediate:        mocker.Fn(PrimitiveClearImmediate.String(), ClearImmediateFunc(s.ClearImmediate)),
		PrimitiveRequestAnimationFrame: mocker.Fn(PrimitiveRequestAnimationFrame.String(), RequestAnimationFrameFunc(s.RequestAnimationFrame)),
		PrimitiveCancelAnimationFrame:  mocker.Fn(PrimitiveCancelAnimationFrame.String(), CancelAnimationFrameFunc(s.CancelAnimationFrame)),
	}
	s.fakes = fakes
	return fakes
}

// UseFakeTimers installs this Scheduler's fakes into the host, one
// primitive family at a time, skipping any family the host does not
// support (spec.md §4.1). The original-primitives table captured at
// construction is left untouched.
func (s *Scheduler) UseFakeTimers() {
	fakes := s.buildFakes()
	for _, p := range allPrimitives {
		if s.host.Has(p) {
			s.host.Set(p, fakes[p])
		}
	}
	s.mu.Lock()
	s.installed = true
	s.mu.Unlock()
}

// UseRealTimers writes the originals captured at construction back into
// the host, symmetric to UseFakeTimers.
func (s *Scheduler) UseRealTimers() {
	s.mu.Lock()
	originals := s.originals
	s.mu.Unlock()
	for _, p := range allPrimitives {
		if s.host.Has(p) {
			s.host.Set(p, originals[p])
		}
	}
	s.mu.Lock()
	s.installed = false
	s.mu.Unlock()
}

// RunWithRealTimers snapshots whatever is currently installed, installs
// the originals, invokes cb, and unconditionally restores the snapshot —
// even if cb panics, in which case the panic is repropagated after the
// snapshot is restored (spec.md §4.1). No virtual time advances while cb
// runs.
func (s *Scheduler) RunWithRealTimers(cb func()) {
	snapshot := make(map[Primitive]any, len(allPrimitives))
	for _, p := range allPrimitives {
		if s.host.Has(p) {
			snapshot[p] = s.host.Get(p)
		}
	}
	wasInstalled := s.isInstalled()

	s.UseRealTimers()

	var recovered any
	func() {
		defer func() {
			recovered = recover()
		}()
		cb()
	}()

	for _, p := range allPrimitives {
		if s.host.Has(p) {
			s.host.Set(p, snapshot[p])
		}
	}
	s.mu.Lock()
	s.installed = wasInstalled
	s.mu.Unlock()

	if recovered != nil {
		panic(recovered)
	}
}

func (s *Scheduler) isInstalled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.installed
}
