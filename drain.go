package faketimers

// checkInstalled implements the not-installed warning probe (spec.md §4.3,
// §7): before any drain runs, warn (non-fatal) if the scheduler's fakes
// are not presently installed into the host. Go function values are not
// comparable, so rather than introspecting the host's current bindings
// (as the source does by identity-comparing the bound function) this
// tracks install state explicitly via UseFakeTimers/UseRealTimers/
// RunWithRealTimers — see DESIGN.md.
func (s *Scheduler) checkInstalled() {
	if s.isInstalled() {
		return
	}
	stack := s.stackFormatter.Format(s.stackConfig, 2)
	s.warner.warnf("a timer drain was called on scheduler %s without UseFakeTimers() installed; did you forget to call it?\n%s", s.instanceID, stack)
}

// runTimerHandle fires the stored timer identified by id. A timeout is
// removed before its callback runs; an interval has its expiry advanced
// to now+interval before its callback runs, so a panicking or
// self-cancelling callback still leaves the reschedule (or lack of one)
// consistent (spec.md §7).
func (s *Scheduler) runTimerHandle(id int64) error {
	s.mu.Lock()
	t, ok := s.timers[id]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	switch t.kind {
	case timerKindTimeout:
		delete(s.timers, id)
	case timerKindInterval:
		t.expiry = s.now + t.interval
	default:
		s.mu.Unlock()
		return unexpectedTimerKind(id, t.kind)
	}
	cb := t.callback
	s.mu.Unlock()
	cb()
	return nil
}

// ticksLoop repeatedly pops the head of the tick sequence and invokes it,
// unless its id is already marked cancelled by the real-nextTick backup
// (spec.md §4.3). It does not emit the not-installed warning; callers
// that are themselves a public drain entry point do that once, up front.
func (s *Scheduler) ticksLoop() error {
	for iterations := 0; ; iterations++ {
		if iterations >= s.maxLoops {
			return &RecursionError{Drain: "ticks", MaxLoops: s.maxLoops, SchedulerID: s.instanceID}
		}
		s.mu.Lock()
		if len(s.ticks) == 0 {
			s.mu.Unlock()
			return nil
		}
		entry := s.ticks[0]
		s.ticks = s.ticks[1:]
		_, already := s.cancelledTicks[entry.id]
		if !already {
			s.cancelledTicks[entry.id] = struct{}{}
		}
		s.mu.Unlock()
		if !already {
			entry.callback()
		}
	}
}

// immediatesLoop repeatedly pops the head of the immediate sequence and
// invokes it. The entry is removed from the sequence before it runs, so
// it cannot strand a clearImmediate call racing in from a backup
// real-immediate, and a panicking callback still leaves the sequence
// correctly shortened (spec.md §4.3, §7).
func (s *Scheduler) immediatesLoop() error {
	for iterations := 0; ; iterations++ {
		if iterations >= s.maxLoops {
			return &RecursionError{Drain: "immediates", MaxLoops: s.maxLoops, SchedulerID: s.instanceID}
		}
		s.mu.Lock()
		if len(s.immediates) == 0 {
			s.mu.Unlock()
			return nil
		}
		entry := s.immediates[0]
		s.immediates = s.immediates[1:]
		s.mu.Unlock()
		entry.callback()
	}
}

// advanceByTime is the un-probed core of AdvanceTimersByTime, reused by
// AdvanceTimersToNextTimer so the latter only warns once per call.
func (s *Scheduler) advanceByTime(ms int64) error {
	if ms < 0 {
		ms = 0
	}
	remaining := ms
	for iterations := 0; ; iterations++ {
		if iterations >= s.maxLoops {
			return &RecursionError{Drain: "timers", MaxLoops: s.maxLoops, SchedulerID: s.instanceID}
		}
		s.mu.Lock()
		id, ok := nextTimerID(s.timers)
		if !ok {
			s.now += remaining
			s.mu.Unlock()
			return nil
		}
		nextExpiry := s.timers[id].expiry
		if s.now+remaining < nextExpiry {
			s.now += remaining
			s.mu.Unlock()
			return nil
		}
		delta := nextExpiry - s.now
		remaining -= delta
		s.now = nextExpiry
		s.mu.Unlock()
		if err := s.runTimerHandle(id); err != nil {
			return err
		}
	}
}

// RunAllTicks drains the tick sequence to completion (spec.md §4.3).
func (s *Scheduler) RunAllTicks() error {
	s.checkInstalled()
	return s.ticksLoop()
}

// RunAllImmediates drains the immediate sequence to completion.
func (s *Scheduler) RunAllImmediates() error {
	s.checkInstalled()
	return s.immediatesLoop()
}

// RunAllTimers drains ticks, then immediates, then repeatedly fires the
// earliest-expiry timer, re-draining any newly-scheduled ticks and
// immediates after each firing, until no timers remain. The virtual clock
// is not advanced by this call — an intentional, spec-preserved quirk
// (spec.md §9, Open Question: "a future variant that advances the clock
// could be added under a new name").
func (s *Scheduler) RunAllTimers() error {
	s.checkInstalled()
	if err := s.ticksLoop(); err != nil {
		return err
	}
	if err := s.immediatesLoop(); err != nil {
		return err
	}
	for iterations := 0; ; iterations++ {
		if iterations >= s.maxLoops {
			return &RecursionError{Drain: "timers", MaxLoops: s.maxLoops, SchedulerID: s.instanceID}
		}
		s.mu.Lock()
		id, ok := nextTimerID(s.timers)
		s.mu.Unlock()
		if !ok {
			return nil
		}
		if err := s.runTimerHandle(id); err != nil {
			return err
		}
		if err := s.ticksLoop(); err != nil {
			return err
		}
		if err := s.immediatesLoop(); err != nil {
			return err
		}
	}
}

// AdvanceTimersByTime advances the virtual clock by ms, firing every timer
// whose expiry falls within the advanced window in ascending expiry
// order. Intervals re-insert themselves (expiry = now+interval) before
// their callback runs, so a zero-length interval cannot wedge the loop:
// each firing still consumes one of the maxLoops iterations (spec.md
// §4.3).
func (s *Scheduler) AdvanceTimersByTime(ms int64) error {
	s.checkInstalled()
	return s.advanceByTime(ms)
}

// AdvanceTimersToNextTimer advances the virtual clock directly to the
// earliest pending timer's expiry, firing it (and anything else that
// falls due at the same instant), then repeats steps-1 more times. If
// steps is non-positive it behaves as 1. Advancing past the last timer
// when none remain is a no-op (spec.md §4.3).
func (s *Scheduler) AdvanceTimersToNextTimer(steps int) error {
	s.checkInstalled()
	if steps <= 0 {
		steps = 1
	}
	for ; steps > 0; steps-- {
		s.mu.Lock()
		id, ok := nextTimerID(s.timers)
		if !ok {
			s.mu.Unlock()
			return nil
		}
		delta := s.timers[id].expiry - s.now
		if delta < 0 {
			delta = 0
		}
		s.mu.Unlock()
		if err := s.advanceByTime(delta); err != nil {
			return err
		}
	}
	return nil
}

// RunOnlyPendingTimers snapshots the timers pending right now, drains all
// immediates, then fires each snapshotted timer in ascending expiry
// order. Timers scheduled during this call (including by a snapshotted
// interval re-inserting itself) are not picked up by it (spec.md §4.3).
func (s *Scheduler) RunOnlyPendingTimers() error {
	s.checkInstalled()
	s.mu.Lock()
	snapshot := sortedTimerIDs(s.timers)
	s.mu.Unlock()
	if err := s.immediatesLoop(); err != nil {
		return err
	}
	for _, id := range snapshot {
		if err := s.runTimerHandle(id); err != nil {
			return err
		}
	}
	return nil
}
