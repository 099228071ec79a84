package faketimers

import (
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/google/uuid"
)

// defaultMaxLoops bounds every drain loop unless overridden with
// WithMaxLoops (spec.md §3, "Max-loops ... default 100 000").
const defaultMaxLoops = 100000

// Scheduler is the virtual-time timer scheduler described in spec.md: a
// single owned object that installs fake scheduling primitives into a
// Host, stores the work registered against them in internal queues, and
// drains that work under explicit, deterministic policies.
//
// A Scheduler is not safe for concurrent use by its owning test code (it
// is "single-threaded cooperative", spec.md §5); the internal mutex exists
// only to protect against the backup real-primitive goroutines spawned by
// SetImmediate/NextTick racing with the owning goroutine's drains.
type Scheduler struct {
	mu sync.Mutex

	host           Host
	bridge         Bridge
	moduleMocker   ModuleMocker
	stackFormatter StackFormatter
	stackConfig    any
	warner         *warner
	maxLoops       int
	instanceID     string

	now            int64
	idCounter      int64
	timers         map[int64]*timerEntry
	ticks          []*tickEntry
	cancelledTicks map[string]struct{}
	immediates     []*immediateEntry

	disposed  bool
	installed bool

	originals map[Primitive]any
	fakes     map[Primitive]any
}

// Option configures a Scheduler at construction time.
type Option func(*Scheduler)

// WithModuleMocker supplies the external instrumentation factory used to
// wrap each installed fake (spec.md §6, "moduleMocker"). The default is
// PassthroughMocker, which performs no recording.
func WithModuleMocker(m ModuleMocker) Option {
	return func(s *Scheduler) {
		if m != nil {
			s.moduleMocker = m
		}
	}
}

// WithStackConfig supplies opaque configuration forwarded verbatim to the
// StackFormatter when rendering the not-installed warning (spec.md §6,
// "stackConfig").
func WithStackConfig(cfg any) Option {
	return func(s *Scheduler) { s.stackConfig = cfg }
}

// WithStackFormatter overrides the StackFormatter used to render the
// not-installed warning. The default is DefaultStackFormatter.
func WithStackFormatter(f StackFormatter) Option {
	return func(s *Scheduler) {
		if f != nil {
			s.stackFormatter = f
		}
	}
}

// WithMaxLoops overrides the recursion bound enforced by every drain loop.
// Non-positive values are ignored.
func WithMaxLoops(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.maxLoops = n
		}
	}
}

// WithWarnWriter redirects the not-installed warning to w instead of
// os.Stderr. Tests typically pass a bytes.Buffer here to assert on the
// warning without polluting test output.
func WithWarnWriter(w io.Writer) Option {
	return func(s *Scheduler) { s.warner = newWarner(w) }
}

// New constructs a Scheduler bound to host, using bridge to translate
// between the host's opaque TimerRef and internal ids. After applying
// opts, the scheduler captures host's currently-bound primitives as its
// "original" table, before any install call can change them.
func New(host Host, bridge Bridge, opts ...Option) *Scheduler {
	s := &Scheduler{
		host:           host,
		bridge:         bridge,
		moduleMocker:   PassthroughMocker{},
		stackFormatter: DefaultStackFormatter{},
		warner:         newWarner(nil),
		maxLoops:       defaultMaxLoops,
		instanceID:     uuid.New().String(),
		timers:         make(map[int64]*timerEntry),
		cancelledTicks: make(map[string]struct{}),
		originals:      make(map[Primitive]any),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, p := range allPrimitives {
		if host.Has(p) {
			s.originals[p] = host.Get(p)
		}
	}
	return s
}

// InstanceID returns the uuid minted for this Scheduler at construction.
// It appears in the not-installed warning and in RecursionError so a test
// harness juggling more than one Scheduler can tell which one is at
// fault.
func (s *Scheduler) InstanceID() string {
	return s.instanceID
}

func (s *Scheduler) nextID() int64 {
	s.idCounter++
	return s.idCounter
}

func (s *Scheduler) nextTickID() string {
	return fmt.Sprintf("tick-%d", s.nextID())
}

func coerceDelay(delayMs float64) int64 {
	if math.IsNaN(delayMs) || delayMs < 0 {
		return 0
	}
	if delayMs > math.MaxInt32 {
		delayMs = math.MaxInt32
	}
	return int64(delayMs)
}

// ---- fake primitive implementations (spec.md §4.2) ----

// SetTimeout registers cb to run once after delayMs virtual milliseconds,
// bound to args. A negative or non-numeric (NaN) delayMs is coerced to 0.
// A nil cb is a documented no-op: it returns the zero TimerRef without
// minting an id or touching any queue (spec.md §4.2).
func (s *Scheduler) SetTimeout(cb func(args ...any), delayMs float64, args ...any) TimerRef {
	if cb == nil {
		return nil
	}
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	id := s.nextID()
	s.timers[id] = &timerEntry{
		id:       id,
		kind:     timerKindTimeout,
		callback: bind(cb, args),
		expiry:   s.now + coerceDelay(delayMs),
	}
	s.mu.Unlock()
	return s.bridge.IDToRef(id)
}

// ClearTimeout cancels the timeout identified by ref. Clearing an unknown
// or already-fired ref is a no-op.
func (s *Scheduler) ClearTimeout(ref TimerRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	if id, ok := s.bridge.RefToID(ref); ok {
		delete(s.timers, id)
	}
}

// SetInterval registers cb to run every delayMs virtual milliseconds,
// starting delayMs from now, bound to args. A nil cb is a documented
// no-op: it returns the zero TimerRef without minting an id or touching
// any queue (spec.md §4.2).
func (s *Scheduler) SetInterval(cb func(args ...any), delayMs float64, args ...any) TimerRef {
	if cb == nil {
		return nil
	}
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	delay := coerceDelay(delayMs)
	id := s.nextID()
	s.timers[id] = &timerEntry{
		id:       id,
		kind:     timerKindInterval,
		callback: bind(cb, args),
		expiry:   s.now + delay,
		interval: delay,
	}
	s.mu.Unlock()
	return s.bridge.IDToRef(id)
}

// ClearInterval cancels the interval identified by ref.
func (s *Scheduler) ClearInterval(ref TimerRef) {
	s.ClearTimeout(ref)
}

// NextTick registers cb to run before any macrotask in the next drain
// cycle, bound to args. A nil cb is a documented no-op: it returns
// without minting an id or touching any queue (spec.md §4.2). A backup
// is also scheduled on the host's real next-tick facility (if any),
// guarded by the cancelled-ticks set, so a tick that is never drained
// still eventually runs (spec.md §4.2, §9).
func (s *Scheduler) NextTick(cb func(args ...any), args ...any) {
	if cb == nil {
		return
	}
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	entry := &tickEntry{id: s.nextTickID(), callback: bind(cb, args)}
	s.ticks = append(s.ticks, entry)
	s.mu.Unlock()
	s.scheduleTickBackup(entry)
}

func (s *Scheduler) scheduleTickBackup(entry *tickEntry) {
	real, ok := s.originals[PrimitiveNextTick].(NextTickFunc)
	if !ok || real == nil {
		return
	}
	real(func(_ ...any) {
		s.mu.Lock()
		if _, cancelled := s.cancelledTicks[entry.id]; cancelled {
			s.mu.Unlock()
			return
		}
		s.cancelledTicks[entry.id] = struct{}{}
		s.mu.Unlock()
		entry.callback()
	})
}

// SetImmediate registers cb to run after ticks but with no delay, bound to
// args. A nil cb is a documented no-op: it returns the zero TimerRef
// without minting an id or touching any queue (spec.md §4.2). A backup is
// also scheduled on the host's real immediate facility (if any); it runs
// the callback only if the fake record is still present at that moment,
// so immediates that are never drained do not strand their callbacks
// forever (spec.md §4.2, §9).
func (s *Scheduler) SetImmediate(cb func(args ...any), args ...any) TimerRef {
	if cb == nil {
		return nil
	}
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	id := s.nextID()
	entry := &immediateEntry{id: id, callback: bind(cb, args)}
	s.immediates = append(s.immediates, entry)
	s.mu.Unlock()
	s.scheduleImmediateBackup(id)
	return s.bridge.IDToRef(id)
}

func (s *Scheduler) scheduleImmediateBackup(id int64) {
	real, ok := s.originals[PrimitiveSetImmediate].(SetImmediateFunc)
	if !ok || real == nil {
		return
	}
	real(func(_ ...any) {
		s.mu.Lock()
		idx := -1
		for i, e := range s.immediates {
			if e.id == id {
				idx = i
				break
			}
		}
		if idx == -1 {
			s.mu.Unlock()
			return
		}
		entry := s.immediates[idx]
		s.immediates = append(s.immediates[:idx:idx], s.immediates[idx+1:]...)
		s.mu.Unlock()
		entry.callback()
	})
}

// ClearImmediate cancels the immediate identified by ref.
func (s *Scheduler) ClearImmediate(ref TimerRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	id, ok := s.bridge.RefToID(ref)
	if !ok {
		return
	}
	for i, e := range s.immediates {
		if e.id == id {
			s.immediates = append(s.immediates[:i:i], s.immediates[i+1:]...)
			return
		}
	}
}

// RequestAnimationFrame is equivalent to SetTimeout(func(){cb(virtualNow)},
// 1000.0/60), per spec.md §4.2. It is an open design decision (spec.md §9)
// that cb receives the virtual clock reading rather than a high-resolution
// timestamp; that is intentional and documented here.
func (s *Scheduler) RequestAnimationFrame(cb func(nowMs float64)) TimerRef {
	if cb == nil {
		return s.SetTimeout(nil, 1000.0/60.0)
	}
	return s.SetTimeout(func(_ ...any) {
		s.mu.Lock()
		now := s.now
		s.mu.Unlock()
		cb(float64(now))
	}, 1000.0/60.0)
}

// CancelAnimationFrame cancels the frame request identified by ref.
func (s *Scheduler) CancelAnimationFrame(ref TimerRef) {
	s.ClearTimeout(ref)
}

// ---- introspection and lifecycle (spec.md §4.4) ----

// GetTimerCount returns the number of outstanding timers, immediates and
// ticks combined (invariant I5).
func (s *Scheduler) GetTimerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers) + len(s.immediates) + len(s.ticks)
}

// ClearAllTimers empties every container. now and the cancelled-ticks set
// are left untouched.
func (s *Scheduler) ClearAllTimers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearAllTimersLocked()
}

func (s *Scheduler) clearAllTimersLocked() {
	s.timers = make(map[int64]*timerEntry)
	s.ticks = nil
	s.immediates = nil
}

// Reset reinitializes now to 0, empties every container, and clears the
// cancelled-ticks set.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = 0
	s.cancelledTicks = make(map[string]struct{})
	s.clearAllTimersLocked()
}

// Dispose permanently disables this Scheduler: every fake becomes a no-op
// returning a null-ish TimerRef, and GetTimerCount drops to and stays at
// 0 (invariant I4). Dispose is irreversible.
func (s *Scheduler) Dispose() {
	s.mu.Lock()
	s.disposed = true
	s.mu.Unlock()
	s.ClearAllTimers()
}

// Now returns the current virtual clock reading in milliseconds.
func (s *Scheduler) Now() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}
