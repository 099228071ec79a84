package faketimers

import "sync"

// Primitive identifies one of the five scheduling-primitive families a Host
// exposes. The source this package was modeled on patches a mutable global
// binding object by name; Go has no equivalent of that, so instead of a
// stringly-typed global table we expose an explicit get/set surface keyed
// by this small enum (see DESIGN.md, "Dynamic dispatch over host globals").
type Primitive int

// The scheduling-primitive families a Host may support. Not every host
// supports every family (a POSIX-like host has no animation-frame family,
// for instance); Installer probes each one with Host.Has before installing
// or restoring it.
const (
	PrimitiveSetTimeout Primitive = iota
	PrimitiveClearTimeout
	PrimitiveSetInterval
	PrimitiveClearInterval
	PrimitiveNextTick
	PrimitiveSetImmediate
	PrimitiveClearImmediate
	PrimitiveRequestAnimationFrame
	PrimitiveCancelAnimationFrame
)

func (p Primitive) String() string {
	switch p {
	case PrimitiveSetTimeout:
		return "setTimeout"
	case PrimitiveClearTimeout:
		return "clearTimeout"
	case PrimitiveSetInterval:
		return "setInterval"
	case PrimitiveClearInterval:
		return "clearInterval"
	case PrimitiveNextTick:
		return "nextTick"
	case PrimitiveSetImmediate:
		return "setImmediate"
	case PrimitiveClearImmediate:
		return "clearImmediate"
	case PrimitiveRequestAnimationFrame:
		return "requestAnimationFrame"
	case PrimitiveCancelAnimationFrame:
		return "cancelAnimationFrame"
	default:
		return "unknown"
	}
}

// allPrimitives lists every family the installer iterates over when
// swapping fakes in or out.
var allPrimitives = [...]Primitive{
	PrimitiveSetTimeout,
	PrimitiveClearTimeout,
	PrimitiveSetInterval,
	PrimitiveClearInterval,
	PrimitiveNextTick,
	PrimitiveSetImmediate,
	PrimitiveClearImmediate,
	PrimitiveRequestAnimationFrame,
	PrimitiveCancelAnimationFrame,
}

// Host is a reference to the host's global binding object. It is the Go
// analog of the `global` construction input from spec.md §6: something
// that scheduling primitives can be read from and written to by name.
// A scripting-runtime embedder (e.g. a goja/sobek VM, following the shape
// of grafana-k6's `rt.Set(name, fn)` against globalThis) implements Host
// directly against its own global object; MapHost is provided for hosts
// that are happy to keep that table as a plain map.
type Host interface {
	// Has reports whether the host supports the given primitive family at
	// all. A host that has no animation-frame facility, for example,
	// reports false for PrimitiveRequestAnimationFrame/
	// PrimitiveCancelAnimationFrame and the installer silently skips it.
	Has(p Primitive) bool
	// Get returns the function currently bound to p, or nil if unset.
	Get(p Primitive) any
	// Set binds fn to p. It stores whatever it is given, including nil:
	// restoring an original that was unset at construction writes nil.
	Set(p Primitive, fn any)
}

// MapHost is a Host backed by a plain map, suitable both for tests and for
// embedding a scheduler against a runtime that does not already expose a
// Host-shaped global object.
type MapHost struct {
	mu        sync.RWMutex
	bindings  map[Primitive]any
	supported map[Primitive]bool
}

// NewMapHost returns a MapHost that supports exactly the given primitive
// families (absent families report Has == false, matching a host that
// simply never defined them).
func NewMapHost(supports ...Primitive) *MapHost {
	h := &MapHost{
		bindings:  make(map[Primitive]any),
		supported: make(map[Primitive]bool, len(supports)),
	}
	for _, p := range supports {
		h.supported[p] = true
	}
	return h
}

// NewFullMapHost returns a MapHost that supports every primitive family
// this package knows about.
func NewFullMapHost() *MapHost {
	return NewMapHost(allPrimitives[:]...)
}

// Has reports whether p was declared supported at construction.
func (h *MapHost) Has(p Primitive) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.supported[p]
}

// Get returns the function currently bound to p.
func (h *MapHost) Get(p Primitive) any {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.bindings[p]
}

// Set binds fn to p.
func (h *MapHost) Set(p Primitive, fn any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bindings[p] = fn
}
