package faketimers

import "sort"

// timerKind distinguishes a one-shot timeout from a repeating interval.
// Animation frames are stored as plain timeouts (spec.md §4.2: "equivalent
// to setTimeout(() => cb(virtualNow), 1000/60)"), so there is no third
// kind here — only timerKindTimeout and timerKindInterval ever appear in
// Scheduler.timers.
type timerKind int

const (
	timerKindTimeout timerKind = iota
	timerKindInterval
)

func (k timerKind) String() string {
	switch k {
	case timerKindTimeout:
		return "timeout"
	case timerKindInterval:
		return "interval"
	default:
		return "unknown"
	}
}

// timerEntry is the Timer record from spec.md §3: a kind, a bound
// callback, an expiry in virtual milliseconds, and — for intervals — the
// interval length used to reschedule on fire.
type timerEntry struct {
	id       int64
	kind     timerKind
	callback Callback
	expiry   int64
	interval int64 // only meaningful when kind == timerKindInterval
}

// tickEntry is the Tick record from spec.md §3: a unique string id and a
// bound callback.
type tickEntry struct {
	id       string
	callback Callback
}

// immediateEntry is the analogous record for the immediate family. The
// source does not name this record distinctly from Tick, but since
// immediates round-trip through a TimerRef (unlike ticks, which have no
// handle at all) it carries an internal integer id instead of a string one.
type immediateEntry struct {
	id       int64
	callback Callback
}

// sortedTimerIDs returns the ids of every stored timer ordered the way
// every drain operation needs them: ascending expiry, ties broken by
// ascending id (spec.md §5, "ties broken by insertion order (equivalently,
// by ascending id)" — ids are minted in strictly increasing order, so the
// two tie-break rules coincide).
func sortedTimerIDs(timers map[int64]*timerEntry) []int64 {
	ids := make([]int64, 0, len(timers))
	for id := range timers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := timers[ids[i]], timers[ids[j]]
		if a.expiry != b.expiry {
			return a.expiry < b.expiry
		}
		return a.id < b.id
	})
	return ids
}

// nextTimerID returns the id of the timer with the smallest (expiry, id)
// pair, or false if timers is empty.
func nextTimerID(timers map[int64]*timerEntry) (int64, bool) {
	var (
		best    int64
		bestSet bool
	)
	for id, t := range timers {
		if !bestSet {
			best, bestSet = id, true
			continue
		}
		cur := timers[best]
		if t.expiry < cur.expiry || (t.expiry == cur.expiry && t.id < cur.id) {
			best = id
		}
	}
	return best, bestSet
}
