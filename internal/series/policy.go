package series

import (
	"sort"
	"sync"
	"time"
)

// LookupPolicy is the pluggable point-lookup strategy an OHLCSeries or
// NumericSeries is parameterized by (spec §3/§4.D). Implementations receive
// the container's current sorted timestamp snapshot on every call; the
// container itself owns the synchronization that makes that snapshot safe
// to read (see store in container.go). A policy additionally owns whatever
// private state it needs to serve FindPosition quickly, and must drop that
// state when Invalidate is called after any successful mutation.
type LookupPolicy interface {
	// FindPosition returns the index of ts within timestamps (which is
	// sorted ascending and unique), or ok=false if absent.
	FindPosition(timestamps []time.Time, ts time.Time) (idx int, ok bool)
	// Invalidate is called by the container after every successful Add or
	// Delete, before the policy is used again.
	Invalidate()
	// Clone returns a fresh, empty instance of the same policy kind, used
	// when the container produces a derived series (e.g. Filter).
	Clone() LookupPolicy
}

// OrderedPolicy performs O(log n) binary search over the sorted timestamp
// slice on every lookup. It holds no state and needs no lock: every read is
// a pure function of the slice snapshot the container hands it.
type OrderedPolicy struct{}

func NewOrderedPolicy() *OrderedPolicy { return &OrderedPolicy{} }

func (p *OrderedPolicy) FindPosition(timestamps []time.Time, ts time.Time) (int, bool) {
	i := sort.Search(len(timestamps), func(i int) bool {
		return !timestamps[i].Before(ts)
	})
	if i < len(timestamps) && timestamps[i].Equal(ts) {
		return i, true
	}
	return 0, false
}

func (p *OrderedPolicy) Invalidate() {}

func (p *OrderedPolicy) Clone() LookupPolicy { return &OrderedPolicy{} }

// HashedPolicy maintains a lazily (re)built index from timestamp to sequence
// position. The index is invalidated on every successful Add/Delete and
// rebuilt on the first lookup that follows, under its own reader-writer
// lock: lookups take a shared lock and only upgrade to an exclusive lock
// when a rebuild is actually required, so concurrent readers never block
// each other once the index is warm.
type HashedPolicy struct {
	mu    sync.RWMutex
	index map[int64]int
	valid bool
}

func NewHashedPolicy() *HashedPolicy { return &HashedPolicy{} }

func (p *HashedPolicy) FindPosition(timestamps []time.Time, ts time.Time) (int, bool) {
	key := ts.UnixNano()

	p.mu.RLock()
	if p.valid {
		idx, ok := p.index[key]
		p.mu.RUnlock()
		return idx, ok
	}
	p.mu.RUnlock()

	p.mu.Lock()
	if !p.valid {
		p.rebuildLocked(timestamps)
	}
	idx, ok := p.index[key]
	p.mu.Unlock()
	return idx, ok
}

func (p *HashedPolicy) rebuildLocked(timestamps []time.Time) {
	idx := make(map[int64]int, len(timestamps))
	for i, t := range timestamps {
		idx[t.UnixNano()] = i
	}
	p.index = idx
	p.valid = true
}

func (p *HashedPolicy) Invalidate() {
	p.mu.Lock()
	p.valid = false
	p.index = nil
	p.mu.Unlock()
}

func (p *HashedPolicy) Clone() LookupPolicy { return &HashedPolicy{} }
