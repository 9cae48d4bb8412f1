// Package series implements the ordered, timestamp-keyed containers OHLCBar
// and derived numeric signals live in (spec §4.D, §4.E), parameterized by a
// LookupPolicy (Ordered or Hashed).
package series

import (
	"sort"
	"sync"
	"time"

	"github.com/aristath/palsetup/internal/palerrors"
)

// store is the shared ordered/unique-keyed core both OHLCSeries and
// NumericSeries build on: a sorted, duplicate-free slice of timestamps with
// a parallel slice of values, plus a pluggable LookupPolicy for point
// lookups. mu guards both slices; it is the single synchronization point
// that makes "iterators see a snapshot equivalent to some serialization of
// completed writes" (spec §5) true regardless of which policy is in use.
type store[V any] struct {
	mu         sync.RWMutex
	timestamps []time.Time
	values     []V
	policy     LookupPolicy
}

func newStore[V any](policy LookupPolicy) *store[V] {
	return &store[V]{policy: policy}
}

func (s *store[V]) add(ts time.Time, v V) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := sort.Search(len(s.timestamps), func(i int) bool { return !s.timestamps[i].Before(ts) })
	if i < len(s.timestamps) && s.timestamps[i].Equal(ts) {
		return palerrors.NewDataError(palerrors.ErrDuplicateTimestamp, ts.String())
	}

	s.timestamps = append(s.timestamps, ts)
	s.values = append(s.values, v)
	copy(s.timestamps[i+1:], s.timestamps[i:len(s.timestamps)-1])
	copy(s.values[i+1:], s.values[i:len(s.values)-1])
	s.timestamps[i] = ts
	s.values[i] = v

	s.policy.Invalidate()
	return nil
}

func (s *store[V]) deleteAt(ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := sort.Search(len(s.timestamps), func(i int) bool { return !s.timestamps[i].Before(ts) })
	if i >= len(s.timestamps) || !s.timestamps[i].Equal(ts) {
		return palerrors.NewDataError(palerrors.ErrNotFound, ts.String())
	}

	s.timestamps = append(s.timestamps[:i], s.timestamps[i+1:]...)
	s.values = append(s.values[:i], s.values[i+1:]...)

	s.policy.Invalidate()
	return nil
}

func (s *store[V]) numEntries() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.timestamps)
}

func (s *store[V]) firstTimestamp() (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.timestamps) == 0 {
		return time.Time{}, palerrors.NewDataError(palerrors.ErrNotFound, "empty series")
	}
	return s.timestamps[0], nil
}

func (s *store[V]) lastTimestamp() (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.timestamps) == 0 {
		return time.Time{}, palerrors.NewDataError(palerrors.ErrNotFound, "empty series")
	}
	return s.timestamps[len(s.timestamps)-1], nil
}

func (s *store[V]) isPresent(ts time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.policy.FindPosition(s.timestamps, ts)
	return ok
}

func (s *store[V]) get(ts time.Time) (V, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.policy.FindPosition(s.timestamps, ts)
	if !ok {
		var zero V
		return zero, palerrors.NewDataError(palerrors.ErrNotFound, ts.String())
	}
	return s.values[idx], nil
}

// getWithOffset resolves base ts plus a signed bar offset: positive offset
// means `offset` bars earlier in sorted order (prior history), negative
// means later, zero is the base bar itself.
func (s *store[V]) getWithOffset(ts time.Time, offset int) (V, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.policy.FindPosition(s.timestamps, ts)
	if !ok {
		var zero V
		return zero, palerrors.NewDataError(palerrors.ErrNotFound, ts.String())
	}
	target := idx - offset
	if target < 0 || target >= len(s.timestamps) {
		var zero V
		return zero, palerrors.NewDataError(palerrors.ErrOffsetOutOfRange, ts.String())
	}
	return s.values[target], nil
}

// sortedSnapshot returns a snapshot copy of (timestamps, values) suitable for
// stable iteration even if the store is mutated afterward.
func (s *store[V]) sortedSnapshot() ([]time.Time, []V) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ts := make([]time.Time, len(s.timestamps))
	vs := make([]V, len(s.values))
	copy(ts, s.timestamps)
	copy(vs, s.values)
	return ts, vs
}
