package series

import (
	"time"

	"github.com/aristath/palsetup/pkg/decimal"
	"github.com/aristath/palsetup/pkg/timeframe"
)

// NumericSeries is an ordered, unique-keyed sequence of (timestamp, Decimal)
// pairs — the container derived indicators live in (spec §4.E).
type NumericSeries struct {
	tf    timeframe.TimeFrame
	store *store[decimal.Decimal]
}

// NewNumericSeries constructs an empty numeric series under the given
// policy (NewOrderedPolicy() or NewHashedPolicy()).
func NewNumericSeries(tf timeframe.TimeFrame, policy LookupPolicy) *NumericSeries {
	return &NumericSeries{tf: tf, store: newStore[decimal.Decimal](policy)}
}

func (s *NumericSeries) TimeFrame() timeframe.TimeFrame { return s.tf }

func (s *NumericSeries) Add(ts time.Time, v decimal.Decimal) error {
	return s.store.add(ts, v)
}

func (s *NumericSeries) DeleteAt(ts time.Time) error { return s.store.deleteAt(ts) }

func (s *NumericSeries) NumEntries() int { return s.store.numEntries() }

func (s *NumericSeries) FirstTimestamp() (time.Time, error) { return s.store.firstTimestamp() }

func (s *NumericSeries) LastTimestamp() (time.Time, error) { return s.store.lastTimestamp() }

func (s *NumericSeries) IsPresent(ts time.Time) bool { return s.store.isPresent(ts) }

func (s *NumericSeries) Get(ts time.Time) (decimal.Decimal, error) { return s.store.get(ts) }

// GetValue is the spec's get_value(timestamp, offset) accessor.
func (s *NumericSeries) GetValue(ts time.Time, offset int) (decimal.Decimal, error) {
	return s.store.getWithOffset(ts, offset)
}

// SortedIter returns a stable snapshot of (timestamps, values) in
// chronological order.
func (s *NumericSeries) SortedIter() ([]time.Time, []decimal.Decimal) {
	return s.store.sortedSnapshot()
}

// Values returns just the value column, in chronological order — the shape
// most indicator functions in internal/indicators consume.
func (s *NumericSeries) Values() []decimal.Decimal {
	_, vs := s.store.sortedSnapshot()
	return vs
}

// Float64Values is a convenience conversion for the gonum-based estimators.
func (s *NumericSeries) Float64Values() []float64 {
	vs := s.Values()
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = v.Float64()
	}
	return out
}
