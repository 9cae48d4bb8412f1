package series

import (
	"sort"
	"sync"
	"time"

	palbar "github.com/aristath/palsetup/internal/bar"
	"github.com/aristath/palsetup/internal/palerrors"
	"github.com/aristath/palsetup/pkg/decimal"
	"github.com/aristath/palsetup/pkg/timeframe"
)

// OHLCSeries is the ordered, unique-keyed sequence of OHLCBar the rest of
// the core is built around (spec §4.D).
type OHLCSeries struct {
	tf         timeframe.TimeFrame
	volumeUnit palbar.VolumeUnit
	store      *store[palbar.OHLCBar]

	intradayMu    sync.Mutex
	intradayValid bool
	intradayValue int
}

// New constructs an empty series. policy should be NewOrderedPolicy() or
// NewHashedPolicy().
func New(tf timeframe.TimeFrame, vu palbar.VolumeUnit, policy LookupPolicy) *OHLCSeries {
	return &OHLCSeries{tf: tf, volumeUnit: vu, store: newStore[palbar.OHLCBar](policy)}
}

// NewFromRange bulk-constructs a series from an unordered slice of bars,
// sorting them and rejecting duplicates or time-frame mismatches.
func NewFromRange(tf timeframe.TimeFrame, vu palbar.VolumeUnit, policy LookupPolicy, bars []palbar.OHLCBar) (*OHLCSeries, error) {
	s := New(tf, vu, policy)
	sorted := make([]palbar.OHLCBar, len(bars))
	copy(sorted, bars)
	sortBarsByTimestamp(sorted)

	for _, b := range sorted {
		if err := s.Add(b); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func sortBarsByTimestamp(bars []palbar.OHLCBar) {
	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp().Before(bars[j].Timestamp()) })
}

func (s *OHLCSeries) TimeFrame() timeframe.TimeFrame   { return s.tf }
func (s *OHLCSeries) VolumeUnit() palbar.VolumeUnit { return s.volumeUnit }

// Add inserts a bar, maintaining sort order. Fails on a time-frame mismatch
// or a duplicate timestamp.
func (s *OHLCSeries) Add(b palbar.OHLCBar) error {
	if b.TimeFrame() != s.tf {
		return palerrors.NewDataError(palerrors.ErrTimeFrameMismatch, "bar time frame disagrees with series")
	}
	if err := s.store.add(b.Timestamp(), b); err != nil {
		return err
	}
	s.invalidateIntraday()
	return nil
}

// DeleteAt removes the bar at ts. Absence is a hard error, not a no-op.
func (s *OHLCSeries) DeleteAt(ts time.Time) error {
	if err := s.store.deleteAt(ts); err != nil {
		return err
	}
	s.invalidateIntraday()
	return nil
}

func (s *OHLCSeries) NumEntries() int { return s.store.numEntries() }

func (s *OHLCSeries) FirstTimestamp() (time.Time, error) { return s.store.firstTimestamp() }
func (s *OHLCSeries) LastTimestamp() (time.Time, error)  { return s.store.lastTimestamp() }

func (s *OHLCSeries) FirstDate() (time.Time, error) {
	ts, err := s.FirstTimestamp()
	if err != nil {
		return time.Time{}, err
	}
	return dateOf(ts), nil
}

func (s *OHLCSeries) LastDate() (time.Time, error) {
	ts, err := s.LastTimestamp()
	if err != nil {
		return time.Time{}, err
	}
	return dateOf(ts), nil
}

func dateOf(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
}

func (s *OHLCSeries) IsPresent(ts time.Time) bool { return s.store.isPresent(ts) }

func (s *OHLCSeries) Get(ts time.Time) (palbar.OHLCBar, error) { return s.store.get(ts) }

// GetWithOffset resolves base ts plus a signed bar offset per spec §4.D:
// positive offset = `offset` bars earlier in sorted order; negative = later;
// zero = the base bar.
func (s *OHLCSeries) GetWithOffset(ts time.Time, offset int) (palbar.OHLCBar, error) {
	return s.store.getWithOffset(ts, offset)
}

// SortedIter returns a stable chronological snapshot of the series' bars.
func (s *OHLCSeries) SortedIter() []palbar.OHLCBar {
	_, bars := s.store.sortedSnapshot()
	return bars
}

// Filter returns a new series of the same policy kind and time frame
// containing only bars within [tsStart, tsEnd] inclusive. tsStart must not
// precede the series' first timestamp; tsEnd may extend past the last
// timestamp (simply yielding bars up to the end).
func (s *OHLCSeries) Filter(tsStart, tsEnd time.Time) (*OHLCSeries, error) {
	first, err := s.FirstTimestamp()
	if err != nil {
		return nil, err
	}
	if tsStart.Before(first) {
		return nil, palerrors.NewDataError(palerrors.ErrRangeBeforeSeries, tsStart.String())
	}

	bars := s.SortedIter()
	out := New(s.tf, s.volumeUnit, s.store.policy.Clone())
	for _, b := range bars {
		ts := b.Timestamp()
		if ts.Before(tsStart) {
			continue
		}
		if ts.After(tsEnd) {
			break
		}
		if err := out.Add(b); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// closeSeriesLike extracts one OHLC column as a NumericSeries.
func (s *OHLCSeries) closeSeriesLike(extract func(palbar.OHLCBar) float64) *NumericSeries {
	bars := s.SortedIter()
	ns := NewNumericSeries(s.tf, s.store.policy.Clone())
	for _, b := range bars {
		_ = ns.Add(b.Timestamp(), decimal.FromFloat(extract(b), decimal.DefaultScale))
	}
	return ns
}

func (s *OHLCSeries) CloseSeries() *NumericSeries { return s.closeSeriesLike(palbar.OHLCBar.Close) }
func (s *OHLCSeries) OpenSeries() *NumericSeries  { return s.closeSeriesLike(palbar.OHLCBar.Open) }
func (s *OHLCSeries) HighSeries() *NumericSeries  { return s.closeSeriesLike(palbar.OHLCBar.High) }
func (s *OHLCSeries) LowSeries() *NumericSeries   { return s.closeSeriesLike(palbar.OHLCBar.Low) }

func (s *OHLCSeries) invalidateIntraday() {
	s.intradayMu.Lock()
	s.intradayValid = false
	s.intradayMu.Unlock()
}

// IntradayMinutesPerBar returns the mode of positive inter-bar gaps, in
// minutes. Only defined for INTRADAY series; the result is cached until the
// next Add/DeleteAt.
func (s *OHLCSeries) IntradayMinutesPerBar() (int, error) {
	if s.tf != timeframe.INTRADAY {
		return 0, palerrors.NewDataError(palerrors.ErrWrongTimeFrame, "intraday_minutes_per_bar requires INTRADAY series")
	}

	s.intradayMu.Lock()
	defer s.intradayMu.Unlock()
	if s.intradayValid {
		return s.intradayValue, nil
	}

	bars := s.SortedIter()
	timestamps := make([]time.Time, len(bars))
	for i, b := range bars {
		timestamps[i] = b.Timestamp()
	}
	minutes, err := timeframe.InferIntradayMinutes(timestamps)
	if err != nil {
		return 0, err
	}
	s.intradayValue = minutes
	s.intradayValid = true
	return minutes, nil
}
