// Package portfolio implements the PortfolioFilter capability: deciding
// whether new entries are allowed at a given timestamp.
package portfolio

import (
	"time"

	"github.com/aristath/palsetup/internal/indicators"
	"github.com/aristath/palsetup/internal/series"
	"github.com/aristath/palsetup/pkg/timeframe"
)

// Filter decides whether entries are permitted at a timestamp.
type Filter interface {
	EntriesAllowedAt(ts time.Time) bool
}

// PassThrough always permits entries.
type PassThrough struct{}

func (PassThrough) EntriesAllowedAt(time.Time) bool { return true }

// defaultRankThreshold is the percent-rank ceiling below which the
// adaptive-volatility filter permits new entries.
const defaultRankThreshold = 0.75

// AdaptiveVolatility permits entries only when the current annualized
// close-to-close volatility's percent rank over a lookback window is below
// a configurable threshold (0.75 by default); timestamps with no computed
// rank are denied.
type AdaptiveVolatility struct {
	rank      *series.NumericSeries
	threshold float64
}

// NewAdaptiveVolatility builds the filter from a close-price series,
// computing volatility and its rolling percent rank internally.
func NewAdaptiveVolatility(close *series.NumericSeries, volWindow, rankLookback int, tf timeframe.TimeFrame, minutesPerBar int, threshold float64) (*AdaptiveVolatility, error) {
	if threshold <= 0 {
		threshold = defaultRankThreshold
	}
	vol, err := indicators.AdaptiveVolatility(close, volWindow, tf, minutesPerBar)
	if err != nil {
		return nil, err
	}
	rank, err := indicators.PercentRank(vol, rankLookback)
	if err != nil {
		return nil, err
	}
	return &AdaptiveVolatility{rank: rank, threshold: threshold}, nil
}

// EntriesAllowedAt denies by default when no rank value exists at ts.
func (f *AdaptiveVolatility) EntriesAllowedAt(ts time.Time) bool {
	if !f.rank.IsPresent(ts) {
		return false
	}
	value, err := f.rank.Get(ts)
	if err != nil {
		return false
	}
	return value.Float64() < f.threshold
}
