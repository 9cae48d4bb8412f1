// Package bar defines the immutable OHLCBar record and its construction
// invariants (spec §4.C).
package bar

import (
	"time"

	"github.com/aristath/palsetup/internal/palerrors"
	"github.com/aristath/palsetup/pkg/timeframe"
)

// VolumeUnit distinguishes shares from futures/options contracts.
type VolumeUnit int

const (
	Shares VolumeUnit = iota
	Contracts
)

// OHLCBar is a single immutable price-bar record.
type OHLCBar struct {
	timestamp time.Time
	open      float64
	high      float64
	low       float64
	close     float64
	volume    float64
	timeFrame timeframe.TimeFrame
}

// New validates and constructs an OHLCBar. tf is the time frame the
// containing series declares; the bar is rejected if it disagrees with the
// caller's expectation at insert time (the series layer enforces that; New
// only enforces the OHLC shape invariants themselves).
func New(ts time.Time, open, high, low, close, volume float64, tf timeframe.TimeFrame) (OHLCBar, error) {
	if low > open || low > close {
		return OHLCBar{}, palerrors.NewDataError(palerrors.ErrInvalidBar, "low must be <= min(open, close)")
	}
	if high < open || high < close {
		return OHLCBar{}, palerrors.NewDataError(palerrors.ErrInvalidBar, "high must be >= max(open, close)")
	}
	if high < low {
		return OHLCBar{}, palerrors.NewDataError(palerrors.ErrInvalidBar, "high must be >= low")
	}
	return OHLCBar{
		timestamp: ts,
		open:      open,
		high:      high,
		low:       low,
		close:     close,
		volume:    volume,
		timeFrame: tf,
	}, nil
}

func (b OHLCBar) Timestamp() time.Time          { return b.timestamp }
func (b OHLCBar) Date() time.Time               { return time.Date(b.timestamp.Year(), b.timestamp.Month(), b.timestamp.Day(), 0, 0, 0, 0, b.timestamp.Location()) }
func (b OHLCBar) Open() float64                 { return b.open }
func (b OHLCBar) High() float64                 { return b.high }
func (b OHLCBar) Low() float64                  { return b.low }
func (b OHLCBar) Close() float64                { return b.close }
func (b OHLCBar) Volume() float64               { return b.volume }
func (b OHLCBar) TimeFrame() timeframe.TimeFrame { return b.timeFrame }

// StrictlyPositivePrices reports whether all four prices are > 0, the
// precondition several log-based estimators in internal/indicators require.
func (b OHLCBar) StrictlyPositivePrices() bool {
	return b.open > 0 && b.high > 0 && b.low > 0 && b.close > 0
}

// Equal is structural equality, per spec §4.C.
func (b OHLCBar) Equal(o OHLCBar) bool {
	return b.timestamp.Equal(o.timestamp) &&
		b.open == o.open && b.high == o.high && b.low == o.low && b.close == o.close &&
		b.volume == o.volume && b.timeFrame == o.timeFrame
}
