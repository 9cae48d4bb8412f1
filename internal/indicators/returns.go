// Package indicators implements the pure derived-signal functions of spec
// §4.F: returns, robust scale estimators, medcouple skew, IBS, bid-ask
// spread estimators, adaptive volatility percent-rank, and asymmetric
// stop/target widths. None of these mutate their inputs.
package indicators

import (
	"github.com/markcheno/go-talib"

	"github.com/aristath/palsetup/internal/palerrors"
	"github.com/aristath/palsetup/internal/series"
	"github.com/aristath/palsetup/pkg/decimal"
)

// ROCSeries computes the rate of change over `period` bars,
// (close_t/close_{t-period} - 1) * 100, beginning at index period. The
// computation is delegated to talib.Roc, which implements the identical
// formula; the leading `period` unusable entries it produces are dropped so
// the returned series starts exactly where the spec says it should.
func ROCSeries(close *series.NumericSeries, period int) (*series.NumericSeries, error) {
	if period <= 0 {
		return nil, palerrors.NewConfigError(palerrors.ErrUnsupportedIndic, "roc period must be positive")
	}
	timestamps, values := close.SortedIter()
	if len(values) <= period {
		return nil, palerrors.NewDataError(palerrors.ErrInsufficientSample, "roc_series needs more than `period` observations")
	}

	closes := make([]float64, len(values))
	for i, v := range values {
		closes[i] = v.Float64()
	}

	roc := talib.Roc(closes, period)

	out := series.NewNumericSeries(close.TimeFrame(), series.NewOrderedPolicy())
	for i := period; i < len(roc); i++ {
		if err := out.Add(timestamps[i], decimal.FromFloat(roc[i], decimal.DefaultScale)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
