package indicators

import (
	palbar "github.com/aristath/palsetup/internal/bar"
	"github.com/aristath/palsetup/internal/series"
	"github.com/aristath/palsetup/pkg/decimal"
)

// IBS is internal bar strength: (close - low) / (high - low), defined as 0
// when high == low.
func IBS(b palbar.OHLCBar) float64 {
	rng := b.High() - b.Low()
	if rng == 0 {
		return 0
	}
	return (b.Close() - b.Low()) / rng
}

// IBS1Series computes IBS per bar over an OHLC series.
func IBS1Series(ohlc *series.OHLCSeries) *series.NumericSeries {
	bars := ohlc.SortedIter()
	out := series.NewNumericSeries(ohlc.TimeFrame(), series.NewOrderedPolicy())
	for _, b := range bars {
		_ = out.Add(b.Timestamp(), decimal.FromFloat(IBS(b), decimal.DefaultScale))
	}
	return out
}
