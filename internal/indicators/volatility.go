package indicators

import (
	"math"

	"github.com/aristath/palsetup/internal/palerrors"
	"github.com/aristath/palsetup/internal/series"
	"github.com/aristath/palsetup/pkg/decimal"
	"github.com/aristath/palsetup/pkg/timeframe"
)

// AnnualizationFactor returns sqrt(periods-per-year) for the given time
// frame; for INTRADAY it derives bars-per-day from minutesPerBar first
// (390 minutes in a standard trading day).
func AnnualizationFactor(tf timeframe.TimeFrame, minutesPerBar int) float64 {
	switch tf {
	case timeframe.DAILY:
		return math.Sqrt(252)
	case timeframe.WEEKLY:
		return math.Sqrt(52)
	case timeframe.MONTHLY:
		return math.Sqrt(12)
	case timeframe.QUARTERLY:
		return math.Sqrt(4)
	case timeframe.INTRADAY:
		barsPerDay := 1
		if minutesPerBar > 0 {
			barsPerDay = int(math.Round(390.0 / float64(minutesPerBar)))
			if barsPerDay < 1 {
				barsPerDay = 1
			}
		}
		return math.Sqrt(252 * float64(barsPerDay))
	default:
		return math.Sqrt(252)
	}
}

// AdaptiveVolatility computes a rolling annualized close-to-close volatility
// series: for each bar t, the sample standard deviation of the trailing
// `window` one-period returns ending at t, times the annualization factor.
func AdaptiveVolatility(close *series.NumericSeries, window int, tf timeframe.TimeFrame, minutesPerBar int) (*series.NumericSeries, error) {
	if window < 2 {
		return nil, palerrors.NewConfigError(palerrors.ErrUnsupportedIndic, "adaptive volatility window must be >= 2")
	}
	timestamps, values := close.SortedIter()
	if len(values) < window+1 {
		return nil, palerrors.NewDataError(palerrors.ErrInsufficientSample, "not enough observations for adaptive volatility window")
	}

	closes := make([]float64, len(values))
	for i, v := range values {
		closes[i] = v.Float64()
	}
	returns := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] != 0 {
			returns[i-1] = closes[i]/closes[i-1] - 1
		}
	}

	factor := AnnualizationFactor(tf, minutesPerBar)
	out := series.NewNumericSeries(tf, series.NewOrderedPolicy())
	for end := window; end <= len(returns); end++ {
		window := returns[end-window : end]
		vol := StdDev(window) * factor
		// returns[i] corresponds to the transition into closes[i+1], i.e.
		// timestamps[i+1]; the window ending at returns index end-1 lands
		// on timestamps[end].
		if err := out.Add(timestamps[end], decimal.FromFloat(vol, decimal.DefaultScale)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// PercentRank computes, for each point in a series, the fraction of the
// trailing `lookback` values (including itself) that are <= the current
// value — a percent-rank in [0, 1].
func PercentRank(values *series.NumericSeries, lookback int) (*series.NumericSeries, error) {
	if lookback < 2 {
		return nil, palerrors.NewConfigError(palerrors.ErrUnsupportedIndic, "percent rank lookback must be >= 2")
	}
	timestamps, vs := values.SortedIter()
	if len(vs) < lookback {
		return nil, palerrors.NewDataError(palerrors.ErrInsufficientSample, "not enough observations for percent rank lookback")
	}

	out := series.NewNumericSeries(values.TimeFrame(), series.NewOrderedPolicy())
	for end := lookback - 1; end < len(vs); end++ {
		cur := vs[end].Float64()
		count := 0
		for i := end - lookback + 1; i <= end; i++ {
			if vs[i].Float64() <= cur {
				count++
			}
		}
		rank := float64(count) / float64(lookback)
		if err := out.Add(timestamps[end], decimal.FromFloat(rank, decimal.DefaultScale)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
