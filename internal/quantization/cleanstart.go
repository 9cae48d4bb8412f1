package quantization

import (
	"math"

	"github.com/aristath/palsetup/internal/indicators"
	"github.com/aristath/palsetup/pkg/timeframe"
)

// WindowParams bundles the window length, stability buffer, and acceptance
// thresholds the clean-start search uses; defaults depend on time frame.
type WindowParams struct {
	Window          int
	Buffer          int
	MaxRelTick      float64
	MaxZeroFrac     float64
	MinUniqueLevels int
}

// DefaultWindowParams returns time-frame-dependent window/buffer defaults.
// minutesPerBar and availableBars are only consulted for INTRADAY, where the
// window scales with bars-per-day but is shrunk to fit what is actually
// available.
func DefaultWindowParams(tf timeframe.TimeFrame, minutesPerBar int, availableBars int) WindowParams {
	base := WindowParams{
		MaxRelTick:      0.01,
		MaxZeroFrac:     0.2,
		MinUniqueLevels: 10,
	}
	switch tf {
	case timeframe.DAILY:
		base.Window, base.Buffer = 252, 20
	case timeframe.WEEKLY:
		base.Window, base.Buffer = 260, 4
	case timeframe.MONTHLY:
		base.Window, base.Buffer = 60, 3
	case timeframe.INTRADAY:
		barsPerDay := 1
		if minutesPerBar > 0 {
			barsPerDay = int(math.Round(390.0 / float64(minutesPerBar)))
			if barsPerDay < 1 {
				barsPerDay = 1
			}
		}
		shrinkToFit := 20
		if availableBars > 0 && barsPerDay > 0 {
			if fit := availableBars / barsPerDay; fit < shrinkToFit {
				shrinkToFit = fit
			}
		}
		multiplier := 20
		if shrinkToFit < multiplier {
			multiplier = shrinkToFit
		}
		if multiplier < 1 {
			multiplier = 1
		}
		base.Window = barsPerDay * multiplier
		base.Buffer = 60
		if barsPerDay*10 > base.Buffer {
			base.Buffer = barsPerDay * 10
		}
	default:
		base.Window, base.Buffer = 252, 20
	}
	return base
}

// CleanStartResult mirrors the data model entity of the same name: the
// chosen start index and the quantization diagnostics observed there.
type CleanStartResult struct {
	Index             int
	EffectiveTick     float64
	RelTick           float64
	ZeroReturnFrac    float64
	Found             bool
}

// FindCleanStart slides a window of params.Window bars across closes,
// accepting the first window whose relative tick, zero-return fraction,
// and unique-level count all clear the given thresholds, then advances the
// reported start by the stability buffer.
func FindCleanStart(closes []float64, params WindowParams, integralThreshold float64) CleanStartResult {
	n := len(closes)
	if n < params.Window || params.Window <= 0 {
		return CleanStartResult{Found: false}
	}

	for start := 0; start+params.Window <= n; start++ {
		window := closes[start : start+params.Window]

		tick, err := EffectiveTick(window, integralThreshold)
		if err != nil || tick <= 0 {
			continue
		}

		median := indicators.Median(append([]float64(nil), window...))
		if median == 0 {
			continue
		}
		relTick := tick / median

		zeroCount := 0
		for i := 1; i < len(window); i++ {
			if math.Abs(window[i]-window[i-1]) <= tick {
				zeroCount++
			}
		}
		zeroFrac := float64(zeroCount) / float64(len(window)-1)

		uniqueLevels := countUniqueLevels(window, tick)

		if relTick <= params.MaxRelTick && zeroFrac <= params.MaxZeroFrac && uniqueLevels >= params.MinUniqueLevels {
			idx := start + params.Buffer
			if idx > n-1 {
				idx = n - 1
			}
			return CleanStartResult{
				Index:          idx,
				EffectiveTick:  tick,
				RelTick:        relTick,
				ZeroReturnFrac: zeroFrac,
				Found:          true,
			}
		}
	}

	return CleanStartResult{Found: false}
}

func countUniqueLevels(window []float64, tick float64) int {
	levels := make(map[int64]struct{}, len(window))
	for _, c := range window {
		levels[int64(math.Round(c/tick))] = struct{}{}
	}
	return len(levels)
}
