package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/palsetup/internal/series"
	"github.com/aristath/palsetup/pkg/decimal"
	"github.com/aristath/palsetup/pkg/timeframe"
)

func TestAnnualizationFactor(t *testing.T) {
	assert.InDelta(t, 15.8745, AnnualizationFactor(timeframe.DAILY, 0), 1e-3)
	assert.Greater(t, AnnualizationFactor(timeframe.INTRADAY, 60), 0.0)
}

func TestAdaptiveVolatilityRequiresMinimumWindow(t *testing.T) {
	s := closeSeries(t, []float64{100, 101})
	_, err := AdaptiveVolatility(s, 1, timeframe.DAILY, 0)
	assert.Error(t, err)
}

func TestAdaptiveVolatilityInsufficientSample(t *testing.T) {
	s := closeSeries(t, []float64{100, 101, 102})
	_, err := AdaptiveVolatility(s, 5, timeframe.DAILY, 0)
	assert.Error(t, err)
}

func TestAdaptiveVolatilityProducesPositiveSeries(t *testing.T) {
	closes := make([]float64, 30)
	price := 100.0
	for i := range closes {
		if i%2 == 0 {
			price += 1
		} else {
			price -= 0.5
		}
		closes[i] = price
	}
	s := closeSeries(t, closes)
	vol, err := AdaptiveVolatility(s, 5, timeframe.DAILY, 0)
	require.NoError(t, err)
	for _, v := range vol.Float64Values() {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestPercentRankInRange(t *testing.T) {
	s := series.NewNumericSeries(timeframe.DAILY, series.NewOrderedPolicy())
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range []float64{1, 2, 3, 4, 5} {
		require.NoError(t, s.Add(base.AddDate(0, 0, i), decimal.FromFloat(v, decimal.DefaultScale)))
	}

	rank, err := PercentRank(s, 3)
	require.NoError(t, err)
	for _, r := range rank.Float64Values() {
		assert.GreaterOrEqual(t, r, 0.0)
		assert.LessOrEqual(t, r, 1.0)
	}
}

func TestPercentRankRejectsSmallLookback(t *testing.T) {
	s := closeSeries(t, []float64{1, 2, 3})
	_, err := PercentRank(s, 1)
	assert.Error(t, err)
}
