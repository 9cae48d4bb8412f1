package quantization

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aristath/palsetup/pkg/timeframe"
)

func TestDefaultWindowParamsByTimeFrame(t *testing.T) {
	daily := DefaultWindowParams(timeframe.DAILY, 0, 0)
	assert.Equal(t, 252, daily.Window)
	assert.Equal(t, 20, daily.Buffer)

	weekly := DefaultWindowParams(timeframe.WEEKLY, 0, 0)
	assert.Equal(t, 260, weekly.Window)
	assert.Equal(t, 4, weekly.Buffer)

	monthly := DefaultWindowParams(timeframe.MONTHLY, 0, 0)
	assert.Equal(t, 60, monthly.Window)
	assert.Equal(t, 3, monthly.Buffer)
}

func TestDefaultWindowParamsIntradayShrinksToFit(t *testing.T) {
	params := DefaultWindowParams(timeframe.INTRADAY, 30, 300)
	assert.Greater(t, params.Window, 0)
	assert.Greater(t, params.Buffer, 0)
}

// TestFindCleanStartSkipsTickDominatedPrefix is seed test 4: the first 50
// closes are dime-quantized (tick-dominated), the remaining 400 trade at
// $20+ with fine granularity; clean start must land at or after index 50
// with effective_tick == 0.01 at the accepted window.
func TestFindCleanStartSkipsTickDominatedPrefix(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	closes := make([]float64, 0, 450)
	for i := 0; i < 50; i++ {
		level := 10 + float64(i%5)*0.1
		closes = append(closes, level)
	}
	price := 20.0
	for i := 0; i < 400; i++ {
		price += (r.Float64() - 0.5) * 0.02
		cents := float64(int(price*100+0.5)) / 100
		closes = append(closes, cents)
	}

	params := DefaultWindowParams(timeframe.DAILY, 0, 0)
	params.Window = 50
	params.Buffer = 0
	result := FindCleanStart(closes, params, 0.95)

	assert.True(t, result.Found)
	assert.GreaterOrEqual(t, result.Index, 50)
	assert.InDelta(t, 0.01, result.EffectiveTick, 1e-6)
}

func TestFindCleanStartNotFoundWhenSeriesShorterThanWindow(t *testing.T) {
	params := DefaultWindowParams(timeframe.DAILY, 0, 0)
	result := FindCleanStart([]float64{1, 2, 3}, params, 0.95)
	assert.False(t, result.Found)
}
