package quantization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveTickOnDimeQuantizedSeries(t *testing.T) {
	closes := []float64{10.1, 10.2, 10.3, 10.2, 10.1, 10.0, 10.1, 10.2}
	tick, err := EffectiveTick(closes, 0.95)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, tick, 1e-6)
}

func TestEffectiveTickOnPennyGrid(t *testing.T) {
	closes := []float64{20.01, 20.03, 20.07, 20.11, 20.02}
	tick, err := EffectiveTick(closes, 0.95)
	require.NoError(t, err)
	assert.InDelta(t, 0.01, tick, 1e-6)
}

// TestEffectiveTickScaleInvariance exercises the universal invariant:
// multiplying all prices by 10^k scales the effective tick by 10^k.
func TestEffectiveTickScaleInvariance(t *testing.T) {
	closes := []float64{10.1, 10.2, 10.3, 10.2, 10.1, 10.0, 10.1, 10.2}
	base, err := EffectiveTick(closes, 0.95)
	require.NoError(t, err)

	scaled := make([]float64, len(closes))
	for i, c := range closes {
		scaled[i] = c * 10
	}
	tenX, err := EffectiveTick(scaled, 0.95)
	require.NoError(t, err)
	assert.InDelta(t, base*10, tenX, 1e-6)
}

func TestEffectiveTickRejectsEmptyInput(t *testing.T) {
	_, err := EffectiveTick(nil, 0.95)
	assert.Error(t, err)
}
