package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	palbar "github.com/aristath/palsetup/internal/bar"
)

func TestEdgeSpreadRequiresTwoBars(t *testing.T) {
	single := []palbar.OHLCBar{mustBar(t, 1, 100, 101, 99, 100)}
	_, _, err := EdgeSpread(single, 0, ClampToZero, 0.01, false)
	assert.Error(t, err)
}

func TestEdgeSpreadProducesNonNegativeMagnitudes(t *testing.T) {
	bars := make([]palbar.OHLCBar, 0, 40)
	price := 100.0
	for i := 0; i < 40; i++ {
		bars = append(bars, mustBar(t, i+1, price, price+1.5, price-1.5, price+0.3))
		price += 0.2
	}
	_, vals, err := EdgeSpread(bars, 10, ClampToZero, 0.01, false)
	require.NoError(t, err)
	for _, v := range vals {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}
