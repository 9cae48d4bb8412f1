package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedcoupleSkewBelowThresholdIsZero(t *testing.T) {
	assert.Equal(t, 0.0, MedcoupleSkew([]float64{1, 2}))
}

func TestMedcoupleSkewSymmetricIsZero(t *testing.T) {
	assert.InDelta(t, 0, MedcoupleSkew([]float64{-2, -1, 0, 1, 2}), 1e-9)
}

func TestMedcoupleSkewRightTailPositive(t *testing.T) {
	mc := MedcoupleSkew([]float64{1, 2, 3, 4, 100})
	assert.Greater(t, mc, 0.0)
	assert.LessOrEqual(t, mc, 1.0)
}
