// Package quantization infers the effective price tick of a raw OHLC series
// and locates its first "clean" (tick-non-dominated) window, so the setup
// engine can discard the tick-quantized prefix typical of split-adjusted
// equity histories before computing robust statistics on the remainder.
package quantization

import (
	"math"
	"math/big"
	"sort"

	"github.com/aristath/palsetup/internal/palerrors"
)

// maxDecimals bounds the search for the scale k in effective tick inference.
const maxDecimals = 8

// defaultIntegralThreshold is the fraction of scaled closes that must land
// on an integer for a candidate scale to be accepted.
const defaultIntegralThreshold = 0.95

// integralTolerance absorbs float64 rounding noise when testing closeness
// to an integer.
const integralTolerance = 1e-6

// EffectiveTick infers the smallest price increment consistent with a
// window of positive closes, per the effective-tick-inference rule: find
// the smallest k in [0, maxDecimals] such that at least integralThreshold
// of the scaled closes are (within tolerance) integers, then take the GCD
// of the sorted unique integer levels' positive adjacent differences.
func EffectiveTick(closes []float64, integralThreshold float64) (float64, error) {
	if len(closes) == 0 {
		return 0, palerrors.NewDataError(palerrors.ErrInsufficientSample, "effective tick inference requires at least one close")
	}
	if integralThreshold <= 0 {
		integralThreshold = defaultIntegralThreshold
	}

	for k := 0; k <= maxDecimals; k++ {
		scale := math.Pow(10, float64(k))
		integralCount := 0
		levels := make([]int64, 0, len(closes))
		for _, c := range closes {
			scaled := c * scale
			rounded := math.Round(scaled)
			if math.Abs(scaled-rounded) <= integralTolerance*math.Max(1, math.Abs(scaled)) {
				integralCount++
			}
			levels = append(levels, int64(rounded))
		}
		if float64(integralCount)/float64(len(closes)) < integralThreshold {
			continue
		}

		gcd := gcdOfAdjacentDiffs(levels)
		if gcd <= 0 {
			// Degenerate: a single distinct level, fall back to 10^-k.
			return math.Pow(10, -float64(k)), nil
		}
		return float64(gcd) / scale, nil
	}

	// No scale reached the integral threshold within maxDecimals; the
	// series is effectively continuous, so fall back to the finest grid.
	return math.Pow(10, -float64(maxDecimals)), nil
}

// gcdOfAdjacentDiffs returns the GCD of the positive differences between
// consecutive distinct sorted integer levels, or 0 if fewer than two
// distinct levels exist.
func gcdOfAdjacentDiffs(levels []int64) int64 {
	unique := sortedUnique(levels)
	if len(unique) < 2 {
		return 0
	}

	result := big.NewInt(0)
	for i := 1; i < len(unique); i++ {
		diff := unique[i] - unique[i-1]
		if diff <= 0 {
			continue
		}
		result = new(big.Int).GCD(nil, nil, result, big.NewInt(diff))
	}
	return result.Int64()
}

func sortedUnique(levels []int64) []int64 {
	seen := make(map[int64]struct{}, len(levels))
	out := make([]int64, 0, len(levels))
	for _, l := range levels {
		if _, ok := seen[l]; !ok {
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
