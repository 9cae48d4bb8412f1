package indicators

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/palsetup/internal/palerrors"
)

// qnConsistencyConstant is the Croux-Rousseeuw consistency constant at the
// Gaussian (spec's glossary entry for Qn).
const qnConsistencyConstant = 2.2219

// Median returns the median of v. v is not mutated; a sorted copy is used
// internally.
func Median(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sorted := sortedCopy(v)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func sortedCopy(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	sort.Float64s(out)
	return out
}

// MAD is the median absolute deviation from the median, with no consistency
// scaling applied.
func MAD(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	m := Median(v)
	devs := make([]float64, len(v))
	for i, x := range v {
		devs[i] = math.Abs(x - m)
	}
	return Median(devs)
}

// StdDev is the sample standard deviation.
func StdDev(v []float64) float64 {
	if len(v) < 2 {
		return 0
	}
	return stat.StdDev(v, nil)
}

// RobustQn computes the Croux-Rousseeuw Qn scale estimator: 2.2219 times the
// h-th order statistic of the multiset of all pairwise absolute differences,
// where h = C(floor(n/2)+1, 2). The naive O(n^2) construction of all pairs
// is acceptable for the series lengths this module deals in (in-sample ROC
// is typically at most a few thousand observations).
func RobustQn(v []float64) (float64, error) {
	n := len(v)
	if n < 2 {
		return 0, palerrors.NewDataError(palerrors.ErrInsufficientSample, "Qn requires at least 2 observations")
	}

	pairs := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, math.Abs(v[i]-v[j]))
		}
	}
	sort.Float64s(pairs)

	h := binomial(n/2+1, 2)
	if h < 1 {
		h = 1
	}
	if h > len(pairs) {
		h = len(pairs)
	}
	return qnConsistencyConstant * pairs[h-1], nil
}

// binomial computes C(n, k) for small non-negative n, k as used by Qn's h
// index (k is always 2 here).
func binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k == 0 || k == n {
		return 1
	}
	result := 1
	for i := 0; i < k; i++ {
		result = result * (n - i) / (i + 1)
	}
	return result
}
