package indicators

import "sort"

// medcoupleMinSamples is the threshold below which MedcoupleSkew returns 0
// rather than attempting an estimate on too few points.
const medcoupleMinSamples = 3

// MedcoupleSkew computes the medcouple statistic of Brys-Hubert-Struyf, a
// robust skewness measure in [-1, 1]. For n < medcoupleMinSamples it returns
// 0 rather than an error, matching spec §4.F's "for samples below a
// threshold, returns 0".
func MedcoupleSkew(v []float64) float64 {
	n := len(v)
	if n < medcoupleMinSamples {
		return 0
	}

	sorted := sortedCopy(v)
	median := Median(sorted)

	// Split around the median: "plus" values >= median, "minus" values <= median.
	var plus, minus []float64
	for _, x := range sorted {
		if x >= median {
			plus = append(plus, x)
		}
		if x <= median {
			minus = append(minus, x)
		}
	}
	if len(plus) == 0 || len(minus) == 0 {
		return 0
	}

	h := make([]float64, 0, len(plus)*len(minus))
	for _, xi := range plus {
		for _, xj := range minus {
			if xi == xj {
				continue
			}
			h = append(h, kernel(xi, xj, median))
		}
	}
	if len(h) == 0 {
		return 0
	}
	sort.Float64s(h)
	return Median(h)
}

// kernel is the Brys-Hubert-Struyf h(xi, xj) kernel for xi >= median >= xj.
func kernel(xi, xj, median float64) float64 {
	if xi == xj {
		return 0
	}
	return ((xi - median) - (median - xj)) / (xi - xj)
}
