package indicators

import (
	"math"
	"time"

	palbar "github.com/aristath/palsetup/internal/bar"
	"github.com/aristath/palsetup/internal/palerrors"
)

// edgeMoments is one consecutive-bar-pair's 34-component moment vector for
// the Ardia-Guidotti-Kroencke EDGE estimator.
type edgeMoments struct {
	x [34]float64
}

func almostEqual(a, b, tol float64) bool {
	diff := math.Abs(a - b)
	return diff <= tol*(math.Abs(a)+math.Abs(b)+1)
}

func epsFromTick(tick, closeT float64) float64 {
	const epsMin = 1e-8
	if tick > 0 && closeT > 0 {
		e := tick / closeT
		if e > epsMin {
			return e
		}
	}
	return epsMin
}

func computeEdgeMoments(o0, h0, l0, c0, o1, h1, l1, c1, tol float64) edgeMoments {
	logO0, logH0, logL0, logC0 := math.Log(o0), math.Log(h0), math.Log(l0), math.Log(c0)
	logO1, logH1, logL1 := math.Log(o1), math.Log(h1), math.Log(l1)

	m0 := (logH0 + logL0) / 2
	m1 := (logH1 + logL1) / 2

	r1 := m1 - logO1
	r2 := logO1 - m0
	r3 := m1 - logC0
	r4 := logC0 - m0
	r5 := logO1 - logC0

	hlDiff := !almostEqual(logH1, logL1, tol)
	lcDiff := !almostEqual(logL1, logC0, tol)
	tau := 0.0
	if hlDiff || lcDiff {
		tau = 1
	}

	indicator := func(a, b float64) float64 {
		if !almostEqual(a, b, tol) {
			return 1
		}
		return 0
	}

	po1 := tau * indicator(logO1, logH1)
	po2 := tau * indicator(logO1, logL1)
	pc1 := tau * indicator(logC0, logH0)
	pc2 := tau * indicator(logC0, logL0)

	var m edgeMoments
	m.x[0] = r1 * r2
	m.x[1] = r3 * r4
	m.x[2] = r1 * r5
	m.x[3] = r4 * r5
	m.x[4] = tau
	m.x[5] = r1
	m.x[6] = tau * r2
	m.x[7] = r3
	m.x[8] = tau * r4
	m.x[9] = r5

	m.x[10] = math.Pow(r1*r2, 2)
	m.x[11] = math.Pow(r3*r4, 2)
	m.x[12] = math.Pow(r1*r5, 2)
	m.x[13] = math.Pow(r4*r5, 2)
	m.x[14] = (r1 * r2) * (r3 * r4)
	m.x[15] = (r1 * r5) * (r4 * r5)

	m.x[16] = (tau * r2) * r2
	m.x[17] = (tau * r4) * r4
	m.x[18] = (tau * r5) * r5

	m.x[19] = (tau * r2) * (r1 * r2)
	m.x[20] = (tau * r4) * (r3 * r4)
	m.x[21] = (tau * r5) * (r1 * r5)
	m.x[22] = (tau * r4) * (r4 * r5)
	m.x[23] = (tau * r4) * (r1 * r2)
	m.x[24] = (tau * r2) * (r3 * r4)

	m.x[25] = (tau * r2) * r4
	m.x[26] = (tau * r1) * (r4 * r5)
	m.x[27] = (tau * r5) * (r4 * r5)
	m.x[28] = (tau * r4) * r5
	m.x[29] = tau * r5

	m.x[30] = po1
	m.x[31] = po2
	m.x[32] = pc1
	m.x[33] = pc2

	return m
}

// EdgeSpread computes the rolling Ardia-Guidotti-Kroencke EDGE proportional
// bid-ask spread over a window of `window` valid trading-day pairs (default
// 30). sign, if true, signs the output spread by the sign of the
// intermediate s^2 rather than always returning |s|.
func EdgeSpread(bars []palbar.OHLCBar, window int, neg NegativeHandling, tick float64, sign bool) ([]time.Time, []float64, error) {
	if window <= 0 {
		window = 30
	}
	if len(bars) < 2 {
		return nil, nil, palerrors.NewDataError(palerrors.ErrInsufficientSample, "EDGE requires at least 2 bars")
	}

	var windowData []edgeMoments
	var taus []float64

	var outTS []time.Time
	var outVals []float64

	for i := 1; i < len(bars); i++ {
		prev, cur := bars[i-1], bars[i]
		if !prev.StrictlyPositivePrices() || !cur.StrictlyPositivePrices() {
			continue
		}

		tol := epsFromTick(tick, cur.Close())
		mom := computeEdgeMoments(prev.Open(), prev.High(), prev.Low(), prev.Close(), cur.Open(), cur.High(), cur.Low(), cur.Close(), tol)

		windowData = append(windowData, mom)
		taus = append(taus, mom.x[4])
		if len(windowData) > window {
			windowData = windowData[1:]
			taus = taus[1:]
		}
		if len(windowData) == 0 {
			continue
		}

		var m [34]float64
		for _, d := range windowData {
			for k := 0; k < 34; k++ {
				m[k] += d.x[k]
			}
		}
		n := float64(len(windowData))
		for k := 0; k < 34; k++ {
			m[k] /= n
		}

		pt := m[4]
		po := m[30] + m[31]
		pc := m[32] + m[33]

		var nt float64
		for _, t := range taus {
			nt += t
		}
		if nt < 1 {
			continue
		}

		safe := func(v float64) float64 {
			if v > tol {
				return v
			}
			return tol
		}
		ptSafe, poSafe, pcSafe := safe(pt), safe(po), safe(pc)

		a1 := -4.0 / poSafe
		a2 := -4.0 / pcSafe
		a3 := m[5] / ptSafe
		a4 := m[8] / ptSafe
		a5 := m[7] / ptSafe
		a6 := m[9] / ptSafe

		a12 := 2 * a1 * a2
		a11 := a1 * a1
		a22 := a2 * a2
		a33 := a3 * a3
		a55 := a5 * a5
		a66 := a6 * a6

		e1 := a1*(m[0]-a3*m[6]) + a2*(m[1]-a4*m[7])
		e2 := a1*(m[2]-a3*m[29]) + a2*(m[3]-a4*m[9])

		v1 := -math.Pow(e1, 2) + (a11*(m[10]-2*a3*m[19]+a33*m[16]) +
			a22*(m[11]-2*a5*m[20]+a55*m[17]) +
			a12*(m[14]-a3*m[24]-a5*m[23]+a3*a5*m[25]))
		v2 := -math.Pow(e2, 2) + (a11*(m[12]-2*a3*m[21]+a33*m[18]) +
			a22*(m[13]-2*a6*m[22]+a66*m[17]) +
			a12*(m[15]-a3*m[27]-a6*m[26]+a3*a6*m[28]))

		vt := v1 + v2
		var s2 float64
		if vt > 0 {
			s2 = (v2*e1 + v1*e2) / vt
		} else {
			s2 = (e1 + e2) / 2
		}

		s := math.Sqrt(math.Abs(s2))
		if sign && s2 < 0 {
			s = -s
		}

		if s <= tol {
			switch neg {
			case Skip:
				continue
			case Epsilon:
				outTS = append(outTS, cur.Timestamp())
				outVals = append(outVals, epsFromTick(tick, cur.Close()))
				continue
			}
			// ClampToZero falls through: a negative value is pushed as 0, a
			// near-zero positive one as-is.
			if s < 0 {
				s = 0
			}
		}

		outTS = append(outTS, cur.Timestamp())
		outVals = append(outVals, s)
	}

	return outTS, outVals, nil
}
