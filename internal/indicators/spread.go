package indicators

import (
	"math"
	"time"

	palbar "github.com/aristath/palsetup/internal/bar"
	"github.com/aristath/palsetup/internal/palerrors"
)

// NegativeHandling selects how a bid-ask spread estimator treats a
// pair-observation whose raw formula yields a negative proportional spread
// (spec §4.F).
type NegativeHandling int

const (
	ClampToZero NegativeHandling = iota
	Skip
	Epsilon
)

const corwinSchultzDenominator = 3 - 2*math.Sqrt2

// csObservation is one consecutive-bar-pair's beta/gamma moment terms.
type csObservation struct {
	ts         time.Time
	closeT     float64
	beta       float64
	gamma      float64
}

func corwinSchultzMoments(bars []palbar.OHLCBar) ([]csObservation, error) {
	if len(bars) < 2 {
		return nil, palerrors.NewDataError(palerrors.ErrInsufficientSample, "Corwin-Schultz requires at least 2 bars")
	}
	obs := make([]csObservation, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		prev, cur := bars[i-1], bars[i]
		if !prev.StrictlyPositivePrices() || !cur.StrictlyPositivePrices() {
			continue
		}
		lnPrev := math.Log(prev.High() / prev.Low())
		lnCur := math.Log(cur.High() / cur.Low())
		beta := lnPrev*lnPrev + lnCur*lnCur
		gamma := math.Pow(math.Log(math.Max(prev.High(), cur.High())/math.Min(prev.Low(), cur.Low())), 2)
		obs = append(obs, csObservation{ts: cur.Timestamp(), closeT: cur.Close(), beta: beta, gamma: gamma})
	}
	return obs, nil
}

func alphaFromMoments(beta, gamma float64) float64 {
	return (math.Sqrt(2*beta)-math.Sqrt(beta))/corwinSchultzDenominator - math.Sqrt(gamma/corwinSchultzDenominator)
}

func proportionalSpreadFromAlpha(alpha float64) float64 {
	ea := math.Exp(alpha)
	return 2 * (ea - 1) / (ea + 1)
}

func applyNegativePolicy(s, closeT, tick float64, neg NegativeHandling) (float64, bool) {
	if s >= 0 {
		return s, true
	}
	switch neg {
	case ClampToZero:
		return 0, true
	case Skip:
		return 0, false
	case Epsilon:
		if closeT == 0 {
			return 1e-8, true
		}
		eps := tick / closeT
		if eps < 1e-8 {
			eps = 1e-8
		}
		return eps, true
	default:
		return 0, true
	}
}

// CorwinSchultzSpread computes the pairwise proportional bid-ask spread for
// every consecutive valid bar pair.
func CorwinSchultzSpread(bars []palbar.OHLCBar, neg NegativeHandling, tick float64) ([]time.Time, []float64, error) {
	obs, err := corwinSchultzMoments(bars)
	if err != nil {
		return nil, nil, err
	}
	timestamps := make([]time.Time, 0, len(obs))
	values := make([]float64, 0, len(obs))
	for _, o := range obs {
		alpha := alphaFromMoments(o.beta, o.gamma)
		s := proportionalSpreadFromAlpha(alpha)
		if v, keep := applyNegativePolicy(s, o.closeT, tick, neg); keep {
			timestamps = append(timestamps, o.ts)
			values = append(values, v)
		}
	}
	return timestamps, values, nil
}

// CorwinSchultzRolling averages beta and gamma over a window of w
// pair-observations (default 20) before computing alpha, per spec §4.F.
func CorwinSchultzRolling(bars []palbar.OHLCBar, window int, neg NegativeHandling, tick float64) ([]time.Time, []float64, error) {
	if window <= 0 {
		window = 20
	}
	obs, err := corwinSchultzMoments(bars)
	if err != nil {
		return nil, nil, err
	}
	if len(obs) < window {
		return nil, nil, palerrors.NewDataError(palerrors.ErrInsufficientSample, "not enough pair-observations for rolling window")
	}

	timestamps := make([]time.Time, 0, len(obs)-window+1)
	values := make([]float64, 0, len(obs)-window+1)
	for end := window - 1; end < len(obs); end++ {
		var betaSum, gammaSum float64
		for i := end - window + 1; i <= end; i++ {
			betaSum += obs[i].beta
			gammaSum += obs[i].gamma
		}
		alpha := alphaFromMoments(betaSum/float64(window), gammaSum/float64(window))
		s := proportionalSpreadFromAlpha(alpha)
		if v, keep := applyNegativePolicy(s, obs[end].closeT, tick, neg); keep {
			timestamps = append(timestamps, obs[end].ts)
			values = append(values, v)
		}
	}
	return timestamps, values, nil
}

// CorwinSchultzDollarSpread multiplies the pairwise proportional spread by
// close_t to express it in price units.
func CorwinSchultzDollarSpread(bars []palbar.OHLCBar, neg NegativeHandling, tick float64) ([]time.Time, []float64, error) {
	ts, prop, err := CorwinSchultzSpread(bars, neg, tick)
	if err != nil {
		return nil, nil, err
	}
	dollar := make([]float64, len(prop))
	for i, p := range prop {
		b, err := barAt(bars, ts[i])
		if err != nil {
			return nil, nil, err
		}
		dollar[i] = p * b.Close()
	}
	return ts, dollar, nil
}

func barAt(bars []palbar.OHLCBar, ts time.Time) (palbar.OHLCBar, error) {
	for _, b := range bars {
		if b.Timestamp().Equal(ts) {
			return b, nil
		}
	}
	return palbar.OHLCBar{}, palerrors.NewDataError(palerrors.ErrNotFound, "bar not found for timestamp")
}
