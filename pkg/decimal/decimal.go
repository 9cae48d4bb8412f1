// Package decimal implements a fixed-point decimal number: a signed 64-bit
// integer scaled by 10^n. Arithmetic is exact for +, -, *, / (with defined
// rounding on division and on renormalization); transcendentals round back
// to DefaultScale through big.Float. Sqrt is computed in big.Float at 96-bit
// precision; Log, Exp and Pow are computed in float64 (math.Log, math.Exp,
// math.Pow), so their results carry float64 precision only.
//
// A single concrete precision is used across the whole module rather than a
// generic/templated numeric type: statistical pipelines here accumulate
// products of percentages and logs of percentages, and trade arithmetic must
// reproduce bit-exactly, which ruled out float64 historically. DefaultScale
// (7 fractional digits) is the renormalization target for multiplication and
// division, matching the precision PAL percentage fields are quoted at plus
// headroom for intermediate products.
package decimal

import (
	"fmt"
	"math"
	"math/big"
)

// DefaultScale is the fractional-digit count new Decimals are renormalized
// to by multiplication, division, and the transcendental functions.
const DefaultScale = 7

var pow10 = [...]int64{
	1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000,
	1000000000, 10000000000,
}

func scaleFactor(n int) int64 {
	if n < 0 || n >= len(pow10) {
		panic(fmt.Sprintf("decimal: scale %d out of supported range", n))
	}
	return pow10[n]
}

// Decimal is a fixed-point number: value == float64(Raw) / 10^Scale.
type Decimal struct {
	Raw   int64
	Scale int
}

// New constructs a Decimal directly from a raw scaled integer.
func New(raw int64, scale int) Decimal {
	return Decimal{Raw: raw, Scale: scale}
}

// FromFloat converts a float64 to a Decimal at the given scale, rounding
// half-to-even (banker's rounding) at the target precision.
func FromFloat(v float64, scale int) Decimal {
	factor := float64(scaleFactor(scale))
	return Decimal{Raw: roundHalfEven(v * factor), Scale: scale}
}

// Zero returns the additive identity at the given scale.
func Zero(scale int) Decimal { return Decimal{Raw: 0, Scale: scale} }

// Float64 converts back to a float64 (lossy for values beyond float64's
// mantissa, never lossy for the magnitudes this module deals in).
func (d Decimal) Float64() float64 {
	return float64(d.Raw) / float64(scaleFactor(d.Scale))
}

func (d Decimal) String() string {
	factor := scaleFactor(d.Scale)
	sign := ""
	raw := d.Raw
	if raw < 0 {
		sign = "-"
		raw = -raw
	}
	whole := raw / factor
	frac := raw % factor
	if d.Scale == 0 {
		return fmt.Sprintf("%s%d", sign, whole)
	}
	return fmt.Sprintf("%s%d.%0*d", sign, whole, d.Scale, frac)
}

func roundHalfEven(x float64) int64 {
	floor := math.Floor(x)
	diff := x - floor
	switch {
	case diff < 0.5:
		return int64(floor)
	case diff > 0.5:
		return int64(floor) + 1
	default:
		// exactly .5: round to even
		fi := int64(floor)
		if fi%2 == 0 {
			return fi
		}
		return fi + 1
	}
}

func (d Decimal) rescale(scale int) Decimal {
	if d.Scale == scale {
		return d
	}
	if scale > d.Scale {
		return Decimal{Raw: d.Raw * scaleFactor(scale-d.Scale), Scale: scale}
	}
	factor := scaleFactor(d.Scale - scale)
	return Decimal{Raw: roundHalfEven(float64(d.Raw) / float64(factor)), Scale: scale}
}

// Add requires equal scale (per spec: same-precision Decimals combine in
// constant time); callers at a boundary should Rescale first.
func (d Decimal) Add(o Decimal) Decimal {
	mustMatch(d, o)
	return Decimal{Raw: d.Raw + o.Raw, Scale: d.Scale}
}

func (d Decimal) Sub(o Decimal) Decimal {
	mustMatch(d, o)
	return Decimal{Raw: d.Raw - o.Raw, Scale: d.Scale}
}

func mustMatch(a, b Decimal) {
	if a.Scale != b.Scale {
		panic(fmt.Sprintf("decimal: scale mismatch %d vs %d", a.Scale, b.Scale))
	}
}

// Mul multiplies two Decimals, renormalizing the logical n+m precision
// product down to DefaultScale with banker's rounding.
func (d Decimal) Mul(o Decimal) Decimal {
	// Widen to avoid overflow: int64*int64 can overflow raw*raw, so route
	// through big.Int for the product then rescale.
	prod := new(big.Int).Mul(big.NewInt(d.Raw), big.NewInt(o.Raw))
	logicalScale := d.Scale + o.Scale
	return rescaleBigInt(prod, logicalScale, DefaultScale)
}

// Div divides d by o, renormalizing to DefaultScale.
func (d Decimal) Div(o Decimal) Decimal {
	if o.Raw == 0 {
		panic("decimal: division by zero")
	}
	// (d.Raw / 10^d.Scale) / (o.Raw / 10^o.Scale) at DefaultScale:
	// numerator * 10^(DefaultScale + o.Scale - d.Scale) / o.Raw
	shift := DefaultScale + o.Scale - d.Scale
	num := big.NewInt(d.Raw)
	if shift >= 0 {
		num = new(big.Int).Mul(num, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(shift)), nil))
	} else {
		den := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(-shift)), nil)
		num = new(big.Int).Quo(num, den)
	}
	q := new(big.Rat).SetFrac(num, big.NewInt(o.Raw))
	f, _ := q.Float64()
	return Decimal{Raw: roundHalfEven(f), Scale: DefaultScale}
}

func rescaleBigInt(v *big.Int, from, to int) Decimal {
	if to >= from {
		v = new(big.Int).Mul(v, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(to-from)), nil))
		return Decimal{Raw: v.Int64(), Scale: to}
	}
	den := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(from-to)), nil)
	q, r := new(big.Int).QuoRem(v, den, new(big.Int))
	// banker's rounding on the remainder against den
	twice := new(big.Int).Mul(r, big.NewInt(2))
	absTwice := new(big.Int).Abs(twice)
	cmp := absTwice.Cmp(den)
	if cmp > 0 || (cmp == 0 && q.Bit(0) == 1) {
		if v.Sign() < 0 {
			q.Sub(q, big.NewInt(1))
		} else {
			q.Add(q, big.NewInt(1))
		}
	}
	return Decimal{Raw: q.Int64(), Scale: to}
}

// Abs, Floor, Ceil are exact.
func (d Decimal) Abs() Decimal {
	if d.Raw < 0 {
		return Decimal{Raw: -d.Raw, Scale: d.Scale}
	}
	return d
}

func (d Decimal) Floor() Decimal {
	factor := scaleFactor(d.Scale)
	if d.Raw >= 0 || d.Raw%factor == 0 {
		return Decimal{Raw: (d.Raw / factor) * factor, Scale: d.Scale}
	}
	return Decimal{Raw: (d.Raw/factor - 1) * factor, Scale: d.Scale}
}

func (d Decimal) Ceil() Decimal {
	factor := scaleFactor(d.Scale)
	if d.Raw <= 0 || d.Raw%factor == 0 {
		return Decimal{Raw: (d.Raw / factor) * factor, Scale: d.Scale}
	}
	return Decimal{Raw: (d.Raw/factor + 1) * factor, Scale: d.Scale}
}

// Cmp gives standard three-way comparison between two Decimals of equal
// scale (as required by the spec's "two Decimals of the same precision n
// compare... in constant time").
func (d Decimal) Cmp(o Decimal) int {
	mustMatch(d, o)
	switch {
	case d.Raw < o.Raw:
		return -1
	case d.Raw > o.Raw:
		return 1
	default:
		return 0
	}
}

func (d Decimal) Equal(o Decimal) bool { return d.Scale == o.Scale && d.Raw == o.Raw }

// Neg returns the additive inverse.
func (d Decimal) Neg() Decimal { return Decimal{Raw: -d.Raw, Scale: d.Scale} }

// transcendentals: round back to DefaultScale through big.Float. Only Sqrt
// computes at extended precision; Log, Exp and Pow compute in float64.

func (d Decimal) toBigFloat() *big.Float {
	return new(big.Float).SetPrec(96).Quo(
		new(big.Float).SetInt64(d.Raw),
		new(big.Float).SetInt64(scaleFactor(d.Scale)),
	)
}

func fromBigFloat(f *big.Float) Decimal {
	scaled := new(big.Float).SetPrec(96).Mul(f, new(big.Float).SetInt64(scaleFactor(DefaultScale)))
	rounded, _ := scaled.Float64()
	return Decimal{Raw: roundHalfEven(rounded), Scale: DefaultScale}
}

// Log returns the natural logarithm. Panics for non-positive values, as
// callers are expected to guard (estimators that take logs document this).
func (d Decimal) Log() Decimal {
	v := d.Float64()
	if v <= 0 {
		panic("decimal: log of non-positive value")
	}
	return fromBigFloat(new(big.Float).SetPrec(96).SetFloat64(math.Log(v)))
}

// Exp returns e^d.
func (d Decimal) Exp() Decimal {
	return fromBigFloat(new(big.Float).SetPrec(96).SetFloat64(math.Exp(d.Float64())))
}

// Sqrt returns the square root via big.Float.Sqrt.
func (d Decimal) Sqrt() Decimal {
	if d.Raw < 0 {
		panic("decimal: sqrt of negative value")
	}
	bf := d.toBigFloat()
	return fromBigFloat(new(big.Float).SetPrec(96).Sqrt(bf))
}

// Pow returns d^exp for a float64 exponent (exponents in this module are
// always small constants, e.g. 2 for squaring spread betas/gammas).
func (d Decimal) Pow(exp float64) Decimal {
	return fromBigFloat(new(big.Float).SetPrec(96).SetFloat64(math.Pow(d.Float64(), exp)))
}
