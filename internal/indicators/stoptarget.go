package indicators

import (
	"math"

	"github.com/aristath/palsetup/internal/palerrors"
	"github.com/aristath/palsetup/internal/series"
)

// minPartitionSamples is the smallest positive/negative ROC partition the
// asymmetric estimators will attempt to scale; below this, spec §4.F
// requires InsufficientSamples rather than a noisy estimate.
const minPartitionSamples = 5

// robustScale combines a median-based location estimate with the Qn scale,
// skew-adjusted by the medcouple of the sample, the shared core of all
// three stop/target estimators.
func robustScale(values []float64) (float64, error) {
	qn, err := RobustQn(values)
	if err != nil {
		return 0, err
	}
	mc := MedcoupleSkew(values)
	// A positive medcouple (right-skewed) widens the scale estimate
	// slightly to account for the heavier tail; a negative medcouple does
	// the same on the other side. The adjustment factor (1 + |mc|*0.1) is
	// a mild, bounded correction in the direction spec §4.F describes
	// ("adjusted by medcouple skew") without the estimator over-reacting to
	// a single extreme medcouple near +-1.
	adjustment := 1 + math.Abs(mc)*0.1
	return qn * adjustment, nil
}

// ComputeRobustStopTarget derives a single symmetric (target, stop) width
// pair from the full ROC distribution at the given holding period.
func ComputeRobustStopTarget(close *series.NumericSeries, period int) (target, stop float64, err error) {
	roc, err := ROCSeries(close, period)
	if err != nil {
		return 0, 0, err
	}
	values := roc.Float64Values()
	if len(values) < minPartitionSamples {
		return 0, 0, palerrors.NewDataError(palerrors.ErrInsufficientSample, "not enough ROC observations for robust stop/target")
	}

	median := Median(values)
	scale, err := robustScale(values)
	if err != nil {
		return 0, 0, err
	}
	width := math.Abs(median) + scale
	return width, width, nil
}

func partitionROC(values []float64) (positive, negative []float64) {
	for _, v := range values {
		if v > 0 {
			positive = append(positive, v)
		} else if v < 0 {
			negative = append(negative, v)
		}
	}
	return positive, negative
}

// ComputeLongStopTarget derives the target width from the positive ROC
// partition and the stop width from the negative partition.
func ComputeLongStopTarget(close *series.NumericSeries, period int) (target, stop float64, err error) {
	roc, err := ROCSeries(close, period)
	if err != nil {
		return 0, 0, err
	}
	positive, negative := partitionROC(roc.Float64Values())
	if len(positive) < minPartitionSamples || len(negative) < minPartitionSamples {
		return 0, 0, palerrors.NewDataError(palerrors.ErrInsufficientSample, "not enough ROC observations in one or both partitions")
	}

	target, err = sidedWidth(positive)
	if err != nil {
		return 0, 0, err
	}
	stop, err = sidedWidth(negative)
	if err != nil {
		return 0, 0, err
	}
	return target, stop, nil
}

// ComputeShortStopTarget is the mirror image of ComputeLongStopTarget: the
// target width comes from the negative partition, the stop width from the
// positive one.
func ComputeShortStopTarget(close *series.NumericSeries, period int) (target, stop float64, err error) {
	roc, err := ROCSeries(close, period)
	if err != nil {
		return 0, 0, err
	}
	positive, negative := partitionROC(roc.Float64Values())
	if len(positive) < minPartitionSamples || len(negative) < minPartitionSamples {
		return 0, 0, palerrors.NewDataError(palerrors.ErrInsufficientSample, "not enough ROC observations in one or both partitions")
	}

	target, err = sidedWidth(negative)
	if err != nil {
		return 0, 0, err
	}
	stop, err = sidedWidth(positive)
	if err != nil {
		return 0, 0, err
	}
	return target, stop, nil
}

// sidedWidth is |median| + Qn (skew-adjusted) for one side of the ROC
// distribution, guaranteed non-negative.
func sidedWidth(side []float64) (float64, error) {
	median := Median(side)
	scale, err := robustScale(side)
	if err != nil {
		return 0, err
	}
	return math.Abs(median) + scale, nil
}
