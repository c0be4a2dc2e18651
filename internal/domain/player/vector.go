package player

import "math"

// VectorDims is the length of a feature vector.
const VectorDims = 10

// Reference rates used to scale per-90 figures into [0, 1].
const (
	RefGoalsPer90              = 1.0
	RefAssistsPer90            = 0.5
	RefTacklesPer90            = 5.0
	RefInterceptionsPer90      = 3.0
	RefProgressivePassesPer90  = 10.0
	RefProgressiveCarriesPer90 = 5.0
	RefAge                     = 40.0
	percentScale               = 100.0
)

// Vector is a fixed-order feature vector:
// goals/90, assists/90, shot%, pass%, dribble%, tackles/90, interceptions/90,
// progressive passes/90, progressive carries/90, age.
type Vector [VectorDims]float64

// IsZero reports whether every component is zero.
func (v Vector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// FeatureVector builds the record's feature vector. Components whose source
// value or per-90 denominator is not positive are 0; every component lies in
// [0, 1].
func FeatureVector(r *Record) Vector {
	mp90 := r.MinutesPer90
	rate := func(stat int, ref float64) float64 {
		if mp90 <= 0 || stat <= 0 {
			return 0
		}
		return scaled(float64(stat)/mp90, ref)
	}
	return Vector{
		rate(r.Goals, RefGoalsPer90),
		rate(r.Assists, RefAssistsPer90),
		scaled(r.ShotsOnTargetPercentage, percentScale),
		scaled(r.PassCompletionPercentage, percentScale),
		scaled(r.DribbleSuccessPercentage, percentScale),
		rate(r.Tackles, RefTacklesPer90),
		rate(r.Interceptions, RefInterceptionsPer90),
		rate(r.ProgressivePasses, RefProgressivePassesPer90),
		rate(r.ProgressiveCarries, RefProgressiveCarriesPer90),
		scaled(r.Age, RefAge),
	}
}

// scaled maps v/ref into [0, 1]; non-positive and non-finite values give 0.
func scaled(v, ref float64) float64 {
	if !(v > 0) || math.IsInf(v, 0) {
		return 0
	}
	return math.Min(v/ref, 1)
}
