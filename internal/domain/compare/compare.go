// Package compare implements the scalar discrepancy metrics used to
// judge a numerical EEG forward solution against an analytic
// reference: the Euclidean norm, the relative error, the magnitude
// ratio (MAG) and the relative difference measure (RDM), plus the
// reference-potential normalization both solutions receive before any
// metric is computed.
//
// All functions work in float64 and apply no tolerance of their own;
// degenerate inputs (empty vectors, mismatched lengths, zero-norm
// denominators) are explicit errors, never silent Inf or NaN.
package compare

import (
	"fmt"
	"math"
)

// Norm returns the Euclidean (L2) norm of v. The zero vector has norm
// 0; callers of ratio metrics must treat a zero denominator norm as an
// error, which the metric functions below do.
func Norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// SubtractMean returns a copy of v with its arithmetic mean removed,
// so the result has mean zero up to rounding. EEG potentials carry an
// arbitrary reference offset, so this must be applied identically to
// both solutions before comparison. An empty vector has no mean and is
// an error; a constant vector degenerates to the zero vector.
func SubtractMean(v []float64) ([]float64, error) {
	if len(v) == 0 {
		return nil, fmt.Errorf("subtract mean: %w", ErrEmptyVector)
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	mean := sum / float64(len(v))
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x - mean
	}
	return out, nil
}

// RelativeError returns norm(numerical-analytical)/norm(analytical),
// treating the analytical solution as ground truth.
func RelativeError(numerical, analytical []float64) (float64, error) {
	if err := checkPair(numerical, analytical); err != nil {
		return 0, err
	}
	na := Norm(analytical)
	if na == 0 {
		return 0, fmt.Errorf("relative error: analytical solution: %w", ErrZeroNorm)
	}
	diff := make([]float64, len(numerical))
	for i := range numerical {
		diff[i] = numerical[i] - analytical[i]
	}
	return Norm(diff) / na, nil
}

// MagnitudeError returns norm(numerical)/norm(analytical). A value of
// 1 means correct overall signal strength; below 1 the numerical
// solution underestimates, above 1 it overestimates.
func MagnitudeError(numerical, analytical []float64) (float64, error) {
	if err := checkPair(numerical, analytical); err != nil {
		return 0, err
	}
	na := Norm(analytical)
	if na == 0 {
		return 0, fmt.Errorf("magnitude error: analytical solution: %w", ErrZeroNorm)
	}
	return Norm(numerical) / na, nil
}

// RelativeDifferenceMeasure returns the norm of the difference of the
// unit-normalized solutions. It is insensitive to magnitude and
// measures the spatial pattern alone, so scaling either input by a
// positive constant leaves it unchanged.
func RelativeDifferenceMeasure(numerical, analytical []float64) (float64, error) {
	if err := checkPair(numerical, analytical); err != nil {
		return 0, err
	}
	nn := Norm(numerical)
	if nn == 0 {
		return 0, fmt.Errorf("relative difference measure: numerical solution: %w", ErrZeroNorm)
	}
	na := Norm(analytical)
	if na == 0 {
		return 0, fmt.Errorf("relative difference measure: analytical solution: %w", ErrZeroNorm)
	}
	diff := make([]float64, len(numerical))
	for i := range numerical {
		diff[i] = numerical[i]/nn - analytical[i]/na
	}
	return Norm(diff), nil
}

// Result bundles the five values reported by a comparison.
type Result struct {
	NormAnalytical float64
	NormNumerical  float64
	RelativeError  float64
	MAG            float64
	RDM            float64
}

// Compare computes all metrics for a pair of index-aligned potential
// vectors. Inputs are expected to be normalized already.
func Compare(numerical, analytical []float64) (Result, error) {
	relErr, err := RelativeError(numerical, analytical)
	if err != nil {
		return Result{}, err
	}
	mag, err := MagnitudeError(numerical, analytical)
	if err != nil {
		return Result{}, err
	}
	rdm, err := RelativeDifferenceMeasure(numerical, analytical)
	if err != nil {
		return Result{}, err
	}
	return Result{
		NormAnalytical: Norm(analytical),
		NormNumerical:  Norm(numerical),
		RelativeError:  relErr,
		MAG:            mag,
		RDM:            rdm,
	}, nil
}

// checkPair enforces the shared preconditions of all pairwise metrics:
// equal, nonzero lengths and identical index correspondence.
func checkPair(numerical, analytical []float64) error {
	if len(numerical) == 0 || len(analytical) == 0 {
		return ErrEmptyVector
	}
	if len(numerical) != len(analytical) {
		return fmt.Errorf("%w: numerical has %d entries, analytical has %d", ErrLengthMismatch, len(numerical), len(analytical))
	}
	return nil
}
