// Package geometry provides the fixed-size vector types shared by the
// forward driver and the analytic engine, together with strict
// conversions from variable-length numeric slices.
//
// Conversions are structural relabelings only: no coordinate
// transformation is performed, and any length mismatch is an error
// rather than a truncation or padding.
package geometry

import (
	"fmt"
	"math"
)

// Model dimensions.
const (
	// SpatialDim is the spatial dimension of the head model.
	SpatialDim = 3
	// LayerCount is the number of tissue layers in the sphere model.
	LayerCount = 4
)

// Vec3 is a point or direction in model space.
type Vec3 [SpatialDim]float64

// Vec4 holds one value per tissue layer, index-aligned with the layer
// radii of the sphere model.
type Vec4 [LayerCount]float64

// ToVec3 converts a slice to a Vec3. The slice length must be exactly
// SpatialDim.
func ToVec3(v []float64) (Vec3, error) {
	if len(v) != SpatialDim {
		return Vec3{}, fmt.Errorf("%w: got %d values, want %d", ErrDimensionMismatch, len(v), SpatialDim)
	}
	var out Vec3
	copy(out[:], v)
	return out, nil
}

// ToVec4 converts a slice to a Vec4. The slice length must be exactly
// LayerCount.
func ToVec4(v []float64) (Vec4, error) {
	if len(v) != LayerCount {
		return Vec4{}, fmt.Errorf("%w: got %d values, want %d", ErrDimensionMismatch, len(v), LayerCount)
	}
	var out Vec4
	copy(out[:], v)
	return out, nil
}

// ToVec3Slice converts a collection of slices, preserving input order.
// The first offending row aborts the conversion.
func ToVec3Slice(vs [][]float64) ([]Vec3, error) {
	out := make([]Vec3, 0, len(vs))
	for i, v := range vs {
		p, err := ToVec3(v)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Dot returns the inner product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Unit returns v scaled to unit length together with the original
// length. The second return is false for the zero vector, whose
// direction is undefined.
func (v Vec3) Unit() (Vec3, float64, bool) {
	n := v.Norm()
	if n == 0 {
		return Vec3{}, 0, false
	}
	return v.Scale(1 / n), n, true
}
