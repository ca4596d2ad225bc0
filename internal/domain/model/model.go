// Package model defines the immutable data types that flow through the
// comparison pipeline.
package model

import (
	"fmt"

	"github.com/MalteHoel/duneuro-forward-test/internal/domain/geometry"
)

// Dipole is a point current source: a position and a moment vector.
type Dipole struct {
	Position geometry.Vec3
	Moment   geometry.Vec3
}

// SphereModel describes the layered concentric-sphere head model: one
// radius and one conductivity per tissue layer, index-aligned, around
// a common center.
type SphereModel struct {
	Radii          geometry.Vec4
	Center         geometry.Vec3
	Conductivities geometry.Vec4
}

// Validate checks the physical plausibility of the model: radii and
// conductivities must be strictly positive and radii pairwise distinct.
func (m SphereModel) Validate() error {
	for i, r := range m.Radii {
		if r <= 0 {
			return fmt.Errorf("%w: radius %d is %g", ErrInvalidModel, i, r)
		}
		for j := i + 1; j < len(m.Radii); j++ {
			if r == m.Radii[j] {
				return fmt.Errorf("%w: radii %d and %d coincide at %g", ErrInvalidModel, i, j, r)
			}
		}
	}
	for i, c := range m.Conductivities {
		if c <= 0 {
			return fmt.Errorf("%w: conductivity %d is %g", ErrInvalidModel, i, c)
		}
	}
	return nil
}

// Report is the outcome of one comparison run.
type Report struct {
	RunID          string
	Electrodes     int
	NormAnalytical float64
	NormNumerical  float64
	RelativeError  float64
	MAG            float64
	RDM            float64
}
