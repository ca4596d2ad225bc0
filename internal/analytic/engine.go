// Package analytic computes reference EEG potentials for layered
// concentric-sphere head models with a single current dipole source.
package analytic

import (
	"context"

	"github.com/MalteHoel/duneuro-forward-test/internal/domain/geometry"
	"github.com/MalteHoel/duneuro-forward-test/internal/domain/model"
)

// Engine is the closed-form reference collaborator of the comparison
// pipeline. Solve returns one potential per electrode, index-aligned
// with the electrodes argument. Results are raw potentials; the
// pipeline removes the reference offset itself.
type Engine interface {
	Solve(ctx context.Context, m model.SphereModel, d model.Dipole, electrodes []geometry.Vec3) ([]float64, error)
}
