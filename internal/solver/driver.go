// Package solver defines the forward-solver collaborator interface of
// the comparison pipeline, a type registry for driver construction,
// and a built-in reference driver.
package solver

import (
	"context"
	"fmt"
	"sync"

	"github.com/MalteHoel/duneuro-forward-test/internal/adapters/vtk"
	"github.com/MalteHoel/duneuro-forward-test/internal/domain/geometry"
	"github.com/MalteHoel/duneuro-forward-test/internal/domain/model"
)

// Field is a scalar potential field over the model domain, evaluable
// at arbitrary points together with its gradient.
type Field interface {
	Evaluate(p geometry.Vec3) float64
	Gradient(p geometry.Vec3) geometry.Vec3
}

// Driver mirrors the narrow surface the pipeline needs from a forward
// solver: solve one dipole into a domain field, project the field onto
// a configured electrode set, and provide a volume writer for
// visualization.
type Driver interface {
	// MakeDomainFunction creates the storage a solve writes into.
	MakeDomainFunction() Field

	// SolveEEGForward computes the forward solution for d into f.
	SolveEEGForward(ctx context.Context, d model.Dipole, f Field) error

	// SetElectrodes configures the electrode set and evaluation mode.
	SetElectrodes(points []geometry.Vec3, mode string) error

	// EvaluateAtElectrodes projects f onto the configured electrodes,
	// index-aligned with the points passed to SetElectrodes.
	EvaluateAtElectrodes(f Field) ([]float64, error)

	// VolumeWriter returns a writer sampling the domain for
	// visualization. Visualization only; never required for metrics.
	VolumeWriter() (*vtk.VolumeWriter, error)
}

// Config carries the construction parameters for a driver. The tensor
// file names the per-layer conductivity vectors; ConductivityLayer
// selects the component the driver solves with.
type Config struct {
	Type              string
	TensorsFilename   string
	ConductivityLayer int
	GridResolution    int
	BoundsMin         geometry.Vec3
	BoundsMax         geometry.Vec3
}

// Factory constructs a driver from its configuration.
type Factory func(cfg Config) (Driver, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{
		"dipole": newHomogeneousDriver,
	}
)

// Register makes a driver type available to MakeDriver. Registering a
// name twice panics; that is a wiring bug, not a runtime condition.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic("solver: duplicate driver type " + name)
	}
	registry[name] = f
}

// MakeDriver constructs the driver named by cfg.Type.
func MakeDriver(cfg Config) (Driver, error) {
	registryMu.RLock()
	factory, ok := registry[cfg.Type]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Type)
	}
	driver, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("driver %q: %w", cfg.Type, err)
	}
	return driver, nil
}
