// Package config defines the harness configuration tree and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - All loading functions accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"fmt"

	"github.com/MalteHoel/duneuro-forward-test/internal/domain/geometry"
	"github.com/MalteHoel/duneuro-forward-test/internal/solver"
)

// Config contains the full configuration of one comparison run.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsAddr optionally exposes Prometheus metrics during the run,
	// e.g. ":9090". Empty disables the endpoint.
	MetricsAddr string `koanf:"metrics_addr"`

	Solver           SolverSection          `koanf:"solver"`
	Output           OutputSection          `koanf:"output"`
	Dipole           FileSection            `koanf:"dipole"`
	Electrodes       ElectrodesSection      `koanf:"electrodes"`
	AnalyticSolution AnalyticSection        `koanf:"analytic_solution"`
	VolumeConductor  VolumeConductorSection `koanf:"volume_conductor"`
}

// SolverSection carries the forward-driver construction parameters.
type SolverSection struct {
	// Type selects the registered driver implementation.
	Type string `koanf:"type"`

	// ConductivityLayer selects which component of the per-layer
	// conductivity vector the driver solves with.
	ConductivityLayer int `koanf:"conductivity_layer"`

	// GridResolution sets the per-axis sample count of the volume export.
	GridResolution int `koanf:"grid_resolution"`
}

// OutputSection toggles and names the visualization exports.
type OutputSection struct {
	Write                       bool   `koanf:"write"`
	FilenameVolume              string `koanf:"filename_volume"`
	FilenameDipole              string `koanf:"filename_dipole"`
	FilenameElectrodePotentials string `koanf:"filename_electrode_potentials"`
}

// FileSection names a single input file.
type FileSection struct {
	Filename string `koanf:"filename"`
}

// ElectrodesSection names the electrode file and the driver-specific
// evaluation mode.
type ElectrodesSection struct {
	Filename   string `koanf:"filename"`
	Projection string `koanf:"projection"`
}

// AnalyticSection carries the sphere geometry of the analytic reference.
type AnalyticSection struct {
	Radii  []float64 `koanf:"radii"`
	Center []float64 `koanf:"center"`
}

// VolumeConductorSection names the conductivity tensor input.
type VolumeConductorSection struct {
	Tensors FileSection `koanf:"tensors"`
}

// New creates a Config with defaults. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel: "info",
		Solver: SolverSection{
			Type:              "dipole",
			ConductivityLayer: geometry.LayerCount - 1,
			GridResolution:    16,
		},
		Output: OutputSection{
			Write:                       false,
			FilenameVolume:              "out_volume.vtk",
			FilenameDipole:              "out_dipole.vtk",
			FilenameElectrodePotentials: "out_electrode_potentials.vtk",
		},
		Dipole:     FileSection{Filename: "dipoles.txt"},
		Electrodes: ElectrodesSection{Filename: "electrodes.txt", Projection: "raw"},
		AnalyticSolution: AnalyticSection{
			Radii:  []float64{0.092, 0.086, 0.080, 0.078},
			Center: []float64{0, 0, 0},
		},
		VolumeConductor: VolumeConductorSection{
			Tensors: FileSection{Filename: "conductivities.txt"},
		},
	}
}

// Validate checks that every required key is present and well-typed
// enough to start a run. Input files are only checked for presence of
// a name; readability surfaces at the loading stage.
func (c *Config) Validate() error {
	if len(c.AnalyticSolution.Radii) != geometry.LayerCount {
		return fmt.Errorf("%w: analytic_solution.radii needs %d values, got %d", ErrInvalidConfig, geometry.LayerCount, len(c.AnalyticSolution.Radii))
	}
	for i, r := range c.AnalyticSolution.Radii {
		if r <= 0 {
			return fmt.Errorf("%w: analytic_solution.radii[%d] is %g", ErrInvalidConfig, i, r)
		}
	}
	if len(c.AnalyticSolution.Center) != geometry.SpatialDim {
		return fmt.Errorf("%w: analytic_solution.center needs %d values, got %d", ErrInvalidConfig, geometry.SpatialDim, len(c.AnalyticSolution.Center))
	}
	if c.Solver.Type == "" {
		return fmt.Errorf("%w: solver.type must not be empty", ErrInvalidConfig)
	}
	if c.Solver.ConductivityLayer < 0 || c.Solver.ConductivityLayer >= geometry.LayerCount {
		return fmt.Errorf("%w: solver.conductivity_layer %d out of range", ErrInvalidConfig, c.Solver.ConductivityLayer)
	}
	if c.Solver.GridResolution < 2 {
		return fmt.Errorf("%w: solver.grid_resolution %d is below 2", ErrInvalidConfig, c.Solver.GridResolution)
	}
	if c.Dipole.Filename == "" {
		return fmt.Errorf("%w: dipole.filename must not be empty", ErrInvalidConfig)
	}
	if c.Electrodes.Filename == "" {
		return fmt.Errorf("%w: electrodes.filename must not be empty", ErrInvalidConfig)
	}
	if c.VolumeConductor.Tensors.Filename == "" {
		return fmt.Errorf("%w: volume_conductor.tensors.filename must not be empty", ErrInvalidConfig)
	}
	if c.Output.Write {
		if c.Output.FilenameVolume == "" || c.Output.FilenameDipole == "" || c.Output.FilenameElectrodePotentials == "" {
			return fmt.Errorf("%w: output filenames must not be empty when output.write is set", ErrInvalidConfig)
		}
	}
	return nil
}

// SolverConfig assembles the driver construction parameters. The
// volume-export bounds enclose the sphere model with a small margin.
func (c *Config) SolverConfig() solver.Config {
	maxRadius := 0.0
	for _, r := range c.AnalyticSolution.Radii {
		if r > maxRadius {
			maxRadius = r
		}
	}
	var center geometry.Vec3
	copy(center[:], c.AnalyticSolution.Center)
	extent := 1.1 * maxRadius
	return solver.Config{
		Type:              c.Solver.Type,
		TensorsFilename:   c.VolumeConductor.Tensors.Filename,
		ConductivityLayer: c.Solver.ConductivityLayer,
		GridResolution:    c.Solver.GridResolution,
		BoundsMin:         center.Sub(geometry.Vec3{extent, extent, extent}),
		BoundsMax:         center.Add(geometry.Vec3{extent, extent, extent}),
	}
}
