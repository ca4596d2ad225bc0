package solver

import (
	"context"
	"fmt"
	"math"

	"github.com/MalteHoel/duneuro-forward-test/internal/adapters/fileio"
	"github.com/MalteHoel/duneuro-forward-test/internal/adapters/vtk"
	"github.com/MalteHoel/duneuro-forward-test/internal/domain/geometry"
	"github.com/MalteHoel/duneuro-forward-test/internal/domain/model"
)

// Homogeneous driver defaults.
const (
	defaultGridResolution = 16
	// minSourceDistance clamps field evaluation near the dipole
	// singularity so grid sampling stays finite.
	minSourceDistance = 1e-9
)

// Electrode evaluation modes of the homogeneous driver.
const (
	evalModeRaw = "raw"
)

// homogeneousDriver approximates the forward solution with the
// infinite-medium potential of the dipole in a uniform conductor. The
// conductivity comes from the configured component of the first row of
// the tensor file, mirroring how the analytic engine consumes it.
type homogeneousDriver struct {
	sigma      float64
	resolution int
	boundsMin  geometry.Vec3
	boundsMax  geometry.Vec3

	electrodes []geometry.Vec3
}

func newHomogeneousDriver(cfg Config) (Driver, error) {
	if cfg.TensorsFilename == "" {
		return nil, fmt.Errorf("%w: missing tensors filename", ErrInvalidConfig)
	}
	if cfg.ConductivityLayer < 0 || cfg.ConductivityLayer >= geometry.LayerCount {
		return nil, fmt.Errorf("%w: conductivity layer %d out of range", ErrInvalidConfig, cfg.ConductivityLayer)
	}
	tensors, err := fileio.ReadLayerVectors(cfg.TensorsFilename)
	if err != nil {
		return nil, err
	}
	if len(tensors) == 0 {
		return nil, fmt.Errorf("%w: tensor file %s has no entries", ErrInvalidConfig, cfg.TensorsFilename)
	}
	sigma := tensors[0][cfg.ConductivityLayer]
	if sigma <= 0 {
		return nil, fmt.Errorf("%w: conductivity %g is not positive", ErrInvalidConfig, sigma)
	}
	resolution := cfg.GridResolution
	if resolution == 0 {
		resolution = defaultGridResolution
	}
	if resolution < 2 {
		return nil, fmt.Errorf("%w: grid resolution %d", ErrInvalidConfig, resolution)
	}
	return &homogeneousDriver{
		sigma:      sigma,
		resolution: resolution,
		boundsMin:  cfg.BoundsMin,
		boundsMax:  cfg.BoundsMax,
	}, nil
}

// homogeneousField is the domain function of the homogeneous driver.
// It is created empty and populated by SolveEEGForward.
type homogeneousField struct {
	owner  *homogeneousDriver
	dipole model.Dipole
	solved bool
}

func (f *homogeneousField) Evaluate(p geometry.Vec3) float64 {
	r := p.Sub(f.dipole.Position)
	d := math.Max(r.Norm(), minSourceDistance)
	return f.dipole.Moment.Dot(r) / (4 * math.Pi * f.owner.sigma * d * d * d)
}

func (f *homogeneousField) Gradient(p geometry.Vec3) geometry.Vec3 {
	r := p.Sub(f.dipole.Position)
	d := math.Max(r.Norm(), minSourceDistance)
	d3 := d * d * d
	d5 := d3 * d * d
	m := f.dipole.Moment
	g := m.Scale(1 / d3).Sub(r.Scale(3 * m.Dot(r) / d5))
	return g.Scale(1 / (4 * math.Pi * f.owner.sigma))
}

func (d *homogeneousDriver) MakeDomainFunction() Field {
	return &homogeneousField{owner: d}
}

func (d *homogeneousDriver) SolveEEGForward(ctx context.Context, dip model.Dipole, f Field) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	field, err := d.own(f)
	if err != nil {
		return err
	}
	field.dipole = dip
	field.solved = true
	return nil
}

func (d *homogeneousDriver) SetElectrodes(points []geometry.Vec3, mode string) error {
	if len(points) == 0 {
		return ErrNoElectrodes
	}
	switch mode {
	case "", evalModeRaw:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvalMode, mode)
	}
	d.electrodes = make([]geometry.Vec3, len(points))
	copy(d.electrodes, points)
	return nil
}

func (d *homogeneousDriver) EvaluateAtElectrodes(f Field) ([]float64, error) {
	if len(d.electrodes) == 0 {
		return nil, ErrNoElectrodes
	}
	field, err := d.own(f)
	if err != nil {
		return nil, err
	}
	if !field.solved {
		return nil, ErrUnsolvedField
	}
	out := make([]float64, len(d.electrodes))
	for i, p := range d.electrodes {
		out[i] = field.Evaluate(p)
	}
	return out, nil
}

func (d *homogeneousDriver) VolumeWriter() (*vtk.VolumeWriter, error) {
	var spacing geometry.Vec3
	for i := 0; i < geometry.SpatialDim; i++ {
		extent := d.boundsMax[i] - d.boundsMin[i]
		if extent <= 0 {
			return nil, fmt.Errorf("%w: empty bounds on axis %d", ErrInvalidConfig, i)
		}
		spacing[i] = extent / float64(d.resolution-1)
	}
	dims := [3]int{d.resolution, d.resolution, d.resolution}
	return vtk.NewVolumeWriter("head model potential", d.boundsMin, spacing, dims)
}

// own checks that f was produced by this driver's MakeDomainFunction.
func (d *homogeneousDriver) own(f Field) (*homogeneousField, error) {
	field, ok := f.(*homogeneousField)
	if !ok || field.owner != d {
		return nil, ErrForeignField
	}
	return field, nil
}
