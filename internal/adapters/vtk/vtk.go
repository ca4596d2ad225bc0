// Package vtk writes legacy-ASCII VTK files for the harness outputs: a
// polydata point file for the dipole marker and the annotated
// electrode set, and a structured-points volume file sampling the
// solved potential field and its gradient.
package vtk

import (
	"bufio"
	"fmt"
	"os"

	"github.com/MalteHoel/duneuro-forward-test/internal/domain/geometry"
)

const vtkHeader = "# vtk DataFile Version 3.0"

// ScalarField is anything evaluable over the model domain.
type ScalarField interface {
	Evaluate(p geometry.Vec3) float64
	Gradient(p geometry.Vec3) geometry.Vec3
}

// PointWriter accumulates a fixed point set plus named per-point
// scalar channels and writes them as polydata vertices.
type PointWriter struct {
	title    string
	points   []geometry.Vec3
	channels []scalarChannel
}

type scalarChannel struct {
	name   string
	values []float64
}

// NewPointWriter creates a writer over a copy of the given points.
func NewPointWriter(title string, points []geometry.Vec3) *PointWriter {
	pts := make([]geometry.Vec3, len(points))
	copy(pts, points)
	return &PointWriter{title: title, points: pts}
}

// AddScalarData attaches a named per-point scalar channel. The channel
// must be index-aligned with the point set.
func (w *PointWriter) AddScalarData(name string, values []float64) error {
	if len(values) != len(w.points) {
		return fmt.Errorf("%w: channel %q has %d values for %d points", ErrChannelMismatch, name, len(values), len(w.points))
	}
	vals := make([]float64, len(values))
	copy(vals, values)
	w.channels = append(w.channels, scalarChannel{name: name, values: vals})
	return nil
}

// Write emits the point set and its channels to path.
func (w *PointWriter) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	fmt.Fprintf(buf, "%s\n%s\nASCII\nDATASET POLYDATA\n", vtkHeader, w.title)
	fmt.Fprintf(buf, "POINTS %d double\n", len(w.points))
	for _, p := range w.points {
		fmt.Fprintf(buf, "%g %g %g\n", p[0], p[1], p[2])
	}
	fmt.Fprintf(buf, "VERTICES %d %d\n", len(w.points), 2*len(w.points))
	for i := range w.points {
		fmt.Fprintf(buf, "1 %d\n", i)
	}
	if len(w.channels) > 0 {
		fmt.Fprintf(buf, "POINT_DATA %d\n", len(w.points))
		for _, ch := range w.channels {
			fmt.Fprintf(buf, "SCALARS %s double 1\nLOOKUP_TABLE default\n", ch.name)
			for _, v := range ch.values {
				fmt.Fprintf(buf, "%g\n", v)
			}
		}
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}
	return nil
}

// VolumeWriter samples scalar fields on a regular grid and writes them
// as a structured-points dataset.
type VolumeWriter struct {
	title   string
	origin  geometry.Vec3
	spacing geometry.Vec3
	dims    [3]int

	scalars   []fieldChannel
	gradients []fieldChannel
}

type fieldChannel struct {
	name  string
	field ScalarField
}

// NewVolumeWriter creates a writer over the grid defined by origin,
// per-axis spacing and per-axis point counts. Every dimension must
// hold at least two points.
func NewVolumeWriter(title string, origin, spacing geometry.Vec3, dims [3]int) (*VolumeWriter, error) {
	for i, d := range dims {
		if d < 2 {
			return nil, fmt.Errorf("%w: dimension %d has %d grid points", ErrBadGrid, i, d)
		}
	}
	return &VolumeWriter{title: title, origin: origin, spacing: spacing, dims: dims}, nil
}

// AddVertexData samples f at every grid point as a scalar channel.
func (w *VolumeWriter) AddVertexData(f ScalarField, name string) {
	w.scalars = append(w.scalars, fieldChannel{name: name, field: f})
}

// AddGradientData samples the gradient of f at every grid point as a
// vector channel.
func (w *VolumeWriter) AddGradientData(f ScalarField, name string) {
	w.gradients = append(w.gradients, fieldChannel{name: name, field: f})
}

// Write samples all registered channels and emits the dataset to path.
// At least one channel must have been added.
func (w *VolumeWriter) Write(path string) error {
	if len(w.scalars) == 0 && len(w.gradients) == 0 {
		return fmt.Errorf("%w: no data channels added", ErrWriteFailed)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	fmt.Fprintf(buf, "%s\n%s\nASCII\nDATASET STRUCTURED_POINTS\n", vtkHeader, w.title)
	fmt.Fprintf(buf, "DIMENSIONS %d %d %d\n", w.dims[0], w.dims[1], w.dims[2])
	fmt.Fprintf(buf, "ORIGIN %g %g %g\n", w.origin[0], w.origin[1], w.origin[2])
	fmt.Fprintf(buf, "SPACING %g %g %g\n", w.spacing[0], w.spacing[1], w.spacing[2])
	fmt.Fprintf(buf, "POINT_DATA %d\n", w.dims[0]*w.dims[1]*w.dims[2])

	for _, ch := range w.scalars {
		fmt.Fprintf(buf, "SCALARS %s double 1\nLOOKUP_TABLE default\n", ch.name)
		w.eachGridPoint(func(p geometry.Vec3) {
			fmt.Fprintf(buf, "%g\n", ch.field.Evaluate(p))
		})
	}
	for _, ch := range w.gradients {
		fmt.Fprintf(buf, "VECTORS %s double\n", ch.name)
		w.eachGridPoint(func(p geometry.Vec3) {
			g := ch.field.Gradient(p)
			fmt.Fprintf(buf, "%g %g %g\n", g[0], g[1], g[2])
		})
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}
	return nil
}

// eachGridPoint visits grid points in VTK order: x fastest, z slowest.
func (w *VolumeWriter) eachGridPoint(visit func(p geometry.Vec3)) {
	for k := 0; k < w.dims[2]; k++ {
		for j := 0; j < w.dims[1]; j++ {
			for i := 0; i < w.dims[0]; i++ {
				visit(geometry.Vec3{
					w.origin[0] + float64(i)*w.spacing[0],
					w.origin[1] + float64(j)*w.spacing[1],
					w.origin[2] + float64(k)*w.spacing[2],
				})
			}
		}
	}
}
