// Package modelgen produces a self-consistent input fixture set for a
// comparison run: a four-layer sphere model, an electrode cap on the
// outer surface, one dipole inside the innermost layer, and a YAML
// configuration pointing at all of it.
package modelgen

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/MalteHoel/duneuro-forward-test/internal/domain/geometry"
)

// Defaults for the generated sphere model. Radii run outermost to
// innermost, conductivities in S/m follow the same order.
var (
	DefaultRadii          = geometry.Vec4{0.092, 0.086, 0.080, 0.078}
	DefaultConductivities = geometry.Vec4{0.43, 0.01, 1.79, 0.33}
)

const (
	// DefaultElectrodes is the electrode count of a generated cap.
	DefaultElectrodes = 64

	// DefaultEccentricity places the dipole at this fraction of the
	// innermost radius, along +z from the center.
	DefaultEccentricity = 0.5

	defaultMomentStrength = 1e-8
	filePerm              = 0o644
)

// Params controls one fixture set.
type Params struct {
	Dir            string
	Electrodes     int
	Eccentricity   float64
	Radii          geometry.Vec4
	Center         geometry.Vec3
	Conductivities geometry.Vec4
}

// Files lists the paths of one generated fixture set.
type Files struct {
	Config         string
	Dipoles        string
	Electrodes     string
	Conductivities string
}

// Generate writes a complete fixture set into p.Dir and returns the
// created file paths. Zero-valued fields of p fall back to the
// defaults above.
func Generate(p Params) (Files, error) {
	if p.Dir == "" {
		return Files{}, fmt.Errorf("%w: output directory must be set", ErrBadParams)
	}
	if p.Electrodes == 0 {
		p.Electrodes = DefaultElectrodes
	}
	if p.Electrodes < 3 {
		return Files{}, fmt.Errorf("%w: need at least 3 electrodes, got %d", ErrBadParams, p.Electrodes)
	}
	if p.Eccentricity == 0 {
		p.Eccentricity = DefaultEccentricity
	}
	if p.Eccentricity < 0 || p.Eccentricity >= 1 {
		return Files{}, fmt.Errorf("%w: eccentricity %g outside [0, 1)", ErrBadParams, p.Eccentricity)
	}
	if p.Radii == (geometry.Vec4{}) {
		p.Radii = DefaultRadii
	}
	if p.Conductivities == (geometry.Vec4{}) {
		p.Conductivities = DefaultConductivities
	}

	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return Files{}, fmt.Errorf("creating fixture directory: %w", err)
	}

	files := Files{
		Config:         filepath.Join(p.Dir, "eeg_forward.yaml"),
		Dipoles:        filepath.Join(p.Dir, "dipoles.txt"),
		Electrodes:     filepath.Join(p.Dir, "electrodes.txt"),
		Conductivities: filepath.Join(p.Dir, "conductivities.txt"),
	}

	outer, inner := outerInner(p.Radii)
	dipole := dipoleAt(p.Center, inner, p.Eccentricity)

	steps := []struct {
		path    string
		content string
	}{
		{files.Dipoles, dipoleFile(dipole)},
		{files.Electrodes, electrodeFile(electrodeCap(p.Center, outer, p.Electrodes))},
		{files.Conductivities, conductivityFile(p.Conductivities)},
		{files.Config, configFile(p, files)},
	}
	for _, step := range steps {
		if err := os.WriteFile(step.path, []byte(step.content), filePerm); err != nil {
			return Files{}, fmt.Errorf("writing %s: %w", step.path, err)
		}
	}
	return files, nil
}

func outerInner(radii geometry.Vec4) (outer, inner float64) {
	outer, inner = radii[0], radii[0]
	for _, r := range radii[1:] {
		if r > outer {
			outer = r
		}
		if r < inner {
			inner = r
		}
	}
	return outer, inner
}

// electrodeCap distributes n points over the full sphere surface using
// the Fibonacci lattice, which keeps spacing near-uniform for any n.
func electrodeCap(center geometry.Vec3, radius float64, n int) []geometry.Vec3 {
	golden := math.Pi * (3 - math.Sqrt(5))
	points := make([]geometry.Vec3, n)
	for i := range points {
		z := 1 - 2*(float64(i)+0.5)/float64(n)
		ring := math.Sqrt(1 - z*z)
		phi := golden * float64(i)
		points[i] = center.Add(geometry.Vec3{
			radius * ring * math.Cos(phi),
			radius * ring * math.Sin(phi),
			radius * z,
		})
	}
	return points
}

func dipoleAt(center geometry.Vec3, innerRadius, eccentricity float64) [2]geometry.Vec3 {
	position := center.Add(geometry.Vec3{0, 0, eccentricity * innerRadius})
	moment := geometry.Vec3{0, 0, defaultMomentStrength}
	return [2]geometry.Vec3{position, moment}
}

func dipoleFile(d [2]geometry.Vec3) string {
	var b strings.Builder
	b.WriteString("# position_x position_y position_z moment_x moment_y moment_z\n")
	fmt.Fprintf(&b, "%g %g %g %g %g %g\n", d[0][0], d[0][1], d[0][2], d[1][0], d[1][1], d[1][2])
	return b.String()
}

func electrodeFile(points []geometry.Vec3) string {
	var b strings.Builder
	b.WriteString("# x y z\n")
	for _, p := range points {
		fmt.Fprintf(&b, "%g %g %g\n", p[0], p[1], p[2])
	}
	return b.String()
}

func conductivityFile(sigma geometry.Vec4) string {
	var b strings.Builder
	b.WriteString("# per-layer conductivity, outermost first, S/m\n")
	fmt.Fprintf(&b, "%g %g %g %g\n", sigma[0], sigma[1], sigma[2], sigma[3])
	return b.String()
}

func configFile(p Params, files Files) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# generated model %s\n", uuid.NewString())
	b.WriteString("log_level: info\n")
	b.WriteString("solver:\n")
	b.WriteString("  type: dipole\n")
	fmt.Fprintf(&b, "  conductivity_layer: %d\n", geometry.LayerCount-1)
	b.WriteString("  grid_resolution: 16\n")
	b.WriteString("dipole:\n")
	fmt.Fprintf(&b, "  filename: %s\n", files.Dipoles)
	b.WriteString("electrodes:\n")
	fmt.Fprintf(&b, "  filename: %s\n", files.Electrodes)
	b.WriteString("  projection: raw\n")
	b.WriteString("volume_conductor:\n")
	b.WriteString("  tensors:\n")
	fmt.Fprintf(&b, "    filename: %s\n", files.Conductivities)
	b.WriteString("analytic_solution:\n")
	fmt.Fprintf(&b, "  radii: [%g, %g, %g, %g]\n", p.Radii[0], p.Radii[1], p.Radii[2], p.Radii[3])
	fmt.Fprintf(&b, "  center: [%g, %g, %g]\n", p.Center[0], p.Center[1], p.Center[2])
	b.WriteString("output:\n")
	b.WriteString("  write: false\n")
	fmt.Fprintf(&b, "  filename_volume: %s\n", filepath.Join(p.Dir, "out_volume.vtk"))
	fmt.Fprintf(&b, "  filename_dipole: %s\n", filepath.Join(p.Dir, "out_dipole.vtk"))
	fmt.Fprintf(&b, "  filename_electrode_potentials: %s\n", filepath.Join(p.Dir, "out_electrode_potentials.vtk"))
	return b.String()
}
