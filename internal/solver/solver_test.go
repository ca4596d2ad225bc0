package solver_test

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/MalteHoel/duneuro-forward-test/internal/domain/geometry"
	"github.com/MalteHoel/duneuro-forward-test/internal/domain/model"
	"github.com/MalteHoel/duneuro-forward-test/internal/solver"
	. "github.com/smartystreets/goconvey/convey"
)

func tensorFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conductivities.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func driverConfig(t *testing.T) solver.Config {
	return solver.Config{
		Type:              "dipole",
		TensorsFilename:   tensorFile(t, "0.43 0.01 1.79 0.33\n"),
		ConductivityLayer: 3,
		GridResolution:    4,
		BoundsMin:         geometry.Vec3{-0.1, -0.1, -0.1},
		BoundsMax:         geometry.Vec3{0.1, 0.1, 0.1},
	}
}

func TestMakeDriver(t *testing.T) {
	Convey("Given the driver factory", t, func() {
		Convey("When the configured type is registered", func() {
			d, err := solver.MakeDriver(driverConfig(t))

			So(err, ShouldBeNil)
			So(d, ShouldNotBeNil)
		})

		Convey("When the configured type is unknown", func() {
			cfg := driverConfig(t)
			cfg.Type = "fem"
			_, err := solver.MakeDriver(cfg)

			So(err, ShouldWrap, solver.ErrUnknownDriver)
		})

		Convey("When the tensor file is missing", func() {
			cfg := driverConfig(t)
			cfg.TensorsFilename = filepath.Join(t.TempDir(), "absent.txt")
			_, err := solver.MakeDriver(cfg)

			So(err, ShouldNotBeNil)
		})

		Convey("When the tensor file is empty", func() {
			cfg := driverConfig(t)
			cfg.TensorsFilename = tensorFile(t, "# no rows\n")
			_, err := solver.MakeDriver(cfg)

			So(err, ShouldWrap, solver.ErrInvalidConfig)
		})

		Convey("When the conductivity layer index is out of range", func() {
			cfg := driverConfig(t)
			cfg.ConductivityLayer = 4
			_, err := solver.MakeDriver(cfg)

			So(err, ShouldWrap, solver.ErrInvalidConfig)
		})
	})
}

func TestHomogeneousDriver(t *testing.T) {
	Convey("Given a homogeneous reference driver", t, func() {
		ctx := context.Background()
		driver, err := solver.MakeDriver(driverConfig(t))
		So(err, ShouldBeNil)

		dip := model.Dipole{
			Position: geometry.Vec3{0, 0, 0.04},
			Moment:   geometry.Vec3{0, 0, 1e-8},
		}

		Convey("When a dipole is solved into a domain function", func() {
			field := driver.MakeDomainFunction()
			So(driver.SolveEEGForward(ctx, dip, field), ShouldBeNil)

			Convey("Then the field matches the infinite-medium closed form", func() {
				// On the dipole axis at distance r above the source,
				// V = m/(4 pi sigma r^2) for sigma of layer 3 (0.33).
				p := geometry.Vec3{0, 0, 0.06}
				r := 0.02
				want := 1e-8 / (4 * math.Pi * 0.33 * r * r)
				So(field.Evaluate(p), ShouldAlmostEqual, want, math.Abs(want)*1e-12)
			})

			Convey("Then the gradient is consistent with finite differences", func() {
				p := geometry.Vec3{0.01, 0.02, 0.06}
				const h = 1e-7
				g := field.Gradient(p)
				for axis := 0; axis < 3; axis++ {
					hi, lo := p, p
					hi[axis] += h
					lo[axis] -= h
					fd := (field.Evaluate(hi) - field.Evaluate(lo)) / (2 * h)
					So(g[axis], ShouldAlmostEqual, fd, math.Abs(fd)*1e-5+1e-12)
				}
			})

			Convey("And electrodes are configured", func() {
				electrodes := []geometry.Vec3{{0, 0, 0.092}, {0.092, 0, 0}}
				So(driver.SetElectrodes(electrodes, "raw"), ShouldBeNil)

				values, err := driver.EvaluateAtElectrodes(field)

				Convey("Then evaluation is index-aligned with the electrode set", func() {
					So(err, ShouldBeNil)
					So(values, ShouldHaveLength, 2)
					So(values[0], ShouldAlmostEqual, field.Evaluate(electrodes[0]), 1e-18)
					So(values[1], ShouldAlmostEqual, field.Evaluate(electrodes[1]), 1e-18)
				})
			})
		})

		Convey("When evaluating an unsolved field", func() {
			field := driver.MakeDomainFunction()
			So(driver.SetElectrodes([]geometry.Vec3{{0, 0, 0.092}}, ""), ShouldBeNil)

			_, err := driver.EvaluateAtElectrodes(field)

			So(err, ShouldWrap, solver.ErrUnsolvedField)
		})

		Convey("When evaluating without electrodes", func() {
			field := driver.MakeDomainFunction()
			So(driver.SolveEEGForward(ctx, dip, field), ShouldBeNil)

			_, err := driver.EvaluateAtElectrodes(field)

			So(err, ShouldWrap, solver.ErrNoElectrodes)
		})

		Convey("When setting an empty electrode set", func() {
			So(driver.SetElectrodes(nil, ""), ShouldWrap, solver.ErrNoElectrodes)
		})

		Convey("When setting an unknown evaluation mode", func() {
			err := driver.SetElectrodes([]geometry.Vec3{{0, 0, 0.092}}, "closest_vertex")

			So(err, ShouldWrap, solver.ErrUnknownEvalMode)
		})

		Convey("When evaluating a field from another driver", func() {
			other, err := solver.MakeDriver(driverConfig(t))
			So(err, ShouldBeNil)
			foreign := other.MakeDomainFunction()
			So(driver.SetElectrodes([]geometry.Vec3{{0, 0, 0.092}}, ""), ShouldBeNil)

			_, err = driver.EvaluateAtElectrodes(foreign)

			So(err, ShouldWrap, solver.ErrForeignField)
		})

		Convey("When requesting the volume writer", func() {
			w, err := driver.VolumeWriter()

			So(err, ShouldBeNil)
			So(w, ShouldNotBeNil)
		})

		Convey("When the context is cancelled before solving", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			field := driver.MakeDomainFunction()

			So(driver.SolveEEGForward(cancelled, dip, field), ShouldWrap, context.Canceled)
		})
	})
}
