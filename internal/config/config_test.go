package config_test

import (
	"context"
	"testing"

	"github.com/MalteHoel/duneuro-forward-test/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigDefaults(t *testing.T) {
	convey.Convey("Given a default configuration", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it passes validation", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then it describes the standard four-layer model", func() {
			convey.So(cfg.AnalyticSolution.Radii, convey.ShouldHaveLength, 4)
			convey.So(cfg.AnalyticSolution.Center, convey.ShouldHaveLength, 3)
			convey.So(cfg.Solver.Type, convey.ShouldEqual, "dipole")
			convey.So(cfg.Output.Write, convey.ShouldBeFalse)
		})
	})
}

func TestConfigValidate(t *testing.T) {
	convey.Convey("Given configuration validation", t, func() {
		ctx := context.Background()

		convey.Convey("When the radii count is wrong", func() {
			cfg := config.New(ctx)
			cfg.AnalyticSolution.Radii = []float64{0.092, 0.086, 0.080}

			convey.So(cfg.Validate(), convey.ShouldWrap, config.ErrInvalidConfig)
		})

		convey.Convey("When a radius is not positive", func() {
			cfg := config.New(ctx)
			cfg.AnalyticSolution.Radii[1] = -1

			convey.So(cfg.Validate(), convey.ShouldWrap, config.ErrInvalidConfig)
		})

		convey.Convey("When the center is not three-dimensional", func() {
			cfg := config.New(ctx)
			cfg.AnalyticSolution.Center = []float64{0, 0}

			convey.So(cfg.Validate(), convey.ShouldWrap, config.ErrInvalidConfig)
		})

		convey.Convey("When the dipole filename is missing", func() {
			cfg := config.New(ctx)
			cfg.Dipole.Filename = ""

			convey.So(cfg.Validate(), convey.ShouldWrap, config.ErrInvalidConfig)
		})

		convey.Convey("When the conductivity layer is out of range", func() {
			cfg := config.New(ctx)
			cfg.Solver.ConductivityLayer = 7

			convey.So(cfg.Validate(), convey.ShouldWrap, config.ErrInvalidConfig)
		})

		convey.Convey("When output is enabled without filenames", func() {
			cfg := config.New(ctx)
			cfg.Output.Write = true
			cfg.Output.FilenameVolume = ""

			convey.So(cfg.Validate(), convey.ShouldWrap, config.ErrInvalidConfig)
		})
	})
}

func TestSolverConfig(t *testing.T) {
	convey.Convey("Given the derived driver configuration", t, func() {
		cfg := config.New(context.Background())

		sc := cfg.SolverConfig()

		convey.Convey("Then the volume bounds enclose the outermost sphere", func() {
			convey.So(sc.Type, convey.ShouldEqual, "dipole")
			convey.So(sc.TensorsFilename, convey.ShouldEqual, "conductivities.txt")
			convey.So(sc.BoundsMin[0], convey.ShouldBeLessThan, -0.092)
			convey.So(sc.BoundsMax[2], convey.ShouldBeGreaterThan, 0.092)
		})
	})
}
