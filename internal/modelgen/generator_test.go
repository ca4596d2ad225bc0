package modelgen_test

import (
	"context"
	"math"
	"testing"

	"github.com/MalteHoel/duneuro-forward-test/internal/adapters/fileio"
	"github.com/MalteHoel/duneuro-forward-test/internal/config"
	"github.com/MalteHoel/duneuro-forward-test/internal/modelgen"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given default generator parameters", t, func() {
		dir := t.TempDir()

		Convey("When a fixture set is generated", func() {
			files, err := modelgen.Generate(modelgen.Params{Dir: dir})
			So(err, ShouldBeNil)

			Convey("Then the configuration file loads and validates", func() {
				cfg, err := config.Load(context.Background(), files.Config)
				So(err, ShouldBeNil)
				So(cfg.Dipole.Filename, ShouldEqual, files.Dipoles)
				So(cfg.Electrodes.Filename, ShouldEqual, files.Electrodes)
				So(cfg.VolumeConductor.Tensors.Filename, ShouldEqual, files.Conductivities)
				So(cfg.AnalyticSolution.Radii, ShouldResemble, []float64{0.092, 0.086, 0.080, 0.078})
			})

			Convey("Then the electrode cap sits on the outer surface", func() {
				points, err := fileio.ReadPoints(files.Electrodes)
				So(err, ShouldBeNil)
				So(points, ShouldHaveLength, modelgen.DefaultElectrodes)
				for _, p := range points {
					So(p.Norm(), ShouldAlmostEqual, 0.092, 1e-12)
				}
			})

			Convey("Then the dipole lies inside the innermost layer", func() {
				dipoles, err := fileio.ReadDipoles(files.Dipoles)
				So(err, ShouldBeNil)
				So(dipoles, ShouldHaveLength, 1)
				So(dipoles[0].Position.Norm(), ShouldBeLessThan, 0.078)
				So(dipoles[0].Moment.Norm(), ShouldBeGreaterThan, 0)
			})

			Convey("Then the conductivity file carries one four-layer row", func() {
				tensors, err := fileio.ReadLayerVectors(files.Conductivities)
				So(err, ShouldBeNil)
				So(tensors, ShouldHaveLength, 1)
				So(tensors[0][0], ShouldAlmostEqual, 0.43)
			})
		})

		Convey("When a small custom cap is requested", func() {
			files, err := modelgen.Generate(modelgen.Params{Dir: dir, Electrodes: 7, Eccentricity: 0.9})
			So(err, ShouldBeNil)

			points, err := fileio.ReadPoints(files.Electrodes)
			So(err, ShouldBeNil)
			So(points, ShouldHaveLength, 7)

			Convey("Then neighboring electrodes do not coincide", func() {
				for i := range points {
					for j := i + 1; j < len(points); j++ {
						So(points[i].Sub(points[j]).Norm(), ShouldBeGreaterThan, 1e-6)
					}
				}
			})

			Convey("And the dipole respects the eccentricity", func() {
				dipoles, err := fileio.ReadDipoles(files.Dipoles)
				So(err, ShouldBeNil)
				So(dipoles[0].Position[2], ShouldAlmostEqual, 0.9*0.078, 1e-12)
				So(math.Abs(dipoles[0].Position[0]), ShouldBeLessThan, 1e-15)
			})
		})

		Convey("When the parameters are invalid", func() {
			_, err := modelgen.Generate(modelgen.Params{})
			So(err, ShouldWrap, modelgen.ErrBadParams)

			_, err = modelgen.Generate(modelgen.Params{Dir: dir, Electrodes: 2})
			So(err, ShouldWrap, modelgen.ErrBadParams)

			_, err = modelgen.Generate(modelgen.Params{Dir: dir, Eccentricity: 1.5})
			So(err, ShouldWrap, modelgen.ErrBadParams)
		})
	})
}
