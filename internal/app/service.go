// Package app wires the comparison pipeline end to end: build the
// forward driver, solve for the active dipole, project onto the
// electrode set, compute the analytic reference, normalize both
// potential vectors and report the discrepancy metrics, with an
// optional visualization export after the report.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MalteHoel/duneuro-forward-test/internal/adapters/fileio"
	"github.com/MalteHoel/duneuro-forward-test/internal/adapters/vtk"
	"github.com/MalteHoel/duneuro-forward-test/internal/analytic"
	"github.com/MalteHoel/duneuro-forward-test/internal/config"
	"github.com/MalteHoel/duneuro-forward-test/internal/domain/compare"
	"github.com/MalteHoel/duneuro-forward-test/internal/domain/geometry"
	"github.com/MalteHoel/duneuro-forward-test/internal/domain/model"
	"github.com/MalteHoel/duneuro-forward-test/internal/solver"
	"github.com/MalteHoel/duneuro-forward-test/pkg/logger"
	"github.com/MalteHoel/duneuro-forward-test/pkg/metrics"
)

// Service runs the comparison pipeline. Both collaborators are
// injectable so the pipeline can be exercised against fakes.
type Service struct {
	cfg    *config.Config
	log    logger.Logger
	driver solver.Driver
	engine analytic.Engine
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(lg logger.Logger) Option {
	return func(s *Service) {
		if lg != nil {
			s.log = lg
		}
	}
}

// WithDriver injects a forward driver, bypassing the factory.
func WithDriver(d solver.Driver) Option {
	return func(s *Service) {
		if d != nil {
			s.driver = d
		}
	}
}

// WithEngine injects an analytic engine.
func WithEngine(e analytic.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// New constructs a Service for one configuration.
func New(cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		cfg:    cfg,
		engine: analytic.NewSeriesEngine(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes the pipeline once. On success the returned report holds
// the five comparison values; any stage failure before the comparison
// aborts the whole run. Export failures after the comparison are
// logged but do not invalidate the already-computed report.
func (s *Service) Run(ctx context.Context) (model.Report, error) {
	if s.log == nil {
		s.log = logger.Get()
	}
	report, err := s.run(ctx)
	if err != nil {
		metrics.RecordRun(metrics.OutcomeFailure)
		return model.Report{}, err
	}
	metrics.RecordRun(metrics.OutcomeSuccess)
	return report, nil
}

func (s *Service) run(ctx context.Context) (model.Report, error) {
	runID := uuid.NewString()
	lg := s.log
	rid := logger.String("run_id", runID)

	// Build the forward driver.
	lg.Info(ctx, "creating driver", rid)
	stop := stageTimer("build_driver")
	driver := s.driver
	if driver == nil {
		var err error
		driver, err = solver.MakeDriver(s.cfg.SolverConfig())
		if err != nil {
			return model.Report{}, fmt.Errorf("building driver: %w", err)
		}
	}
	stop()

	// Read dipoles and select the active one. Extra entries are a
	// batch-mode hook, not an error.
	lg.Info(ctx, "reading dipoles", rid, logger.String("file", s.cfg.Dipole.Filename))
	dipoles, err := fileio.ReadDipoles(s.cfg.Dipole.Filename)
	if err != nil {
		return model.Report{}, fmt.Errorf("reading dipoles: %w", err)
	}
	if len(dipoles) == 0 {
		return model.Report{}, fmt.Errorf("selecting dipole: %w: %s", ErrNoDipoles, s.cfg.Dipole.Filename)
	}
	if len(dipoles) > 1 {
		lg.Warn(ctx, "dipole file has multiple entries, using the first", rid, logger.Int("entries", len(dipoles)))
	}
	dipole := dipoles[0]

	// Solve the forward problem numerically.
	lg.Info(ctx, "solving EEG forward problem numerically", rid)
	field := driver.MakeDomainFunction()
	solveStart := time.Now()
	if err := driver.SolveEEGForward(ctx, dipole, field); err != nil {
		return model.Report{}, fmt.Errorf("solving EEG forward problem: %w", err)
	}
	metrics.ObserveSolve(time.Since(solveStart))

	// Project the domain field onto the electrode set.
	lg.Info(ctx, "evaluating at electrodes", rid, logger.String("file", s.cfg.Electrodes.Filename))
	stop = stageTimer("evaluate_electrodes")
	electrodes, err := fileio.ReadPoints(s.cfg.Electrodes.Filename)
	if err != nil {
		return model.Report{}, fmt.Errorf("reading electrodes: %w", err)
	}
	if len(electrodes) == 0 {
		return model.Report{}, fmt.Errorf("reading electrodes: %w: %s", ErrNoElectrodes, s.cfg.Electrodes.Filename)
	}
	metrics.SetElectrodeCount(len(electrodes))
	if err := driver.SetElectrodes(electrodes, s.cfg.Electrodes.Projection); err != nil {
		return model.Report{}, fmt.Errorf("configuring electrodes: %w", err)
	}
	numericalRaw, err := driver.EvaluateAtElectrodes(field)
	if err != nil {
		return model.Report{}, fmt.Errorf("evaluating at electrodes: %w", err)
	}
	numerical, err := compare.SubtractMean(numericalRaw)
	if err != nil {
		return model.Report{}, fmt.Errorf("normalizing numerical solution: %w", err)
	}
	stop()

	// Compute the analytic reference on the same electrode set.
	lg.Info(ctx, "computing analytical solution", rid)
	stop = stageTimer("analytic_solution")
	sphere, err := s.sphereModel()
	if err != nil {
		return model.Report{}, err
	}
	analyticalRaw, err := s.engine.Solve(ctx, sphere, dipole, electrodes)
	if err != nil {
		return model.Report{}, fmt.Errorf("computing analytical solution: %w", err)
	}
	analytical, err := compare.SubtractMean(analyticalRaw)
	if err != nil {
		return model.Report{}, fmt.Errorf("normalizing analytical solution: %w", err)
	}
	stop()

	// Compare.
	stop = stageTimer("compare")
	result, err := compare.Compare(numerical, analytical)
	if err != nil {
		return model.Report{}, fmt.Errorf("comparing solutions: %w", err)
	}
	stop()
	metrics.SetComparison(result.NormAnalytical, result.NormNumerical, result.RelativeError, result.MAG, result.RDM)

	report := model.Report{
		RunID:          runID,
		Electrodes:     len(electrodes),
		NormAnalytical: result.NormAnalytical,
		NormNumerical:  result.NormNumerical,
		RelativeError:  result.RelativeError,
		MAG:            result.MAG,
		RDM:            result.RDM,
	}
	lg.Info(ctx, "comparison finished", rid,
		logger.Int("electrodes", report.Electrodes),
		logger.Float64("relative_error", report.RelativeError),
		logger.Float64("mag", report.MAG),
		logger.Float64("rdm", report.RDM),
	)

	// Report first, export second: a failed export never invalidates
	// the metrics above.
	if s.cfg.Output.Write {
		stop = stageTimer("export")
		if err := s.export(driver, field, dipole, electrodes, analytical, numerical); err != nil {
			lg.Warn(ctx, "visualization export failed", rid, logger.Error(err))
		}
		stop()
	}

	return report, nil
}

// sphereModel assembles the analytic engine's geometry from the
// configuration and the tensor file, converting to the fixed-size
// representations.
func (s *Service) sphereModel() (model.SphereModel, error) {
	tensors, err := fileio.ReadLayerVectors(s.cfg.VolumeConductor.Tensors.Filename)
	if err != nil {
		return model.SphereModel{}, fmt.Errorf("reading conductivities: %w", err)
	}
	if len(tensors) == 0 {
		return model.SphereModel{}, fmt.Errorf("reading conductivities: %w: %s", ErrNoConductivities, s.cfg.VolumeConductor.Tensors.Filename)
	}
	radii, err := geometry.ToVec4(s.cfg.AnalyticSolution.Radii)
	if err != nil {
		return model.SphereModel{}, fmt.Errorf("converting radii: %w", err)
	}
	center, err := geometry.ToVec3(s.cfg.AnalyticSolution.Center)
	if err != nil {
		return model.SphereModel{}, fmt.Errorf("converting center: %w", err)
	}
	return model.SphereModel{
		Radii:          radii,
		Center:         center,
		Conductivities: tensors[0],
	}, nil
}

// export writes the volume field, the dipole marker and the annotated
// electrode potentials.
func (s *Service) export(driver solver.Driver, field solver.Field, dipole model.Dipole, electrodes []geometry.Vec3, analytical, numerical []float64) error {
	volumeWriter, err := driver.VolumeWriter()
	if err != nil {
		return fmt.Errorf("creating volume writer: %w", err)
	}
	volumeWriter.AddVertexData(field, "potential")
	volumeWriter.AddGradientData(field, "gradient")
	if err := volumeWriter.Write(s.cfg.Output.FilenameVolume); err != nil {
		return fmt.Errorf("writing volume: %w", err)
	}

	dipoleWriter := vtk.NewPointWriter("dipole", []geometry.Vec3{dipole.Position})
	if err := dipoleWriter.Write(s.cfg.Output.FilenameDipole); err != nil {
		return fmt.Errorf("writing dipole: %w", err)
	}

	electrodeWriter := vtk.NewPointWriter("electrode potentials", electrodes)
	if err := electrodeWriter.AddScalarData("potential_analytical", analytical); err != nil {
		return fmt.Errorf("annotating electrodes: %w", err)
	}
	if err := electrodeWriter.AddScalarData("potential_numerical", numerical); err != nil {
		return fmt.Errorf("annotating electrodes: %w", err)
	}
	if err := electrodeWriter.Write(s.cfg.Output.FilenameElectrodePotentials); err != nil {
		return fmt.Errorf("writing electrode potentials: %w", err)
	}
	return nil
}

// stageTimer records the duration of one pipeline stage on call of the
// returned func.
func stageTimer(stage string) func() {
	start := time.Now()
	return func() {
		metrics.ObserveStage(stage, time.Since(start))
	}
}
