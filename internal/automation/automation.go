package automation

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/compute"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Plan is a scripted sequence of runs.
type Plan struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Runs        []PlanStep `yaml:"runs"`
}

// PlanStep starts from a preset of its scenario (or the defaults) and
// overrides every non-zero field.
type PlanStep struct {
	Name            string  `yaml:"name"`
	Scenario        string  `yaml:"scenario"`
	Preset          string  `yaml:"preset"`
	Bodies          int     `yaml:"bodies"`
	Steps           int     `yaml:"steps"`
	Dt              float64 `yaml:"dt"`
	Seed            int64   `yaml:"seed"`
	Integrator      string  `yaml:"integrator"`
	Softening       float64 `yaml:"softening"`
	Workers         int     `yaml:"workers"`
	CheckpointEvery int     `yaml:"checkpoint_every"`
	SnapshotEvery   int     `yaml:"snapshot_every"`
}

func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(plan.Runs) == 0 {
		return nil, fmt.Errorf("plan %s has no runs", path)
	}
	return &plan, nil
}

// Config resolves the step against base, which supplies logging and any
// scenario left unset.
func (s PlanStep) Config(base *config.Config) (*config.Config, error) {
	scenario := s.Scenario
	if scenario == "" {
		scenario = base.Scenario
	}

	cfg := config.DefaultConfig()
	if s.Preset != "" {
		if cfg = config.GetPreset(scenario, s.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset %s for scenario %s", s.Preset, scenario)
		}
	}
	cfg.Scenario = scenario
	cfg.Logging = base.Logging

	if s.Bodies != 0 {
		cfg.Bodies = s.Bodies
	}
	if s.Steps != 0 {
		cfg.Steps = s.Steps
	}
	if s.Dt != 0 {
		cfg.Dt = s.Dt
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Softening != 0 {
		cfg.Softening = s.Softening
	}
	if s.Workers != 0 {
		cfg.Workers = s.Workers
	}
	if s.CheckpointEvery != 0 {
		cfg.CheckpointEvery = s.CheckpointEvery
	}
	if s.SnapshotEvery != 0 {
		cfg.SnapshotEvery = s.SnapshotEvery
	}
	return cfg, nil
}

type BatchResult struct {
	Name   string
	RunID  string
	Config *config.Config
	Result *dynamo.Result
}

// RunPlan executes the steps in order and saves each run to st. It stops at
// the first failing step and returns the runs completed so far.
func RunPlan(ctx context.Context, plan *Plan, base *config.Config, registry *experiment.Registry, st *storage.Store, logger *zap.Logger) ([]BatchResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	results := make([]BatchResult, 0, len(plan.Runs))

	for i, step := range plan.Runs {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}

		cfg, err := step.Config(base)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, name, err)
		}

		exp := experiment.New(cfg, registry, logger.With(zap.String("step", name)))
		if err := exp.Setup(nil); err != nil {
			return results, fmt.Errorf("step %d (%s) setup: %w", i+1, name, err)
		}

		var rec *storage.Recorder
		if cfg.SnapshotEvery > 0 {
			rec = storage.NewRecorder(cfg.SnapshotEvery, storage.DefaultSnapshotBodies)
			rec.Record(0, 0, exp.InitialBodies())
			exp.AddObserver(rec)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d (%s) run: %w", i+1, name, err)
		}

		runID, err := st.Save(storage.RunMetadata{
			Scenario:       cfg.Scenario,
			Seed:           cfg.Seed,
			Steps:          cfg.Steps,
			Dt:             cfg.Dt,
			Softening:      cfg.Softening,
			Integrator:     cfg.Integrator,
			Backend:        exp.Gravity().Backend().Name(),
			EnergyDriftPct: metrics.DriftPercent(result.Initial, result.Final),
		}, result, rec)
		if err != nil {
			return results, fmt.Errorf("step %d (%s) save: %w", i+1, name, err)
		}

		logger.Info("plan step complete",
			zap.String("plan", plan.Name),
			zap.String("step", name),
			zap.String("run_id", runID),
			zap.Int("steps", result.StepsTaken),
		)
		results = append(results, BatchResult{Name: name, RunID: runID, Config: cfg, Result: result})
	}

	return results, nil
}

// Sweep runs every integrator at every timestep from the same initial
// bodies. The simulated span of base (Steps * Dt) is held fixed, so smaller
// timesteps take proportionally more steps.
type Sweep struct {
	Base        *config.Config
	Integrators []string
	Dts         []float64
}

type SweepPoint struct {
	Integrator  string
	Dt          float64
	Steps       int
	DriftPct    float64
	MaxDriftPct float64
	RelStdDev   float64
	Elapsed     float64
}

// RunSweep returns one point per integrator and timestep, integrators
// outermost, in the order given.
func RunSweep(ctx context.Context, sweep *Sweep, registry *experiment.Registry, logger *zap.Logger) ([]SweepPoint, error) {
	if len(sweep.Integrators) == 0 || len(sweep.Dts) == 0 {
		return nil, fmt.Errorf("%w: sweep needs at least one integrator and one timestep", dynamo.ErrConfiguration)
	}
	if err := sweep.Base.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	build, err := registry.GetScenario(sweep.Base.Scenario)
	if err != nil {
		return nil, err
	}
	bodies := build(sweep.Base.Bodies, sweep.Base.Seed)
	span := float64(sweep.Base.Steps) * sweep.Base.Dt

	jobs := make([]sim.Job, 0, len(sweep.Integrators)*len(sweep.Dts))
	points := make([]SweepPoint, 0, cap(jobs))
	for _, name := range sweep.Integrators {
		for _, dt := range sweep.Dts {
			simCfg := sweep.Base.SimConfig()
			simCfg.Dt = dt
			simCfg.Steps = int(math.Round(span / dt))
			if err := simCfg.Validate(len(bodies)); err != nil {
				return nil, err
			}

			grav := physics.NewGravity(simCfg.Params).WithBackend(compute.NewCPUBackend(simCfg.Workers))
			integ, err := registry.GetIntegrator(name, grav)
			if err != nil {
				return nil, err
			}

			jobs = append(jobs, sim.Job{
				Name:       fmt.Sprintf("%s/%g", name, dt),
				Forces:     grav,
				Integrator: integ,
				Bodies:     bodies,
				Config:     simCfg,
			})
			points = append(points, SweepPoint{Integrator: name, Dt: dt, Steps: simCfg.Steps})
		}
	}

	logger.Info("sweep started",
		zap.String("scenario", sweep.Base.Scenario),
		zap.Int("bodies", len(bodies)),
		zap.Int("runs", len(jobs)),
	)

	results, err := sim.NewEnsemble(jobs, sim.WithLogger(logger)).Run(ctx)
	if err != nil {
		return nil, err
	}

	for i, res := range results {
		stats := analysis.EnergyStats(res.Checkpoints)
		points[i].DriftPct = metrics.DriftPercent(res.Initial, res.Final)
		points[i].MaxDriftPct = stats.MaxDriftPct
		points[i].RelStdDev = stats.RelStdDev
		points[i].Elapsed = res.Elapsed.Seconds()
	}
	return points, nil
}
