package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/gravsim/internal/compute"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
	"go.uber.org/zap"
)

// Experiment binds a file-level configuration to a ready simulator.
type Experiment struct {
	cfg      *config.Config
	registry *Registry
	logger   *zap.Logger

	grav      *physics.Gravity
	simulator *sim.Simulator
	initial   dynamo.Bodies
}

func New(cfg *config.Config, registry *Registry, logger *zap.Logger) *Experiment {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Experiment{
		cfg:      cfg,
		registry: registry,
		logger:   logger,
	}
}

// Setup builds the bodies (from the scenario unless initial is non-nil), the
// force engine, the integrator and the default metrics, and loads the
// simulator.
func (e *Experiment) Setup(initial dynamo.Bodies) error {
	if initial != nil {
		e.cfg.Bodies = len(initial)
	}
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	bodies := initial
	if bodies == nil {
		build, err := e.registry.GetScenario(e.cfg.Scenario)
		if err != nil {
			return err
		}
		bodies = build(e.cfg.Bodies, e.cfg.Seed)
		e.cfg.Bodies = len(bodies)
	}

	simCfg := e.cfg.SimConfig()
	e.grav = physics.NewGravity(simCfg.Params).WithBackend(compute.NewCPUBackend(simCfg.Workers))

	integ, err := e.registry.GetIntegrator(e.cfg.Integrator, e.grav)
	if err != nil {
		return err
	}
	e.simulator = sim.New(e.grav, integ, sim.WithLogger(e.logger))
	for _, m := range e.registry.DefaultMetrics(e.grav) {
		e.simulator.AddMetric(m)
	}

	if err := e.simulator.Load(bodies, simCfg); err != nil {
		return err
	}
	e.initial = bodies.Clone()

	e.logger.Info("experiment ready",
		zap.String("scenario", e.cfg.Scenario),
		zap.Int("bodies", len(bodies)),
		zap.String("backend", e.grav.Backend().Name()),
	)
	return nil
}

func (e *Experiment) AddObserver(o dynamo.Observer) {
	e.simulator.AddObserver(o)
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx)
}

func (e *Experiment) Config() *config.Config       { return e.cfg }
func (e *Experiment) Gravity() *physics.Gravity    { return e.grav }
func (e *Experiment) Simulator() *sim.Simulator    { return e.simulator }
func (e *Experiment) InitialBodies() dynamo.Bodies { return e.initial }
