package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/gravsim/internal/compute"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/physics"
	"go.uber.org/zap"
)

type Option func(*Simulator)

func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// Simulator drives the step loop over an exclusively owned body store.
// It is not safe for concurrent use.
type Simulator struct {
	forces     dynamo.ForceEngine
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	logger     *zap.Logger

	phase  Phase
	cfg    dynamo.Config
	bodies dynamo.Bodies
	acc    dynamo.Forces
}

func New(forces dynamo.ForceEngine, integrator dynamo.Integrator, opts ...Option) *Simulator {
	s := &Simulator{
		forces:     forces,
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Phase() Phase          { return s.phase }
func (s *Simulator) Config() dynamo.Config { return s.cfg }

// Load validates cfg for the given bodies and copies them into the store.
// On success the simulator is Ready; on failure it keeps its previous phase
// and nothing has been simulated.
func (s *Simulator) Load(bodies dynamo.Bodies, cfg dynamo.Config) error {
	if err := cfg.Validate(len(bodies)); err != nil {
		return err
	}

	s.cfg = cfg
	s.bodies = bodies.Clone()
	s.acc = make(dynamo.Forces, len(bodies))
	s.phase = Ready

	s.logger.Debug("bodies loaded",
		zap.Int("bodies", len(bodies)),
		zap.Int("steps", cfg.Steps),
		zap.Float64("dt", cfg.Dt),
		zap.String("integrator", s.integrator.Name()),
	)
	return nil
}

// Run executes exactly cfg.Steps iterations of force pass then integrator
// pass. Energy is sampled before the first step, after the last step and
// every cfg.CheckpointEvery steps in between.
func (s *Simulator) Run(ctx context.Context) (*dynamo.Result, error) {
	if s.phase != Ready {
		return nil, fmt.Errorf("%w: phase %s", dynamo.ErrNotReady, s.phase)
	}
	s.phase = Running

	for _, m := range s.metrics {
		m.Reset()
	}

	steps := s.cfg.Steps
	dt := s.cfg.Dt
	pairs := compute.PairCount(len(s.bodies))

	result := &dynamo.Result{
		Checkpoints: make([]dynamo.Checkpoint, 0, s.expectedCheckpoints()),
		Metrics:     make(map[string]float64),
	}

	start := time.Now()
	s.checkpoint(result, 0, 0)

	t := 0.0
	for step := 1; step <= steps; step++ {
		if err := ctx.Err(); err != nil {
			return s.abort(result, start, t, err)
		}

		if err := Advance(ctx, s.forces, s.integrator, s.bodies, s.acc, dt); err != nil {
			return s.abort(result, start, t, err)
		}

		t = float64(step) * dt
		result.StepsTaken = step
		result.PairEvaluations += pairs

		for _, obs := range s.observers {
			obs.OnStep(step, t, s.bodies)
		}

		if k := s.cfg.CheckpointEvery; k > 0 && step%k == 0 && step != steps {
			s.checkpoint(result, step, t)
		}
	}

	s.checkpoint(result, steps, t)
	s.finish(result, start, t)
	s.phase = Completed

	s.logger.Info("simulation completed",
		zap.Int("steps", result.StepsTaken),
		zap.Duration("elapsed", result.Elapsed),
		zap.Float64("energy_initial", result.Initial.Total),
		zap.Float64("energy_final", result.Final.Total),
	)

	return result, nil
}

// Advance performs one step: a force pass over the current state followed by
// an integrator pass that mutates bodies in place.
func Advance(ctx context.Context, forces dynamo.ForceEngine, integ dynamo.Integrator, bodies dynamo.Bodies, acc dynamo.Forces, dt float64) error {
	if err := forces.Forces(ctx, bodies, acc); err != nil {
		return err
	}
	integ.Step(bodies, acc, dt)
	return nil
}

// Simulate runs bodies under cfg with the Newtonian force engine and the
// symplectic Euler integrator.
func Simulate(ctx context.Context, bodies dynamo.Bodies, cfg dynamo.Config, opts ...Option) (*dynamo.Result, error) {
	grav := physics.NewGravity(cfg.Params).WithBackend(compute.NewCPUBackend(cfg.Workers))
	s := New(grav, integrators.NewSymplecticEuler(), opts...)
	if err := s.Load(bodies, cfg); err != nil {
		return nil, err
	}
	return s.Run(ctx)
}

func (s *Simulator) checkpoint(result *dynamo.Result, step int, t float64) {
	h, ok := s.forces.(dynamo.Hamiltonian)
	if !ok {
		return
	}

	cp := dynamo.Checkpoint{Step: step, Time: t, Energy: h.Energy(s.bodies)}
	result.Checkpoints = append(result.Checkpoints, cp)

	for _, m := range s.metrics {
		m.Observe(cp, s.bodies)
	}
}

func (s *Simulator) finish(result *dynamo.Result, start time.Time, t float64) {
	result.Bodies = s.bodies.Clone()
	result.SimTime = t
	result.Elapsed = time.Since(start)

	if len(result.Checkpoints) > 0 {
		result.Initial = result.Checkpoints[0].Energy
		result.Final = result.Checkpoints[len(result.Checkpoints)-1].Energy
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) abort(result *dynamo.Result, start time.Time, t float64, err error) (*dynamo.Result, error) {
	if n := len(result.Checkpoints); n == 0 || result.Checkpoints[n-1].Step != result.StepsTaken {
		s.checkpoint(result, result.StepsTaken, t)
	}
	s.finish(result, start, t)
	s.phase = Aborted

	s.logger.Warn("simulation aborted",
		zap.Int("step", result.StepsTaken),
		zap.Error(err),
	)

	return result, &dynamo.SimulationError{Step: result.StepsTaken, Time: t, Wrapped: err}
}

func (s *Simulator) expectedCheckpoints() int {
	n := 2
	if k := s.cfg.CheckpointEvery; k > 0 {
		n += s.cfg.Steps / k
	}
	return n
}
