package dynamo

import (
	"context"
	"math"
	"time"
)

// G is the Newtonian gravitational constant in m^3 kg^-1 s^-2.
const G = 6.67430e-11

// DefaultSoftening is the minimum pair separation in meters.
const DefaultSoftening = 1e6

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v.X * f, v.Y * f, v.Z * f}
}

func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Norm2() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Norm2())
}

func (v Vec3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Body is a point mass. Position in meters, velocity in m/s, mass in kg.
type Body struct {
	X, Y, Z    float64
	VX, VY, VZ float64
	Mass       float64
}

func (b Body) Pos() Vec3 { return Vec3{b.X, b.Y, b.Z} }
func (b Body) Vel() Vec3 { return Vec3{b.VX, b.VY, b.VZ} }

// Bodies is the ordered body store. N is fixed for the lifetime of a run.
type Bodies []Body

func (b Bodies) Clone() Bodies {
	c := make(Bodies, len(b))
	copy(c, b)
	return c
}

// IsValid reports whether every component is finite and every mass positive.
func (b Bodies) IsValid() bool {
	for _, body := range b {
		if !body.Pos().IsFinite() || !body.Vel().IsFinite() {
			return false
		}
		if !(body.Mass > 0) || math.IsInf(body.Mass, 0) {
			return false
		}
	}
	return true
}

// TotalMass returns the sum of all masses.
func (b Bodies) TotalMass() float64 {
	m := 0.0
	for _, body := range b {
		m += body.Mass
	}
	return m
}

// Forces is the per-step force accumulator in newtons.
type Forces []Vec3

func (f Forces) Reset() {
	for i := range f {
		f[i] = Vec3{}
	}
}

// Params are the physical parameters of the force law.
type Params struct {
	G         float64
	Softening float64
}

func DefaultParams() Params {
	return Params{G: G, Softening: DefaultSoftening}
}

type Config struct {
	Steps  int
	Dt     float64
	Params Params
	// Workers is the force pass parallelism; 0 selects runtime.NumCPU().
	Workers int
	// CheckpointEvery adds an energy checkpoint every k steps; 0 keeps only pre and post.
	CheckpointEvery int
}

func DefaultConfig() Config {
	return Config{
		Steps:   100,
		Dt:      86400,
		Params:  DefaultParams(),
		Workers: 1,
	}
}

// Validate checks the aggregate run parameters for n bodies.
func (c Config) Validate(n int) error {
	if n < 1 {
		return &ConfigError{Field: "bodies", Value: n, Reason: "must be at least 1"}
	}
	if c.Steps < 0 {
		return &ConfigError{Field: "steps", Value: c.Steps, Reason: "must be non-negative"}
	}
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return &ConfigError{Field: "dt", Value: c.Dt, Reason: "must be positive"}
	}
	if !(c.Params.G > 0) {
		return &ConfigError{Field: "g", Value: c.Params.G, Reason: "must be positive"}
	}
	if !(c.Params.Softening > 0) {
		return &ConfigError{Field: "softening", Value: c.Params.Softening, Reason: "must be positive"}
	}
	if c.Workers < 0 {
		return &ConfigError{Field: "workers", Value: c.Workers, Reason: "must be non-negative"}
	}
	if c.CheckpointEvery < 0 {
		return &ConfigError{Field: "checkpoint_every", Value: c.CheckpointEvery, Reason: "must be non-negative"}
	}
	return nil
}

type EnergySample struct {
	Kinetic   float64
	Potential float64
	Total     float64
}

type Checkpoint struct {
	Step   int
	Time   float64
	Energy EnergySample
}

type Result struct {
	Bodies          Bodies
	Initial         EnergySample
	Final           EnergySample
	Checkpoints     []Checkpoint
	StepsTaken      int
	SimTime         float64
	Elapsed         time.Duration
	PairEvaluations int64
	Metrics         map[string]float64
}

// ForceEngine fills acc with the net force on every body.
type ForceEngine interface {
	Forces(ctx context.Context, bodies Bodies, acc Forces) error
}

// Hamiltonian is implemented by force engines that can report system energy.
type Hamiltonian interface {
	Energy(bodies Bodies) EnergySample
}

type Integrator interface {
	Name() string
	Step(bodies Bodies, acc Forces, dt float64)
}

// Observer is notified after every completed step. Registering one puts it
// on the per-step path.
type Observer interface {
	OnStep(step int, t float64, bodies Bodies)
}

// Metric is evaluated at energy checkpoints only.
type Metric interface {
	Name() string
	Observe(cp Checkpoint, bodies Bodies)
	Value() float64
	Reset()
}
