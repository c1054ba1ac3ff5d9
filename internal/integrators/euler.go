package integrators

import "github.com/san-kum/gravsim/internal/dynamo"

// SymplecticEuler is the semi-implicit Euler scheme: every velocity is kicked
// by its force first, then every position drifts with the updated velocity.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (s *SymplecticEuler) Name() string { return "symplectic" }

func (s *SymplecticEuler) Step(bodies dynamo.Bodies, acc dynamo.Forces, dt float64) {
	for i := range bodies {
		b := &bodies[i]
		f := acc[i]

		b.VX += f.X / b.Mass * dt
		b.VY += f.Y / b.Mass * dt
		b.VZ += f.Z / b.Mass * dt
	}

	for i := range bodies {
		b := &bodies[i]

		b.X += b.VX * dt
		b.Y += b.VY * dt
		b.Z += b.VZ * dt
	}
}

// Euler is the explicit forward Euler scheme. Positions drift with the
// velocity from the start of the step. It is not symplectic and its energy
// error grows secularly; it exists for comparison runs.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(bodies dynamo.Bodies, acc dynamo.Forces, dt float64) {
	for i := range bodies {
		b := &bodies[i]
		f := acc[i]

		b.X += b.VX * dt
		b.Y += b.VY * dt
		b.Z += b.VZ * dt

		b.VX += f.X / b.Mass * dt
		b.VY += f.Y / b.Mass * dt
		b.VZ += f.Z / b.Mass * dt
	}
}
