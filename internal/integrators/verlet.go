package integrators

import (
	"context"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Verlet is velocity Verlet (kick, drift, kick). The closing half kick needs
// forces at the new positions, so every step costs one extra force pass on
// the attached engine.
type Verlet struct {
	forces  dynamo.ForceEngine
	scratch dynamo.Forces
}

func NewVerlet(forces dynamo.ForceEngine) *Verlet {
	return &Verlet{forces: forces}
}

func (v *Verlet) Name() string { return "verlet" }

func (v *Verlet) ensureScratch(n int) {
	if len(v.scratch) != n {
		v.scratch = make(dynamo.Forces, n)
	}
}

func (v *Verlet) Step(bodies dynamo.Bodies, acc dynamo.Forces, dt float64) {
	v.ensureScratch(len(bodies))
	halfDt := 0.5 * dt

	for i := range bodies {
		b := &bodies[i]
		f := acc[i]

		b.VX += f.X / b.Mass * halfDt
		b.VY += f.Y / b.Mass * halfDt
		b.VZ += f.Z / b.Mass * halfDt

		b.X += b.VX * dt
		b.Y += b.VY * dt
		b.Z += b.VZ * dt
	}

	// scratch is sized to bodies, so only cancellation could fail and the
	// background context never cancels.
	_ = v.forces.Forces(context.Background(), bodies, v.scratch)

	for i := range bodies {
		b := &bodies[i]
		f := v.scratch[i]

		b.VX += f.X / b.Mass * halfDt
		b.VY += f.Y / b.Mass * halfDt
		b.VZ += f.Z / b.Mass * halfDt
	}
}
