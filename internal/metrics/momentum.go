package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

// MomentumDrift reports the largest change of total linear momentum seen at
// a checkpoint, relative to the sum of |m v| at the first checkpoint. Pair
// forces cancel exactly, so this stays at rounding level.
type MomentumDrift struct {
	name    string
	grav    *physics.Gravity
	initial dynamo.Vec3
	scale   float64
	max     float64
	samples int
}

func NewMomentumDrift(grav *physics.Gravity) *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift", grav: grav}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(cp dynamo.Checkpoint, bodies dynamo.Bodies) {
	p := m.grav.Momentum(bodies)
	if m.samples == 0 {
		m.initial = p
		m.scale = 0
		for _, b := range bodies {
			m.scale += b.Mass * b.Vel().Norm()
		}
	}
	m.samples++

	if m.scale == 0 {
		return
	}
	m.max = math.Max(m.max, p.Sub(m.initial).Norm()/m.scale)
}

func (m *MomentumDrift) Value() float64 { return m.max }

func (m *MomentumDrift) Reset() {
	m.initial = dynamo.Vec3{}
	m.scale = 0
	m.max = 0
	m.samples = 0
}
