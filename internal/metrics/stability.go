package metrics

import (
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

// Stability is the fraction of checkpoints at which every body stays within
// radius meters of the center of mass.
type Stability struct {
	name       string
	grav       *physics.Gravity
	radius     float64
	violations int
	samples    int
}

func NewStability(grav *physics.Gravity, radius float64) *Stability {
	return &Stability{
		name:   "stability",
		grav:   grav,
		radius: radius,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(cp dynamo.Checkpoint, bodies dynamo.Bodies) {
	s.samples++
	com := s.grav.CenterOfMass(bodies)
	r2 := s.radius * s.radius
	for _, b := range bodies {
		if b.Pos().Sub(com).Norm2() > r2 {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
