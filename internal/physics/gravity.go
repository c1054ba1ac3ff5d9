package physics

import (
	"context"
	"math"

	"github.com/san-kum/gravsim/internal/compute"
	"github.com/san-kum/gravsim/internal/dynamo"
)

type Gravity struct {
	G         float64
	Softening float64
	backend   compute.Backend
}

// NewGravity returns a force engine running on the serial backend.
func NewGravity(p dynamo.Params) *Gravity {
	return &Gravity{
		G:         p.G,
		Softening: p.Softening,
		backend:   compute.NewSerialBackend(),
	}
}

// WithBackend replaces the execution backend and returns g.
func (g *Gravity) WithBackend(b compute.Backend) *Gravity {
	g.backend = b
	return g
}

func (g *Gravity) Backend() compute.Backend { return g.backend }

// separation returns the clamped distance and its square.
func (g *Gravity) separation(dx, dy, dz float64) (r, r2 float64) {
	r2 = dx*dx + dy*dy + dz*dz
	if rmin := g.Softening; r2 < rmin*rmin {
		return rmin, rmin * rmin
	}
	return math.Sqrt(r2), r2
}

// Pair returns the force exerted on bi by bj.
func (g *Gravity) Pair(bi, bj dynamo.Body) dynamo.Vec3 {
	dx := bj.X - bi.X
	dy := bj.Y - bi.Y
	dz := bj.Z - bi.Z

	r, r2 := g.separation(dx, dy, dz)
	f := g.G * bi.Mass * bj.Mass / r2

	return dynamo.Vec3{
		X: f * dx / r,
		Y: f * dy / r,
		Z: f * dz / r,
	}
}

// PairPotential returns the potential energy of the pair (bi, bj).
func (g *Gravity) PairPotential(bi, bj dynamo.Body) float64 {
	r, _ := g.separation(bj.X-bi.X, bj.Y-bi.Y, bj.Z-bi.Z)
	return -g.G * bi.Mass * bj.Mass / r
}

// AccumulateRow adds the contribution of every pair (i, j), j > i, to acc.
// acc[i] receives f and acc[j] receives exactly -f.
func (g *Gravity) AccumulateRow(bodies dynamo.Bodies, i int, acc dynamo.Forces) {
	bi := bodies[i]
	for j := i + 1; j < len(bodies); j++ {
		f := g.Pair(bi, bodies[j])
		acc[i] = acc[i].Add(f)
		acc[j] = acc[j].Sub(f)
	}
}

// Forces zeroes acc and fills it with the net force on every body.
func (g *Gravity) Forces(ctx context.Context, bodies dynamo.Bodies, acc dynamo.Forces) error {
	return g.backend.Forces(ctx, bodies, acc, g)
}

// Energy computes kinetic, potential and total energy of the system.
func (g *Gravity) Energy(bodies dynamo.Bodies) dynamo.EnergySample {
	n := len(bodies)
	ke := 0.0
	pe := 0.0

	for i := 0; i < n; i++ {
		b := bodies[i]
		ke += 0.5 * b.Mass * (b.VX*b.VX + b.VY*b.VY + b.VZ*b.VZ)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pe += g.PairPotential(bodies[i], bodies[j])
		}
	}

	return dynamo.EnergySample{Kinetic: ke, Potential: pe, Total: ke + pe}
}

func (g *Gravity) Momentum(bodies dynamo.Bodies) dynamo.Vec3 {
	var p dynamo.Vec3
	for _, b := range bodies {
		p = p.Add(b.Vel().Scale(b.Mass))
	}
	return p
}

func (g *Gravity) AngularMomentum(bodies dynamo.Bodies) dynamo.Vec3 {
	var l dynamo.Vec3
	for _, b := range bodies {
		l = l.Add(b.Pos().Cross(b.Vel()).Scale(b.Mass))
	}
	return l
}

// CenterOfMass returns the mass-weighted mean position.
func (g *Gravity) CenterOfMass(bodies dynamo.Bodies) dynamo.Vec3 {
	var c dynamo.Vec3
	m := 0.0
	for _, b := range bodies {
		c = c.Add(b.Pos().Scale(b.Mass))
		m += b.Mass
	}
	if m == 0 {
		return c
	}
	return c.Scale(1 / m)
}
