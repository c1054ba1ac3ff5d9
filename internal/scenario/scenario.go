// Package scenario generates initial conditions for the kernel.
package scenario

import (
	"math"
	"math/rand"

	"github.com/san-kum/gravsim/internal/dynamo"
)

const (
	AU        = 1.496e11
	SolarMass = 1.989e30
	EarthMass = 5.972e24
	Day       = 86400.0
	// EarthOrbitalSpeed is the mean orbital speed of the Earth in m/s.
	EarthOrbitalSpeed = 29780.0
)

// DefaultSeed keeps generated systems reproducible across runs.
const DefaultSeed = 42

// SolarSystem returns a central solar-mass body at rest at the origin and
// n-1 bodies scattered on spheres of 1 to 50 AU. Each orbiter moves at the
// circular speed around the central mass, perpendicular to its azimuth in
// the x/y plane, with a mass between 1e20 and 1e24 kg.
func SolarSystem(n int, seed int64) dynamo.Bodies {
	if n < 1 {
		return dynamo.Bodies{}
	}

	rng := rand.New(rand.NewSource(seed))
	bodies := make(dynamo.Bodies, 0, n)
	bodies = append(bodies, dynamo.Body{Mass: SolarMass})

	for i := 1; i < n; i++ {
		radius := uniform(rng, 1, 50) * AU
		theta := uniform(rng, 0, 2*math.Pi)
		phi := uniform(rng, 0, math.Pi)

		speed := math.Sqrt(dynamo.G * SolarMass / radius)

		bodies = append(bodies, dynamo.Body{
			X:    radius * math.Sin(phi) * math.Cos(theta),
			Y:    radius * math.Sin(phi) * math.Sin(theta),
			Z:    radius * math.Cos(phi),
			VX:   -speed * math.Sin(theta),
			VY:   speed * math.Cos(theta),
			Mass: uniform(rng, 1e20, 1e24),
		})
	}

	return bodies
}

// EarthSun returns the Sun at rest at the origin and the Earth at 1 AU on
// the x axis moving along +y.
func EarthSun() dynamo.Bodies {
	return dynamo.Bodies{
		{Mass: SolarMass},
		{X: AU, VY: EarthOrbitalSpeed, Mass: EarthMass},
	}
}

// Binary returns two bodies on a circular orbit about their common center
// of mass, which sits at rest at the origin.
func Binary(m1, m2, separation float64) dynamo.Bodies {
	total := m1 + m2
	speed := math.Sqrt(dynamo.G * total / separation)

	return dynamo.Bodies{
		{X: -m2 / total * separation, VY: -m2 / total * speed, Mass: m1},
		{X: m1 / total * separation, VY: m1 / total * speed, Mass: m2},
	}
}

// OrbitalPeriod returns the Keplerian period of a two-body circular orbit.
func OrbitalPeriod(m1, m2, separation float64) float64 {
	return 2 * math.Pi * math.Sqrt(separation*separation*separation/(dynamo.G*(m1+m2)))
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}
