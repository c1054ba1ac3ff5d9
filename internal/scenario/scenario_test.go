package scenario

import (
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
)

func TestSolarSystem(t *testing.T) {
	bodies := SolarSystem(100, DefaultSeed)

	if len(bodies) != 100 {
		t.Fatalf("expected 100 bodies, got %d", len(bodies))
	}
	if bodies[0] != (dynamo.Body{Mass: SolarMass}) {
		t.Errorf("expected central body at rest at origin, got %+v", bodies[0])
	}
	if !bodies.IsValid() {
		t.Fatal("generated bodies are invalid")
	}

	for i, b := range bodies[1:] {
		r := b.Pos().Norm()
		if r < AU*(1-1e-9) || r > 50*AU*(1+1e-9) {
			t.Errorf("body %d: radius %.3f AU outside [1, 50]", i+1, r/AU)
		}
		if b.Mass < 1e20 || b.Mass > 1e24 {
			t.Errorf("body %d: mass %e outside [1e20, 1e24]", i+1, b.Mass)
		}
		if b.VZ != 0 {
			t.Errorf("body %d: expected no z velocity, got %f", i+1, b.VZ)
		}
		want := math.Sqrt(dynamo.G * SolarMass / r)
		if got := b.Vel().Norm(); math.Abs(got-want)/want > 1e-9 {
			t.Errorf("body %d: speed %f, expected circular speed %f", i+1, got, want)
		}
	}
}

func TestSolarSystemDeterministic(t *testing.T) {
	a := SolarSystem(50, 7)
	b := SolarSystem(50, 7)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("body %d differs between runs with the same seed", i)
		}
	}

	c := SolarSystem(50, 8)
	if a[1] == c[1] {
		t.Error("expected different seeds to produce different bodies")
	}
}

func TestSolarSystemEdgeSizes(t *testing.T) {
	if got := SolarSystem(0, DefaultSeed); len(got) != 0 {
		t.Errorf("expected empty system, got %d bodies", len(got))
	}
	if got := SolarSystem(1, DefaultSeed); len(got) != 1 || got[0].Mass != SolarMass {
		t.Errorf("expected lone central body, got %+v", got)
	}
}

func TestEarthSun(t *testing.T) {
	bodies := EarthSun()
	if len(bodies) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(bodies))
	}
	if bodies[1].X != AU || bodies[1].VY != EarthOrbitalSpeed || bodies[1].Mass != EarthMass {
		t.Errorf("unexpected earth %+v", bodies[1])
	}
}

func TestBinary(t *testing.T) {
	m1, m2 := SolarMass, 0.5*SolarMass
	bodies := Binary(m1, m2, AU)

	var com, p dynamo.Vec3
	for _, b := range bodies {
		com = com.Add(b.Pos().Scale(b.Mass))
		p = p.Add(b.Vel().Scale(b.Mass))
	}
	if math.Abs(com.X)/(m1*AU) > 1e-12 {
		t.Errorf("expected center of mass at origin, got %v", com.Scale(1/(m1+m2)))
	}
	if p.Norm()/(m1*bodies[0].Vel().Norm()) > 1e-12 {
		t.Errorf("expected zero total momentum, got %v", p)
	}

	sep := bodies[1].Pos().Sub(bodies[0].Pos()).Norm()
	if math.Abs(sep-AU)/AU > 1e-12 {
		t.Errorf("expected separation 1 AU, got %e", sep)
	}
}

func TestOrbitalPeriod(t *testing.T) {
	period := OrbitalPeriod(SolarMass, EarthMass, AU) / Day
	if math.Abs(period-365.25) > 1 {
		t.Errorf("expected a period near one year, got %.2f days", period)
	}
}
