package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/scenario"
)

// ScenarioFunc builds initial conditions. Fixed-size scenarios ignore n.
type ScenarioFunc func(n int, seed int64) dynamo.Bodies

// StabilityRadius bounds the stability metric, in meters.
const StabilityRadius = 1000 * scenario.AU

type Registry struct {
	scenarios   map[string]ScenarioFunc
	integrators map[string]IntegratorFunc
}

// IntegratorFunc builds an integrator. Schemes that re-evaluate forces
// mid-step use the given engine.
type IntegratorFunc func(forces dynamo.ForceEngine) dynamo.Integrator

func NewRegistry() *Registry {
	r := &Registry{
		scenarios:   make(map[string]ScenarioFunc),
		integrators: make(map[string]IntegratorFunc),
	}

	r.scenarios["solar"] = scenario.SolarSystem
	r.scenarios["earth_sun"] = func(int, int64) dynamo.Bodies { return scenario.EarthSun() }
	r.scenarios["binary"] = func(int, int64) dynamo.Bodies {
		return scenario.Binary(scenario.SolarMass, scenario.SolarMass, scenario.AU)
	}

	r.integrators["symplectic"] = func(dynamo.ForceEngine) dynamo.Integrator { return integrators.NewSymplecticEuler() }
	r.integrators["euler"] = func(dynamo.ForceEngine) dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["verlet"] = func(f dynamo.ForceEngine) dynamo.Integrator { return integrators.NewVerlet(f) }

	return r
}

func (r *Registry) GetScenario(name string) (ScenarioFunc, error) {
	fn, ok := r.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s", name)
	}
	return fn, nil
}

func (r *Registry) GetIntegrator(name string, forces dynamo.ForceEngine) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(forces), nil
}

func (r *Registry) ListScenarios() []string {
	return sortedKeys(r.scenarios)
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func (r *Registry) DefaultMetrics(grav *physics.Gravity) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewEnergyDrift(),
		metrics.NewMomentumDrift(grav),
		metrics.NewStability(grav, StabilityRadius),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
