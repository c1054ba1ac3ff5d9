package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/scenario"
	"go.uber.org/zap/zaptest"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	scenarios := r.ListScenarios()
	want := []string{"binary", "earth_sun", "solar"}
	if len(scenarios) != len(want) {
		t.Fatalf("expected %v, got %v", want, scenarios)
	}
	for i := range want {
		if scenarios[i] != want[i] {
			t.Errorf("expected %v, got %v", want, scenarios)
		}
	}

	integs := r.ListIntegrators()
	if len(integs) != 3 || integs[2] != "verlet" {
		t.Errorf("unexpected integrators %v", integs)
	}

	if _, err := r.GetScenario("plummer"); err == nil {
		t.Error("expected error for unknown scenario")
	}
	if _, err := r.GetIntegrator("rk4", nil); err == nil {
		t.Error("expected error for unknown integrator")
	}
	for _, name := range integs {
		integ, err := r.GetIntegrator(name, nil)
		if err != nil {
			t.Fatal(err)
		}
		if integ.Name() != name {
			t.Errorf("integrator %s reports name %s", name, integ.Name())
		}
	}
}

func TestExperimentRun(t *testing.T) {
	cfg := config.GetPreset("earth_sun", "year")
	exp := New(cfg, NewRegistry(), zaptest.NewLogger(t))

	if err := exp.Setup(nil); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if cfg.Bodies != 2 {
		t.Errorf("expected body count synced to scenario, got %d", cfg.Bodies)
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.StepsTaken != 365 {
		t.Errorf("expected 365 steps, got %d", result.StepsTaken)
	}
	for _, name := range []string{"energy_drift_pct", "momentum_drift", "stability"} {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
	if exp.InitialBodies()[1] != scenario.EarthSun()[1] {
		t.Error("expected initial bodies to be retained")
	}
}

func TestExperimentInitialBodies(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Steps = 10
	initial := scenario.Binary(scenario.SolarMass, scenario.SolarMass, scenario.AU)

	exp := New(cfg, NewRegistry(), nil)
	if err := exp.Setup(initial); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if cfg.Bodies != 2 {
		t.Errorf("expected bodies from initial state, got %d", cfg.Bodies)
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Bodies) != 2 {
		t.Errorf("expected 2 bodies, got %d", len(result.Bodies))
	}
	if initial[0].X != -0.5*scenario.AU {
		t.Error("initial bodies were mutated")
	}
}

func TestExperimentErrors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scenario = "plummer"
	if err := New(cfg, NewRegistry(), nil).Setup(nil); err == nil {
		t.Error("expected error for unknown scenario")
	}

	cfg = config.DefaultConfig()
	cfg.Integrator = "rk4"
	cfg.Bodies = 10
	if err := New(cfg, NewRegistry(), nil).Setup(nil); err == nil {
		t.Error("expected error for unknown integrator")
	}

	cfg = config.DefaultConfig()
	cfg.Dt = -1
	if err := New(cfg, NewRegistry(), nil).Setup(nil); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}

	if _, err := New(config.DefaultConfig(), NewRegistry(), nil).Run(context.Background()); err == nil {
		t.Error("expected error running before setup")
	}
}
