package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scenario != "solar" {
		t.Errorf("expected scenario solar, got %s", cfg.Scenario)
	}
	if cfg.Bodies != 1000 || cfg.Steps != 100 || cfg.Dt != 86400 {
		t.Errorf("unexpected defaults: %d bodies, %d steps, dt %f", cfg.Bodies, cfg.Steps, cfg.Dt)
	}
	if cfg.G != dynamo.G || cfg.Softening != dynamo.DefaultSoftening {
		t.Errorf("unexpected physical constants: %e, %e", cfg.G, cfg.Softening)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("earth_sun", "year")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Steps != 365 {
		t.Errorf("expected 365 steps, got %d", cfg.Steps)
	}
	if cfg.Integrator != DefaultIntegrator || cfg.Softening != dynamo.DefaultSoftening {
		t.Errorf("expected defaults filled in, got %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset should validate: %v", err)
	}

	cfg.Steps = 1
	if Presets["earth_sun"]["year"].Steps != 365 {
		t.Error("GetPreset returned a shared preset")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("solar", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "default") != nil {
		t.Error("expected nil for nonexistent scenario")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("solar")
	want := []string{"default", "large", "small"}
	if len(presets) != len(want) {
		t.Fatalf("expected %v, got %v", want, presets)
	}
	for i := range want {
		if presets[i] != want[i] {
			t.Errorf("expected %v, got %v", want, presets)
		}
	}

	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for unknown scenario")
	}
}

func TestAllPresetsValidate(t *testing.T) {
	for scenario := range Presets {
		for _, name := range ListPresets(scenario) {
			if err := GetPreset(scenario, name).Validate(); err != nil {
				t.Errorf("%s/%s: %v", scenario, name, err)
			}
		}
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	content := `
scenario: earth_sun
steps: 730
dt: 3600
workers: 4
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Scenario != "earth_sun" || cfg.Steps != 730 || cfg.Dt != 3600 || cfg.Workers != 4 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Bodies != DefaultBodies || cfg.Softening != dynamo.DefaultSoftening {
		t.Error("expected unset fields to keep defaults")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	content := `
scenario = "solar"
bodies = 250
seed = 7
checkpoint_every = 5

[logging]
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Bodies != 250 || cfg.Seed != 7 || cfg.CheckpointEvery != 5 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "info" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"cfg.yaml", "cfg.toml"} {
		path := filepath.Join(t.TempDir(), name)
		cfg := GetPreset("binary", "equal")

		if err := Save(path, cfg); err != nil {
			t.Fatalf("%s: save failed: %v", name, err)
		}
		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("%s: load failed: %v", name, err)
		}
		if *loaded != *cfg {
			t.Errorf("%s: round trip mismatch:\n%+v\n%+v", name, loaded, cfg)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("steps: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scenario = ""
	if err := cfg.Validate(); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for empty scenario, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.SnapshotEvery = -1
	if err := cfg.Validate(); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for negative snapshot_every, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Dt = 0
	var ce *dynamo.ConfigError
	if err := cfg.Validate(); !errors.As(err, &ce) || ce.Field != "dt" {
		t.Errorf("expected dt ConfigError, got %v", err)
	}
}

func TestSimConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 3
	cfg.CheckpointEvery = 7

	sc := cfg.SimConfig()
	if sc.Steps != cfg.Steps || sc.Dt != cfg.Dt || sc.Workers != 3 || sc.CheckpointEvery != 7 {
		t.Errorf("unexpected sim config %+v", sc)
	}
	if sc.Params.G != dynamo.G {
		t.Errorf("expected G %e, got %e", dynamo.G, sc.Params.G)
	}
}
