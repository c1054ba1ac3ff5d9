package config

import (
	"sort"

	"github.com/san-kum/gravsim/internal/dynamo"
)

var Presets = map[string]map[string]*Config{
	"solar": {
		"default": {
			Scenario: "solar", Bodies: 1000, Steps: 100, Dt: 86400, Seed: 42,
		},
		"small": {
			Scenario: "solar", Bodies: 100, Steps: 365, Dt: 86400, Seed: 42, CheckpointEvery: 73,
		},
		"large": {
			Scenario: "solar", Bodies: 5000, Steps: 10, Dt: 86400, Seed: 42,
		},
	},
	"earth_sun": {
		"year": {
			Scenario: "earth_sun", Bodies: 2, Steps: 365, Dt: 86400, CheckpointEvery: 5, SnapshotEvery: 1,
		},
		"decade": {
			Scenario: "earth_sun", Bodies: 2, Steps: 3650, Dt: 86400, CheckpointEvery: 50, SnapshotEvery: 5,
		},
		"hourly": {
			Scenario: "earth_sun", Bodies: 2, Steps: 8760, Dt: 3600, CheckpointEvery: 120, SnapshotEvery: 24,
		},
	},
	"binary": {
		"equal": {
			Scenario: "binary", Bodies: 2, Steps: 1000, Dt: 3600, CheckpointEvery: 10, SnapshotEvery: 2,
		},
	},
}

// GetPreset returns a copy of the named preset completed with defaults, or nil.
func GetPreset(scenario, name string) *Config {
	byName, ok := Presets[scenario]
	if !ok {
		return nil
	}
	p, ok := byName[name]
	if !ok {
		return nil
	}

	cfg := *p
	def := DefaultConfig()
	if cfg.Integrator == "" {
		cfg.Integrator = def.Integrator
	}
	if cfg.G == 0 {
		cfg.G = dynamo.G
	}
	if cfg.Softening == 0 {
		cfg.Softening = dynamo.DefaultSoftening
	}
	if cfg.ProgressEvery == 0 {
		cfg.ProgressEvery = def.ProgressEvery
	}
	if cfg.Logging == (LoggingConfig{}) {
		cfg.Logging = def.Logging
	}
	return &cfg
}

func ListPresets(scenario string) []string {
	byName, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
