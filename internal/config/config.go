package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/san-kum/gravsim/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultScenario      = "solar"
	DefaultBodies        = 1000
	DefaultSteps         = 100
	DefaultDt            = 86400.0
	DefaultIntegrator    = "symplectic"
	DefaultProgressEvery = 10
)

type Config struct {
	Scenario        string        `yaml:"scenario" toml:"scenario"`
	Bodies          int           `yaml:"bodies" toml:"bodies"`
	Steps           int           `yaml:"steps" toml:"steps"`
	Dt              float64       `yaml:"dt" toml:"dt"`
	Seed            int64         `yaml:"seed" toml:"seed"`
	Integrator      string        `yaml:"integrator" toml:"integrator"`
	G               float64       `yaml:"g" toml:"g"`
	Softening       float64       `yaml:"softening" toml:"softening"`
	Workers         int           `yaml:"workers" toml:"workers"`
	CheckpointEvery int           `yaml:"checkpoint_every" toml:"checkpoint_every"`
	ProgressEvery   int           `yaml:"progress_every" toml:"progress_every"`
	SnapshotEvery   int           `yaml:"snapshot_every" toml:"snapshot_every"`
	Logging         LoggingConfig `yaml:"logging" toml:"logging"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // "json" or "console"
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:      DefaultScenario,
		Bodies:        DefaultBodies,
		Steps:         DefaultSteps,
		Dt:            DefaultDt,
		Seed:          42,
		Integrator:    DefaultIntegrator,
		G:             dynamo.G,
		Softening:     dynamo.DefaultSoftening,
		ProgressEvery: DefaultProgressEvery,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a yaml or toml file, chosen by extension, over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()

	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
		data = buf.Bytes()
	} else {
		var err error
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// SimConfig converts the file-level settings into kernel run parameters.
func (c *Config) SimConfig() dynamo.Config {
	return dynamo.Config{
		Steps: c.Steps,
		Dt:    c.Dt,
		Params: dynamo.Params{
			G:         c.G,
			Softening: c.Softening,
		},
		Workers:         c.Workers,
		CheckpointEvery: c.CheckpointEvery,
	}
}

// Validate rejects settings the kernel would refuse, before any bodies are built.
func (c *Config) Validate() error {
	if c.Scenario == "" {
		return fmt.Errorf("%w: scenario must be set", dynamo.ErrConfiguration)
	}
	if c.ProgressEvery < 0 || c.SnapshotEvery < 0 {
		return fmt.Errorf("%w: progress_every and snapshot_every must be non-negative", dynamo.ErrConfiguration)
	}
	return c.SimConfig().Validate(c.Bodies)
}
