package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrConfiguration indicates run parameters rejected before any work starts.
	ErrConfiguration = errors.New("dynamo: invalid configuration")

	// ErrNotReady indicates Run was called before a successful Load.
	ErrNotReady = errors.New("dynamo: simulator not ready")

	// ErrDimensionMismatch indicates a force accumulator sized differently from the body store.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between bodies and forces")
)

// ConfigError describes a single rejected parameter.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s, got %v", ErrConfiguration, e.Field, e.Reason, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.1fs): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
