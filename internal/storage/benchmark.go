package storage

import (
	"time"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/metrics"
)

// FlopsPerPair is the floating point operation estimate for one pair evaluation.
const FlopsPerPair = 20

type Benchmark struct {
	NumBodies          int     `json:"num_bodies"`
	NumSteps           int     `json:"num_steps"`
	Workers            int     `json:"workers"`
	TotalTime          float64 `json:"total_time"`
	InitTime           float64 `json:"init_time"`
	SimTime            float64 `json:"sim_time"`
	StepsPerSec        float64 `json:"steps_per_sec"`
	PairEvaluations    int64   `json:"pair_evaluations"`
	Flops              float64 `json:"flops"`
	EnergyInitial      float64 `json:"energy_initial"`
	EnergyFinal        float64 `json:"energy_final"`
	EnergyErrorPercent float64 `json:"energy_error_percent"`
}

// NewBenchmark summarizes a completed run. initTime covers building the bodies.
func NewBenchmark(result *dynamo.Result, steps, workers int, initTime time.Duration) Benchmark {
	sim := result.Elapsed.Seconds()
	b := Benchmark{
		NumBodies:          len(result.Bodies),
		NumSteps:           steps,
		Workers:            workers,
		InitTime:           initTime.Seconds(),
		SimTime:            sim,
		TotalTime:          initTime.Seconds() + sim,
		PairEvaluations:    result.PairEvaluations,
		EnergyInitial:      result.Initial.Total,
		EnergyFinal:        result.Final.Total,
		EnergyErrorPercent: finiteOr(metrics.DriftPercent(result.Initial, result.Final), -1),
	}
	if sim > 0 {
		b.StepsPerSec = float64(result.StepsTaken) / sim
		b.Flops = float64(2*result.PairEvaluations*FlopsPerPair) / sim
	}
	return b
}

func SaveBenchmark(path string, b Benchmark) error {
	return writeJSON(path, b)
}
