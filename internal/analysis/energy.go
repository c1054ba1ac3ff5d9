package analysis

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/metrics"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type EnergySummary struct {
	Samples     int
	Mean        float64
	StdDev      float64
	Min         float64
	Max         float64
	MaxDriftPct float64
	// RelStdDev is StdDev / |Mean|, 0 when the mean is zero.
	RelStdDev float64
}

// EnergyStats reduces the total energy series of a run. Drift is measured
// against the first checkpoint.
func EnergyStats(checkpoints []dynamo.Checkpoint) EnergySummary {
	n := len(checkpoints)
	if n == 0 {
		return EnergySummary{}
	}

	totals := Totals(checkpoints)
	s := EnergySummary{
		Samples: n,
		Mean:    stat.Mean(totals, nil),
		Min:     floats.Min(totals),
		Max:     floats.Max(totals),
	}
	if n > 1 {
		s.StdDev = stat.StdDev(totals, nil)
	}
	if s.Mean != 0 {
		s.RelStdDev = s.StdDev / math.Abs(s.Mean)
	}

	initial := checkpoints[0].Energy
	for _, cp := range checkpoints[1:] {
		s.MaxDriftPct = math.Max(s.MaxDriftPct, metrics.DriftPercent(initial, cp.Energy))
	}
	return s
}

// Totals extracts the total energy of every checkpoint.
func Totals(checkpoints []dynamo.Checkpoint) []float64 {
	totals := make([]float64, len(checkpoints))
	for i, cp := range checkpoints {
		totals[i] = cp.Energy.Total
	}
	return totals
}

// DriftSeries returns the percent drift of every checkpoint relative to the first.
func DriftSeries(checkpoints []dynamo.Checkpoint) []float64 {
	if len(checkpoints) == 0 {
		return nil
	}
	out := make([]float64, len(checkpoints))
	for i, cp := range checkpoints {
		out[i] = metrics.DriftPercent(checkpoints[0].Energy, cp.Energy)
	}
	return out
}
