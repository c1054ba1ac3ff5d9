// Package analysis summarizes finished runs.
//
//   - [EnergyStats]: mean, spread and worst drift of total energy over checkpoints
//   - [OrbitClosure]: how far a body ends from where it started
//   - [Divergence]: RMS position difference between two final states
//
// Compare integrators on the same initial bodies:
//
//	stats := analysis.EnergyStats(result.Checkpoints)
//	if stats.MaxDriftPct > 1 {
//	    // step size too large for this scenario
//	}
package analysis
