package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// DriftPercent returns |final - initial| / |initial| * 100 on total energy.
// A zero initial total yields 0 when the final total is also zero and +Inf
// otherwise.
func DriftPercent(initial, final dynamo.EnergySample) float64 {
	diff := math.Abs(final.Total - initial.Total)
	if initial.Total == 0 {
		if diff == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return diff / math.Abs(initial.Total) * 100
}

// EnergyDrift tracks the largest percent drift of total energy relative to
// the first observed checkpoint.
type EnergyDrift struct {
	name     string
	initial  dynamo.EnergySample
	current  dynamo.EnergySample
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift_pct"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(cp dynamo.Checkpoint, bodies dynamo.Bodies) {
	if e.samples == 0 {
		e.initial = cp.Energy
	}
	e.current = cp.Energy
	e.samples++
	e.maxDrift = math.Max(e.maxDrift, DriftPercent(e.initial, cp.Energy))
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// Last returns the drift of the most recent checkpoint.
func (e *EnergyDrift) Last() float64 {
	if e.samples == 0 {
		return 0
	}
	return DriftPercent(e.initial, e.current)
}

func (e *EnergyDrift) Reset() {
	e.initial = dynamo.EnergySample{}
	e.current = dynamo.EnergySample{}
	e.maxDrift = 0
	e.samples = 0
}
