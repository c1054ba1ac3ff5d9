package storage

import "github.com/san-kum/gravsim/internal/dynamo"

// Snapshot holds body positions at a step. Velocities and masses are not kept.
type Snapshot struct {
	Step   int
	Time   float64
	Bodies dynamo.Bodies
}

// DefaultSnapshotBodies caps trajectory recording for large systems.
const DefaultSnapshotBodies = 64

// Recorder is an observer keeping a snapshot every k steps. maxBodies caps
// how many bodies (lowest indices first) are kept per snapshot; 0 keeps all.
type Recorder struct {
	every     int
	maxBodies int
	snapshots []Snapshot
}

func NewRecorder(every, maxBodies int) *Recorder {
	return &Recorder{every: every, maxBodies: maxBodies}
}

func (r *Recorder) Record(step int, t float64, bodies dynamo.Bodies) {
	n := len(bodies)
	if r.maxBodies > 0 && n > r.maxBodies {
		n = r.maxBodies
	}

	snap := Snapshot{Step: step, Time: t, Bodies: make(dynamo.Bodies, n)}
	for i := 0; i < n; i++ {
		snap.Bodies[i] = dynamo.Body{X: bodies[i].X, Y: bodies[i].Y, Z: bodies[i].Z}
	}
	r.snapshots = append(r.snapshots, snap)
}

func (r *Recorder) OnStep(step int, t float64, bodies dynamo.Bodies) {
	if r.every <= 0 || step%r.every != 0 {
		return
	}
	r.Record(step, t, bodies)
}

func (r *Recorder) Snapshots() []Snapshot { return r.snapshots }
