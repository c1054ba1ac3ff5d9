package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/gravsim/internal/dynamo"
)

func testResult() *dynamo.Result {
	return &dynamo.Result{
		Bodies: dynamo.Bodies{
			{X: 0, Y: 0, Z: 0, Mass: 1.989e30},
			{X: 1.496e11 + 0.1, Y: 1.0 / 3.0, Z: -2.5e-7, VX: 1e-3, VY: 29780.123456789, VZ: 0, Mass: 5.972e24},
		},
		Initial: dynamo.EnergySample{Kinetic: 2.6e33, Potential: -5.3e33, Total: -2.7e33},
		Final:   dynamo.EnergySample{Kinetic: 2.61e33, Potential: -5.31e33, Total: -2.7e33},
		Checkpoints: []dynamo.Checkpoint{
			{Step: 0, Time: 0, Energy: dynamo.EnergySample{Kinetic: 2.6e33, Potential: -5.3e33, Total: -2.7e33}},
			{Step: 10, Time: 864000, Energy: dynamo.EnergySample{Kinetic: 2.61e33, Potential: -5.31e33, Total: -2.7e33}},
		},
		StepsTaken:      10,
		SimTime:         864000,
		Elapsed:         150 * time.Millisecond,
		PairEvaluations: 10,
		Metrics:         map[string]float64{"energy_drift_pct": 0.01},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())

	rec := NewRecorder(5, 0)
	result := testResult()
	rec.Record(0, 0, result.Bodies)
	rec.Record(5, 432000, result.Bodies)

	runID, err := st.Save(RunMetadata{Scenario: "earth_sun", Seed: 42, Steps: 10, Dt: 86400, Integrator: "symplectic"}, result, rec)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scenario != "earth_sun" {
		t.Errorf("expected scenario 'earth_sun', got '%s'", meta.Scenario)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Bodies != 2 || meta.StepsTaken != 10 {
		t.Errorf("expected 2 bodies and 10 steps, got %d and %d", meta.Bodies, meta.StepsTaken)
	}
	if meta.Metrics["energy_drift_pct"] != 0.01 {
		t.Errorf("expected drift metric 0.01, got %f", meta.Metrics["energy_drift_pct"])
	}

	checkpoints, err := st.LoadEnergy(runID)
	if err != nil {
		t.Fatalf("load energy failed: %v", err)
	}
	if len(checkpoints) != 2 {
		t.Fatalf("expected 2 checkpoints, got %d", len(checkpoints))
	}
	if checkpoints[1] != result.Checkpoints[1] {
		t.Errorf("checkpoint mismatch: %+v != %+v", checkpoints[1], result.Checkpoints[1])
	}

	snapshots, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if len(snapshots) != 2 || len(snapshots[1].Bodies) != 2 {
		t.Fatalf("unexpected trajectory shape: %+v", snapshots)
	}
	if snapshots[1].Step != 5 || snapshots[1].Bodies[1].Y != result.Bodies[1].Y {
		t.Errorf("unexpected snapshot: %+v", snapshots[1])
	}
}

func TestSaveNonFiniteDrift(t *testing.T) {
	st := New(t.TempDir())
	result := testResult()
	result.Metrics["energy_drift_pct"] = math.Inf(1)

	runID, err := st.Save(RunMetadata{Scenario: "solar", EnergyDriftPct: math.Inf(1)}, result, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.EnergyDriftPct != -1 || meta.Metrics["energy_drift_pct"] != -1 {
		t.Errorf("expected -1 for non-finite values, got %f / %f", meta.EnergyDriftPct, meta.Metrics["energy_drift_pct"])
	}
	if !math.IsInf(result.Metrics["energy_drift_pct"], 1) {
		t.Error("save modified the result metrics")
	}
}

func TestLoadBodiesExact(t *testing.T) {
	st := New(t.TempDir())
	result := testResult()

	runID, err := st.Save(RunMetadata{Scenario: "earth_sun"}, result, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	bodies, err := st.LoadBodies(runID)
	if err != nil {
		t.Fatalf("load bodies failed: %v", err)
	}
	if len(bodies) != len(result.Bodies) {
		t.Fatalf("expected %d bodies, got %d", len(result.Bodies), len(bodies))
	}
	for i := range bodies {
		if bodies[i] != result.Bodies[i] {
			t.Errorf("body %d: %+v != %+v", i, bodies[i], result.Bodies[i])
		}
	}

	if _, err := os.Stat(filepath.Join(st.baseDir, runID, trajectoryFile)); !os.IsNotExist(err) {
		t.Error("expected no trajectory file without a recorder")
	}
}

func TestLoadBodiesInvalid(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Scenario: "bad"}, testResult(), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	path := filepath.Join(st.baseDir, runID, bodiesFile)
	content := "index,x,y,z,vx,vy,vz,mass\n0,0,0,0,0,0,0,-1\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := st.LoadBodies(runID); !errors.Is(err, ErrInvalidBodies) {
		t.Errorf("expected ErrInvalidBodies, got %v", err)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for _, name := range []string{"solar", "solar", "binary"} {
		if _, err := st.Save(RunMetadata{Scenario: name}, testResult(), nil); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("expected 3 runs, got %d", len(runs))
	}
}

func TestListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestExport(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Scenario: "solar"}, testResult(), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.Export(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid export json: %v", err)
	}
	if data.Metadata.ID != runID {
		t.Errorf("expected id %s, got %s", runID, data.Metadata.ID)
	}
	if len(data.Bodies) != 2 || len(data.Checkpoints) != 2 {
		t.Errorf("unexpected export sizes: %d bodies, %d checkpoints", len(data.Bodies), len(data.Checkpoints))
	}
}

func TestRecorderEveryAndCap(t *testing.T) {
	rec := NewRecorder(2, 1)
	bodies := testResult().Bodies

	for step := 1; step <= 5; step++ {
		rec.OnStep(step, float64(step), bodies)
	}

	snaps := rec.Snapshots()
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}
	if snaps[0].Step != 2 || snaps[1].Step != 4 {
		t.Errorf("unexpected steps %d, %d", snaps[0].Step, snaps[1].Step)
	}
	if len(snaps[0].Bodies) != 1 {
		t.Errorf("expected body cap of 1, got %d", len(snaps[0].Bodies))
	}
	if snaps[0].Bodies[0].Mass != 0 {
		t.Error("snapshots should not carry mass")
	}
}

func TestSaveBenchmark(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.json")
	b := NewBenchmark(testResult(), 10, 4, 50*time.Millisecond)

	if b.StepsPerSec <= 0 || b.NumBodies != 2 {
		t.Errorf("unexpected benchmark: %+v", b)
	}
	if err := SaveBenchmark(path, b); err != nil {
		t.Fatalf("save benchmark failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"num_bodies", "num_steps", "total_time", "init_time", "sim_time", "steps_per_sec", "energy_initial", "energy_final", "energy_error_percent"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
}
