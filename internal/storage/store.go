package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gravsim/internal/dynamo"
)

const (
	metadataFile   = "metadata.json"
	energyFile     = "energy.csv"
	bodiesFile     = "bodies.csv"
	trajectoryFile = "trajectory.csv"
)

// ErrInvalidBodies is returned when a stored body file holds non-finite
// values or non-positive masses.
var ErrInvalidBodies = errors.New("storage: invalid bodies")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type Energy struct {
	Kinetic   float64 `json:"kinetic"`
	Potential float64 `json:"potential"`
	Total     float64 `json:"total"`
}

func energyOf(e dynamo.EnergySample) Energy {
	return Energy{Kinetic: e.Kinetic, Potential: e.Potential, Total: e.Total}
}

// RunMetadata describes a stored run. EnergyDriftPct and Metrics hold -1
// where the value is not finite.
type RunMetadata struct {
	ID              string             `json:"id"`
	Scenario        string             `json:"scenario"`
	Timestamp       time.Time          `json:"timestamp"`
	Seed            int64              `json:"seed"`
	Bodies          int                `json:"bodies"`
	Steps           int                `json:"steps"`
	Dt              float64            `json:"dt"`
	Softening       float64            `json:"softening"`
	Integrator      string             `json:"integrator"`
	Backend         string             `json:"backend"`
	ResumedFrom     string             `json:"resumed_from,omitempty"`
	StepsTaken      int                `json:"steps_taken"`
	SimTime         float64            `json:"sim_time"`
	ElapsedSeconds  float64            `json:"elapsed_seconds"`
	PairEvaluations int64              `json:"pair_evaluations"`
	EnergyInitial   Energy             `json:"energy_initial"`
	EnergyFinal     Energy             `json:"energy_final"`
	EnergyDriftPct  float64            `json:"energy_drift_pct"`
	Metrics         map[string]float64 `json:"metrics"`
}

// Save writes a run directory and returns its id. Fields of meta describing
// the outcome are filled from result. rec may be nil.
func (s *Store) Save(meta RunMetadata, result *dynamo.Result, rec *Recorder) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	now := time.Now()
	runID, runDir, err := s.newRunDir(meta.Scenario, now)
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Bodies = len(result.Bodies)
	meta.StepsTaken = result.StepsTaken
	meta.SimTime = result.SimTime
	meta.ElapsedSeconds = result.Elapsed.Seconds()
	meta.PairEvaluations = result.PairEvaluations
	meta.EnergyInitial = energyOf(result.Initial)
	meta.EnergyFinal = energyOf(result.Final)
	meta.EnergyDriftPct = finiteOr(meta.EnergyDriftPct, -1)
	meta.Metrics = make(map[string]float64, len(result.Metrics))
	for name, v := range result.Metrics {
		meta.Metrics[name] = finiteOr(v, -1)
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeEnergy(filepath.Join(runDir, energyFile), result.Checkpoints); err != nil {
		return "", err
	}
	if err := writeBodies(filepath.Join(runDir, bodiesFile), result.Bodies); err != nil {
		return "", err
	}
	if rec != nil {
		if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), rec.Snapshots()); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// newRunDir creates a fresh run directory. Runs saved within the same
// millisecond get a numeric suffix.
func (s *Store) newRunDir(scenario string, now time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%d", scenario, now.UnixMilli())
	runID := base
	for i := 1; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

// List returns all readable runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadEnergy(runID string) ([]dynamo.Checkpoint, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, energyFile))
	if err != nil {
		return nil, err
	}

	checkpoints := make([]dynamo.Checkpoint, 0, len(records))
	for _, rec := range records {
		vals, err := parseFloats(rec, 5)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", energyFile, err)
		}
		checkpoints = append(checkpoints, dynamo.Checkpoint{
			Step: int(vals[0]),
			Time: vals[1],
			Energy: dynamo.EnergySample{
				Kinetic:   vals[2],
				Potential: vals[3],
				Total:     vals[4],
			},
		})
	}
	return checkpoints, nil
}

// LoadBodies reads the final body state of a run. Values are stored with
// full precision, so a resumed run continues bit-for-bit.
func (s *Store) LoadBodies(runID string) (dynamo.Bodies, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, bodiesFile))
	if err != nil {
		return nil, err
	}

	bodies := make(dynamo.Bodies, 0, len(records))
	for _, rec := range records {
		vals, err := parseFloats(rec, 8)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", bodiesFile, err)
		}
		bodies = append(bodies, dynamo.Body{
			X: vals[1], Y: vals[2], Z: vals[3],
			VX: vals[4], VY: vals[5], VZ: vals[6],
			Mass: vals[7],
		})
	}

	if len(bodies) == 0 || !bodies.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBodies, runID)
	}
	return bodies, nil
}

func (s *Store) LoadTrajectory(runID string) ([]Snapshot, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}

	snapshots := make([]Snapshot, 0)
	for _, rec := range records {
		vals, err := parseFloats(rec, 6)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", trajectoryFile, err)
		}
		step := int(vals[0])
		if len(snapshots) == 0 || snapshots[len(snapshots)-1].Step != step {
			snapshots = append(snapshots, Snapshot{Step: step, Time: vals[1]})
		}
		last := &snapshots[len(snapshots)-1]
		last.Bodies = append(last.Bodies, dynamo.Body{X: vals[3], Y: vals[4], Z: vals[5]})
	}
	return snapshots, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, header []string, rows func(w *csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := rows(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func writeEnergy(path string, checkpoints []dynamo.Checkpoint) error {
	return writeCSV(path, []string{"step", "time", "kinetic", "potential", "total"}, func(w *csv.Writer) error {
		for _, cp := range checkpoints {
			row := []string{
				strconv.Itoa(cp.Step),
				formatFloat(cp.Time),
				formatFloat(cp.Energy.Kinetic),
				formatFloat(cp.Energy.Potential),
				formatFloat(cp.Energy.Total),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeBodies(path string, bodies dynamo.Bodies) error {
	return writeCSV(path, []string{"index", "x", "y", "z", "vx", "vy", "vz", "mass"}, func(w *csv.Writer) error {
		for i, b := range bodies {
			row := []string{
				strconv.Itoa(i),
				formatFloat(b.X), formatFloat(b.Y), formatFloat(b.Z),
				formatFloat(b.VX), formatFloat(b.VY), formatFloat(b.VZ),
				formatFloat(b.Mass),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeTrajectory(path string, snapshots []Snapshot) error {
	return writeCSV(path, []string{"step", "time", "body", "x", "y", "z"}, func(w *csv.Writer) error {
		for _, snap := range snapshots {
			for i, b := range snap.Bodies {
				row := []string{
					strconv.Itoa(snap.Step),
					formatFloat(snap.Time),
					strconv.Itoa(i),
					formatFloat(b.X), formatFloat(b.Y), formatFloat(b.Z),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// readCSV returns the data rows, header excluded.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]string{}, nil
	}
	return records[1:], nil
}

func parseFloats(record []string, want int) ([]float64, error) {
	if len(record) < want {
		return nil, fmt.Errorf("expected %d fields, got %d", want, len(record))
	}
	vals := make([]float64, want)
	for i := 0; i < want; i++ {
		v, err := strconv.ParseFloat(record[i], 64)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
