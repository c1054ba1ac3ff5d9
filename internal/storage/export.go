package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/gravsim/internal/dynamo"
)

type ExportData struct {
	Metadata    RunMetadata         `json:"metadata"`
	Checkpoints []dynamo.Checkpoint `json:"checkpoints"`
	Bodies      dynamo.Bodies       `json:"bodies"`
}

// Export writes metadata, energy checkpoints and final bodies of a run as
// one JSON document.
func (s *Store) Export(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	checkpoints, err := s.LoadEnergy(runID)
	if err != nil {
		return err
	}
	bodies, err := s.LoadBodies(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{
		Metadata:    *meta,
		Checkpoints: checkpoints,
		Bodies:      bodies,
	})
}
