package storage

import (
	"encoding/json"
	"os"

	"github.com/san-kum/ecogear/internal/telemetry"
)

type runExport struct {
	Metadata RunMetadata     `json:"metadata"`
	Rows     []telemetry.Row `json:"telemetry"`
}

// ExportJSON writes a run's metadata and full telemetry as one JSON
// document.
func (s *Store) ExportJSON(runID, outPath string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	rows, err := s.LoadRows(runID)
	if err != nil {
		return err
	}

	file, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(runExport{Metadata: *meta, Rows: rows})
}

// ExportJSONStdout prints a run to stdout in the same format as
// ExportJSON.
func (s *Store) ExportJSONStdout(runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	rows, err := s.LoadRows(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(runExport{Metadata: *meta, Rows: rows})
}

// ExportCSV copies a run's telemetry CSV to outPath.
func (s *Store) ExportCSV(runID, outPath string) error {
	data, err := os.ReadFile(s.telemetryPath(runID))
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, data, 0644)
}
