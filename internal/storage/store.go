package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/ecogear/internal/sim"
	"github.com/san-kum/ecogear/internal/telemetry"
)

// Store persists runs under a base directory, one subdirectory per run
// with metadata.json and telemetry.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) metadataPath(runID string) string {
	return filepath.Join(s.baseDir, runID, "metadata.json")
}

func (s *Store) telemetryPath(runID string) string {
	return filepath.Join(s.baseDir, runID, "telemetry.csv")
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Track      string             `json:"track"`
	Controller string             `json:"controller"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Outcome    string             `json:"outcome"`
	Time       float64            `json:"time"`
	Energy     float64            `json:"energy"`
	Distance   float64            `json:"distance"`
	Faults     uint64             `json:"faults"`
	Metrics    map[string]float64 `json:"metrics"`
}

func (s *Store) Save(trackName, controllerName string, dt float64, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", trackName, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Track:      trackName,
		Controller: controllerName,
		Timestamp:  time.Now(),
		Dt:         dt,
		Outcome:    result.Outcome.Phase.String(),
		Time:       result.Outcome.Time,
		Energy:     result.Outcome.Energy,
		Distance:   result.Summary.Distance,
		Faults:     result.Faults,
		Metrics:    result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "telemetry.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(telemetry.Columns()); err != nil {
		return "", err
	}

	for _, row := range result.Rows {
		record := []string{
			strconv.Itoa(row.Tick),
			strconv.FormatFloat(row.Elapsed, 'f', 6, 64),
			strconv.FormatFloat(row.Position, 'f', 6, 64),
			strconv.FormatFloat(row.Velocity, 'f', 6, 64),
			strconv.FormatFloat(row.Slope, 'f', 6, 64),
			strconv.FormatFloat(row.Friction, 'f', 6, 64),
			strconv.FormatFloat(row.Gear, 'f', 6, 64),
			strconv.FormatFloat(row.Power, 'f', 6, 64),
			strconv.FormatFloat(row.Energy, 'f', 6, 64),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	return runID, nil
}

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

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(s.metadataPath(runID))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadRows reads a run's telemetry back from disk.
func (s *Store) LoadRows(runID string) ([]telemetry.Row, error) {
	file, err := os.Open(s.telemetryPath(runID))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []telemetry.Row{}, nil
	}

	rows := make([]telemetry.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 9 {
			continue
		}
		tick, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		vals := make([]float64, 8)
		ok := true
		for i := 0; i < 8; i++ {
			v, err := strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}
		rows = append(rows, telemetry.Row{
			Tick:     tick,
			Elapsed:  vals[0],
			Position: vals[1],
			Velocity: vals[2],
			Slope:    vals[3],
			Friction: vals[4],
			Gear:     vals[5],
			Power:    vals[6],
			Energy:   vals[7],
		})
	}

	return rows, nil
}
