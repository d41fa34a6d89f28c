package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/ecogear/internal/sim"
	"github.com/san-kum/ecogear/internal/telemetry"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Outcome: sim.Outcome{Phase: sim.Finished, Time: 12.5, Energy: 4200},
		Summary: telemetry.Summary{Ticks: 2, TotalTime: 12.5, TotalEnergy: 4200, Distance: 150},
		Rows: []telemetry.Row{
			{Tick: 0, Elapsed: 0.01, Position: 0.03, Velocity: 3.0, Slope: 0.0, Friction: 0.8, Gear: 5, Power: 900, Energy: 9},
			{Tick: 1, Elapsed: 0.02, Position: 0.06, Velocity: 3.1, Slope: 0.0, Friction: 0.8, Gear: 5, Power: 910, Energy: 18.1},
		},
		Metrics: map[string]float64{"score": 995800},
		Faults:  0,
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := store.Save("practice", "eco", 0.01, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Track != "practice" || meta.Controller != "eco" {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.Outcome != "finished" {
		t.Errorf("expected finished outcome, got %s", meta.Outcome)
	}
	if meta.Metrics["score"] != 995800 {
		t.Errorf("unexpected metrics: %v", meta.Metrics)
	}
}

func TestLoadRowsRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	want := sampleResult()
	runID, err := store.Save("practice", "eco", 0.01, want)
	if err != nil {
		t.Fatal(err)
	}

	rows, err := store.LoadRows(runID)
	if err != nil {
		t.Fatalf("load rows failed: %v", err)
	}
	if len(rows) != len(want.Rows) {
		t.Fatalf("expected %d rows, got %d", len(want.Rows), len(rows))
	}
	for i, row := range rows {
		if row.Tick != want.Rows[i].Tick {
			t.Errorf("row %d: tick %d, want %d", i, row.Tick, want.Rows[i].Tick)
		}
		if row.Position != want.Rows[i].Position || row.Energy != want.Rows[i].Energy {
			t.Errorf("row %d: got %+v, want %+v", i, row, want.Rows[i])
		}
	}
}

func TestList(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	if _, err := store.Save("practice", "eco", 0.01, sampleResult()); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save("flat", "coast", 0.01, sampleResult()); err != nil {
		t.Fatal(err)
	}

	runs, err = store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestListMissingBaseDir(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := store.List()
	if err != nil {
		t.Fatalf("expected empty list, got error: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestExportJSON(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	runID, err := store.Save("practice", "eco", 0.01, sampleResult())
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "export.json")
	if err := store.ExportJSON(runID, out); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	var export struct {
		Metadata  RunMetadata     `json:"metadata"`
		Telemetry []telemetry.Row `json:"telemetry"`
	}
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if export.Metadata.ID != runID {
		t.Errorf("expected run %s, got %s", runID, export.Metadata.ID)
	}
	if len(export.Telemetry) != 2 {
		t.Errorf("expected 2 telemetry rows, got %d", len(export.Telemetry))
	}
}

func TestExportCSV(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	runID, err := store.Save("practice", "eco", 0.01, sampleResult())
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "export.csv")
	if err := store.ExportCSV(runID, out); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	orig, err := os.ReadFile(store.telemetryPath(runID))
	if err != nil {
		t.Fatal(err)
	}
	copied, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(orig) != string(copied) {
		t.Error("exported CSV differs from stored telemetry")
	}
}
