package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Track.Name != "practice" {
		t.Errorf("expected practice track, got %s", cfg.Track.Name)
	}
	if cfg.Sim.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Track.TimeLimit <= 0 {
		t.Error("time limit should be positive")
	}
	if _, err := cfg.BuildTrack(); err != nil {
		t.Errorf("default track should validate: %v", err)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Controller.Strategy = "constant"
	cfg.Controller.Gear = 3.5

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Controller.Strategy != "constant" || loaded.Controller.Gear != 3.5 {
		t.Errorf("unexpected controller config: %+v", loaded.Controller)
	}
	if len(loaded.Track.Segments) != 3 {
		t.Errorf("expected 3 segments, got %d", len(loaded.Track.Segments))
	}
}

func TestLoadPartialOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := []byte("sim:\n  dt: 0.05\n")
	if err := os.WriteFile(path, partial, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Sim.Dt != 0.05 {
		t.Errorf("expected dt 0.05, got %f", cfg.Sim.Dt)
	}
	// Untouched sections keep their defaults.
	if cfg.Track.Name != "practice" {
		t.Errorf("expected default track, got %s", cfg.Track.Name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	tc, ok := GetPreset("practice")
	if !ok {
		t.Fatal("expected practice preset")
	}
	if tc.TimeLimit != 35.0 {
		t.Errorf("expected time limit 35, got %f", tc.TimeLimit)
	}

	if _, ok := GetPreset("nonexistent"); ok {
		t.Error("expected miss for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Error("expected sorted preset names")
		}
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		tc, _ := GetPreset(name)
		cfg := DefaultConfig()
		cfg.Track = tc
		if _, err := cfg.BuildTrack(); err != nil {
			t.Errorf("preset %s does not validate: %v", name, err)
		}
	}
}
