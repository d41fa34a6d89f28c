package config

import (
	"sort"

	"github.com/san-kum/ecogear/internal/track"
)

// Presets are ready-made courses. "practice" matches the reference course
// used throughout the tests.
var Presets = map[string]TrackConfig{
	"practice": {
		Name:      "practice",
		TimeLimit: 35.0,
		Segments: []track.Segment{
			{Start: 0, End: 50, Slope: 0.0, Friction: 0.8},
			{Start: 50, End: 100, Slope: 0.1, Friction: 0.6},
			{Start: 100, End: 150, Slope: -0.1, Friction: 0.4},
		},
	},
	"flat": {
		Name:      "flat",
		TimeLimit: 35.0,
		Segments: []track.Segment{
			{Start: 0, End: 100, Slope: 0.0, Friction: 0.1},
		},
	},
	"alpine": {
		Name:      "alpine",
		TimeLimit: 120.0,
		Segments: []track.Segment{
			{Start: 0, End: 40, Slope: 0.0, Friction: 0.8},
			{Start: 40, End: 90, Slope: 0.25, Friction: 0.7},
			{Start: 90, End: 140, Slope: 0.45, Friction: 0.6},
			{Start: 140, End: 200, Slope: -0.2, Friction: 0.5},
			{Start: 200, End: 250, Slope: 0.1, Friction: 0.8},
		},
	},
	"ice": {
		Name:      "ice",
		TimeLimit: 60.0,
		Segments: []track.Segment{
			{Start: 0, End: 60, Slope: 0.0, Friction: 0.8},
			{Start: 60, End: 120, Slope: 0.05, Friction: 0.2},
			{Start: 120, End: 180, Slope: -0.05, Friction: 0.15},
			{Start: 180, End: 220, Slope: 0.0, Friction: 0.8},
		},
	},
}

func GetPreset(name string) (TrackConfig, bool) {
	tc, ok := Presets[name]
	return tc, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
