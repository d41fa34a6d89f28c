package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ecogear/internal/track"
)

const (
	DefaultDt        = 0.01
	DefaultTimeoutMs = 50
	DefaultStrategy  = "eco"
	DefaultGear      = 1.5
)

type Config struct {
	Track      TrackConfig      `yaml:"track"`
	Sim        SimConfig        `yaml:"sim"`
	Controller ControllerConfig `yaml:"controller"`
}

type TrackConfig struct {
	Name      string          `yaml:"name"`
	TimeLimit float64         `yaml:"time_limit"`
	Segments  []track.Segment `yaml:"segments"`
}

type SimConfig struct {
	Dt float64 `yaml:"dt"`
}

type ControllerConfig struct {
	// Strategy is a built-in name (coast, constant, eco) or "script".
	Strategy string `yaml:"strategy"`
	// Gear applies to the constant strategy.
	Gear float64 `yaml:"gear"`
	// Script is the path to a strategy source file.
	Script string `yaml:"script"`
	// TimeoutMs bounds one strategy invocation.
	TimeoutMs int `yaml:"timeout_ms"`
}

func DefaultConfig() *Config {
	return &Config{
		Track: TrackConfig{
			Name:      "practice",
			TimeLimit: 35.0,
			Segments: []track.Segment{
				{Start: 0, End: 50, Slope: 0.0, Friction: 0.8},
				{Start: 50, End: 100, Slope: 0.1, Friction: 0.6},
				{Start: 100, End: 150, Slope: -0.1, Friction: 0.4},
			},
		},
		Sim: SimConfig{Dt: DefaultDt},
		Controller: ControllerConfig{
			Strategy:  DefaultStrategy,
			Gear:      DefaultGear,
			TimeoutMs: DefaultTimeoutMs,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BuildTrack validates the configured segments into a Track.
func (c *Config) BuildTrack() (*track.Track, error) {
	return track.New(c.Track.Segments, c.Track.TimeLimit)
}
