package controller

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// GearFunc is the entry point a strategy script must export:
//
//	package strategy
//
//	func GetGearRatio(state, track map[string]float64) float64
//
// state carries position, velocity, slope, friction, elapsed; track
// carries length, time_limit and next_* lookahead keys when present.
type GearFunc func(state, track map[string]float64) float64

type scriptStrategy struct {
	name string
	fn   GearFunc
}

func (s *scriptStrategy) Name() string { return s.name }

func (s *scriptStrategy) GearRatio(in Input) float64 {
	return s.fn(in.StateMap(), in.TrackMap())
}

// LoadScript interprets a Go source file and binds its GetGearRatio entry
// point. The script runs in-process under the yaegi interpreter, so the
// host's panic and timeout guards are the only barrier around it.
func LoadScript(path string) (Strategy, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrControllerLoad, err)
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrControllerLoad, err)
	}

	if _, err := i.Eval(string(src)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrControllerLoad, err)
	}

	v, err := i.Eval("strategy.GetGearRatio")
	if err != nil {
		return nil, fmt.Errorf("%w: GetGearRatio not found: %v", ErrControllerLoad, err)
	}

	fn, ok := v.Interface().(func(map[string]float64, map[string]float64) float64)
	if !ok {
		return nil, fmt.Errorf("%w: GetGearRatio has wrong signature %T", ErrControllerLoad, v.Interface())
	}

	return &scriptStrategy{name: filepath.Base(path), fn: fn}, nil
}
