package controller

import "errors"

// Domain errors for strategy lifecycle and invocation.
var (
	// ErrControllerLoad indicates a strategy failed to compile or bind.
	// The previously loaded strategy stays active.
	ErrControllerLoad = errors.New("controller: load failed")

	// ErrControllerRuntime indicates a strategy faulted during a tick.
	ErrControllerRuntime = errors.New("controller: runtime fault")

	// ErrControllerTimeout indicates a strategy exceeded its time budget.
	ErrControllerTimeout = errors.New("controller: invocation timed out")
)

// Input is the read-only snapshot handed to a strategy each tick. It never
// exposes mutable engine internals.
type Input struct {
	Position    float64
	Velocity    float64
	Slope       float64
	Friction    float64
	ElapsedTime float64

	TrackLength float64
	TimeLimit   float64

	// Lookahead for the upcoming segment; HasNext is false in the final
	// segment.
	HasNext      bool
	NextStart    float64
	NextEnd      float64
	NextSlope    float64
	NextFriction float64
}

// StateMap and TrackMap mirror the script contract: strategies receive two
// plain maps rather than engine types.
func (in Input) StateMap() map[string]float64 {
	return map[string]float64{
		"position": in.Position,
		"velocity": in.Velocity,
		"slope":    in.Slope,
		"friction": in.Friction,
		"elapsed":  in.ElapsedTime,
	}
}

func (in Input) TrackMap() map[string]float64 {
	m := map[string]float64{
		"length":     in.TrackLength,
		"time_limit": in.TimeLimit,
	}
	if in.HasNext {
		m["next_start"] = in.NextStart
		m["next_end"] = in.NextEnd
		m["next_slope"] = in.NextSlope
		m["next_friction"] = in.NextFriction
	}
	return m
}

// Strategy decides a gear ratio for the current tick. Implementations are
// untrusted: the host guards every call.
type Strategy interface {
	Name() string
	GearRatio(in Input) float64
}
