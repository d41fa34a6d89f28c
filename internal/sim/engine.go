package sim

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/san-kum/ecogear/internal/controller"
	"github.com/san-kum/ecogear/internal/telemetry"
	"github.com/san-kum/ecogear/internal/track"
	"github.com/san-kum/ecogear/internal/vehicle"
)

// ErrEngineFailed reports an unrecoverable engine-level fault.
var ErrEngineFailed = errors.New("sim: engine failed")

// Outcome is the terminal classification of a run plus its summary
// metrics. While the run is live, Phase is Running (or Paused/Idle).
type Outcome struct {
	Phase  Phase
	Time   float64
	Energy float64
	Reason string
}

// Metric observes telemetry rows and reduces them to a single value at
// the end of a run.
type Metric interface {
	Name() string
	Observe(row telemetry.Row)
	Value() float64
	Reset()
}

// Observer receives each recorded tick.
type Observer interface {
	OnTick(row telemetry.Row)
}

// Config holds the fixed-timestep parameters for a headless run.
type Config struct {
	Dt float64
}

// Result is what a headless run returns.
type Result struct {
	Outcome Outcome
	Summary telemetry.Summary
	Rows    []telemetry.Row
	Metrics map[string]float64
	Faults  uint64
}

// Engine composes the track, vehicle model, controller host, clock, and
// telemetry recorder into one tick operation. It exclusively owns all
// mutable simulation state; there are no singletons and no internal
// parallelism. One Tick call advances exactly one timestep.
type Engine struct {
	track *track.Track
	model *vehicle.Model
	host  *controller.Host
	clock Clock
	rec   *telemetry.Recorder

	state      vehicle.State
	tick       int
	gear       float64
	lastStep   vehicle.StepResult
	failReason string

	metrics   []Metric
	observers []Observer
	logger    *log.Logger
}

// NewEngine wires an engine for the given track and controller host.
func NewEngine(tr *track.Track, host *controller.Host, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		track:  tr,
		model:  vehicle.NewModel(),
		host:   host,
		rec:    telemetry.NewRecorder(),
		logger: logger,
	}
}

func (e *Engine) AddMetric(m Metric)     { e.metrics = append(e.metrics, m) }
func (e *Engine) AddObserver(o Observer) { e.observers = append(e.observers, o) }

func (e *Engine) Track() *track.Track           { return e.track }
func (e *Engine) Host() *controller.Host        { return e.host }
func (e *Engine) Recorder() *telemetry.Recorder { return e.rec }
func (e *Engine) State() vehicle.State          { return e.state }
func (e *Engine) Phase() Phase                  { return e.clock.Phase() }
func (e *Engine) Gear() float64                 { return e.gear }
func (e *Engine) LastStep() vehicle.StepResult  { return e.lastStep }
func (e *Engine) Ticks() int                    { return e.tick }

// Start moves an idle engine to Running.
func (e *Engine) Start() { e.clock.Start() }

// Pause and Resume map the external pause/resume command.
func (e *Engine) Pause()  { e.clock.Pause() }
func (e *Engine) Resume() { e.clock.Resume() }

// TogglePause flips between Running and Paused.
func (e *Engine) TogglePause() {
	switch e.clock.Phase() {
	case Running:
		e.clock.Pause()
	case Paused:
		e.clock.Resume()
	}
}

// Restart resets vehicle state, telemetry, and metrics, then starts
// Running. Valid from any non-Idle phase.
func (e *Engine) Restart() {
	if !e.clock.Restart() {
		return
	}
	e.state = vehicle.State{}
	e.tick = 0
	e.gear = 0
	e.lastStep = vehicle.StepResult{}
	e.failReason = ""
	e.rec.Clear()
	e.host.ResetCounters()
	for _, m := range e.metrics {
		m.Reset()
	}
}

// ToggleLogging flips telemetry recording and reports the new state.
func (e *Engine) ToggleLogging() bool { return e.rec.Toggle() }

// ReloadController re-binds the controller's script source. Called between
// ticks, so the swap lands on a tick boundary.
func (e *Engine) ReloadController() error { return e.host.Reload() }

// Outcome reports the current classification and summary metrics.
func (e *Engine) Outcome() Outcome {
	return Outcome{
		Phase:  e.clock.Phase(),
		Time:   e.state.ElapsedTime,
		Energy: e.state.EnergyConsumed,
		Reason: e.failReason,
	}
}

func (e *Engine) controllerInput() controller.Input {
	_, seg := e.track.SegmentAt(e.state.Position)
	in := controller.Input{
		Position:    e.state.Position,
		Velocity:    e.state.Velocity,
		Slope:       seg.Slope,
		Friction:    seg.Friction,
		ElapsedTime: e.state.ElapsedTime,
		TrackLength: e.track.Length(),
		TimeLimit:   e.track.TimeLimit(),
	}
	if next, ok := e.track.NextSegment(e.state.Position); ok {
		in.HasNext = true
		in.NextStart = next.Start
		in.NextEnd = next.End
		in.NextSlope = next.Slope
		in.NextFriction = next.Friction
	}
	return in
}

// Tick advances the simulation one fixed timestep. It is a no-op unless
// the clock is Running. The returned outcome reflects any transition made
// during this tick.
func (e *Engine) Tick(dt float64) Outcome {
	if e.clock.Phase() != Running {
		return e.Outcome()
	}
	if e.track == nil || dt <= 0 {
		e.failReason = "invalid engine state"
		e.clock.fail()
		e.logger.Error("engine failed", "reason", e.failReason)
		return e.Outcome()
	}

	in := e.controllerInput()
	gear := vehicle.ClampGear(e.host.Invoke(in))
	step := e.model.Step(&e.state, gear, in.Slope, in.Friction, dt)

	e.gear = gear
	e.lastStep = step

	row := telemetry.Row{
		Tick:     e.tick,
		Elapsed:  e.state.ElapsedTime,
		Position: e.state.Position,
		Velocity: e.state.Velocity,
		Slope:    in.Slope,
		Friction: in.Friction,
		Gear:     gear,
		Power:    step.Power,
		Energy:   e.state.EnergyConsumed,
	}
	e.rec.Append(row)
	for _, m := range e.metrics {
		m.Observe(row)
	}
	for _, o := range e.observers {
		o.OnTick(row)
	}
	e.tick++

	// Finished takes priority: crossing the line exactly at the time
	// limit still counts as a finish.
	if e.state.Position >= e.track.Length() {
		e.clock.finish()
	} else if e.state.ElapsedTime >= e.track.TimeLimit() {
		e.clock.timeout()
	}

	return e.Outcome()
}

// Run drives the engine headlessly until a terminal phase or context
// cancellation. The time limit bounds the loop, so it always terminates.
func (e *Engine) Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Dt <= 0 {
		return nil, errors.New("sim: dt must be positive")
	}

	e.Start()
	for e.clock.Phase() == Running {
		select {
		case <-ctx.Done():
			return e.result(), ctx.Err()
		default:
		}
		e.Tick(cfg.Dt)
	}

	res := e.result()
	if res.Outcome.Phase == Failed {
		return res, ErrEngineFailed
	}
	return res, nil
}

func (e *Engine) result() *Result {
	metrics := make(map[string]float64, len(e.metrics))
	for _, m := range e.metrics {
		metrics[m.Name()] = m.Value()
	}
	return &Result{
		Outcome: e.Outcome(),
		Summary: e.rec.Summary(),
		Rows:    e.rec.Rows(),
		Metrics: metrics,
		Faults:  e.host.Faults(),
	}
}
