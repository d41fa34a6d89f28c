// Package metrics reduces telemetry streams to per-run scalar scores.
package metrics

import "github.com/san-kum/ecogear/internal/telemetry"

// Score is the efficiency score: progress scaled to a million points minus
// total energy spent. Negative scores show the energy penalty outweighing
// progress.
type Score struct {
	trackLength float64
	last        telemetry.Row
	seen        bool
}

func NewScore(trackLength float64) *Score {
	return &Score{trackLength: trackLength}
}

func (s *Score) Name() string { return "score" }

func (s *Score) Observe(row telemetry.Row) {
	s.last = row
	s.seen = true
}

func (s *Score) Value() float64 {
	if !s.seen || s.trackLength <= 0 {
		return 0
	}
	progress := s.last.Position / s.trackLength
	if progress > 1 {
		progress = 1
	}
	return progress*1_000_000 - s.last.Energy
}

func (s *Score) Reset() {
	s.last = telemetry.Row{}
	s.seen = false
}

// AverageSpeed is mean velocity over all observed ticks.
type AverageSpeed struct {
	sum   float64
	count int
}

func NewAverageSpeed() *AverageSpeed { return &AverageSpeed{} }

func (a *AverageSpeed) Name() string { return "avg_speed" }

func (a *AverageSpeed) Observe(row telemetry.Row) {
	a.sum += row.Velocity
	a.count++
}

func (a *AverageSpeed) Value() float64 {
	if a.count == 0 {
		return 0
	}
	return a.sum / float64(a.count)
}

func (a *AverageSpeed) Reset() {
	a.sum = 0
	a.count = 0
}

// PeakPower is the maximum instantaneous power draw seen in the run.
type PeakPower struct {
	peak float64
}

func NewPeakPower() *PeakPower { return &PeakPower{} }

func (p *PeakPower) Name() string { return "peak_power" }

func (p *PeakPower) Observe(row telemetry.Row) {
	if row.Power > p.peak {
		p.peak = row.Power
	}
}

func (p *PeakPower) Value() float64 { return p.peak }

func (p *PeakPower) Reset() { p.peak = 0 }
