package metrics

import (
	"testing"

	"github.com/san-kum/ecogear/internal/telemetry"
)

func TestScore(t *testing.T) {
	s := NewScore(100)

	if s.Value() != 0 {
		t.Error("expected zero score with no observations")
	}

	s.Observe(telemetry.Row{Position: 50, Energy: 1000})
	if got := s.Value(); got != 0.5*1_000_000-1000 {
		t.Errorf("unexpected score %f", got)
	}

	// Overshooting the finish line caps progress at 1.
	s.Observe(telemetry.Row{Position: 120, Energy: 2000})
	if got := s.Value(); got != 1_000_000-2000 {
		t.Errorf("unexpected score %f", got)
	}

	s.Reset()
	if s.Value() != 0 {
		t.Error("expected zero score after reset")
	}
}

func TestAverageSpeed(t *testing.T) {
	a := NewAverageSpeed()

	a.Observe(telemetry.Row{Velocity: 2})
	a.Observe(telemetry.Row{Velocity: 4})
	a.Observe(telemetry.Row{Velocity: 6})

	if got := a.Value(); got != 4 {
		t.Errorf("expected 4, got %f", got)
	}

	a.Reset()
	if a.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestPeakPower(t *testing.T) {
	p := NewPeakPower()

	p.Observe(telemetry.Row{Power: 100})
	p.Observe(telemetry.Row{Power: 300})
	p.Observe(telemetry.Row{Power: 50})

	if got := p.Value(); got != 300 {
		t.Errorf("expected 300, got %f", got)
	}
}
