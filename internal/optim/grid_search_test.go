package optim

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/san-kum/ecogear/internal/controller"
	"github.com/san-kum/ecogear/internal/metrics"
	"github.com/san-kum/ecogear/internal/sim"
	"github.com/san-kum/ecogear/internal/track"
)

func TestRange(t *testing.T) {
	gears := Range(0.5, 1.5, 0.5)
	want := []float64{0.5, 1.0, 1.5}
	if len(gears) != len(want) {
		t.Fatalf("expected %d candidates, got %v", len(want), gears)
	}
	for i := range want {
		if gears[i] != want[i] {
			t.Errorf("candidate %d: got %f, want %f", i, gears[i], want[i])
		}
	}

	if Range(1, 0, 0.5) != nil {
		t.Error("expected nil for inverted range")
	}
	if Range(0, 1, 0) != nil {
		t.Error("expected nil for zero step")
	}
}

func TestSearchPrefersDriving(t *testing.T) {
	tr, err := track.New([]track.Segment{
		{Start: 0, End: 100, Slope: 0, Friction: 0.1},
	}, 35.0)
	if err != nil {
		t.Fatal(err)
	}

	logger := log.New(io.Discard)
	build := func(gear float64) (*sim.Engine, error) {
		host := controller.NewHost(controller.Constant{Ratio: gear}, logger)
		eng := sim.NewEngine(tr, host, logger)
		eng.AddMetric(metrics.NewScore(tr.Length()))
		return eng, nil
	}

	// Coasting never moves, so any driving gear must win.
	sweep := NewGearSweep([]float64{0, 2.0})
	bestGear, bestScore, err := sweep.Search(context.Background(), build, 0.01, "score")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if bestGear != 2.0 {
		t.Errorf("expected gear 2.0 to win, got %f", bestGear)
	}
	if bestScore <= 0 {
		t.Errorf("expected positive best score, got %f", bestScore)
	}
}

func TestSearchCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sweep := NewGearSweep([]float64{1.0})
	_, _, err := sweep.Search(ctx, func(float64) (*sim.Engine, error) {
		t.Fatal("build should not run after cancellation")
		return nil, nil
	}, 0.01, "score")
	if err == nil {
		t.Fatal("expected context error")
	}
}
