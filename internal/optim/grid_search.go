package optim

import (
	"context"
	"math"

	"github.com/san-kum/ecogear/internal/sim"
)

// GearSweep grid-searches constant gear ratios for the best score on a
// fixed track. Each candidate gets a fresh engine from the build
// function, so runs never share state.
type GearSweep struct {
	gears []float64
}

func NewGearSweep(gears []float64) *GearSweep {
	return &GearSweep{gears: gears}
}

// Range builds an inclusive candidate list from min to max in steps.
func Range(min, max, step float64) []float64 {
	if step <= 0 || max < min {
		return nil
	}
	gears := make([]float64, 0, int((max-min)/step)+1)
	for g := min; g <= max+step/2; g += step {
		gears = append(gears, g)
	}
	return gears
}

// Search runs every candidate and returns the gear with the highest
// value of the named metric. Failed runs are skipped.
func (s *GearSweep) Search(
	ctx context.Context,
	build func(gear float64) (*sim.Engine, error),
	dt float64,
	metricName string,
) (float64, float64, error) {

	best := math.Inf(-1)
	bestGear := 0.0

	for _, gear := range s.gears {
		select {
		case <-ctx.Done():
			return bestGear, best, ctx.Err()
		default:
		}

		eng, err := build(gear)
		if err != nil {
			return 0, 0, err
		}

		result, err := eng.Run(ctx, sim.Config{Dt: dt})
		if err != nil {
			continue
		}

		if val, ok := result.Metrics[metricName]; ok && val > best {
			best = val
			bestGear = gear
		}
	}

	return bestGear, best, nil
}
