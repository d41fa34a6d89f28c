package controller

import "fmt"

// Coast always returns zero drive.
type Coast struct{}

func (Coast) Name() string            { return "coast" }
func (Coast) GearRatio(Input) float64 { return 0 }

// Constant holds a fixed gear ratio for the whole run.
type Constant struct {
	Ratio float64
}

func (c Constant) Name() string            { return fmt.Sprintf("constant(%.2f)", c.Ratio) }
func (c Constant) GearRatio(Input) float64 { return c.Ratio }

// Eco is the reference shifting heuristic: coast downhills, shift low
// before steep climbs and low-friction zones, high gear at speed.
type Eco struct{}

func (Eco) Name() string { return "eco" }

func (Eco) GearRatio(in Input) float64 {
	// Downhill: coasting costs nothing.
	if in.Slope < -0.05 {
		return 0
	}

	if in.HasNext {
		// Shift low 10m before a steep climb.
		if in.NextSlope > 0.4 && in.Position > in.NextStart-10 {
			return 4.5
		}
		// Ease off 5m before a low-friction zone.
		if in.NextFriction < 0.4 && in.Position > in.NextStart-5 {
			g := 1.0 / (in.NextFriction + 0.1)
			if g > 2.0 {
				g = 2.0
			}
			if g < 0.5 {
				g = 0.5
			}
			return g
		}
	}

	switch {
	case in.Slope > 0.3:
		return 4.0
	case in.Slope > 0.1:
		return 2.5
	case in.Velocity > 10.0:
		return 0.8
	default:
		return 1.5
	}
}

// ForName resolves a built-in strategy by name. The gear argument only
// applies to "constant".
func ForName(name string, gear float64) (Strategy, error) {
	switch name {
	case "coast":
		return Coast{}, nil
	case "constant":
		return Constant{Ratio: gear}, nil
	case "eco":
		return Eco{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy: %s", name)
	}
}
