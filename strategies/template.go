// A strategy script: load it with `ecogear run --script strategies/template.go`
// and edit while the dashboard is open, then press c to reload.
//
// GetGearRatio is called once per tick. state carries position, velocity,
// slope, friction, elapsed. track carries length, time_limit, and when a
// next segment exists: next_start, next_end, next_slope, next_friction.
// Return a gear ratio in [0, 5]; 0 coasts.
package strategy

func GetGearRatio(state, track map[string]float64) float64 {
	slope := state["slope"]
	velocity := state["velocity"]

	// Coast downhill, it is free distance.
	if slope < -0.05 {
		return 0
	}

	// Shift low just before a steep climb.
	if next, ok := track["next_slope"]; ok && next > 0.4 {
		if state["position"] > track["next_start"]-10 {
			return 4.5
		}
	}

	switch {
	case slope > 0.3:
		return 4.0
	case slope > 0.1:
		return 2.5
	case velocity > 10.0:
		return 0.8
	default:
		return 1.5
	}
}
