package vehicle

import "math"

// Physical constants. Mass matches the rider+bike from the reference
// course data; the engine force constant is sized so that top gear on a
// flat segment comfortably beats friction (gear 5 on mu=0.1 gives a net
// ~230 N, about 3.3 m/s^2).
const (
	Mass                = 70.0  // kg
	Gravity             = 9.81  // m/s^2
	EngineForceConstant = 60.0  // N per gear ratio unit
	MinGearRatio        = 0.0
	MaxGearRatio        = 5.0
)

// State holds the mutable vehicle quantities. Position and velocity never
// go negative; energy is monotonically non-decreasing. Elevation is
// integrated from the grade for display only.
type State struct {
	Position       float64
	Velocity       float64
	EnergyConsumed float64
	ElapsedTime    float64
	Elevation      float64
}

// StepResult reports the per-tick force breakdown and power draw.
type StepResult struct {
	EngineForce   float64
	GravityForce  float64
	FrictionForce float64
	NetForce      float64
	Acceleration  float64
	Power         float64
	EnergyDelta   float64
}

// ClampGear maps any controller output into the valid gear range.
// Out-of-range values are clamped, never rejected.
func ClampGear(gear float64) float64 {
	if math.IsNaN(gear) {
		return MinGearRatio
	}
	return math.Min(MaxGearRatio, math.Max(MinGearRatio, gear))
}

// Model advances vehicle state one fixed timestep at a time.
type Model struct {
	mass        float64
	gravity     float64
	engineForce float64
}

func NewModel() *Model {
	return &Model{
		mass:        Mass,
		gravity:     Gravity,
		engineForce: EngineForceConstant,
	}
}

// Step advances s by dt under the given gear ratio and local terrain.
// Slope is a grade ratio; the incline angle is atan(slope).
//
// The integrator is semi-implicit: position uses the pre-update velocity,
// which keeps the scheme stable under varying dt. Velocity is floored at
// zero (no reverse motion) and a static friction hold keeps the vehicle
// from sliding backward from rest.
func (m *Model) Step(s *State, gear, slope, friction, dt float64) StepResult {
	gear = ClampGear(gear)

	theta := math.Atan(slope)
	sinT := math.Sin(theta)
	cosT := math.Cos(theta)

	engineForce := gear * m.engineForce
	gravityForce := -m.mass * m.gravity * sinT

	normalForce := m.mass * m.gravity * cosT
	maxStaticFriction := friction * normalForce

	frictionForce := 0.0
	staticHold := false
	if s.Velocity > 0 {
		frictionForce = -friction * normalForce
	} else if math.Abs(engineForce+gravityForce) < maxStaticFriction {
		// At rest with insufficient drive: static friction holds.
		staticHold = true
	}

	netForce := engineForce + gravityForce + frictionForce
	if staticHold {
		netForce = 0
	}
	accel := netForce / m.mass

	prevVelocity := s.Velocity

	velocity := prevVelocity + accel*dt
	if velocity < 0 {
		velocity = 0
	}

	power := math.Max(0, engineForce*prevVelocity)
	energyDelta := power * dt

	dx := prevVelocity * dt

	s.Velocity = velocity
	s.Position += dx
	s.Elevation += slope * dx
	s.EnergyConsumed += energyDelta
	s.ElapsedTime += dt

	return StepResult{
		EngineForce:   engineForce,
		GravityForce:  gravityForce,
		FrictionForce: frictionForce,
		NetForce:      netForce,
		Acceleration:  accel,
		Power:         power,
		EnergyDelta:   energyDelta,
	}
}
