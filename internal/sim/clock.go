package sim

// Phase is the simulation lifecycle state.
type Phase int

const (
	Idle Phase = iota
	Running
	Paused
	Finished
	TimedOut
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	case TimedOut:
		return "timed_out"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the phase is sticky until an explicit restart.
func (p Phase) Terminal() bool {
	return p == Finished || p == TimedOut || p == Failed
}

// Clock is the fixed-timestep state machine:
//
//	Idle -> Running <-> Paused -> {Finished, TimedOut, Failed}
//
// Terminal phases only leave via restart.
type Clock struct {
	phase Phase
}

func (c *Clock) Phase() Phase { return c.phase }

// Start moves Idle to Running. No-op in any other phase.
func (c *Clock) Start() {
	if c.phase == Idle {
		c.phase = Running
	}
}

// Pause suspends a running simulation; ticks become no-ops.
func (c *Clock) Pause() {
	if c.phase == Running {
		c.phase = Paused
	}
}

// Resume continues a paused simulation.
func (c *Clock) Resume() {
	if c.phase == Paused {
		c.phase = Running
	}
}

// Restart is valid from any non-Idle phase and goes straight to Running.
func (c *Clock) Restart() bool {
	if c.phase == Idle {
		return false
	}
	c.phase = Running
	return true
}

func (c *Clock) finish() {
	if c.phase == Running {
		c.phase = Finished
	}
}

func (c *Clock) timeout() {
	if c.phase == Running {
		c.phase = TimedOut
	}
}

func (c *Clock) fail() {
	if !c.phase.Terminal() {
		c.phase = Failed
	}
}
