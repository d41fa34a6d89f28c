package sim

import "testing"

func TestClockLifecycle(t *testing.T) {
	var c Clock

	if c.Phase() != Idle {
		t.Fatalf("expected Idle, got %v", c.Phase())
	}

	c.Start()
	if c.Phase() != Running {
		t.Fatalf("expected Running, got %v", c.Phase())
	}

	c.Pause()
	if c.Phase() != Paused {
		t.Fatalf("expected Paused, got %v", c.Phase())
	}

	c.Resume()
	if c.Phase() != Running {
		t.Fatalf("expected Running after resume, got %v", c.Phase())
	}

	c.finish()
	if c.Phase() != Finished {
		t.Fatalf("expected Finished, got %v", c.Phase())
	}

	// Terminal until explicit restart.
	c.Pause()
	c.Resume()
	c.timeout()
	if c.Phase() != Finished {
		t.Fatalf("Finished must be sticky, got %v", c.Phase())
	}

	if !c.Restart() {
		t.Fatal("restart from terminal phase should succeed")
	}
	if c.Phase() != Running {
		t.Fatalf("expected Running after restart, got %v", c.Phase())
	}
}

func TestClockRestartFromIdle(t *testing.T) {
	var c Clock
	if c.Restart() {
		t.Error("restart from Idle should be rejected")
	}
	if c.Phase() != Idle {
		t.Errorf("expected Idle, got %v", c.Phase())
	}
}

func TestClockPauseOnlyWhenRunning(t *testing.T) {
	var c Clock
	c.Pause()
	if c.Phase() != Idle {
		t.Errorf("pause from Idle should be a no-op, got %v", c.Phase())
	}

	c.Start()
	c.timeout()
	c.Pause()
	if c.Phase() != TimedOut {
		t.Errorf("pause from terminal should be a no-op, got %v", c.Phase())
	}
}

func TestPhaseTerminal(t *testing.T) {
	tests := []struct {
		phase    Phase
		terminal bool
	}{
		{Idle, false},
		{Running, false},
		{Paused, false},
		{Finished, true},
		{TimedOut, true},
		{Failed, true},
	}
	for _, tt := range tests {
		if tt.phase.Terminal() != tt.terminal {
			t.Errorf("%v: expected terminal=%v", tt.phase, tt.terminal)
		}
	}
}
