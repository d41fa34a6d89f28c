package controller

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/ecogear/internal/vehicle"
)

// DefaultTimeout bounds a single strategy invocation.
const DefaultTimeout = 50 * time.Millisecond

// Host owns the strategy lifecycle outside the engine's trust boundary.
// Invoke guards every call with panic recovery and a wall-clock budget; a
// faulting strategy degrades to coasting for that tick, it never kills the
// run. Load and Reload swap the active strategy atomically, so a reload
// takes effect on the next tick boundary.
type Host struct {
	mu         sync.Mutex
	active     atomic.Pointer[slot]
	scriptPath string
	timeout    time.Duration
	logger     *log.Logger

	faults   atomic.Uint64
	timeouts atomic.Uint64
	lastErr  atomic.Pointer[string]
}

type slot struct {
	strategy Strategy
}

// NewHost starts with the given strategy active. A nil strategy coasts.
func NewHost(s Strategy, logger *log.Logger) *Host {
	if logger == nil {
		logger = log.Default()
	}
	h := &Host{
		timeout: DefaultTimeout,
		logger:  logger,
	}
	if s == nil {
		s = Coast{}
	}
	h.active.Store(&slot{strategy: s})
	return h
}

// SetTimeout overrides the per-invocation budget.
func (h *Host) SetTimeout(d time.Duration) {
	if d > 0 {
		h.timeout = d
	}
}

// ActiveName reports the currently bound strategy.
func (h *Host) ActiveName() string {
	return h.active.Load().strategy.Name()
}

// Faults returns the count of guarded invocation failures so far.
func (h *Host) Faults() uint64 { return h.faults.Load() }

// Timeouts returns how many of those failures were budget trips.
func (h *Host) Timeouts() uint64 { return h.timeouts.Load() }

// LastFault returns the most recent fault description, if any.
func (h *Host) LastFault() string {
	if s := h.lastErr.Load(); s != nil {
		return *s
	}
	return ""
}

// ResetCounters zeroes the fault statistics for a fresh run.
func (h *Host) ResetCounters() {
	h.faults.Store(0)
	h.timeouts.Store(0)
	h.lastErr.Store(nil)
}

// Swap installs a strategy directly (built-ins, tests).
func (h *Host) Swap(s Strategy) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.active.Store(&slot{strategy: s})
}

// Load compiles the script at path and activates it. On failure the
// previously active strategy stays bound (fail-open to last-known-good)
// and the returned error wraps ErrControllerLoad.
func (h *Host) Load(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, err := LoadScript(path)
	if err != nil {
		h.logger.Warn("controller load failed, keeping previous strategy",
			"path", path, "err", err)
		return err
	}

	h.scriptPath = path
	h.active.Store(&slot{strategy: s})
	h.logger.Info("controller loaded", "strategy", s.Name())
	return nil
}

// Reload re-runs Load against the current script source. Without a script
// source it is a no-op. In-flight tick semantics are unaffected: the swap
// is atomic and Invoke reads the active strategy once per tick.
func (h *Host) Reload() error {
	h.mu.Lock()
	path := h.scriptPath
	h.mu.Unlock()

	if path == "" {
		return nil
	}
	return h.Load(path)
}

// Invoke calls the active strategy under the fault and timeout guards and
// returns a gear ratio clamped to the valid range. Any panic, non-numeric
// return, or budget trip substitutes coasting for this tick.
func (h *Host) Invoke(in Input) float64 {
	s := h.active.Load().strategy

	gearCh := make(chan float64, 1)
	errCh := make(chan error, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				errCh <- fmt.Errorf("%w: panic: %v", ErrControllerRuntime, r)
			}
		}()
		gearCh <- s.GearRatio(in)
	}()

	select {
	case gear := <-gearCh:
		if math.IsNaN(gear) || math.IsInf(gear, 0) {
			h.recordFault(fmt.Errorf("%w: non-numeric gear ratio", ErrControllerRuntime))
			return 0
		}
		return vehicle.ClampGear(gear)
	case err := <-errCh:
		h.recordFault(err)
		return 0
	case <-time.After(h.timeout):
		// The stuck goroutine is abandoned; its eventual send lands in a
		// buffered channel nobody reads.
		h.recordFault(fmt.Errorf("%w: budget %v exceeded", ErrControllerTimeout, h.timeout))
		return 0
	}
}

func (h *Host) recordFault(err error) {
	h.faults.Add(1)
	if errors.Is(err, ErrControllerTimeout) {
		h.timeouts.Add(1)
	}
	msg := err.Error()
	h.lastErr.Store(&msg)
	h.logger.Warn("controller fault, coasting this tick", "err", err)
}
