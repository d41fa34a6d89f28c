package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/san-kum/ecogear/internal/telemetry"
)

const (
	liveWidth   = 60
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer prints a throttled progress view during headless runs.
// It observes telemetry ticks and redraws at the configured frame rate.
type LiveRenderer struct {
	trackLength float64
	timeLimit   float64
	frameRate   int
	lastFrame   time.Time
}

func NewLiveRenderer(trackLength, timeLimit float64, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{
		trackLength: trackLength,
		timeLimit:   timeLimit,
		frameRate:   frameRate,
	}
}

func (r *LiveRenderer) OnTick(row telemetry.Row) {
	elapsed := time.Since(r.lastFrame)
	if elapsed < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	progress := row.Position / r.trackLength
	if progress > 1 {
		progress = 1
	}
	filled := int(progress * float64(liveWidth))

	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  t=%.1fs/%.0fs\n", row.Elapsed, r.timeLimit))
	b.WriteString("  [" + strings.Repeat("#", filled) + strings.Repeat("-", liveWidth-filled) + "]\n")
	b.WriteString(fmt.Sprintf("  pos=%.1fm  v=%.2fm/s  gear=%.2f\n", row.Position, row.Velocity, row.Gear))
	b.WriteString(fmt.Sprintf("  slope=%+.2f  mu=%.2f  P=%.1fW  E=%.1fJ\n", row.Slope, row.Friction, row.Power, row.Energy))
	fmt.Print(b.String())
}

func (r *LiveRenderer) Start() { fmt.Print(hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Print(showCursor) }
