package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ecogear/internal/sim"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

// Options configures the live dashboard.
type Options struct {
	Engine         *sim.Engine
	Dt             float64
	TrackName      string
	ControllerName string
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type dashboard struct {
	engine         *sim.Engine
	dt             float64
	trackName      string
	controllerName string

	speed       float64
	accumulator float64
	velHist     []float64
	terrain     []float64

	showHelp  bool
	statusMsg string
	width     int
	height    int
}

func newDashboard(opts Options) *dashboard {
	return &dashboard{
		engine:         opts.Engine,
		dt:             opts.Dt,
		trackName:      opts.TrackName,
		controllerName: opts.ControllerName,
		speed:          1.0,
		velHist:        make([]float64, 0, 120),
		terrain:        opts.Engine.Track().ElevationProfile(1.0),
		width:          80,
		height:         24,
	}
}

func (d dashboard) Init() tea.Cmd {
	return tick()
}

func (d dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return d.handleKey(msg)
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		return d, nil
	case tickMsg:
		if d.engine.Phase() == sim.Running {
			// Advance enough fixed steps to track wall time at the
			// chosen speed. The fractional remainder carries over.
			d.accumulator += 0.016 * d.speed / d.dt
			steps := int(d.accumulator)
			d.accumulator -= float64(steps)
			for i := 0; i < steps; i++ {
				out := d.engine.Tick(d.dt)
				if out.Phase != sim.Running {
					break
				}
			}
			d.velHist = append(d.velHist, d.engine.State().Velocity)
			if len(d.velHist) > 120 {
				d.velHist = d.velHist[1:]
			}
		}
		return d, tick()
	}
	return d, nil
}

func (d dashboard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "escape":
		return d, tea.Quit
	case " ", "p":
		if d.engine.Phase() == sim.Idle {
			d.engine.Start()
		} else {
			d.engine.TogglePause()
		}
		d.statusMsg = ""
	case "r":
		if d.engine.Phase() == sim.Idle {
			d.engine.Start()
		} else {
			d.engine.Restart()
		}
		d.velHist = d.velHist[:0]
		d.statusMsg = ""
	case "l":
		if d.engine.ToggleLogging() {
			d.statusMsg = "telemetry logging on"
		} else {
			d.statusMsg = "telemetry logging off"
		}
	case "c":
		if err := d.engine.ReloadController(); err != nil {
			d.statusMsg = "reload failed: " + err.Error()
		} else {
			d.statusMsg = "controller reloaded: " + d.engine.Host().ActiveName()
		}
	case "h":
		d.showHelp = !d.showHelp
	case "+", "=":
		d.speed = math.Min(d.speed*2, 16)
	case "-", "_":
		d.speed = math.Max(d.speed/2, 0.25)
	case "0":
		d.speed = 1.0
	}
	return d, nil
}

func phaseStatus(p sim.Phase) (string, string) {
	switch p {
	case sim.Running:
		return green.Render("●"), green.Render("running")
	case sim.Paused:
		return yellow.Render("○"), yellow.Render("paused")
	case sim.Finished:
		return cyan.Render("●"), cyan.Render("finished")
	case sim.TimedOut:
		return red.Render("●"), red.Render("timed out")
	case sim.Failed:
		return red.Render("✗"), red.Render("failed")
	default:
		return dim.Render("○"), dim.Render("idle")
	}
}

func (d dashboard) View() string {
	var b strings.Builder

	tr := d.engine.Track()
	state := d.engine.State()
	step := d.engine.LastStep()

	icon, status := phaseStatus(d.engine.Phase())
	b.WriteString(fmt.Sprintf("\n   %s %s  %s  %s  %s\n",
		icon, cyan.Render(d.trackName), status,
		dim.Render("ctrl: "+d.engine.Host().ActiveName()),
		dim.Render(fmt.Sprintf("x%.2g", d.speed))))

	progress := state.Position / tr.Length()
	if progress > 1 {
		progress = 1
	}
	barWidth := 40
	filled := int(progress * float64(barWidth))
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	b.WriteString(fmt.Sprintf("   %s %s\n",
		bar, dim.Render(fmt.Sprintf("%.1fm/%.0fm", state.Position, tr.Length()))))

	timeLeft := tr.TimeLimit() - state.ElapsedTime
	if timeLeft < 0 {
		timeLeft = 0
	}
	timeStyle := dim
	if timeLeft < 5 {
		timeStyle = red
	}
	b.WriteString(fmt.Sprintf("   %s %s\n\n",
		dim.Render(fmt.Sprintf("t=%.1fs", state.ElapsedTime)),
		timeStyle.Render(fmt.Sprintf("%.1fs left", timeLeft))))

	b.WriteString(d.renderTerrain(state.Position))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("   %s%s  %s%s  %s%s  %s%s\n",
		dim.Render("v="), white.Render(fmt.Sprintf("%5.2f m/s", state.Velocity)),
		dim.Render("gear="), magenta.Render(fmt.Sprintf("%.2f", d.engine.Gear())),
		dim.Render("P="), white.Render(fmt.Sprintf("%6.1f W", step.Power)),
		dim.Render("E="), yellow.Render(fmt.Sprintf("%8.1f J", state.EnergyConsumed))))

	faults := d.engine.Host().Faults()
	faultStr := dim.Render("faults=0")
	if faults > 0 {
		faultStr = red.Render(fmt.Sprintf("faults=%d", faults))
	}
	_, seg := tr.SegmentAt(state.Position)
	b.WriteString(fmt.Sprintf("   %s  %s  %s\n",
		dim.Render(fmt.Sprintf("slope=%+.2f", seg.Slope)),
		dim.Render(fmt.Sprintf("μ=%.2f", seg.Friction)),
		faultStr))

	if len(d.velHist) > 1 {
		chart := asciigraph.Plot(d.velHist,
			asciigraph.Height(4),
			asciigraph.Width(50),
			asciigraph.Caption("velocity"))
		b.WriteString("\n" + dim.Render(indent(chart, "   ")) + "\n")
	}

	if d.statusMsg != "" {
		b.WriteString("\n   " + yellow.Render(d.statusMsg) + "\n")
	}

	if d.showHelp {
		b.WriteString(d.renderHelp())
	} else {
		b.WriteString("\n" + dim.Render("   space pause  r restart  l logging  c reload  ±speed  h help  q quit") + "\n")
	}

	return b.String()
}

const terrainHeight = 7

// renderTerrain draws the elevation profile across the width with the
// vehicle marker at its current position.
func (d dashboard) renderTerrain(pos float64) string {
	if len(d.terrain) < 2 {
		return ""
	}
	w := d.width - 8
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}

	minE, maxE := d.terrain[0], d.terrain[0]
	for _, e := range d.terrain {
		if e < minE {
			minE = e
		}
		if e > maxE {
			maxE = e
		}
	}
	rang := maxE - minE
	if rang == 0 {
		rang = 1
	}

	canvas := make([][]rune, terrainHeight)
	for i := range canvas {
		canvas[i] = make([]rune, w)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	rowFor := func(elev float64) int {
		row := terrainHeight - 2 - int((elev-minE)/rang*float64(terrainHeight-2))
		if row < 0 {
			row = 0
		}
		if row > terrainHeight-2 {
			row = terrainHeight - 2
		}
		return row
	}

	for x := 0; x < w; x++ {
		idx := x * (len(d.terrain) - 1) / (w - 1)
		row := rowFor(d.terrain[idx])
		canvas[row][x] = '▄'
		for y := row + 1; y < terrainHeight; y++ {
			canvas[y][x] = '░'
		}
	}

	trackLen := float64(len(d.terrain) - 1)
	vx := int(pos / trackLen * float64(w-1))
	if vx < 0 {
		vx = 0
	}
	if vx > w-1 {
		vx = w - 1
	}
	vIdx := vx * (len(d.terrain) - 1) / (w - 1)
	vRow := rowFor(d.terrain[vIdx]) - 1
	if vRow < 0 {
		vRow = 0
	}
	canvas[vRow][vx] = '◉'

	var b strings.Builder
	for _, row := range canvas {
		b.WriteString("   " + dimmer.Render(string(row)) + "\n")
	}
	return b.String()
}

func (d dashboard) renderHelp() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(dimmer.Render("   ╺━━━━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	rows := [][2]string{
		{"space", "pause / resume"},
		{"r", "restart the run"},
		{"l", "toggle telemetry logging"},
		{"c", "reload controller script"},
		{"+/-", "sim speed up / down, 0 resets"},
		{"h", "toggle this help"},
		{"q", "quit"},
	}
	for _, row := range rows {
		b.WriteString("   " + cyan.Render(fmt.Sprintf("%-6s", row[0])) + dim.Render(row[1]) + "\n")
	}
	b.WriteString(dimmer.Render("   ╺━━━━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	return b.String()
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// Run starts the dashboard and blocks until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(newDashboard(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
