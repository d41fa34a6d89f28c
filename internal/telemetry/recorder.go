package telemetry

// Row is one recorded snapshot per tick. Rows are append-only and never
// mutated after being recorded.
type Row struct {
	Tick     int     `json:"tick"`
	Elapsed  float64 `json:"elapsed"`
	Position float64 `json:"position"`
	Velocity float64 `json:"velocity"`
	Slope    float64 `json:"slope"`
	Friction float64 `json:"friction"`
	Gear     float64 `json:"gear"`
	Power    float64 `json:"power"`
	Energy   float64 `json:"energy"`
}

// Columns lists the CSV header in row order.
func Columns() []string {
	return []string{
		"tick", "elapsed", "position", "velocity",
		"slope", "friction", "gear", "power", "energy",
	}
}

// Summary aggregates a finished (or in-progress) run.
type Summary struct {
	Ticks       int
	TotalTime   float64
	TotalEnergy float64
	Distance    float64
}

// Recorder accumulates rows while logging is enabled. Toggling does not
// retroactively add or remove rows.
type Recorder struct {
	rows    []Row
	enabled bool
}

func NewRecorder() *Recorder {
	return &Recorder{
		rows:    make([]Row, 0, 1024),
		enabled: true,
	}
}

func (r *Recorder) Enabled() bool      { return r.enabled }
func (r *Recorder) SetEnabled(on bool) { r.enabled = on }
func (r *Recorder) Toggle() bool       { r.enabled = !r.enabled; return r.enabled }
func (r *Recorder) Len() int           { return len(r.rows) }

// Append records the row if logging is enabled.
func (r *Recorder) Append(row Row) {
	if !r.enabled {
		return
	}
	r.rows = append(r.rows, row)
}

// Rows returns a copy of the recorded sequence in tick order.
func (r *Recorder) Rows() []Row {
	rows := make([]Row, len(r.rows))
	copy(rows, r.rows)
	return rows
}

// Last returns the most recent row, if any.
func (r *Recorder) Last() (Row, bool) {
	if len(r.rows) == 0 {
		return Row{}, false
	}
	return r.rows[len(r.rows)-1], true
}

// Summary derives run totals from the recorded rows.
func (r *Recorder) Summary() Summary {
	last, ok := r.Last()
	if !ok {
		return Summary{}
	}
	return Summary{
		Ticks:       len(r.rows),
		TotalTime:   last.Elapsed,
		TotalEnergy: last.Energy,
		Distance:    last.Position,
	}
}

// Clear drops all rows, keeping the enabled flag as-is.
func (r *Recorder) Clear() {
	r.rows = r.rows[:0]
}
