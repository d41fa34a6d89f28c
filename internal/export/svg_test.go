package export

import (
	"strings"
	"testing"

	"github.com/san-kum/ecogear/internal/telemetry"
)

func TestProfileSVG(t *testing.T) {
	svg := ProfileSVG([]float64{0, 1, 2, 1, 0}, 400, 200, "#00ff00")

	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing XML header")
	}
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "</svg>") {
		t.Error("not a complete SVG document")
	}
	if !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Error("stroke color not applied")
	}
}

func TestVelocitySVGNeedsTwoPoints(t *testing.T) {
	rows := []telemetry.Row{{Position: 0, Velocity: 0}}
	if svg := VelocitySVG(rows, 400, 200, "#fff"); svg != "" {
		t.Error("expected empty output for a single point")
	}
}

func TestEnergySVGFlatSeries(t *testing.T) {
	// A constant series must not divide by a zero range.
	rows := []telemetry.Row{
		{Elapsed: 0, Energy: 5},
		{Elapsed: 1, Energy: 5},
		{Elapsed: 2, Energy: 5},
	}
	svg := EnergySVG(rows, 400, 200, "#ffcc00")
	if !strings.Contains(svg, "<path") {
		t.Error("expected a path element")
	}
	if strings.Contains(svg, "NaN") {
		t.Error("flat series produced NaN coordinates")
	}
}
