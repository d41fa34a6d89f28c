package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/ecogear/internal/telemetry"
)

// polylineSVG renders one series as a dark-background SVG path. Bounds
// get 10% padding so the trace never touches the frame.
func polylineSVG(xs, ys []float64, width, height int, strokeColor string) string {
	if len(xs) < 2 || len(xs) != len(ys) {
		return ""
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := range xs {
		if xs[i] < minX {
			minX = xs[i]
		}
		if xs[i] > maxX {
			maxX = xs[i]
		}
		if ys[i] < minY {
			minY = ys[i]
		}
		if ys[i] > maxY {
			maxY = ys[i]
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := range xs {
		x := (xs[i] - minX) / rangeX * float64(width)
		y := float64(height) - (ys[i]-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// ProfileSVG renders a track elevation profile sampled at uniform steps.
func ProfileSVG(profile []float64, width, height int, strokeColor string) string {
	xs := make([]float64, len(profile))
	for i := range profile {
		xs[i] = float64(i)
	}
	return polylineSVG(xs, profile, width, height, strokeColor)
}

// VelocitySVG renders velocity against position for a stored run.
func VelocitySVG(rows []telemetry.Row, width, height int, strokeColor string) string {
	xs := make([]float64, len(rows))
	ys := make([]float64, len(rows))
	for i, row := range rows {
		xs[i] = row.Position
		ys[i] = row.Velocity
	}
	return polylineSVG(xs, ys, width, height, strokeColor)
}

// EnergySVG renders cumulative energy against elapsed time.
func EnergySVG(rows []telemetry.Row, width, height int, strokeColor string) string {
	xs := make([]float64, len(rows))
	ys := make([]float64, len(rows))
	for i, row := range rows {
		xs[i] = row.Elapsed
		ys[i] = row.Energy
	}
	return polylineSVG(xs, ys, width, height, strokeColor)
}
