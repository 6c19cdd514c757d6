// Package chart renders the progress charts sent back over the bot
// channel: one line per recorded day plus a flat line for the daily
// norm.
package chart

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Line renders a PNG with the day series and a dashed horizontal goal
// line. Labels and values must be the same length; at least two points
// are required for a meaningful line.
func Line(title, seriesLabel, goalLabel string, labels []string, values []float64, goalValue float64) ([]byte, error) {
	if len(labels) != len(values) {
		return nil, fmt.Errorf("labels/values length mismatch: %d vs %d", len(labels), len(values))
	}
	if len(values) < 2 {
		return nil, fmt.Errorf("need at least 2 points, got %d", len(values))
	}

	xs := make([]float64, len(values))
	goalLine := make([]float64, len(values))
	ticks := make([]chart.Tick, len(values))
	for i := range values {
		xs[i] = float64(i)
		goalLine[i] = goalValue
		ticks[i] = chart.Tick{Value: float64(i), Label: labels[i]}
	}

	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 450,
		XAxis: chart.XAxis{
			Ticks: ticks,
			TickStyle: chart.Style{
				TextRotationDegrees: 45.0,
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    seriesLabel,
				XValues: xs,
				YValues: values,
				Style: chart.Style{
					StrokeColor: drawing.ColorBlue,
					DotColor:    drawing.ColorBlue,
					DotWidth:    3,
				},
			},
			chart.ContinuousSeries{
				Name:    goalLabel,
				XValues: xs,
				YValues: goalLine,
				Style: chart.Style{
					StrokeColor:     drawing.ColorRed,
					StrokeDashArray: []float64{5.0, 5.0},
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
