package renderer

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/etnz/appreciation"
	"github.com/rs/zerolog/log"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette is the ordered list of colors used for reference lines.
var Palette = []drawing.Color{
	drawing.ColorFromHex("dc2626"), // red
	drawing.ColorFromHex("f97316"), // orange
	drawing.ColorFromHex("16a34a"), // green
	drawing.ColorFromHex("2563eb"), // blue
	drawing.ColorFromHex("9333ea"), // purple
}

// Bar is a labelled bar of a chart.
type Bar struct {
	Label string
	Value float64
}

// Bars returns one bar per row of r, labelled by purchase date.
func Bars(r *appreciation.Report) []Bar {
	bars := make([]Bar, 0, len(r.Rows))
	for _, row := range r.Rows {
		bars = append(bars, Bar{Label: row.Date.String(), Value: row.Appreciation})
	}
	return bars
}

// ChartOptions control the chart layout.
type ChartOptions struct {
	Title  string
	Width  int
	Height int
}

// BarChart renders bars as a PNG image, with a dashed horizontal line for
// each reference value.
//
// Reference lines take the colors of Palette in order. References beyond the
// palette are not drawn.
func BarChart(bars []Bar, refs []float64, opts ChartOptions) ([]byte, error) {
	if len(bars) == 0 {
		return nil, errors.New("no bar to draw")
	}
	refs = paletteLimit(refs)
	yrange := valueRange(bars, refs)
	values := make([]chart.Value, 0, len(bars))
	for _, b := range bars {
		values = append(values, chart.Value{Value: b.Value, Label: b.Label})
	}

	graph := chart.BarChart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		BarWidth: barWidth(len(bars), opts.Width),
		XAxis:    chart.Style{FontSize: 8},
		YAxis: chart.YAxis{
			Range: yrange,
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		Bars:     values,
		Elements: []chart.Renderable{referenceLines(refs, yrange)},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// paletteLimit drops the references that have no color left.
func paletteLimit(refs []float64) []float64 {
	if len(refs) <= len(Palette) {
		return refs
	}
	log.Warn().Int("references", len(refs)).Int("colors", len(Palette)).Msg("more reference lines than colors, extra lines are not drawn")
	return refs[:len(Palette)]
}

// valueRange returns the y axis range holding every bar and reference, with
// a 10% margin. It starts at 0 unless a value is negative.
func valueRange(bars []Bar, refs []float64) *chart.ContinuousRange {
	low, high := 0.0, 0.0
	for _, b := range bars {
		low, high = math.Min(low, b.Value), math.Max(high, b.Value)
	}
	for _, v := range refs {
		low, high = math.Min(low, v), math.Max(high, v)
	}
	if high <= 0 && low == 0 {
		high = 1
	}
	return &chart.ContinuousRange{Min: low * 1.1, Max: high * 1.1}
}

// barWidth spreads n bars over width, within readable bounds.
func barWidth(n, width int) int {
	if width <= 0 {
		width = chart.DefaultChartWidth
	}
	w := width / (2 * n)
	return max(4, min(w, 50))
}

// referenceLines draws a dashed line and its label for every value of refs.
func referenceLines(refs []float64, yrange *chart.ContinuousRange) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		for i, v := range refs {
			y := box.Bottom - int(math.Ceil((v-yrange.Min)/yrange.GetDelta()*float64(box.Height())))
			color := Palette[i]

			r.SetStrokeColor(color)
			r.SetStrokeWidth(1.5)
			r.SetStrokeDashArray([]float64{5.0, 3.0})
			r.MoveTo(box.Left, y)
			r.LineTo(box.Right, y)
			r.Stroke()

			if defaults.Font == nil {
				continue
			}
			r.SetFont(defaults.Font)
			r.SetFontColor(color)
			r.SetFontSize(9)
			r.Text(fmt.Sprintf("Ref %d: %.2f", i+1, v), box.Left+5, y-4)
		}
	}
}
