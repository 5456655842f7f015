// Package viz renders matrix and trend charts as PNG artifacts. Missing
// matrix cells become gaps in the line, never zeros or interpolations.
package viz

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart"
	"github.com/wcharczuk/go-chart/drawing"

	"github.com/mgearhart/heattrends/internal/domain"
	"github.com/mgearhart/heattrends/internal/trend"
)

var (
	backgroundColor = drawing.Color{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
	trendLineColor  = drawing.Color{R: 0xd7, G: 0x30, B: 0x1f, A: 0xff}
	scatterColor    = drawing.Color{R: 0xd7, G: 0x30, B: 0x1f, A: 0xb0}

	// highlightPalette colors the most recent years, newest first.
	highlightPalette = []drawing.Color{
		{R: 0xb3, G: 0x00, B: 0x00, A: 0xff},
		{R: 0xe3, G: 0x4a, B: 0x33, A: 0xff},
		{R: 0xfc, G: 0x8d, B: 0x59, A: 0xff},
		{R: 0xfd, G: 0xbb, B: 0x84, A: 0xff},
	}
)

// highlightColor picks the shade for a highlighted year by its distance from
// the newest year. Years older than the palette depth share the lightest shade.
func highlightColor(fromNewest int) drawing.Color {
	if fromNewest >= len(highlightPalette) {
		return highlightPalette[len(highlightPalette)-1]
	}
	return highlightPalette[fromNewest]
}

// RenderMatrix draws one line per year across day-of-year 1..365. The most
// recent highlightYears are emphasized with color and drawn on top; earlier
// years form a uniform gray background. Days without a value break the line.
func RenderMatrix(w io.Writer, m *domain.YearMatrix, highlightYears int, title string) error {
	years := m.Years()
	if len(years) == 0 {
		return fmt.Errorf("matrix for %s has no observations", m.Metric.Code())
	}
	if highlightYears > len(years) {
		highlightYears = len(years)
	}
	firstHighlight := len(years) - highlightYears

	var series []chart.Series
	appendYear := func(year int, style chart.Style, named bool) {
		for i, run := range yearRuns(m, year) {
			s := chart.ContinuousSeries{
				XValues: run.xs,
				YValues: run.ys,
				Style:   style,
			}
			if named && i == 0 {
				s.Name = fmt.Sprintf("%d", year)
			}
			series = append(series, s)
		}
	}

	// Background years first so highlighted lines draw over them.
	bgStyle := chart.Style{Show: true, StrokeColor: backgroundColor, StrokeWidth: 1.0}
	for _, year := range years[:firstHighlight] {
		appendYear(year, bgStyle, false)
	}
	for i, year := range years[firstHighlight:] {
		color := highlightColor(highlightYears - 1 - i)
		appendYear(year, chart.Style{Show: true, StrokeColor: color, StrokeWidth: 2.0}, true)
	}

	graph := chart.Chart{
		Title:      title,
		TitleStyle: chart.Style{Show: true},
		Width:      1400,
		Height:     600,
		XAxis: chart.XAxis{
			Name:      "Day of Year",
			NameStyle: chart.Style{Show: true},
			Style:     chart.Style{Show: true},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{Show: true},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

// run is one contiguous stretch of present day-of-year values.
type run struct {
	xs []float64
	ys []float64
}

// yearRuns splits a year's column into contiguous runs so gaps render as
// breaks in the line.
func yearRuns(m *domain.YearMatrix, year int) []run {
	var runs []run
	var cur run
	flush := func() {
		if len(cur.xs) > 0 {
			runs = append(runs, cur)
			cur = run{}
		}
	}
	for doy := 1; doy <= domain.DaysPerYear; doy++ {
		v, ok := m.Value(doy, year)
		if !ok {
			flush()
			continue
		}
		cur.xs = append(cur.xs, float64(doy))
		cur.ys = append(cur.ys, v)
	}
	flush()
	return runs
}

// RenderTrend draws a yearly series as a scatter with its fitted regression
// line. The fit must have StatusOK; unavailable fits have nothing to draw.
func RenderTrend(w io.Writer, series []trend.YearlyValue, fit trend.TrendResult) error {
	if fit.Status != trend.StatusOK {
		return fmt.Errorf("trend for %s is unavailable: %s", fit.Series, fit.Note)
	}
	if len(series) == 0 {
		return fmt.Errorf("series %s is empty", fit.Series)
	}

	xs := make([]float64, 0, len(series))
	ys := make([]float64, 0, len(series))
	for _, v := range series {
		xs = append(xs, float64(v.Year))
		ys = append(ys, v.Value)
	}

	firstYear, lastYear := xs[0], xs[len(xs)-1]
	fitted := chart.ContinuousSeries{
		Name:    fmt.Sprintf("trend %.3f/yr", fit.Slope),
		XValues: []float64{firstYear, lastYear},
		YValues: []float64{
			fit.Slope*firstYear + fit.Intercept,
			fit.Slope*lastYear + fit.Intercept,
		},
		Style: chart.Style{Show: true, StrokeColor: trendLineColor, StrokeWidth: 2.0},
	}

	scatter := chart.ContinuousSeries{
		Name:    fit.Series,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			Show:        true,
			StrokeWidth: chart.Disabled,
			DotWidth:    4.0,
			DotColor:    scatterColor,
		},
	}

	graph := chart.Chart{
		Title:      fmt.Sprintf("%s (%s): %.3f/yr, p=%.4f", fit.Series, fit.Window, fit.Slope, fit.PValue),
		TitleStyle: chart.Style{Show: true},
		Width:      1400,
		Height:     500,
		XAxis: chart.XAxis{
			Name:      "Year",
			NameStyle: chart.Style{Show: true},
			Style:     chart.Style{Show: true},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{Show: true},
		},
		Series: []chart.Series{scatter, fitted},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}
