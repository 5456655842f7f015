package trend

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgearhart/heattrends/internal/domain"
	"github.com/mgearhart/heattrends/internal/observability"
)

func testAnalyzer(windows []Window) *Analyzer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAnalyzer(windows, []float64{90, 100}, 300, 2, 2, logger, observability.NewMetricsForTesting())
}

func TestAnalyzerRun_ThresholdSeries(t *testing.T) {
	var records []domain.TidyRecord
	records = append(records, yearAt(2001, domain.TempMax, 95)...)
	records = append(records, yearAt(2002, domain.TempMax, 85)...)
	records = append(records, yearAt(2003, domain.TempMax, 105)...)
	records = append(records, yearAt(2004, domain.TempMax, 95)...)

	a := testAnalyzer([]Window{CalendarWindow()})
	res := a.Run(records)

	// one series per threshold, four years each
	assert.Len(t, res.Yearly, 8)
	require.Len(t, res.Trends, 2)
	for _, tr := range res.Trends {
		assert.Equal(t, StatusOK, tr.Status)
		assert.Equal(t, 4, tr.N)
	}
	require.Len(t, res.Comparisons, 2)

	bySeries := make(map[string]PeriodComparison)
	for _, c := range res.Comparisons {
		bySeries[c.Series] = c
	}
	at90 := bySeries["TMAX_ge_90"]
	assert.InDelta(t, (365.0+0.0)/2, at90.EarlyMean, 1e-9)
	assert.InDelta(t, (365.0+365.0)/2, at90.RecentMean, 1e-9)
}

func TestAnalyzerRun_ContinuousMetricGetsMeans(t *testing.T) {
	var records []domain.TidyRecord
	records = append(records, yearAt(2001, domain.Humidity, 60)...)
	records = append(records, yearAt(2002, domain.Humidity, 65)...)
	records = append(records, yearAt(2003, domain.Humidity, 70)...)
	records = append(records, yearAt(2004, domain.Humidity, 75)...)

	a := testAnalyzer([]Window{CalendarWindow()})
	res := a.Run(records)

	require.Len(t, res.Trends, 1)
	assert.Equal(t, "RELH_AVG_mean", res.Trends[0].Series)
	assert.Equal(t, StatusOK, res.Trends[0].Status)
	assert.InDelta(t, 5.0, res.Trends[0].Slope, 1e-6)
}

func TestAnalyzerRun_AbsentMetricsSkipped(t *testing.T) {
	records := yearAt(2001, domain.TempMax, 95)
	records = append(records, yearAt(2002, domain.TempMax, 95)...)

	a := testAnalyzer([]Window{CalendarWindow()})
	res := a.Run(records)

	for _, v := range res.Yearly {
		assert.Equal(t, domain.TempMax, v.Metric)
	}
	for _, tr := range res.Trends {
		assert.Equal(t, domain.TempMax, tr.Metric)
	}
}

func TestAnalyzerRun_SingleYearSeriesUnavailable(t *testing.T) {
	records := yearAt(2001, domain.TempMax, 95)

	a := testAnalyzer([]Window{CalendarWindow()})
	res := a.Run(records)

	assert.Len(t, res.Yearly, 2, "yearly series survive even when the fit fails")
	require.Len(t, res.Trends, 2)
	for _, tr := range res.Trends {
		assert.Equal(t, StatusUnavailable, tr.Status)
		assert.NotEmpty(t, tr.Note)
		assert.Zero(t, tr.Slope)
	}
	assert.Empty(t, res.Comparisons)
}

func TestAnalyzerRun_PartialFailureKeepsOtherSeries(t *testing.T) {
	// TMAX has four years and fits; RELH_AVG has one year and fails.
	var records []domain.TidyRecord
	for y := 2001; y <= 2004; y++ {
		records = append(records, yearAt(y, domain.TempMax, 95)...)
	}
	records = append(records, yearAt(2004, domain.Humidity, 60)...)

	a := testAnalyzer([]Window{CalendarWindow()})
	res := a.Run(records)

	statuses := make(map[string]string)
	for _, tr := range res.Trends {
		statuses[tr.Series] = tr.Status
	}
	assert.Equal(t, StatusOK, statuses["TMAX_ge_90"])
	assert.Equal(t, StatusOK, statuses["TMAX_ge_100"])
	assert.Equal(t, StatusUnavailable, statuses["RELH_AVG_mean"])
}

func TestAnalyzerRun_MultipleWindows(t *testing.T) {
	var records []domain.TidyRecord
	for y := 2001; y <= 2004; y++ {
		records = append(records, yearAt(y, domain.TempMax, 95)...)
	}

	windows := []Window{CalendarWindow(), SummerWindow(6, 1, 9, 30), SchoolWindow(8, 15, 6, 5)}
	a := testAnalyzer(windows)
	res := a.Run(records)

	seen := make(map[string]bool)
	for _, tr := range res.Trends {
		seen[tr.Window] = true
	}
	assert.True(t, seen["calendar"])
	assert.True(t, seen["summer"])
	assert.True(t, seen["school"])
}

func TestAnalyzerRun_WindowWithoutObservationsUnavailable(t *testing.T) {
	// Humidity is observed only in July, which lies entirely outside the
	// school window.
	var records []domain.TidyRecord
	for y := 2001; y <= 2004; y++ {
		doy := 182
		for d := time.Date(y, 7, 1, 0, 0, 0, 0, time.UTC); d.Month() == time.July; d = d.AddDate(0, 0, 1) {
			records = append(records, domain.TidyRecord{
				Date:      d,
				Year:      y,
				Month:     7,
				Day:       d.Day(),
				DayOfYear: doy,
				Metric:    domain.Humidity,
				Value:     60,
			})
			doy++
		}
	}

	a := testAnalyzer([]Window{SchoolWindow(8, 15, 6, 5)})
	res := a.Run(records)

	assert.Empty(t, res.Yearly)
	require.Len(t, res.Trends, 1)
	tr := res.Trends[0]
	assert.Equal(t, StatusUnavailable, tr.Status)
	assert.Equal(t, "school", tr.Window)
	assert.Equal(t, "RELH_AVG_mean", tr.Series)
	assert.Equal(t, domain.Humidity, tr.Metric)
	assert.Contains(t, tr.Note, "no observations")
	assert.Empty(t, res.Comparisons)
}

func TestAnalyzerRun_EmptyInput(t *testing.T) {
	a := testAnalyzer([]Window{CalendarWindow()})
	res := a.Run(nil)
	assert.Empty(t, res.Yearly)
	assert.Empty(t, res.Trends)
	assert.Empty(t, res.Comparisons)
}
