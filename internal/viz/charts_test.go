package viz

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgearhart/heattrends/internal/domain"
	"github.com/mgearhart/heattrends/internal/trend"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func denseMatrix(years ...int) *domain.YearMatrix {
	m := domain.NewYearMatrix(domain.TempMax)
	for _, y := range years {
		for doy := 1; doy <= domain.DaysPerYear; doy++ {
			m.Set(doy, y, 50+float64(doy%30))
		}
	}
	return m
}

func TestYearRuns_Contiguous(t *testing.T) {
	m := denseMatrix(2001)
	runs := yearRuns(m, 2001)
	require.Len(t, runs, 1)
	assert.Len(t, runs[0].xs, 365)
	assert.Equal(t, 1.0, runs[0].xs[0])
	assert.Equal(t, 365.0, runs[0].xs[364])
}

func TestYearRuns_GapSplits(t *testing.T) {
	m := domain.NewYearMatrix(domain.TempMax)
	for _, doy := range []int{1, 2, 3, 10, 11, 300} {
		m.Set(doy, 2001, 60)
	}

	runs := yearRuns(m, 2001)
	require.Len(t, runs, 3)
	assert.Equal(t, []float64{1, 2, 3}, runs[0].xs)
	assert.Equal(t, []float64{10, 11}, runs[1].xs)
	assert.Equal(t, []float64{300}, runs[2].xs)
}

func TestYearRuns_EmptyYear(t *testing.T) {
	m := denseMatrix(2001)
	assert.Empty(t, yearRuns(m, 1999))
}

func TestRenderMatrix(t *testing.T) {
	m := denseMatrix(2001, 2002, 2003, 2004, 2005)

	var buf bytes.Buffer
	err := RenderMatrix(&buf, m, 3, "Daily High Temperature")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic), "output must be a PNG")
}

func TestRenderMatrix_MoreHighlightsThanYears(t *testing.T) {
	m := denseMatrix(2001, 2002)

	var buf bytes.Buffer
	err := RenderMatrix(&buf, m, 10, "Daily High Temperature")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestHighlightColor_Depth(t *testing.T) {
	assert.Equal(t, highlightPalette[0], highlightColor(0), "newest year gets the darkest shade")
	assert.Equal(t, highlightPalette[3], highlightColor(3))
	assert.Equal(t, highlightPalette[3], highlightColor(4), "beyond the palette, older years stay light")
	assert.Equal(t, highlightPalette[3], highlightColor(9))
}

func TestRenderMatrix_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := RenderMatrix(&buf, domain.NewYearMatrix(domain.TempMax), 3, "empty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no observations")
}

func trendSeries() ([]trend.YearlyValue, trend.TrendResult) {
	var series []trend.YearlyValue
	for y := 2000; y <= 2010; y++ {
		series = append(series, trend.YearlyValue{
			Year:   y,
			Metric: domain.TempMax,
			Window: "calendar",
			Series: "TMAX_ge_90",
			Value:  float64(y-2000) * 1.5,
		})
	}
	fit, _ := trend.Fit(series)
	return series, fit
}

func TestRenderTrend(t *testing.T) {
	series, fit := trendSeries()

	var buf bytes.Buffer
	err := RenderTrend(&buf, series, fit)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRenderTrend_UnavailableFit(t *testing.T) {
	series, _ := trendSeries()
	bad := trend.TrendResult{Series: "TMAX_ge_90", Status: trend.StatusUnavailable, Note: "too few years"}

	var buf bytes.Buffer
	err := RenderTrend(&buf, series, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable")
	assert.Zero(t, buf.Len())
}

func TestRenderTrend_EmptySeries(t *testing.T) {
	_, fit := trendSeries()
	var buf bytes.Buffer
	err := RenderTrend(&buf, nil, fit)
	require.Error(t, err)
}
