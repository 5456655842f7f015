package trend

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgearhart/heattrends/internal/domain"
)

func synthSeries(metric domain.Metric, years []int, f func(year int) float64) []YearlyValue {
	out := make([]YearlyValue, 0, len(years))
	for _, y := range years {
		out = append(out, YearlyValue{
			Year:   y,
			Metric: metric,
			Window: "calendar",
			Series: "TMAX_ge_90",
			Value:  f(y),
			NValid: 365,
		})
	}
	return out
}

func yearRange(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for y := from; y <= to; y++ {
		out = append(out, y)
	}
	return out
}

func TestFit_ExactLine(t *testing.T) {
	series := synthSeries(domain.TempMax, yearRange(2000, 2009), func(y int) float64 {
		return 2*float64(y) + 5
	})

	fit, err := Fit(series)
	require.NoError(t, err)

	assert.Equal(t, StatusOK, fit.Status)
	assert.Equal(t, 10, fit.N)
	assert.InDelta(t, 2.0, fit.Slope, 1e-9)
	assert.InDelta(t, 5.0, fit.Intercept, 1e-6)
	assert.InDelta(t, 0, fit.PValue, 1e-12, "a perfect nonzero slope is maximally significant")
	assert.Equal(t, "TMAX_ge_90", fit.Series)
	assert.Equal(t, "calendar", fit.Window)
	assert.Equal(t, domain.TempMax, fit.Metric)
}

func TestFit_ConstantSeries(t *testing.T) {
	series := synthSeries(domain.TempMax, yearRange(2000, 2009), func(int) float64 { return 42 })

	fit, err := Fit(series)
	require.NoError(t, err)

	assert.InDelta(t, 0, fit.Slope, 1e-12)
	assert.Equal(t, 1.0, fit.PValue)
	assert.Greater(t, fit.PValue, 0.05, "a flat series must never read as significant")
}

func TestFit_NoisySlopePositive(t *testing.T) {
	noise := []float64{0.3, -0.5, 0.1, 0.4, -0.2, -0.1, 0.2, -0.3, 0.5, -0.4}
	years := yearRange(2000, 2009)
	series := synthSeries(domain.TempMax, years, func(y int) float64 {
		return 1.5*float64(y-2000) + noise[y-2000]
	})

	fit, err := Fit(series)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, fit.Slope, 0.1)
	assert.Less(t, fit.PValue, 0.001)
}

func TestFit_InsufficientYears(t *testing.T) {
	_, err := Fit(nil)
	require.Error(t, err)
	var insufficient *InsufficientDataError
	require.ErrorAs(t, err, &insufficient)

	one := synthSeries(domain.TempMax, []int{2001}, func(int) float64 { return 10 })
	_, err = Fit(one)
	require.Error(t, err)
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 1, insufficient.Years)
	assert.Contains(t, err.Error(), "TMAX_ge_90")
}

func TestFit_TwoYears(t *testing.T) {
	series := synthSeries(domain.TempMax, []int{2001, 2002}, func(y int) float64 {
		return float64(y - 2000)
	})
	fit, err := Fit(series)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, fit.Slope, 1e-9)
	// n=2 leaves zero degrees of freedom for the t statistic
	assert.True(t, math.IsNaN(fit.PValue))
}

func TestFit_GappedSeries(t *testing.T) {
	// Missing years are simply not present; x spacing stays honest.
	years := []int{2000, 2001, 2003, 2006, 2007}
	series := synthSeries(domain.TempMax, years, func(y int) float64 {
		return 3 * float64(y)
	})
	fit, err := Fit(series)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, fit.Slope, 1e-9)
	assert.Equal(t, 5, fit.N)
}
