package trend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgearhart/heattrends/internal/domain"
)

func TestComparePeriods(t *testing.T) {
	series := synthSeries(domain.TempMax, yearRange(1950, 1969), func(y int) float64 {
		if y < 1960 {
			return 10
		}
		return 20
	})

	cmp, err := ComparePeriods(series, 10, 10)
	require.NoError(t, err)

	assert.Equal(t, 1950, cmp.EarlyStartYear)
	assert.Equal(t, 1959, cmp.EarlyEndYear)
	assert.Equal(t, 1960, cmp.RecentStartYear)
	assert.Equal(t, 1969, cmp.RecentEndYear)
	assert.InDelta(t, 10, cmp.EarlyMean, 1e-9)
	assert.InDelta(t, 20, cmp.RecentMean, 1e-9)
	assert.Equal(t, 10, cmp.EarlyYears)
	assert.Equal(t, 10, cmp.RecentYears)
	assert.Equal(t, "TMAX_ge_90", cmp.Series)
	assert.Equal(t, "calendar", cmp.Window)
}

func TestComparePeriods_AsymmetricSplit(t *testing.T) {
	series := synthSeries(domain.TempMax, []int{2001, 2002, 2003}, func(y int) float64 {
		return float64(y - 2000) // 1, 2, 3
	})

	cmp, err := ComparePeriods(series, 1, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1, cmp.EarlyMean, 1e-9)
	assert.InDelta(t, 2.5, cmp.RecentMean, 1e-9)
	assert.Equal(t, 2001, cmp.EarlyEndYear)
	assert.Equal(t, 2002, cmp.RecentStartYear)
}

func TestComparePeriods_UnsortedInput(t *testing.T) {
	series := []YearlyValue{
		{Year: 2003, Series: "s", Window: "calendar", Value: 30},
		{Year: 2001, Series: "s", Window: "calendar", Value: 10},
		{Year: 2002, Series: "s", Window: "calendar", Value: 20},
	}
	cmp, err := ComparePeriods(series, 1, 1)
	require.NoError(t, err)
	assert.InDelta(t, 10, cmp.EarlyMean, 1e-9)
	assert.InDelta(t, 30, cmp.RecentMean, 1e-9)
	// the caller's slice stays untouched
	assert.Equal(t, 2003, series[0].Year)
}

func TestComparePeriods_TooFewYears(t *testing.T) {
	series := synthSeries(domain.TempMax, yearRange(2001, 2015), func(int) float64 { return 1 })
	_, err := ComparePeriods(series, 10, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "need 20")
}

func TestComparePeriods_NonPositiveLengths(t *testing.T) {
	series := synthSeries(domain.TempMax, yearRange(2001, 2010), func(int) float64 { return 1 })
	_, err := ComparePeriods(series, 0, 10)
	require.Error(t, err)
	_, err = ComparePeriods(series, 10, -1)
	require.Error(t, err)
}
