package trend

import (
	"fmt"

	"github.com/mgearhart/heattrends/internal/domain"
)

// PeriodComparison holds the mean of a yearly series over two disjoint year
// ranges: the earliest earlyYears of the series versus the most recent
// recentYears. Pure aggregation; no fitting involved.
type PeriodComparison struct {
	Metric          domain.Metric
	Window          string
	Series          string
	EarlyStartYear  int
	EarlyEndYear    int
	RecentStartYear int
	RecentEndYear   int
	EarlyMean       float64
	RecentMean      float64
	EarlyYears      int
	RecentYears     int
}

// ComparePeriods averages the first earlyYears and the last recentYears of
// the series. The series must have at least earlyYears+recentYears entries
// so the two ranges cannot overlap.
func ComparePeriods(series []YearlyValue, earlyYears, recentYears int) (PeriodComparison, error) {
	if earlyYears < 1 || recentYears < 1 {
		return PeriodComparison{}, fmt.Errorf("period lengths must be positive, got %d and %d", earlyYears, recentYears)
	}
	if len(series) < earlyYears+recentYears {
		return PeriodComparison{}, fmt.Errorf("series %s has %d year(s), need %d for disjoint %d vs %d comparison",
			seriesName(series), len(series), earlyYears+recentYears, earlyYears, recentYears)
	}

	sorted := make([]YearlyValue, len(series))
	copy(sorted, series)
	sortByYear(sorted)

	early := sorted[:earlyYears]
	recent := sorted[len(sorted)-recentYears:]

	return PeriodComparison{
		Metric:          sorted[0].Metric,
		Window:          sorted[0].Window,
		Series:          sorted[0].Series,
		EarlyStartYear:  early[0].Year,
		EarlyEndYear:    early[len(early)-1].Year,
		RecentStartYear: recent[0].Year,
		RecentEndYear:   recent[len(recent)-1].Year,
		EarlyMean:       mean(early),
		RecentMean:      mean(recent),
		EarlyYears:      earlyYears,
		RecentYears:     recentYears,
	}, nil
}

func mean(vals []YearlyValue) float64 {
	var sum float64
	for _, v := range vals {
		sum += v.Value
	}
	return sum / float64(len(vals))
}

func seriesName(series []YearlyValue) string {
	if len(series) == 0 {
		return "(empty)"
	}
	return series[0].Series
}
