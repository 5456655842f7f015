package trend

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/mgearhart/heattrends/internal/domain"
)

// YearlyValue is one point of a derived yearly series: a threshold-day count
// or a yearly mean for one metric under one window. NValid is the number of
// valid daily observations behind the point; LowConfidence marks years whose
// coverage fell below the configured minimum, scaled to the window length.
// Flagged years stay in the series so consumers can choose to exclude them.
type YearlyValue struct {
	Year          int
	Metric        domain.Metric
	Window        string
	Series        string
	Value         float64
	NValid        int
	LowConfidence bool
}

// CountSeriesName labels a threshold-count series, e.g. "TMAX_ge_90".
func CountSeriesName(metric domain.Metric, threshold float64) string {
	return fmt.Sprintf("%s_ge_%s", metric.Code(), strconv.FormatFloat(threshold, 'f', -1, 64))
}

// MeanSeriesName labels a yearly-mean series, e.g. "RELH_AVG_mean".
func MeanSeriesName(metric domain.Metric) string {
	return metric.Code() + "_mean"
}

// ThresholdCounts counts, per attributed year, the days whose value meets or
// exceeds the threshold. Years with no valid observations at all contribute
// no entry. minValidDays is interpreted against a full 365-day year and
// scaled down proportionally for sub-annual windows.
func ThresholdCounts(records []domain.TidyRecord, metric domain.Metric, threshold float64, w Window, minValidDays int) []YearlyValue {
	counts := make(map[int]int)
	valid := make(map[int]int)
	for _, r := range records {
		if r.Metric != metric {
			continue
		}
		year, ok := w.Attribute(r)
		if !ok {
			continue
		}
		valid[year]++
		if r.Value >= threshold {
			counts[year]++
		}
	}

	minValid := scaleMinValid(minValidDays, w)
	series := CountSeriesName(metric, threshold)
	out := make([]YearlyValue, 0, len(valid))
	for year, n := range valid {
		out = append(out, YearlyValue{
			Year:          year,
			Metric:        metric,
			Window:        w.Name,
			Series:        series,
			Value:         float64(counts[year]),
			NValid:        n,
			LowConfidence: n < minValid,
		})
	}
	sortByYear(out)
	return out
}

// YearlyMeans computes the arithmetic mean of all valid daily values per
// attributed year. Years with zero valid values produce no entry rather
// than a zero or a division failure.
func YearlyMeans(records []domain.TidyRecord, metric domain.Metric, w Window, minValidDays int) []YearlyValue {
	sums := make(map[int]float64)
	valid := make(map[int]int)
	for _, r := range records {
		if r.Metric != metric {
			continue
		}
		year, ok := w.Attribute(r)
		if !ok {
			continue
		}
		sums[year] += r.Value
		valid[year]++
	}

	minValid := scaleMinValid(minValidDays, w)
	series := MeanSeriesName(metric)
	out := make([]YearlyValue, 0, len(valid))
	for year, n := range valid {
		out = append(out, YearlyValue{
			Year:          year,
			Metric:        metric,
			Window:        w.Name,
			Series:        series,
			Value:         sums[year] / float64(n),
			NValid:        n,
			LowConfidence: n < minValid,
		})
	}
	sortByYear(out)
	return out
}

func scaleMinValid(minValidDays int, w Window) int {
	days := w.Days()
	if days >= domain.DaysPerYear {
		return minValidDays
	}
	scaled := minValidDays * days / domain.DaysPerYear
	if scaled < 1 {
		scaled = 1
	}
	return scaled
}

func sortByYear(vals []YearlyValue) {
	sort.Slice(vals, func(i, j int) bool { return vals[i].Year < vals[j].Year })
}
