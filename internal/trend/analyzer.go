package trend

import (
	"fmt"
	"log/slog"

	"github.com/mgearhart/heattrends/internal/domain"
	"github.com/mgearhart/heattrends/internal/observability"
)

// Analyzer derives yearly series and trend fits for every metric present in
// the tidy data, across every configured window. One bad series never aborts
// the run: its failure is recorded as an unavailable trend entry and the
// remaining series continue.
type Analyzer struct {
	windows      []Window
	thresholds   []float64
	minValidDays int
	earlyYears   int
	recentYears  int
	logger       *slog.Logger
	metrics      *observability.Metrics
}

// Results bundles the analyzer outputs: the yearly derived series, the trend
// fits (including unavailable entries), and the early-vs-recent comparisons.
type Results struct {
	Yearly      []YearlyValue
	Trends      []TrendResult
	Comparisons []PeriodComparison
}

// NewAnalyzer creates an Analyzer. thresholds apply to the daily-extreme
// metrics (TMAX, FEEL_MAX); continuous metrics get yearly means instead.
func NewAnalyzer(windows []Window, thresholds []float64, minValidDays, earlyYears, recentYears int, logger *slog.Logger, metrics *observability.Metrics) *Analyzer {
	return &Analyzer{
		windows:      windows,
		thresholds:   thresholds,
		minValidDays: minValidDays,
		earlyYears:   earlyYears,
		recentYears:  recentYears,
		logger:       logger,
		metrics:      metrics,
	}
}

// thresholdMetrics are the daily extremes that threshold-day counting applies to.
var thresholdMetrics = []domain.Metric{domain.TempMax, domain.FeelsLikeMax}

// Run analyzes the tidy records and returns every derived artifact.
func (a *Analyzer) Run(records []domain.TidyRecord) Results {
	present := presentMetrics(records)
	var res Results

	for _, w := range a.windows {
		for _, m := range thresholdMetrics {
			if !present[m] {
				continue
			}
			for _, threshold := range a.thresholds {
				series := ThresholdCounts(records, m, threshold, w, a.minValidDays)
				a.collect(&res, m, w, CountSeriesName(m, threshold), series)
			}
		}
		for _, m := range domain.Metrics() {
			if !present[m] || !m.Continuous() {
				continue
			}
			series := YearlyMeans(records, m, w, a.minValidDays)
			a.collect(&res, m, w, MeanSeriesName(m), series)
		}
	}
	return res
}

// collect appends the series and its trend fit and comparison, downgrading
// per-series failures to unavailable entries. A series with no observations
// inside the window is still surfaced as an unavailable entry rather than
// dropped.
func (a *Analyzer) collect(res *Results, metric domain.Metric, w Window, name string, series []YearlyValue) {
	if len(series) == 0 {
		a.logger.Warn("series has no observations in window",
			"series", name, "window", w.Name)
		a.metrics.TrendFailures.WithLabelValues(w.Name, "no_observations").Inc()
		res.Trends = append(res.Trends, TrendResult{
			Metric: metric,
			Window: w.Name,
			Series: name,
			Status: StatusUnavailable,
			Note:   fmt.Sprintf("series %s: no observations in window %s", name, w.Name),
		})
		return
	}
	res.Yearly = append(res.Yearly, series...)
	window := series[0].Window

	fit, err := Fit(series)
	if err != nil {
		a.logger.Warn("trend fit unavailable",
			"series", name, "window", window, "error", err)
		a.metrics.TrendFailures.WithLabelValues(window, "insufficient_data").Inc()
		res.Trends = append(res.Trends, TrendResult{
			Metric: metric,
			Window: window,
			Series: name,
			N:      len(series),
			Status: StatusUnavailable,
			Note:   err.Error(),
		})
		return
	}
	a.metrics.SeriesAnalyzed.WithLabelValues(window).Inc()
	res.Trends = append(res.Trends, fit)

	cmp, err := ComparePeriods(series, a.earlyYears, a.recentYears)
	if err != nil {
		a.logger.Warn("period comparison skipped",
			"series", name, "window", window, "error", err)
		return
	}
	res.Comparisons = append(res.Comparisons, cmp)
}

func presentMetrics(records []domain.TidyRecord) map[domain.Metric]bool {
	out := make(map[domain.Metric]bool)
	for _, r := range records {
		out[r.Metric] = true
	}
	return out
}
