package trend

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mgearhart/heattrends/internal/domain"
)

// TrendResult is one fitted trend: value = Slope*year + Intercept, with the
// two-tailed p-value for the null hypothesis that the slope is zero. Status
// distinguishes fitted series from per-series failures, which are recorded
// here rather than aborting the rest of the analysis.
type TrendResult struct {
	Metric    domain.Metric
	Window    string
	Series    string
	Slope     float64
	Intercept float64
	PValue    float64
	N         int
	Status    string // "ok" or "unavailable"
	Note      string // failure reason when unavailable
}

// StatusOK marks a successfully fitted trend.
const StatusOK = "ok"

// StatusUnavailable marks a series whose trend could not be computed.
const StatusUnavailable = "unavailable"

// InsufficientDataError reports a series with too few valid years to fit.
type InsufficientDataError struct {
	Series string
	Years  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("series %s: %d valid year(s), need at least 2 distinct years", e.Series, e.Years)
}

// Fit performs an ordinary least-squares regression of the series values
// against year. Years lacking a value are simply not in the input; no
// imputation happens here or anywhere upstream. The p-value uses the
// standard t statistic on the residuals with n-2 degrees of freedom.
func Fit(series []YearlyValue) (TrendResult, error) {
	if len(series) == 0 {
		return TrendResult{}, &InsufficientDataError{Series: "(empty)", Years: 0}
	}

	name := series[0].Series
	xs := make([]float64, 0, len(series))
	ys := make([]float64, 0, len(series))
	distinct := make(map[int]struct{}, len(series))
	for _, v := range series {
		xs = append(xs, float64(v.Year))
		ys = append(ys, v.Value)
		distinct[v.Year] = struct{}{}
	}
	if len(distinct) < 2 {
		return TrendResult{}, &InsufficientDataError{Series: name, Years: len(distinct)}
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	result := TrendResult{
		Metric:    series[0].Metric,
		Window:    series[0].Window,
		Series:    name,
		Slope:     slope,
		Intercept: intercept,
		PValue:    pValue(xs, ys, slope, intercept),
		N:         len(series),
		Status:    StatusOK,
	}
	return result, nil
}

// pValue computes the two-tailed p-value for slope=0. A perfectly flat
// series has zero residual variance and an undefined t statistic; by
// convention a zero slope on such a series is maximally non-significant
// (p=1) and a nonzero one is exact (p≈0).
func pValue(xs, ys []float64, slope, intercept float64) float64 {
	n := len(xs)
	df := float64(n - 2)
	if df <= 0 {
		return math.NaN()
	}

	var sse, sxx float64
	xMean := stat.Mean(xs, nil)
	for i := range xs {
		resid := ys[i] - (slope*xs[i] + intercept)
		sse += resid * resid
		dx := xs[i] - xMean
		sxx += dx * dx
	}
	if sxx == 0 {
		return math.NaN()
	}

	se := math.Sqrt(sse / df / sxx)
	if se == 0 {
		if slope == 0 {
			return 1
		}
		return 0
	}

	t := slope / se
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * dist.Survival(math.Abs(t))
}
