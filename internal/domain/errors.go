package domain

import (
	"fmt"
	"strings"
	"time"
)

// MissingMetricError reports that a metric required downstream has no rows
// at all in the raw input. Terminal: normalization cannot proceed.
type MissingMetricError struct {
	Metric Metric
}

func (e *MissingMetricError) Error() string {
	return fmt.Sprintf("metric %s is entirely absent from raw input", e.Metric.Code())
}

// ImplausibleRow is one raw observation whose converted value fell outside
// the metric's physical bounds.
type ImplausibleRow struct {
	Date      time.Time
	Metric    Metric
	Raw       float64
	Converted float64
}

// ImplausibleValuesError carries every out-of-bounds row found during
// normalization so a human can audit the source-data anomaly. The rows are
// reported, never silently dropped.
type ImplausibleValuesError struct {
	Rows []ImplausibleRow
}

func (e *ImplausibleValuesError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d observation(s) outside plausible bounds:", len(e.Rows))
	limit := len(e.Rows)
	if limit > 10 {
		limit = 10
	}
	for _, r := range e.Rows[:limit] {
		fmt.Fprintf(&b, "\n  %s %s raw=%g converted=%g", r.Date.Format("2006-01-02"), r.Metric.Code(), r.Raw, r.Converted)
	}
	if len(e.Rows) > limit {
		fmt.Fprintf(&b, "\n  ... and %d more", len(e.Rows)-limit)
	}
	return b.String()
}
