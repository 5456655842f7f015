package domain

import (
	"sort"
	"time"
)

// RawObservation is one row of the flat table produced by the fetchers:
// a single station-day-metric measurement in its source unit. Immutable
// once fetched; every later artifact is derived from these rows.
type RawObservation struct {
	StationID string
	Date      time.Time
	Metric    Metric
	Value     float64
	UnitTag   string // source unit tag, e.g. "c10", "f", "percent", "knot"
}

// TidyRecord is one row of the normalized long-format table: the converted
// value plus the date components the analyzer groups by. DayOfYear is
// 1..365 with the leap-day shift already applied.
type TidyRecord struct {
	Date      time.Time
	Year      int
	Month     int
	Day       int
	DayOfYear int
	Metric    Metric
	Value     float64
}

// YearMatrix is the wide-format view of one metric: day-of-year rows 1..365,
// one column per year, each cell either a value or absent. Absence is the
// explicit no-value state; no cell ever holds a fabricated number.
type YearMatrix struct {
	Metric Metric
	cells  map[int]map[int]float64 // day-of-year -> year -> value
	years  map[int]struct{}
}

// NewYearMatrix creates an empty matrix for one metric.
func NewYearMatrix(metric Metric) *YearMatrix {
	return &YearMatrix{
		Metric: metric,
		cells:  make(map[int]map[int]float64),
		years:  make(map[int]struct{}),
	}
}

// Set stores a cell value. Day-of-year must be 1..365; out-of-range days are
// ignored since normalization never produces them.
func (m *YearMatrix) Set(dayOfYear, year int, value float64) {
	if dayOfYear < 1 || dayOfYear > DaysPerYear {
		return
	}
	row := m.cells[dayOfYear]
	if row == nil {
		row = make(map[int]float64)
		m.cells[dayOfYear] = row
	}
	row[year] = value
	m.years[year] = struct{}{}
}

// Value returns the cell value and whether it is present.
func (m *YearMatrix) Value(dayOfYear, year int) (float64, bool) {
	v, ok := m.cells[dayOfYear][year]
	return v, ok
}

// Years returns the sorted set of years with at least one observation.
func (m *YearMatrix) Years() []int {
	out := make([]int, 0, len(m.years))
	for y := range m.years {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// CountForYear returns how many day-of-year cells the given year has filled.
func (m *YearMatrix) CountForYear(year int) int {
	n := 0
	for _, row := range m.cells {
		if _, ok := row[year]; ok {
			n++
		}
	}
	return n
}
