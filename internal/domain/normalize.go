package domain

import (
	"fmt"
	"sort"
	"time"
)

// DaysPerYear is the number of day-of-year slots after leap-day removal.
const DaysPerYear = 365

// Normalize converts raw observations for the requested metrics into the
// tidy long-format table: unit conversion, leap-day removal, day-of-year
// alignment, and plausibility validation. The result is sorted by date
// ascending (then metric code) so repeated runs on identical input produce
// identical output.
//
// Feb 29 rows are discarded entirely, and day-of-year for post-February
// dates in leap years is shifted down by one, so every year has exactly
// 365 slots. Days with no observation are simply absent; nothing is
// interpolated.
//
// Returns a MissingMetricError if a requested metric has no rows at all,
// and an ImplausibleValuesError listing every converted value outside the
// metric's physical bounds.
func Normalize(rows []RawObservation, metrics []Metric, unit TargetUnit) ([]TidyRecord, error) {
	requested := make(map[Metric]bool, len(metrics))
	seen := make(map[Metric]bool, len(metrics))
	for _, m := range metrics {
		requested[m] = true
	}

	out := make([]TidyRecord, 0, len(rows))
	var implausible []ImplausibleRow

	for _, row := range rows {
		if !requested[row.Metric] {
			continue
		}
		seen[row.Metric] = true

		if row.UnitTag != "" && row.UnitTag != row.Metric.SourceUnitTag() {
			return nil, fmt.Errorf("raw row %s %s: unit tag %q, want %q",
				row.Date.Format("2006-01-02"), row.Metric.Code(), row.UnitTag, row.Metric.SourceUnitTag())
		}

		date := row.Date
		if date.Month() == time.February && date.Day() == 29 {
			continue
		}

		value := row.Metric.Convert(row.Value, unit)
		if !row.Metric.Plausible(value, unit) {
			implausible = append(implausible, ImplausibleRow{
				Date:      date,
				Metric:    row.Metric,
				Raw:       row.Value,
				Converted: value,
			})
			continue
		}

		out = append(out, TidyRecord{
			Date:      date,
			Year:      date.Year(),
			Month:     int(date.Month()),
			Day:       date.Day(),
			DayOfYear: alignedDayOfYear(date),
			Metric:    row.Metric,
			Value:     value,
		})
	}

	for _, m := range metrics {
		if !seen[m] {
			return nil, &MissingMetricError{Metric: m}
		}
	}
	if len(implausible) > 0 {
		return nil, &ImplausibleValuesError{Rows: implausible}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Metric.Code() < out[j].Metric.Code()
	})
	return out, nil
}

// alignedDayOfYear maps a non-Feb-29 date to its 1..365 slot: the calendar
// day-of-year, shifted down by one after February in leap years.
func alignedDayOfYear(date time.Time) int {
	doy := date.YearDay()
	if isLeapYear(date.Year()) && date.Month() > time.February {
		doy--
	}
	return doy
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// BuildMatrix pivots tidy records for one metric into the dense
// day-of-year by year matrix. Duplicate station-day observations keep the
// first value in table order.
func BuildMatrix(records []TidyRecord, metric Metric) *YearMatrix {
	m := NewYearMatrix(metric)
	for _, r := range records {
		if r.Metric != metric {
			continue
		}
		if _, ok := m.Value(r.DayOfYear, r.Year); ok {
			continue
		}
		m.Set(r.DayOfYear, r.Year, r.Value)
	}
	return m
}
