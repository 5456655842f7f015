// Package trend derives yearly metric series from tidy daily records and
// fits ordinary least-squares trends to them.
package trend

import (
	"time"

	"github.com/mgearhart/heattrends/internal/domain"
)

// Window is one aggregation period over the tidy data. Calendar-year and
// summer windows fall inside a single calendar year; the school-year window
// crosses December 31 and is attributed to its starting year. The three
// windows are independent: a record can belong to several, but never twice
// to the same one.
type Window struct {
	Name       string
	StartMonth int
	StartDay   int
	EndMonth   int
	EndDay     int
	CrossYear  bool
}

// CalendarWindow covers January 1 through December 31.
func CalendarWindow() Window {
	return Window{Name: "calendar", StartMonth: 1, StartDay: 1, EndMonth: 12, EndDay: 31}
}

// SummerWindow covers a fixed month-day range within one calendar year,
// e.g. June 1 through September 30.
func SummerWindow(startMonth, startDay, endMonth, endDay int) Window {
	return Window{Name: "summer", StartMonth: startMonth, StartDay: startDay, EndMonth: endMonth, EndDay: endDay}
}

// SchoolWindow covers a range spanning the year boundary, e.g. August 15 of
// year Y through June 5 of year Y+1. Records are attributed to the starting
// year Y.
func SchoolWindow(startMonth, startDay, endMonth, endDay int) Window {
	return Window{Name: "school", StartMonth: startMonth, StartDay: startDay, EndMonth: endMonth, EndDay: endDay, CrossYear: true}
}

// Attribute returns the series year a record belongs to under this window,
// and false when the record falls outside the window.
func (w Window) Attribute(r domain.TidyRecord) (int, bool) {
	md := r.Month*100 + r.Day
	start := w.StartMonth*100 + w.StartDay
	end := w.EndMonth*100 + w.EndDay

	if !w.CrossYear {
		if md >= start && md <= end {
			return r.Year, true
		}
		return 0, false
	}

	switch {
	case md >= start:
		return r.Year, true
	case md <= end:
		return r.Year - 1, true
	default:
		return 0, false
	}
}

// Days returns the number of day-of-year slots the window spans in the
// leap-day-stripped 365-day calendar. Used to scale the minimum-valid-days
// confidence threshold to sub-annual windows.
func (w Window) Days() int {
	// Walk a non-leap reference year so month lengths are the 365-day ones.
	n := 0
	for d := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC); d.Year() == 2001; d = d.AddDate(0, 0, 1) {
		rec := domain.TidyRecord{Year: 2001, Month: int(d.Month()), Day: d.Day()}
		if _, ok := w.Attribute(rec); ok {
			n++
		}
	}
	return n
}
