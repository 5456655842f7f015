package asos

import (
	"math"
	"sort"
	"time"

	"github.com/mgearhart/heattrends/internal/domain"
)

// AggregateDaily reduces hourly observations to one raw observation per
// station-day-metric: the daily max and min of the apparent temperature and
// the daily means of humidity, wind speed, and dew point. Hours with a
// missing field don't count toward that field's aggregate, and a day with
// no valid hours for a field produces no row at all.
func AggregateDaily(hourly []HourlyObservation) []domain.RawObservation {
	type dayKey struct {
		station string
		date    time.Time
	}
	type acc struct {
		feelMax  float64
		feelMin  float64
		feelSeen bool
		relhSum  float64
		skntSum  float64
		dwpfSum  float64
		relhN    int
		skntN    int
		dwpfN    int
	}

	days := make(map[dayKey]*acc)
	for _, h := range hourly {
		key := dayKey{
			station: h.Station,
			date:    time.Date(h.Valid.Year(), h.Valid.Month(), h.Valid.Day(), 0, 0, 0, 0, time.UTC),
		}
		a := days[key]
		if a == nil {
			a = &acc{}
			days[key] = a
		}

		if !math.IsNaN(h.Feel) {
			if !a.feelSeen || h.Feel > a.feelMax {
				a.feelMax = h.Feel
			}
			if !a.feelSeen || h.Feel < a.feelMin {
				a.feelMin = h.Feel
			}
			a.feelSeen = true
		}
		if !math.IsNaN(h.Relh) {
			a.relhSum += h.Relh
			a.relhN++
		}
		if !math.IsNaN(h.Sknt) {
			a.skntSum += h.Sknt
			a.skntN++
		}
		if !math.IsNaN(h.DwpF) {
			a.dwpfSum += h.DwpF
			a.dwpfN++
		}
	}

	keys := make([]dayKey, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if !keys[i].date.Equal(keys[j].date) {
			return keys[i].date.Before(keys[j].date)
		}
		return keys[i].station < keys[j].station
	})

	var out []domain.RawObservation
	emit := func(k dayKey, m domain.Metric, v float64) {
		out = append(out, domain.RawObservation{
			StationID: k.station,
			Date:      k.date,
			Metric:    m,
			Value:     v,
			UnitTag:   m.SourceUnitTag(),
		})
	}

	for _, k := range keys {
		a := days[k]
		if a.feelSeen {
			emit(k, domain.FeelsLikeMax, a.feelMax)
			emit(k, domain.FeelsLikeMin, a.feelMin)
		}
		if a.relhN > 0 {
			emit(k, domain.Humidity, a.relhSum/float64(a.relhN))
		}
		if a.skntN > 0 {
			emit(k, domain.WindSpeed, a.skntSum/float64(a.skntN))
		}
		if a.dwpfN > 0 {
			emit(k, domain.DewPoint, a.dwpfSum/float64(a.dwpfN))
		}
	}
	return out
}
