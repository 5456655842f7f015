// Package domain models long-term daily climate observations for a single
// weather station and the deterministic transformations applied to them.
//
// # Data Sources
//
// Daily temperature extremes come from the NOAA GHCN-D dataset via the
// Climate Data Online (CDO) v2 API. Requested with metric units, TMAX and
// TMIN values arrive in tenths of degrees Celsius: 217 = 21.7 °C.
//
// Hourly surface observations (temperature, dew point, relative humidity,
// wind speed, apparent "feels like" temperature) come from the Iowa
// Environmental Mesonet ASOS archive. Those values arrive directly in
// degrees Fahrenheit, percent, and knots, and are aggregated to one
// max/min/mean record per station-day before normalization.
//
// # Unit Conversion
//
// Each metric carries exactly one conversion from its source unit to the
// configured target unit. GHCN-D tenths-of-Celsius convert via
// F = (v/10)*9/5 + 32; ASOS metrics are identity-converted (or F to C when
// the target unit is Celsius). Conversions are pure functions of the raw
// value, so re-running normalization on the same input reproduces the same
// output byte for byte.
//
// # Leap Days
//
// February 29 observations are discarded so every year spans day-of-year
// 1..365. For leap years, the day-of-year of dates after February 28 is
// shifted down by one to keep columns aligned across years. This misaligns
// day-of-year and calendar date by one day for post-February dates in leap
// years; downstream artifacts depend on this exact behavior, so it must not
// change without revisiting every matrix consumer.
//
// # Missing Data
//
// A day with no observation is simply absent. Nothing is interpolated or
// imputed; matrix cells and yearly series carry an explicit no-value state,
// never a fabricated number.
//
// # Plausibility Bounds
//
// Each metric defines physically plausible bounds in its target unit
// (e.g. air temperature within -50..140 °F). Converted values outside the
// bounds fail normalization with the offending rows attached, so source
// anomalies are audited by a human rather than silently dropped.
package domain
