package domain

import "fmt"

// TargetUnit selects the temperature unit for normalized output.
// Non-temperature metrics (humidity, wind speed) ignore it.
type TargetUnit int

const (
	Fahrenheit TargetUnit = iota
	Celsius
)

// ParseTargetUnit accepts "F"/"fahrenheit" or "C"/"celsius".
func ParseTargetUnit(s string) (TargetUnit, error) {
	switch s {
	case "F", "f", "fahrenheit":
		return Fahrenheit, nil
	case "C", "c", "celsius":
		return Celsius, nil
	default:
		return Fahrenheit, fmt.Errorf("unknown target unit %q", s)
	}
}

func (u TargetUnit) String() string {
	if u == Celsius {
		return "C"
	}
	return "F"
}

// Metric is the closed set of supported observation kinds. Each carries its
// source unit, unit conversion, and plausibility bounds as data, so there is
// no string-keyed dispatch on metric names anywhere downstream.
type Metric int

const (
	TempMax Metric = iota
	TempMin
	FeelsLikeMax
	FeelsLikeMin
	Humidity
	WindSpeed
	DewPoint
)

// sourceUnit identifies the unit raw values arrive in.
type sourceUnit int

const (
	unitTenthsCelsius sourceUnit = iota // GHCN-D metric encoding
	unitFahrenheit
	unitPercent
	unitKnots
)

type metricDef struct {
	code       string // datatype code used in raw and tidy CSV artifacts
	source     sourceUnit
	sourceTag  string // unit tag expected in raw input rows
	temp       bool   // temperature-like: target unit applies
	minF, maxF float64
}

// Bounds for temperatures follow the audit thresholds from the source data
// review: anything outside them indicates a corrupt upstream row, not
// weather. Humidity is a percentage; wind bounds allow hurricane-force
// gusts at a coastal station but reject encoding artifacts.
var metricDefs = [...]metricDef{
	TempMax:      {code: "TMAX", source: unitTenthsCelsius, sourceTag: "c10", temp: true, minF: -50, maxF: 140},
	TempMin:      {code: "TMIN", source: unitTenthsCelsius, sourceTag: "c10", temp: true, minF: -50, maxF: 140},
	FeelsLikeMax: {code: "FEEL_MAX", source: unitFahrenheit, sourceTag: "f", temp: true, minF: -80, maxF: 150},
	FeelsLikeMin: {code: "FEEL_MIN", source: unitFahrenheit, sourceTag: "f", temp: true, minF: -80, maxF: 150},
	Humidity:     {code: "RELH_AVG", source: unitPercent, sourceTag: "percent", minF: 0, maxF: 100},
	WindSpeed:    {code: "SKNT_AVG", source: unitKnots, sourceTag: "knot", minF: 0, maxF: 150},
	DewPoint:     {code: "DWPF_AVG", source: unitFahrenheit, sourceTag: "f", temp: true, minF: -80, maxF: 100},
}

// Metrics lists every supported metric in declaration order.
func Metrics() []Metric {
	return []Metric{TempMax, TempMin, FeelsLikeMax, FeelsLikeMin, Humidity, WindSpeed, DewPoint}
}

// ParseMetric resolves a datatype code from a raw or tidy table row.
func ParseMetric(code string) (Metric, error) {
	for _, m := range Metrics() {
		if metricDefs[m].code == code {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown metric code %q", code)
}

// Code returns the datatype code used in tabular artifacts, e.g. "TMAX".
func (m Metric) Code() string { return metricDefs[m].code }

func (m Metric) String() string { return metricDefs[m].code }

// SourceUnitTag returns the unit tag raw rows for this metric must carry,
// e.g. "c10" for GHCN-D tenths of a degree Celsius.
func (m Metric) SourceUnitTag() string { return metricDefs[m].sourceTag }

// Convert maps a raw source-unit value to the target unit. It is the single
// deterministic conversion for the metric; normalization never applies any
// other arithmetic to observed values.
func (m Metric) Convert(raw float64, unit TargetUnit) float64 {
	def := metricDefs[m]
	switch def.source {
	case unitTenthsCelsius:
		c := raw / 10.0
		if unit == Celsius {
			return c
		}
		return c*9.0/5.0 + 32.0
	case unitFahrenheit:
		if def.temp && unit == Celsius {
			return (raw - 32.0) * 5.0 / 9.0
		}
		return raw
	default:
		// percent and knots are unit-stable
		return raw
	}
}

// Plausible reports whether a converted value lies within the metric's
// physically plausible bounds for the given target unit.
func (m Metric) Plausible(converted float64, unit TargetUnit) bool {
	def := metricDefs[m]
	lo, hi := def.minF, def.maxF
	if def.temp && unit == Celsius {
		lo = (lo - 32.0) * 5.0 / 9.0
		hi = (hi - 32.0) * 5.0 / 9.0
	}
	return converted >= lo && converted <= hi
}

// Continuous reports whether the metric is a continuous daily aggregate
// (suitable for yearly means) rather than a daily extreme used for
// threshold counting.
func (m Metric) Continuous() bool {
	switch m {
	case Humidity, WindSpeed, DewPoint:
		return true
	default:
		return false
	}
}
