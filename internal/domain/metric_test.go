package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricConvert(t *testing.T) {
	tests := []struct {
		name   string
		metric Metric
		raw    float64
		unit   TargetUnit
		want   float64
	}{
		{"tenths C to F", TempMax, 217, Fahrenheit, 71.06},
		{"tenths C to F freezing", TempMin, 0, Fahrenheit, 32},
		{"tenths C to C", TempMax, 217, Celsius, 21.7},
		{"feels-like F identity", FeelsLikeMax, 95.5, Fahrenheit, 95.5},
		{"feels-like F to C", FeelsLikeMax, 212, Celsius, 100},
		{"humidity ignores unit", Humidity, 55, Celsius, 55},
		{"wind ignores unit", WindSpeed, 12.5, Celsius, 12.5},
		{"dew point F to C", DewPoint, 32, Celsius, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.metric.Convert(tt.raw, tt.unit), 1e-9)
		})
	}
}

func TestMetricConvert_RoundTrip(t *testing.T) {
	// Inverting the tenths-C to F conversion recovers the raw value within
	// floating-point tolerance.
	raws := []float64{-123, 0, 5, 217, 389}
	for _, raw := range raws {
		f := TempMax.Convert(raw, Fahrenheit)
		back := (f - 32) * 5 / 9 * 10
		assert.InDelta(t, raw, back, 1e-6)
	}
}

func TestMetricConvert_Deterministic(t *testing.T) {
	a := TempMax.Convert(215, Fahrenheit)
	b := TempMax.Convert(215, Fahrenheit)
	assert.Equal(t, a, b)
}

func TestMetricPlausible(t *testing.T) {
	t.Run("fahrenheit bounds", func(t *testing.T) {
		assert.True(t, TempMax.Plausible(105, Fahrenheit))
		assert.True(t, TempMax.Plausible(-50, Fahrenheit))
		assert.True(t, TempMax.Plausible(140, Fahrenheit))
		assert.False(t, TempMax.Plausible(-50.1, Fahrenheit))
		assert.False(t, TempMax.Plausible(140.1, Fahrenheit))
	})

	t.Run("celsius bounds track the unit", func(t *testing.T) {
		assert.True(t, TempMax.Plausible(40, Celsius))
		assert.False(t, TempMax.Plausible(120, Celsius))
	})

	t.Run("humidity is a percentage", func(t *testing.T) {
		assert.True(t, Humidity.Plausible(0, Fahrenheit))
		assert.True(t, Humidity.Plausible(100, Fahrenheit))
		assert.False(t, Humidity.Plausible(101, Fahrenheit))
		assert.False(t, Humidity.Plausible(-1, Fahrenheit))
	})

	t.Run("wind cannot be negative", func(t *testing.T) {
		assert.False(t, WindSpeed.Plausible(-0.5, Fahrenheit))
	})
}

func TestParseMetric(t *testing.T) {
	for _, m := range Metrics() {
		got, err := ParseMetric(m.Code())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := ParseMetric("SNOW")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SNOW")
}

func TestParseTargetUnit(t *testing.T) {
	for _, s := range []string{"F", "f", "fahrenheit"} {
		u, err := ParseTargetUnit(s)
		require.NoError(t, err)
		assert.Equal(t, Fahrenheit, u)
	}
	for _, s := range []string{"C", "c", "celsius"} {
		u, err := ParseTargetUnit(s)
		require.NoError(t, err)
		assert.Equal(t, Celsius, u)
	}
	_, err := ParseTargetUnit("kelvin")
	require.Error(t, err)
}

func TestMetricContinuous(t *testing.T) {
	assert.True(t, Humidity.Continuous())
	assert.True(t, WindSpeed.Continuous())
	assert.True(t, DewPoint.Continuous())
	assert.False(t, TempMax.Continuous())
	assert.False(t, FeelsLikeMax.Continuous())
}
