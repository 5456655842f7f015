package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mgearhart/heattrends/internal/domain"
	"github.com/mgearhart/heattrends/internal/trend"
)

var yearlyHeader = []string{"year", "datatype", "window", "series", "value", "n_valid", "low_confidence"}

// WriteYearly writes the yearly derived-metric table.
func WriteYearly(w io.Writer, values []trend.YearlyValue) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(yearlyHeader); err != nil {
		return err
	}
	for _, v := range values {
		rec := []string{
			strconv.Itoa(v.Year),
			v.Metric.Code(),
			v.Window,
			v.Series,
			formatFloat(v.Value),
			strconv.Itoa(v.NValid),
			strconv.FormatBool(v.LowConfidence),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadYearly parses a yearly derived-metric table.
func ReadYearly(r io.Reader) ([]trend.YearlyValue, error) {
	rows, err := readTable(r, yearlyHeader)
	if err != nil {
		return nil, err
	}
	out := make([]trend.YearlyValue, 0, len(rows))
	for i, row := range rows {
		year, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid year %q", i+2, row[0])
		}
		metric, err := domain.ParseMetric(row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		value, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid value %q", i+2, row[4])
		}
		nValid, err := strconv.Atoi(row[5])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid n_valid %q", i+2, row[5])
		}
		low, err := strconv.ParseBool(row[6])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid low_confidence %q", i+2, row[6])
		}
		out = append(out, trend.YearlyValue{
			Year:          year,
			Metric:        metric,
			Window:        row[2],
			Series:        row[3],
			Value:         value,
			NValid:        nValid,
			LowConfidence: low,
		})
	}
	return out, nil
}

var trendHeader = []string{"datatype", "window", "series", "slope", "intercept", "p_value", "n", "status", "note"}

// WriteTrends writes the trend-fit table, including unavailable entries.
func WriteTrends(w io.Writer, results []trend.TrendResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(trendHeader); err != nil {
		return err
	}
	for _, t := range results {
		slope, intercept, p := "", "", ""
		if t.Status == trend.StatusOK {
			slope = formatFloat(t.Slope)
			intercept = formatFloat(t.Intercept)
			p = formatFloat(t.PValue)
		}
		rec := []string{
			t.Metric.Code(),
			t.Window,
			t.Series,
			slope,
			intercept,
			p,
			strconv.Itoa(t.N),
			t.Status,
			t.Note,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadYearlyFile reads a yearly table from path.
func ReadYearlyFile(path string) ([]trend.YearlyValue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadYearly(f)
}

// WriteYearlyFile writes the yearly table to path.
func WriteYearlyFile(path string, values []trend.YearlyValue) error {
	return writeFile(path, func(w io.Writer) error { return WriteYearly(w, values) })
}

// WriteTrendsFile writes the trend table to path.
func WriteTrendsFile(path string, results []trend.TrendResult) error {
	return writeFile(path, func(w io.Writer) error { return WriteTrends(w, results) })
}
