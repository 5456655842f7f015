package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/mgearhart/heattrends/internal/domain"
)

var tidyHeader = []string{"date", "year", "month", "day", "doy", "datatype", "value"}

// WriteTidy writes the normalized long-format table, one row per
// (date, metric) observation, already sorted by the normalizer.
func WriteTidy(w io.Writer, records []domain.TidyRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tidyHeader); err != nil {
		return err
	}
	for _, r := range records {
		rec := []string{
			r.Date.Format(dateLayout),
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Month),
			strconv.Itoa(r.Day),
			strconv.Itoa(r.DayOfYear),
			r.Metric.Code(),
			formatFloat(r.Value),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTidy parses a tidy table.
func ReadTidy(r io.Reader) ([]domain.TidyRecord, error) {
	rows, err := readTable(r, tidyHeader)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TidyRecord, 0, len(rows))
	for i, row := range rows {
		date, err := time.Parse(dateLayout, row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		ints := make([]int, 4)
		for j := 0; j < 4; j++ {
			n, err := strconv.Atoi(row[1+j])
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid %s %q", i+2, tidyHeader[1+j], row[1+j])
			}
			ints[j] = n
		}
		metric, err := domain.ParseMetric(row[5])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		value, err := strconv.ParseFloat(row[6], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid value %q", i+2, row[6])
		}
		out = append(out, domain.TidyRecord{
			Date:      date.UTC(),
			Year:      ints[0],
			Month:     ints[1],
			Day:       ints[2],
			DayOfYear: ints[3],
			Metric:    metric,
			Value:     value,
		})
	}
	return out, nil
}

// WriteTidyFile writes the tidy table to path.
func WriteTidyFile(path string, records []domain.TidyRecord) error {
	return writeFile(path, func(w io.Writer) error { return WriteTidy(w, records) })
}

// ReadTidyFile reads a tidy table from path.
func ReadTidyFile(path string) ([]domain.TidyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTidy(f)
}
