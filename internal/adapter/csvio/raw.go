// Package csvio reads and writes the flat tabular artifacts passed between
// pipeline stages. All floats are encoded with the shortest exact
// representation so identical inputs always produce byte-identical files.
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

const dateLayout = "2006-01-02"

var rawHeader = []string{"station", "date", "datatype", "value", "unit"}

// WriteRaw writes raw observations as the one-row-per-station-day-metric table.
func WriteRaw(w io.Writer, rows []domain.RawObservation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rawHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.StationID,
			r.Date.Format(dateLayout),
			r.Metric.Code(),
			formatFloat(r.Value),
			r.UnitTag,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadRaw parses a raw observation table.
func ReadRaw(r io.Reader) ([]domain.RawObservation, error) {
	rows, err := readTable(r, rawHeader)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RawObservation, 0, len(rows))
	for i, row := range rows {
		date, err := time.Parse(dateLayout, row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		metric, err := domain.ParseMetric(row[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		value, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid value %q", i+2, row[3])
		}
		out = append(out, domain.RawObservation{
			StationID: row[0],
			Date:      date.UTC(),
			Metric:    metric,
			Value:     value,
			UnitTag:   row[4],
		})
	}
	return out, nil
}

// WriteRawFile writes the raw table to path, creating parent-owned files
// with 0644.
func WriteRawFile(path string, rows []domain.RawObservation) error {
	return writeFile(path, func(w io.Writer) error { return WriteRaw(w, rows) })
}

// ReadRawFile reads a raw table from path.
func ReadRawFile(path string) ([]domain.RawObservation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRaw(f)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// readTable reads all rows and validates the header.
func readTable(r io.Reader, wantHeader []string) ([][]string, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty table, want header %v", wantHeader)
	}
	if len(rows[0]) != len(wantHeader) {
		return nil, fmt.Errorf("header %v, want %v", rows[0], wantHeader)
	}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			return nil, fmt.Errorf("header %v, want %v", rows[0], wantHeader)
		}
	}
	return rows[1:], nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
