package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mgearhart/heattrends/internal/domain"
)

// WriteMatrix writes the dense day-of-year by year matrix: first column is
// the day-of-year 1..365, one column per observed year, absent cells empty.
func WriteMatrix(w io.Writer, m *domain.YearMatrix) error {
	years := m.Years()

	cw := csv.NewWriter(w)
	header := make([]string, 0, len(years)+1)
	header = append(header, "doy")
	for _, y := range years {
		header = append(header, strconv.Itoa(y))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(years)+1)
	for doy := 1; doy <= domain.DaysPerYear; doy++ {
		row[0] = strconv.Itoa(doy)
		for i, y := range years {
			if v, ok := m.Value(doy, y); ok {
				row[i+1] = formatFloat(v)
			} else {
				row[i+1] = ""
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadMatrix parses a matrix table back into a YearMatrix for the metric.
func ReadMatrix(r io.Reader, metric domain.Metric) (*domain.YearMatrix, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 || rows[0][0] != "doy" {
		return nil, fmt.Errorf("not a matrix table")
	}

	years := make([]int, 0, len(rows[0])-1)
	for _, col := range rows[0][1:] {
		y, err := strconv.Atoi(col)
		if err != nil {
			return nil, fmt.Errorf("invalid year column %q", col)
		}
		years = append(years, y)
	}

	m := domain.NewYearMatrix(metric)
	for i, row := range rows[1:] {
		doy, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid doy %q", i+2, row[0])
		}
		for j, cell := range row[1:] {
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid cell %q", i+2, cell)
			}
			m.Set(doy, years[j], v)
		}
	}
	return m, nil
}

// WriteMatrixFile writes the matrix to path.
func WriteMatrixFile(path string, m *domain.YearMatrix) error {
	return writeFile(path, func(w io.Writer) error { return WriteMatrix(w, m) })
}

// ReadMatrixFile reads a matrix for the metric from path.
func ReadMatrixFile(path string, metric domain.Metric) (*domain.YearMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadMatrix(f, metric)
}
