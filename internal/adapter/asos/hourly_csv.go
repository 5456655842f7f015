package asos

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
)

var hourlyHeader = []string{"station", "valid", "tmpf", "dwpf", "relh", "sknt", "gust", "feel"}

// WriteHourly writes the hourly archive rows for offline audit. Missing
// fields are written as "null", matching the upstream encoding.
func WriteHourly(w io.Writer, rows []HourlyObservation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(hourlyHeader); err != nil {
		return err
	}
	for _, h := range rows {
		rec := []string{
			h.Station,
			h.Valid.Format(timeLayout),
			formatNum(h.TmpF),
			formatNum(h.DwpF),
			formatNum(h.Relh),
			formatNum(h.Sknt),
			formatNum(h.Gust),
			formatNum(h.Feel),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteHourlyFile writes the hourly table to path.
func WriteHourlyFile(path string, rows []HourlyObservation) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteHourly(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatNum(v float64) string {
	if math.IsNaN(v) {
		return "null"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
