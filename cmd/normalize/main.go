// Command normalize converts raw observation tables into the tidy daily
// table and the dense day-of-year by year matrices: unit conversion, Feb 29
// removal, day-of-year alignment, and plausibility validation. Implausible
// rows fail the run with every offending row listed; nothing is written
// when normalization fails.
//
// Usage:
//
//	go run ./cmd/normalize
//	go run ./cmd/normalize -daily data_raw/all_daily_raw.csv -hourly-daily data_raw/asos_daily_raw.csv
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mgearhart/heattrends/internal/adapter/csvio"
	"github.com/mgearhart/heattrends/internal/config"
	"github.com/mgearhart/heattrends/internal/domain"
	"github.com/mgearhart/heattrends/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	dailyIn := flag.String("daily", filepath.Join(cfg.RawDir, "all_daily_raw.csv"), "GHCN-D raw observation table")
	hourlyDailyIn := flag.String("hourly-daily", "", "optional ASOS daily-aggregated raw table")
	outDir := flag.String("out-dir", cfg.ProcessedDir, "output directory for tidy and matrix tables")
	flag.Parse()

	if err := run(cfg, logger, metrics, *dailyIn, *hourlyDailyIn, *outDir); err != nil {
		logger.Error("normalization failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, dailyIn, hourlyDailyIn, outDir string) error {
	rows, err := csvio.ReadRawFile(dailyIn)
	if err != nil {
		return fmt.Errorf("read %s: %w", dailyIn, err)
	}
	wanted := []domain.Metric{domain.TempMax, domain.TempMin}

	if hourlyDailyIn != "" {
		hourlyRows, err := csvio.ReadRawFile(hourlyDailyIn)
		if err != nil {
			return fmt.Errorf("read %s: %w", hourlyDailyIn, err)
		}
		rows = append(rows, hourlyRows...)
		wanted = append(wanted,
			domain.FeelsLikeMax, domain.FeelsLikeMin,
			domain.Humidity, domain.WindSpeed, domain.DewPoint)
	}

	if len(rows) == 0 {
		return fmt.Errorf("raw input is empty")
	}
	logger.Info("raw input loaded", "rows", len(rows), "unit", cfg.TargetUnit)

	leapDays := countLeapDays(rows)
	metrics.LeapDaysDropped.Add(float64(leapDays))

	tidy, err := domain.Normalize(rows, wanted, cfg.TargetUnit)
	if err != nil {
		if impl, ok := err.(*domain.ImplausibleValuesError); ok {
			metrics.ImplausibleRows.Add(float64(len(impl.Rows)))
		}
		return err
	}
	metrics.RowsNormalized.Add(float64(len(tidy)))
	logger.Info("normalized", "tidy_rows", len(tidy), "leap_days_dropped", leapDays)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}

	tidyPath := filepath.Join(outDir, "daily_tidy.csv")
	if err := csvio.WriteTidyFile(tidyPath, tidy); err != nil {
		return fmt.Errorf("write tidy table: %w", err)
	}

	for _, m := range wanted {
		matrix := domain.BuildMatrix(tidy, m)
		path := filepath.Join(outDir, strings.ToLower(m.Code())+"_matrix.csv")
		if err := csvio.WriteMatrixFile(path, matrix); err != nil {
			return fmt.Errorf("write matrix %s: %w", m.Code(), err)
		}
		logger.Info("matrix written", "metric", m.Code(), "years", len(matrix.Years()), "out", path)
	}

	logger.Info("normalization complete", "tidy_out", tidyPath)
	return nil
}

func countLeapDays(rows []domain.RawObservation) int {
	n := 0
	for _, r := range rows {
		if r.Date.Month() == time.February && r.Date.Day() == 29 {
			n++
		}
	}
	return n
}
