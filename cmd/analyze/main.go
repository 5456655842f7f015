// Command analyze derives yearly metric series (threshold-day counts and
// yearly means) across the calendar, summer, and school-year windows, fits
// linear trends, and writes the yearly and trend tables. A failure in one
// series is recorded as unavailable; the rest of the analysis continues.
//
// Usage:
//
//	go run ./cmd/analyze
//	THRESHOLDS=85,95 go run ./cmd/analyze -tidy data_processed/daily_tidy.csv
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mgearhart/heattrends/internal/adapter/csvio"
	"github.com/mgearhart/heattrends/internal/config"
	"github.com/mgearhart/heattrends/internal/observability"
	"github.com/mgearhart/heattrends/internal/report"
	"github.com/mgearhart/heattrends/internal/trend"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	tidyIn := flag.String("tidy", filepath.Join(cfg.ProcessedDir, "daily_tidy.csv"), "tidy daily table")
	outDir := flag.String("out-dir", cfg.ProcessedDir, "output directory for yearly and trend tables")
	flag.Parse()

	if err := run(cfg, logger, metrics, *tidyIn, *outDir); err != nil {
		logger.Error("analysis failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, tidyIn, outDir string) error {
	records, err := csvio.ReadTidyFile(tidyIn)
	if err != nil {
		return fmt.Errorf("read %s: %w", tidyIn, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("tidy input is empty")
	}
	logger.Info("tidy input loaded", "rows", len(records))

	analyzer := trend.NewAnalyzer(
		windows(cfg),
		cfg.Thresholds,
		cfg.MinValidDays,
		cfg.CompareYears,
		cfg.CompareYears,
		logger,
		metrics,
	)
	res := analyzer.Run(records)
	logger.Info("analysis complete",
		"yearly_points", len(res.Yearly),
		"trends", len(res.Trends),
		"comparisons", len(res.Comparisons))

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	yearlyPath := filepath.Join(outDir, "yearly_metrics.csv")
	if err := csvio.WriteYearlyFile(yearlyPath, res.Yearly); err != nil {
		return fmt.Errorf("write yearly table: %w", err)
	}
	trendsPath := filepath.Join(outDir, "trend_fits.csv")
	if err := csvio.WriteTrendsFile(trendsPath, res.Trends); err != nil {
		return fmt.Errorf("write trend table: %w", err)
	}
	logger.Info("tables written", "yearly", yearlyPath, "trends", trendsPath)

	report.WriteSummary(os.Stdout, res)
	report.WriteLowConfidenceYears(os.Stdout, res.Yearly)
	return nil
}

func windows(cfg *config.Config) []trend.Window {
	return []trend.Window{
		trend.CalendarWindow(),
		trend.SummerWindow(cfg.SummerStart.Month, cfg.SummerStart.Day, cfg.SummerEnd.Month, cfg.SummerEnd.Day),
		trend.SchoolWindow(cfg.SchoolStart.Month, cfg.SchoolStart.Day, cfg.SchoolEnd.Month, cfg.SchoolEnd.Day),
	}
}
