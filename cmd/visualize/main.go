// Command visualize renders the year matrices and fitted trends as PNG
// charts. Matrix charts emphasize the most recent HIGHLIGHT_YEARS years;
// missing days appear as gaps, never interpolated.
//
// Usage:
//
//	go run ./cmd/visualize
//	HIGHLIGHT_YEARS=5 go run ./cmd/visualize -tidy data_processed/daily_tidy.csv
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgearhart/heattrends/internal/adapter/csvio"
	"github.com/mgearhart/heattrends/internal/config"
	"github.com/mgearhart/heattrends/internal/domain"
	"github.com/mgearhart/heattrends/internal/observability"
	"github.com/mgearhart/heattrends/internal/trend"
	"github.com/mgearhart/heattrends/internal/viz"
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
	outDir := flag.String("out-dir", cfg.FiguresDir, "output directory for chart PNGs")
	flag.Parse()

	if err := run(cfg, logger, metrics, *tidyIn, *outDir); err != nil {
		logger.Error("visualization failed", "error", err)
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

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create figures dir: %w", err)
	}

	present := make(map[domain.Metric]bool)
	for _, r := range records {
		present[r.Metric] = true
	}

	for _, m := range domain.Metrics() {
		if !present[m] {
			continue
		}
		matrix := domain.BuildMatrix(records, m)
		path := filepath.Join(outDir, strings.ToLower(m.Code())+"_matrix.png")
		title := fmt.Sprintf("%s by day of year (last %d years highlighted)", m.Code(), cfg.HighlightYears)
		if err := renderTo(path, func(f *os.File) error {
			return viz.RenderMatrix(f, matrix, cfg.HighlightYears, title)
		}); err != nil {
			return fmt.Errorf("render matrix %s: %w", m.Code(), err)
		}
		logger.Info("matrix chart written", "metric", m.Code(), "out", path)
	}

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

	for _, fit := range res.Trends {
		if fit.Status != trend.StatusOK {
			logger.Warn("skipping unavailable trend", "series", fit.Series, "window", fit.Window, "note", fit.Note)
			continue
		}
		series := seriesFor(res.Yearly, fit)
		name := fmt.Sprintf("%s_%s_trend.png", fit.Window, strings.ToLower(fit.Series))
		path := filepath.Join(outDir, name)
		if err := renderTo(path, func(f *os.File) error {
			return viz.RenderTrend(f, series, fit)
		}); err != nil {
			return fmt.Errorf("render trend %s/%s: %w", fit.Window, fit.Series, err)
		}
		logger.Info("trend chart written", "series", fit.Series, "window", fit.Window, "out", path)
	}

	return nil
}

func renderTo(path string, render func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func seriesFor(yearly []trend.YearlyValue, fit trend.TrendResult) []trend.YearlyValue {
	var out []trend.YearlyValue
	for _, v := range yearly {
		if v.Window == fit.Window && v.Series == fit.Series {
			out = append(out, v)
		}
	}
	return out
}

func windows(cfg *config.Config) []trend.Window {
	return []trend.Window{
		trend.CalendarWindow(),
		trend.SummerWindow(cfg.SummerStart.Month, cfg.SummerStart.Day, cfg.SummerEnd.Month, cfg.SummerEnd.Day),
		trend.SchoolWindow(cfg.SchoolStart.Month, cfg.SchoolStart.Day, cfg.SchoolEnd.Month, cfg.SchoolEnd.Day),
	}
}
