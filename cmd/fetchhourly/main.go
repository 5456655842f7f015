// Command fetchhourly retrieves hourly surface observations (temperature,
// dew point, humidity, wind, apparent temperature) for the configured ASOS
// station from the Iowa Environmental Mesonet archive, saves the hourly
// table, and writes the daily-aggregated raw observation table consumed by
// the normalizer.
//
// Usage:
//
//	ASOS_STATION=SQL go run ./cmd/fetchhourly
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mgearhart/heattrends/internal/adapter/asos"
	"github.com/mgearhart/heattrends/internal/adapter/csvio"
	"github.com/mgearhart/heattrends/internal/adapter/httpserv"
	"github.com/mgearhart/heattrends/internal/config"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.HTTPAddr != "" {
		srv := httpserv.NewServer(cfg.HTTPAddr, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
		}()
	}

	if err := run(ctx, cfg, logger, metrics); err != nil {
		logger.Error("hourly fetch failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	if err := os.MkdirAll(cfg.RawDir, 0o755); err != nil {
		return fmt.Errorf("create raw dir: %w", err)
	}

	start, end := cfg.ASOSStart, cfg.EndOrToday()
	logger.Info("fetching hourly records", "station", cfg.ASOSStation,
		"start", start.Format("2006-01-02"), "end", end.Format("2006-01-02"),
		"delay", cfg.FetchDelay)

	client := asos.NewClient(cfg.FetchTimeout, cfg.FetchDelay, logger, metrics)
	hourly, err := client.FetchHourly(ctx, cfg.ASOSStation, start, end)
	if err != nil {
		return err
	}

	hourlyPath := filepath.Join(cfg.RawDir, "asos_hourly.csv")
	if err := asos.WriteHourlyFile(hourlyPath, hourly); err != nil {
		return fmt.Errorf("write hourly table: %w", err)
	}

	daily := asos.AggregateDaily(hourly)
	dailyPath := filepath.Join(cfg.RawDir, "asos_daily_raw.csv")
	if err := csvio.WriteRawFile(dailyPath, daily); err != nil {
		return fmt.Errorf("write daily table: %w", err)
	}

	logger.Info("hourly fetch complete",
		"hourly_rows", len(hourly), "daily_rows", len(daily),
		"hourly_out", hourlyPath, "daily_out", dailyPath)
	return nil
}
