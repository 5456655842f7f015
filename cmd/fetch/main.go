// Command fetch retrieves all daily TMAX/TMIN records for the configured
// GHCN-D station from the NOAA CDO API and writes the flat raw observation
// table. Station discovery runs once and is cached alongside the data.
//
// Usage:
//
//	NOAA_TOKEN=... go run ./cmd/fetch
//	NOAA_TOKEN=... STATION_ID=GHCND:USC00047339 go run ./cmd/fetch
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

	"github.com/mgearhart/heattrends/internal/adapter/csvio"
	"github.com/mgearhart/heattrends/internal/adapter/httpserv"
	"github.com/mgearhart/heattrends/internal/adapter/noaa"
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
		logger.Error("fetch failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	if cfg.NOAAToken == "" {
		return errors.New("NOAA_TOKEN is required")
	}

	pagesDir := filepath.Join(cfg.RawDir, "noaa_pages")
	if err := os.MkdirAll(pagesDir, 0o755); err != nil {
		return fmt.Errorf("create raw dir: %w", err)
	}

	client := noaa.NewClient(cfg.NOAAToken, cfg.FetchTimeout, pagesDir, logger, metrics)

	stationID, err := resolveStation(ctx, cfg, client, logger)
	if err != nil {
		return err
	}

	start, end := cfg.StartDate, cfg.EndOrToday()
	logger.Info("fetching daily records", "station", stationID,
		"start", start.Format("2006-01-02"), "end", end.Format("2006-01-02"))

	rows, err := client.FetchDaily(ctx, stationID, start, end)
	if err != nil {
		return err
	}

	outPath := filepath.Join(cfg.RawDir, "all_daily_raw.csv")
	if err := csvio.WriteRawFile(outPath, rows); err != nil {
		return fmt.Errorf("write raw table: %w", err)
	}

	logger.Info("fetch complete", "rows", len(rows), "out", outPath)
	return nil
}

// resolveStation prefers an explicit STATION_ID, then the cached discovery
// result, then a fresh discovery query.
func resolveStation(ctx context.Context, cfg *config.Config, client *noaa.Client, logger *slog.Logger) (string, error) {
	if cfg.StationID != "" {
		return cfg.StationID, nil
	}

	infoPath := filepath.Join(cfg.RawDir, "station_info.json")
	if station, err := noaa.LoadStationInfo(infoPath); err == nil {
		logger.Info("using cached station", "id", station.ID, "name", station.Name)
		return station.ID, nil
	}

	station, err := client.FindStation(ctx, cfg.LocationID, cfg.StationName)
	if err != nil {
		return "", fmt.Errorf("station discovery: %w", err)
	}
	if err := noaa.SaveStationInfo(infoPath, station); err != nil {
		logger.Warn("station cache write failed", "error", err)
	}
	return station.ID, nil
}
