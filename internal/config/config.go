package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mgearhart/heattrends/internal/domain"
)

// MonthDay is a recurring calendar boundary ("MM-DD") for aggregation windows.
type MonthDay struct {
	Month int
	Day   int
}

// ParseMonthDay parses "MM-DD", e.g. "06-01".
func ParseMonthDay(s string) (MonthDay, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return MonthDay{}, fmt.Errorf("invalid month-day %q, want MM-DD", s)
	}
	m, errM := strconv.Atoi(parts[0])
	d, errD := strconv.Atoi(parts[1])
	if errM != nil || errD != nil || m < 1 || m > 12 || d < 1 || d > 31 {
		return MonthDay{}, fmt.Errorf("invalid month-day %q, want MM-DD", s)
	}
	return MonthDay{Month: m, Day: d}, nil
}

func (md MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", md.Month, md.Day)
}

// Config holds all pipeline settings, populated from environment variables.
// One Config is built per run and passed explicitly into each stage; nothing
// reads the environment after Load returns.
type Config struct {
	// Fetch
	NOAAToken    string
	StationID    string // GHCN-D station, e.g. "GHCND:USC00047339"
	LocationID   string // CDO location for station discovery, e.g. "FIPS:06081"
	StationName  string // substring filter during discovery
	ASOSStation  string // IEM ASOS station, e.g. "SQL"
	StartDate    time.Time
	ASOSStart    time.Time // hourly archive starts decades after GHCN-D
	EndDate      time.Time // zero means "today" at run time
	FetchTimeout time.Duration
	FetchDelay   time.Duration // politeness delay between ASOS requests

	// Normalization and analysis
	TargetUnit     domain.TargetUnit
	Thresholds     []float64 // threshold-day cutoffs in the target unit
	MinValidDays   int       // below this, a year is flagged low-confidence
	HighlightYears int       // most recent K years emphasized in charts
	CompareYears   int       // early vs recent period length
	SummerStart    MonthDay
	SummerEnd      MonthDay
	SchoolStart    MonthDay
	SchoolEnd      MonthDay

	// Artifacts
	RawDir       string
	ProcessedDir string
	FiguresDir   string

	// Ambient
	LogLevel  string
	LogFormat string
	HTTPAddr  string // metrics/health listener during long fetches; empty disables
}

// Load reads configuration from environment variables, applying defaults
// where unset. Invalid dates, thresholds, or window boundaries fail here,
// before any processing begins.
func Load() (*Config, error) {
	cfg := &Config{
		NOAAToken:    os.Getenv("NOAA_TOKEN"),
		StationID:    os.Getenv("STATION_ID"),
		LocationID:   envOrDefault("LOCATION_ID", "FIPS:06081"),
		StationName:  envOrDefault("STATION_NAME", "REDWOOD CITY"),
		ASOSStation:  envOrDefault("ASOS_STATION", "SQL"),
		RawDir:       envOrDefault("RAW_DIR", "data_raw"),
		ProcessedDir: envOrDefault("PROCESSED_DIR", "data_processed"),
		FiguresDir:   envOrDefault("FIGURES_DIR", "figures"),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		LogFormat:    envOrDefault("LOG_FORMAT", "text"),
		HTTPAddr:     os.Getenv("HTTP_ADDR"),
	}

	var err error
	if cfg.StartDate, err = parseDate(envOrDefault("START_DATE", "1948-01-01")); err != nil {
		return nil, fmt.Errorf("START_DATE: %w", err)
	}
	if cfg.ASOSStart, err = parseDate(envOrDefault("ASOS_START_DATE", "1990-01-01")); err != nil {
		return nil, fmt.Errorf("ASOS_START_DATE: %w", err)
	}
	if raw := os.Getenv("END_DATE"); raw != "" {
		if cfg.EndDate, err = parseDate(raw); err != nil {
			return nil, fmt.Errorf("END_DATE: %w", err)
		}
		if !cfg.EndDate.After(cfg.StartDate) {
			return nil, errors.New("END_DATE must be after START_DATE")
		}
	}

	if cfg.FetchTimeout, err = parseDuration("FETCH_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.FetchDelay, err = parseDuration("FETCH_DELAY", "500ms"); err != nil {
		return nil, err
	}

	if cfg.TargetUnit, err = domain.ParseTargetUnit(envOrDefault("TARGET_UNIT", "F")); err != nil {
		return nil, fmt.Errorf("TARGET_UNIT: %w", err)
	}

	if cfg.Thresholds, err = parseThresholds(envOrDefault("THRESHOLDS", "90,100")); err != nil {
		return nil, fmt.Errorf("THRESHOLDS: %w", err)
	}

	if cfg.MinValidDays, err = parseBoundedInt("MIN_VALID_DAYS", 300, 1, domain.DaysPerYear); err != nil {
		return nil, err
	}
	if cfg.HighlightYears, err = parseBoundedInt("HIGHLIGHT_YEARS", 3, 1, 100); err != nil {
		return nil, err
	}
	if cfg.CompareYears, err = parseBoundedInt("COMPARE_YEARS", 10, 1, 100); err != nil {
		return nil, err
	}

	if cfg.SummerStart, err = parseMonthDayEnv("SUMMER_START", "06-01"); err != nil {
		return nil, err
	}
	if cfg.SummerEnd, err = parseMonthDayEnv("SUMMER_END", "09-30"); err != nil {
		return nil, err
	}
	if cfg.SummerEnd.Month*100+cfg.SummerEnd.Day < cfg.SummerStart.Month*100+cfg.SummerStart.Day {
		return nil, errors.New("SUMMER_END must not precede SUMMER_START within the year")
	}
	if cfg.SchoolStart, err = parseMonthDayEnv("SCHOOL_START", "08-15"); err != nil {
		return nil, err
	}
	if cfg.SchoolEnd, err = parseMonthDayEnv("SCHOOL_END", "06-05"); err != nil {
		return nil, err
	}
	if cfg.SchoolEnd.Month >= cfg.SchoolStart.Month {
		return nil, errors.New("SCHOOL_END must fall in the year after SCHOOL_START")
	}

	return cfg, nil
}

// EndOrToday resolves the configured end date, defaulting to the current day.
func (c *Config) EndOrToday() time.Time {
	if c.EndDate.IsZero() {
		return domain.Today()
	}
	return c.EndDate
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t.UTC(), nil
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseThresholds(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid threshold %q", p)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, errors.New("at least one threshold is required")
	}
	return out, nil
}

func parseBoundedInt(key string, def, min, max int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < min || n > max {
		return 0, fmt.Errorf("invalid %s: want integer in [%d,%d]", key, min, max)
	}
	return n, nil
}

func parseMonthDayEnv(key, def string) (MonthDay, error) {
	md, err := ParseMonthDay(envOrDefault(key, def))
	if err != nil {
		return MonthDay{}, fmt.Errorf("%s: %w", key, err)
	}
	return md, nil
}
