// Package asos fetches hourly surface observations from the Iowa
// Environmental Mesonet ASOS archive and aggregates them to daily records.
package asos

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jonboulle/clockwork"

	"github.com/mgearhart/heattrends/internal/observability"
)

const (
	defaultBaseURL = "https://mesonet.agron.iastate.edu/cgi-bin/request/asos.py"
	userAgent      = "heattrends/1.0"
	timeLayout     = "2006-01-02 15:04"
)

// HourlyObservation is one row of the ASOS archive. Missing fields are NaN.
type HourlyObservation struct {
	Station string
	Valid   time.Time
	TmpF    float64 // air temperature, °F
	DwpF    float64 // dew point, °F
	Relh    float64 // relative humidity, percent
	Sknt    float64 // wind speed, knots
	Gust    float64 // wind gust, knots
	Feel    float64 // apparent temperature, °F
}

// Client fetches the archive in monthly chunks with a politeness delay
// between requests, as the IEM service asks of bulk users.
type Client struct {
	rest    *resty.Client
	clock   clockwork.Clock
	delay   time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewClient creates an IEM ASOS client.
func NewClient(timeout, delay time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	rest := resty.New().
		SetBaseURL(defaultBaseURL).
		SetHeader("User-Agent", userAgent).
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second)

	return &Client{
		rest:    rest,
		clock:   clockwork.NewRealClock(),
		delay:   delay,
		logger:  logger,
		metrics: metrics,
	}
}

// SetBaseURL points the client at a different archive root. Tests use it with httptest.
func (c *Client) SetBaseURL(u string) {
	c.rest.SetBaseURL(u)
}

// SetClock swaps the delay clock. Tests inject a fake so chunked fetches
// don't actually sleep.
func (c *Client) SetClock(clk clockwork.Clock) {
	c.clock = clk
}

// FetchHourly retrieves all hourly observations for the station between
// start and end, chunked by calendar month. A failed chunk is logged and
// skipped; the remaining months still fetch.
func (c *Client) FetchHourly(ctx context.Context, station string, start, end time.Time) ([]HourlyObservation, error) {
	var out []HourlyObservation

	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for cur.Before(end) {
		next := cur.AddDate(0, 1, 0)

		chunk, err := c.fetchChunk(ctx, station, cur, next)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("chunk fetch failed, skipping month",
				"station", station, "month", cur.Format("2006-01"), "error", err)
		} else {
			out = append(out, chunk...)
			c.metrics.PagesFetched.Inc()
			c.metrics.ObservationsFetched.Add(float64(len(chunk)))
		}

		cur = next
		if cur.Before(end) {
			c.clock.Sleep(c.delay)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no hourly data retrieved for station %s", station)
	}
	return out, nil
}

func (c *Client) fetchChunk(ctx context.Context, station string, start, end time.Time) ([]HourlyObservation, error) {
	reqStart := time.Now()
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParamsFromValues(map[string][]string{
			"station": {station},
			"data":    {"tmpf", "dwpf", "relh", "sknt", "gust", "feel"},
			"sts":     {start.Format("2006-01-02T15:04") + "+00:00"},
			"ets":     {end.Format("2006-01-02T15:04") + "+00:00"},
			"tz":      {"UTC"},
			"format":  {"onlycomma"},
			"missing": {"null"},
		}).
		Get("")
	c.metrics.FetchRequestSeconds.Observe(time.Since(reqStart).Seconds())

	if err != nil {
		return nil, fmt.Errorf("asos request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("asos API error: status %d", resp.StatusCode())
	}

	return parseHourlyCSV(string(resp.Body()))
}

// parseHourlyCSV decodes the onlycomma archive format. The header row names
// the requested columns; "null" marks missing values.
func parseHourlyCSV(body string) ([]HourlyObservation, error) {
	cr := csv.NewReader(strings.NewReader(body))
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse asos csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	col := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		col[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"station", "valid"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("asos csv missing %q column", required)
		}
	}

	out := make([]HourlyObservation, 0, len(rows)-1)
	for _, row := range rows[1:] {
		valid, err := time.Parse(timeLayout, field(row, col, "valid"))
		if err != nil {
			continue
		}
		out = append(out, HourlyObservation{
			Station: field(row, col, "station"),
			Valid:   valid.UTC(),
			TmpF:    numField(row, col, "tmpf"),
			DwpF:    numField(row, col, "dwpf"),
			Relh:    numField(row, col, "relh"),
			Sknt:    numField(row, col, "sknt"),
			Gust:    numField(row, col, "gust"),
			Feel:    numField(row, col, "feel"),
		})
	}
	return out, nil
}

func field(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func numField(row []string, col map[string]int, name string) float64 {
	s := field(row, col, name)
	if s == "" || s == "null" || s == "M" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
