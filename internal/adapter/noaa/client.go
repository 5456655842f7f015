// Package noaa fetches GHCN-D daily observations from the NOAA Climate Data
// Online (CDO) v2 API.
package noaa

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mgearhart/heattrends/internal/domain"
	"github.com/mgearhart/heattrends/internal/observability"
)

const (
	defaultBaseURL = "https://www.ncdc.noaa.gov/cdo-web/api/v2"
	pageLimit      = 1000
	userAgent      = "heattrends/1.0"
)

// Station is the CDO station record kept from discovery.
type Station struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	MinDate string `json:"mindate"`
	MaxDate string `json:"maxdate"`
}

// Client is an authenticated CDO API client with retry on rate limits and
// upstream errors.
type Client struct {
	rest     *resty.Client
	logger   *slog.Logger
	metrics  *observability.Metrics
	pagesDir string
}

// NewClient creates a CDO client. pagesDir, when non-empty, receives a copy
// of every raw response page for offline audit; pass "" to disable caching.
func NewClient(token string, timeout time.Duration, pagesDir string, logger *slog.Logger, metrics *observability.Metrics) *Client {
	rest := resty.New().
		SetBaseURL(defaultBaseURL).
		SetHeader("token", token).
		SetHeader("User-Agent", userAgent).
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
		})

	return &Client{
		rest:     rest,
		logger:   logger,
		metrics:  metrics,
		pagesDir: pagesDir,
	}
}

// SetBaseURL points the client at a different API root. Tests use it with httptest.
func (c *Client) SetBaseURL(u string) {
	c.rest.SetBaseURL(u)
}

type stationsResponse struct {
	Results []Station `json:"results"`
}

// FindStation discovers the GHCN-D station for a location whose name
// contains every word of nameContains (case-insensitive).
func (c *Client) FindStation(ctx context.Context, locationID, nameContains string) (Station, error) {
	var body stationsResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"datasetid":  "GHCND",
			"locationid": locationID,
			"limit":      strconv.Itoa(pageLimit),
		}).
		SetResult(&body).
		Get("/stations")
	if err != nil {
		return Station{}, fmt.Errorf("query stations: %w", err)
	}
	if resp.IsError() {
		return Station{}, fmt.Errorf("stations API error: status %d: %s", resp.StatusCode(), resp.Body())
	}

	words := strings.Fields(strings.ToUpper(nameContains))
	for _, s := range body.Results {
		name := strings.ToUpper(s.Name)
		match := true
		for _, w := range words {
			if !strings.Contains(name, w) {
				match = false
				break
			}
		}
		if match {
			c.logger.Info("station found", "id", s.ID, "name", s.Name,
				"coverage_from", s.MinDate, "coverage_to", s.MaxDate)
			return s, nil
		}
	}

	return Station{}, fmt.Errorf("no station matching %q in %s (%d candidates)",
		nameContains, locationID, len(body.Results))
}

type datum struct {
	Date     string  `json:"date"` // "1948-01-01T00:00:00"
	Datatype string  `json:"datatype"`
	Station  string  `json:"station"`
	Value    float64 `json:"value"`
}

type dataResponse struct {
	Results []datum `json:"results"`
}

// FetchDaily pages through all TMAX/TMIN records for the station between
// start and end. Values arrive in the raw GHCN encoding, tenths of a degree
// Celsius; the normalizer converts them. Pagination stops at the first empty page. A request
// failure after at least one successful page logs a warning and returns
// the rows fetched so far, mirroring how partial upstream outages are
// handled throughout the pipeline; zero rows is an error.
func (c *Client) FetchDaily(ctx context.Context, stationID string, start, end time.Time) ([]domain.RawObservation, error) {
	var out []domain.RawObservation
	offset := 1
	page := 0

	for {
		reqStart := time.Now()
		var body dataResponse
		resp, err := c.rest.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"datasetid":  "GHCND",
				"stationid":  stationID,
				"startdate":  start.Format("2006-01-02"),
				"enddate":    end.Format("2006-01-02"),
				"datatypeid": "TMAX,TMIN",
				"limit":      strconv.Itoa(pageLimit),
				"offset":     strconv.Itoa(offset),
			}).
			SetResult(&body).
			Get("/data")
		c.metrics.FetchRequestSeconds.Observe(time.Since(reqStart).Seconds())

		if err != nil || resp.IsError() {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if len(out) > 0 {
				c.logger.Warn("data request failed mid-pagination, stopping",
					"offset", offset, "error", err, "status", resp.StatusCode())
				break
			}
			if err != nil {
				return nil, fmt.Errorf("query data: %w", err)
			}
			return nil, fmt.Errorf("data API error: status %d: %s", resp.StatusCode(), resp.Body())
		}

		if len(body.Results) == 0 {
			break
		}

		c.cachePage(offset, resp.Body())
		page++
		c.metrics.PagesFetched.Inc()
		c.metrics.ObservationsFetched.Add(float64(len(body.Results)))
		c.logger.Debug("page fetched", "page", page, "offset", offset, "rows", len(body.Results))

		for _, d := range body.Results {
			obs, err := d.toObservation()
			if err != nil {
				c.logger.Warn("skipping malformed datum", "error", err)
				continue
			}
			out = append(out, obs)
		}
		offset += pageLimit
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no data retrieved for station %s between %s and %s",
			stationID, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return out, nil
}

func (d datum) toObservation() (domain.RawObservation, error) {
	metric, err := domain.ParseMetric(d.Datatype)
	if err != nil {
		return domain.RawObservation{}, err
	}
	date, err := time.Parse("2006-01-02T15:04:05", d.Date)
	if err != nil {
		return domain.RawObservation{}, fmt.Errorf("datum date %q: %w", d.Date, err)
	}
	return domain.RawObservation{
		StationID: d.Station,
		Date:      date.UTC(),
		Metric:    metric,
		Value:     d.Value,
		UnitTag:   metric.SourceUnitTag(),
	}, nil
}

// cachePage stores the raw response body for a page. Best effort; a cache
// write failure never fails the fetch.
func (c *Client) cachePage(offset int, body []byte) {
	if c.pagesDir == "" {
		return
	}
	path := filepath.Join(c.pagesDir, fmt.Sprintf("page_%06d.json", offset))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		c.logger.Warn("page cache write failed", "path", path, "error", err)
	}
}

// SaveStationInfo persists the discovered station record as JSON so later
// runs skip discovery.
func SaveStationInfo(path string, s Station) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadStationInfo reads a previously saved station record.
func LoadStationInfo(path string) (Station, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Station{}, err
	}
	var s Station
	if err := json.Unmarshal(data, &s); err != nil {
		return Station{}, fmt.Errorf("parse station info: %w", err)
	}
	return s, nil
}
