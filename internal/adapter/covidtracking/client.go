package covidtracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/covid-tracker-service/internal/domain"
	"github.com/couchcryptid/covid-tracker-service/internal/observability"
)

// Feed names, also used as metric labels.
const (
	FeedNational = "national"
	FeedStates   = "states"
)

// ErrEmptyResponse is returned when a feed answers with a null or empty body.
var ErrEmptyResponse = errors.New("empty response body")

var feedPaths = map[string]string{
	FeedNational: "us/daily.json",
	FeedStates:   "states/daily.json",
}

// Client fetches the daily feeds of the COVID Tracking Project API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an API client rooted at baseURL, e.g.
// "https://api.covidtracking.com/v1".
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// FetchNational returns the national daily feed, newest first.
func (c *Client) FetchNational(ctx context.Context) ([]domain.RawRecord, error) {
	return c.fetch(ctx, FeedNational)
}

// FetchStates returns the per-state daily feed, newest first.
func (c *Client) FetchStates(ctx context.Context) ([]domain.RawRecord, error) {
	return c.fetch(ctx, FeedStates)
}

func (c *Client) fetch(ctx context.Context, feed string) ([]domain.RawRecord, error) {
	start := time.Now()
	records, err := c.doRequest(ctx, c.baseURL+"/"+feedPaths[feed], feed)
	c.metrics.FetchDuration.WithLabelValues(feed).Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, ErrEmptyResponse):
		c.metrics.FetchRequests.WithLabelValues(feed, "empty").Inc()
	case err != nil && ctx.Err() != nil:
		c.metrics.FetchRequests.WithLabelValues(feed, "cancelled").Inc()
	case err != nil:
		c.metrics.FetchRequests.WithLabelValues(feed, "error").Inc()
	default:
		c.metrics.FetchRequests.WithLabelValues(feed, "success").Inc()
		c.metrics.RecordsFetched.WithLabelValues(feed).Add(float64(len(records)))
	}
	return records, err
}

func (c *Client) doRequest(ctx context.Context, fullURL, feed string) ([]domain.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching feed", "feed", feed, "url", fullURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s feed request: %w", feed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("covidtracking API error: status %d: %s", resp.StatusCode, body)
	}

	var records []domain.RawRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s feed: %w", feed, ErrEmptyResponse)
		}
		return nil, fmt.Errorf("decode %s feed: %w", feed, err)
	}
	// A literal null decodes to a nil slice.
	if len(records) == 0 {
		return nil, fmt.Errorf("%s feed: %w", feed, ErrEmptyResponse)
	}

	return records, nil
}
