package usgs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/observability"
)

// Feed labels used in metrics and logs.
const (
	feedQuakes = "quakes"
	feedPlates = "plates"
)

// maxErrorBody caps how much of a failed response is echoed into the error.
const maxErrorBody = 512

// Client fetches the earthquake feed and the plate boundary overlay.
// It implements pipeline.Extractor and pipeline.OverlaySource.
type Client struct {
	feedURL    string
	platesURL  string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a feed client. An empty platesURL disables the overlay.
func NewClient(feedURL, platesURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		feedURL:   feedURL,
		platesURL: platesURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Extract performs one GET of the earthquake feed and returns its features.
func (c *Client) Extract(ctx context.Context) ([]domain.RawFeature, error) {
	body, err := c.get(ctx, c.feedURL, feedQuakes)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	fc, err := ReadFeatureCollection(body)
	if err != nil {
		c.metrics.FeedFetches.WithLabelValues(feedQuakes, "error").Inc()
		return nil, err
	}
	c.metrics.FeedFetches.WithLabelValues(feedQuakes, "success").Inc()

	c.logger.Debug("earthquake feed fetched",
		"features", len(fc.Features),
		"title", fc.Metadata.Title,
	)
	return fc.Features, nil
}

// FetchOverlay downloads the tectonic plate boundaries document. The body is
// returned verbatim once it is confirmed to be a FeatureCollection.
func (c *Client) FetchOverlay(ctx context.Context) (json.RawMessage, error) {
	if c.platesURL == "" {
		return nil, nil
	}

	body, err := c.get(ctx, c.platesURL, feedPlates)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		c.metrics.FeedFetches.WithLabelValues(feedPlates, "error").Inc()
		return nil, fmt.Errorf("read plates response: %w", err)
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		c.metrics.FeedFetches.WithLabelValues(feedPlates, "error").Inc()
		return nil, fmt.Errorf("decode plates response: %w", err)
	}
	if head.Type != "FeatureCollection" {
		c.metrics.FeedFetches.WithLabelValues(feedPlates, "error").Inc()
		return nil, fmt.Errorf("plates response: unexpected GeoJSON type %q", head.Type)
	}

	c.metrics.FeedFetches.WithLabelValues(feedPlates, "success").Inc()
	return json.RawMessage(data), nil
}

// get issues a single GET and returns the body of a 200 response. The caller
// closes the body.
func (c *Client) get(ctx context.Context, url, feed string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.FeedFetchDuration.WithLabelValues(feed).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FeedFetches.WithLabelValues(feed, "error").Inc()
		return nil, fmt.Errorf("%s feed request: %w", feed, err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.metrics.FeedFetches.WithLabelValues(feed, "error").Inc()
		return nil, fmt.Errorf("%s feed error: status %d: %s", feed, resp.StatusCode, body)
	}
	return resp.Body, nil
}

// ReadFeatureCollection decodes a USGS GeoJSON summary document.
func ReadFeatureCollection(r io.Reader) (domain.FeatureCollection, error) {
	var fc domain.FeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return domain.FeatureCollection{}, fmt.Errorf("decode feature collection: %w", err)
	}
	if fc.Type != "" && fc.Type != "FeatureCollection" {
		return domain.FeatureCollection{}, fmt.Errorf("decode feature collection: unexpected GeoJSON type %q", fc.Type)
	}
	return fc, nil
}
