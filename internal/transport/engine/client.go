package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/trackworks/coasterec/internal/domain"
	"github.com/trackworks/coasterec/internal/metrics"
)

// Client calls the external scoring engine over HTTP. One POST per
// recommendation request, JSON both ways.
type Client struct {
	httpClient *http.Client
	endpoint   string
	timeout    time.Duration
	logger     *zap.Logger
}

// Config holds the scoring engine settings.
type Config struct {
	URL        string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient creates a scoring engine client.
func NewClient(cfg *Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   cfg.URL,
		timeout:    timeout,
		logger:     cfg.Logger,
	}
}

// Recommend implements recommend.Engine. Posts the payload and decodes
// the ranked results. An empty response body is a valid empty result.
func (c *Client) Recommend(ctx context.Context, req domain.RecommendRequest) ([]domain.Recommendation, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal engine request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build engine request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()

	resp, err := c.httpClient.Do(httpReq)

	duration := time.Since(start)

	if err != nil {
		metrics.RecommenderRequestsTotal.WithLabelValues("error").Inc()
		metrics.RecommenderErrorsTotal.WithLabelValues("unavailable").Inc()
		return nil, &domain.RecommenderUnavailableError{Endpoint: c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecommenderRequestsTotal.WithLabelValues("error").Inc()
		metrics.RecommenderErrorsTotal.WithLabelValues("unavailable").Inc()
		return nil, &domain.RecommenderUnavailableError{
			Endpoint: c.endpoint,
			Err:      fmt.Errorf("read response body: %w", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecommenderRequestsTotal.WithLabelValues("error").Inc()
		metrics.RecommenderErrorsTotal.WithLabelValues("bad_status").Inc()
		return nil, &domain.RecommenderUnavailableError{
			Endpoint: c.endpoint,
			Err:      fmt.Errorf("engine returned status %d: %s", resp.StatusCode, truncate(raw, 256)),
		}
	}

	recs, err := decodeResults(raw)
	if err != nil {
		metrics.RecommenderRequestsTotal.WithLabelValues("error").Inc()
		metrics.RecommenderErrorsTotal.WithLabelValues("malformed").Inc()
		return nil, err
	}

	metrics.RecommenderRequestsTotal.WithLabelValues("success").Inc()
	metrics.RecommenderRequestDuration.Observe(duration.Seconds())
	metrics.RecommenderResultsReturned.Observe(float64(len(recs)))

	if c.logger != nil {
		c.logger.Debug("engine call completed",
			zap.Int("results", len(recs)),
			zap.Duration("duration", duration),
		)
	}
	return recs, nil
}

// decodeResults parses the engine response. Each element must carry a
// coaster_id; everything else rides along in the attribute bag. A single
// bad element fails the whole call. An empty body decodes to an empty
// non-nil slice so every successful empty outcome serializes as [].
func decodeResults(raw []byte) ([]domain.Recommendation, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []domain.Recommendation{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &domain.MalformedResponseError{Item: -1, Err: err}
	}

	recs := make([]domain.Recommendation, 0, len(items))
	for i, item := range items {
		var rec domain.Recommendation
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, &domain.MalformedResponseError{Item: i, Err: err}
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
