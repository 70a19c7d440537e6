package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/damon-houk/exchange-quotes-bot/internal/domain/entity"
	"github.com/damon-houk/exchange-quotes-bot/internal/domain/service"
	"github.com/damon-houk/exchange-quotes-bot/internal/infrastructure/logger"
	"github.com/damon-houk/exchange-quotes-bot/internal/metrics"
)

const (
	defaultBaseURL = "https://api.exchangeratesapi.io"
	latestPath     = "/latest"
	historyPath    = "/history"

	// maxBodyBytes bounds how much of a response body is read
	maxBodyBytes = 4 << 20
)

var _ service.RatesAPI = (*ExchangeRatesClient)(nil)

// ExchangeRatesClient talks to an exchangeratesapi.io compatible rates API
type ExchangeRatesClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

// ClientOption configures an ExchangeRatesClient
type ClientOption func(*ExchangeRatesClient)

// WithBaseURL points the client at another API host
func WithBaseURL(baseURL string) ClientOption {
	return func(c *ExchangeRatesClient) { c.baseURL = baseURL }
}

// WithAPIKey sends key as the access_key query parameter
func WithAPIKey(key string) ClientOption {
	return func(c *ExchangeRatesClient) { c.apiKey = key }
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *ExchangeRatesClient) { c.httpClient = httpClient }
}

// WithLogger sets the client logger
func WithLogger(log logger.Logger) ClientOption {
	return func(c *ExchangeRatesClient) { c.logger = log }
}

// WithMetrics records upstream request latency
func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *ExchangeRatesClient) { c.metrics = m }
}

// NewExchangeRatesClient creates a new rates API client
func NewExchangeRatesClient(opts ...ClientOption) *ExchangeRatesClient {
	c := &ExchangeRatesClient{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.GetDefaultLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// latestResponse is the body of GET /latest
type latestResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// historyResponse is the body of GET /history
type historyResponse struct {
	Base    string                        `json:"base"`
	StartAt string                        `json:"start_at"`
	EndAt   string                        `json:"end_at"`
	Rates   map[string]map[string]float64 `json:"rates"`
}

// FetchLatestRates retrieves the current rates of every currency against base
func (c *ExchangeRatesClient) FetchLatestRates(ctx context.Context, base string) (*entity.RateSnapshot, error) {
	params := url.Values{}
	params.Set("base", base)

	// Fetch and decode the latest rates
	var resp latestResponse
	if err := c.get(ctx, "latest", latestPath, params, &resp); err != nil {
		return nil, err
	}
	// Check if any rates were returned
	if resp.Rates == nil {
		return nil, fmt.Errorf("%w: latest response has no rates", entity.ErrUpstreamFetch)
	}

	return &entity.RateSnapshot{
		Base:      base,
		Rates:     resp.Rates,
		FetchedAt: c.now(),
	}, nil
}

// FetchHistory retrieves daily rates of query.Symbol against query.Base, ordered by date
func (c *ExchangeRatesClient) FetchHistory(ctx context.Context, query entity.HistoryQuery) (*entity.RateHistory, error) {
	params := url.Values{}
	params.Set("start_at", query.Start.Format(entity.DateLayout))
	params.Set("end_at", query.End.Format(entity.DateLayout))
	params.Set("base", query.Base)
	params.Set("symbols", query.Symbol)

	var resp historyResponse
	if err := c.get(ctx, "history", historyPath, params, &resp); err != nil {
		return nil, err
	}
	if resp.Rates == nil {
		return nil, fmt.Errorf("%w: history response has no rates", entity.ErrUpstreamFetch)
	}

	// Convert the date keyed map into points for the requested symbol
	points := make([]entity.RatePoint, 0, len(resp.Rates))
	for day, byCurrency := range resp.Rates {
		rate, ok := byCurrency[query.Symbol]
		if !ok {
			continue
		}
		date, err := time.Parse(entity.DateLayout, day)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse rate date '%s': %w", entity.ErrUpstreamFetch, day, err)
		}
		points = append(points, entity.RatePoint{Date: date, Rate: rate})
	}
	// Map order is random; charts need ascending dates
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	return &entity.RateHistory{Query: query, Points: points}, nil
}

// get performs a GET request and decodes the JSON body into out
func (c *ExchangeRatesClient) get(ctx context.Context, endpoint, path string, params url.Values, out interface{}) error {
	c.logger.Debug("Rates API request", map[string]interface{}{
		"endpoint": endpoint,
		"params":   params.Encode(),
	})

	// Build request URL
	if c.apiKey != "" {
		params.Set("access_key", c.apiKey)
	}
	reqURL := c.baseURL + path + "?" + params.Encode()

	// Create HTTP request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	// Add Accept header to ensure JSON response
	req.Header.Add("Accept", "application/json")

	// Execute request, no retries
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveUpstream(endpoint, time.Since(start))
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %w", entity.ErrUpstreamFetch, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Error closing response body", map[string]interface{}{
				"endpoint": endpoint,
				"error":    closeErr.Error(),
			})
		}
	}()

	// Read the response body
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %w", entity.ErrUpstreamFetch, err)
	}

	c.logger.Debug("Rates API response", map[string]interface{}{
		"endpoint":    endpoint,
		"status":      resp.StatusCode,
		"body_length": len(body),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	// Check response status
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: API returned error status: %d, body: %s",
			entity.ErrUpstreamFetch, resp.StatusCode, truncate(body, 256))
	}

	// Parse response
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", entity.ErrUpstreamFetch, err)
	}
	return nil
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
