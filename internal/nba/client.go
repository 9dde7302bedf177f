package nba

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/fortuna/propscout/internal/metrics"
)

const defaultBaseURL = "https://stats.nba.com/stats"

// stats.nba.com rejects requests without a browser-looking header set.
var statsHeaders = map[string]string{
	"User-Agent":         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	"Referer":            "https://stats.nba.com/",
	"Origin":             "https://stats.nba.com",
	"Accept":             "application/json, text/plain, */*",
	"x-nba-stats-origin": "stats",
	"x-nba-stats-token":  "true",
}

// ClientConfig holds the transport knobs for the stats client.
type ClientConfig struct {
	BaseURL      string
	Timeout      time.Duration
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	RateLimit    float64 // requests per second
}

// DefaultClientConfig returns conservative defaults. The stats endpoint rate
// limits aggressively, so the ceiling stays under two requests a second.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:      defaultBaseURL,
		Timeout:      30 * time.Second,
		MaxRetries:   3,
		RetryWaitMin: 500 * time.Millisecond,
		RetryWaitMax: 8 * time.Second,
		RateLimit:    1.5,
	}
}

// Client fetches stats endpoint payloads with retry and rate limiting.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
	limiter *rate.Limiter
	log     *logrus.Entry
}

// NewClient creates a stats client.
func NewClient(cfg ClientConfig, log *logrus.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.Logger = nil

	return &Client{
		baseURL: cfg.BaseURL,
		http:    retryClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		log:     log.WithField("component", "nba-client"),
	}
}

// get fetches one endpoint with the given query parameters and decodes the
// result-set envelope.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (*statsResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for k, v := range statsHeaders {
		req.Header.Set(k, v)
	}

	metrics.ProviderRequestsTotal.WithLabelValues(endpoint).Inc()

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}

	var decoded statsResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", endpoint, err)
	}

	metrics.ProviderRequestDuration.Observe(time.Since(start).Seconds())
	c.log.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"elapsed":  time.Since(start).Round(time.Millisecond).String(),
	}).Debug("stats fetch complete")

	return &decoded, nil
}
