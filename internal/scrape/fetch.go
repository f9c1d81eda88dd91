// Package scrape implements the fetch → extract → normalize half of the
// pipeline: HTTP retrieval with retry/backoff, HTML table extraction, and
// per-category cleaning into typed record sets.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/gridironlab/nflstats/internal/config"
	"github.com/gridironlab/nflstats/internal/stats"
)

// Fetcher retrieves advanced-stats pages for (category, period) pairs.
// Requests are rate limited via a token bucket and retried with exponential
// backoff on network failures, 429 and 5xx responses. Other 4xx responses
// fail immediately.
type Fetcher struct {
	client  *resty.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewFetcher creates a fetcher from config. The base URL is configurable so
// tests can point it at a fixture server.
func NewFetcher(cfg *config.Config, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}

	retries := cfg.MaxRetries
	if retries < 1 {
		retries = 1
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.HTTPTimeout).
		SetHeaders(map[string]string{
			"User-Agent":      cfg.UserAgent,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.5",
		}).
		SetRetryCount(retries - 1).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return retryableStatus(r.StatusCode())
		}).
		SetRetryAfter(func(c *resty.Client, r *resty.Response) (time.Duration, error) {
			attempt := 1
			if r != nil && r.Request != nil {
				attempt = r.Request.Attempt
			}
			return Backoff(cfg.RetryBaseDelay, cfg.RetryMaxDelay, attempt), nil
		})

	rps := float64(cfg.RequestsPerMinute) / 60.0
	if rps <= 0 {
		rps = 1
	}

	return &Fetcher{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  logger,
	}
}

// retryableStatus reports whether a response status warrants another attempt.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// Backoff computes the delay before the next attempt as a pure function of
// the attempt number: base << attempt, capped at max.
func Backoff(base, max time.Duration, attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := base << uint(attempt)
	if d > max || d <= 0 {
		return max
	}
	return d
}

// PagePath maps a category to its stats page path. {period} is passed as a
// query parameter.
func PagePath(category stats.Category) string {
	return fmt.Sprintf("/nfl/advanced-stats-%s.php", category)
}

// Fetch retrieves the raw markup for one (category, period) pair. The period
// is validated before any network activity.
func (f *Fetcher) Fetch(ctx context.Context, category stats.Category, period int) (string, error) {
	if !stats.ValidPeriod(period) {
		return "", &stats.InvalidPeriodError{Period: period}
	}
	if _, ok := stats.Registry[category]; !ok {
		return "", fmt.Errorf("unknown category %q", category)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return "", &stats.NetworkError{Category: category, Period: period, Attempts: 0, Err: err}
	}

	f.logger.Debug("fetching stats page", "category", category, "period", period)

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("year", fmt.Sprintf("%d", period)).
		Get(PagePath(category))

	attempts := 1
	if resp != nil && resp.Request != nil && resp.Request.Attempt > 0 {
		attempts = resp.Request.Attempt
	}

	if err != nil {
		return "", &stats.NetworkError{Category: category, Period: period, Attempts: attempts, Err: err}
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return "", &stats.HTTPError{
			Category:   category,
			Period:     period,
			StatusCode: resp.StatusCode(),
			Attempts:   attempts,
		}
	}

	return resp.String(), nil
}
