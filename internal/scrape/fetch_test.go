package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gridironlab/nflstats/internal/config"
	"github.com/gridironlab/nflstats/internal/stats"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		BaseURL:           baseURL,
		UserAgent:         "nflstats-test",
		HTTPTimeout:       5 * time.Second,
		MaxRetries:        3,
		RetryBaseDelay:    time.Millisecond,
		RetryMaxDelay:     10 * time.Millisecond,
		RequestsPerMinute: 600000,
	}
}

func TestFetchInvalidPeriodIssuesNoRequests(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(srv.URL), nil)
	_, err := f.Fetch(context.Background(), stats.QB, 1899)

	var invalidErr *stats.InvalidPeriodError
	require.True(t, errors.As(err, &invalidErr))
	require.Equal(t, 1899, invalidErr.Period)
	require.Equal(t, int64(0), hits.Load())
}

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/nfl/advanced-stats-qb.php", r.URL.Path)
		require.Equal(t, "2023", r.URL.Query().Get("year"))
		require.Equal(t, "nflstats-test", r.Header.Get("User-Agent"))
		w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(srv.URL), nil)
	body, err := f.Fetch(context.Background(), stats.QB, 2023)
	require.NoError(t, err)
	require.Equal(t, "<html>ok</html>", body)
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(srv.URL), nil)
	body, err := f.Fetch(context.Background(), stats.RB, 2020)
	require.NoError(t, err)
	require.Equal(t, "recovered", body)
	require.Equal(t, int64(3), hits.Load())
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(srv.URL), nil)
	_, err := f.Fetch(context.Background(), stats.TE, 2019)

	var httpErr *stats.HTTPError
	require.True(t, errors.As(err, &httpErr))
	require.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	require.Equal(t, stats.TE, httpErr.Category)
	require.Equal(t, 2019, httpErr.Period)
	require.Equal(t, int64(1), hits.Load())
}

func TestFetchRetriesTooManyRequests(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(srv.URL), nil)
	body, err := f.Fetch(context.Background(), stats.WR, 2021)
	require.NoError(t, err)
	require.Equal(t, "ok", body)
	require.Equal(t, int64(2), hits.Load())
}

func TestFetchSurfacesExhaustedRetries(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(srv.URL), nil)
	_, err := f.Fetch(context.Background(), stats.QB, 2022)

	var httpErr *stats.HTTPError
	require.True(t, errors.As(err, &httpErr))
	require.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	require.Equal(t, int64(3), hits.Load())
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	base := 100 * time.Millisecond
	max := time.Second

	require.Equal(t, 200*time.Millisecond, Backoff(base, max, 1))
	require.Equal(t, 400*time.Millisecond, Backoff(base, max, 2))
	require.Equal(t, 800*time.Millisecond, Backoff(base, max, 3))
	require.Equal(t, time.Second, Backoff(base, max, 4))
	require.Equal(t, time.Second, Backoff(base, max, 60))
}
