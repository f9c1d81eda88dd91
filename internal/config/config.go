// Package config provides centralized configuration loaded from environment
// variables. Shared by every nflstats subcommand.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Artifact tree
	OutputDir string

	// Fetching
	BaseURL           string
	UserAgent         string
	HTTPTimeout       time.Duration
	MaxRetries        int
	RetryBaseDelay    time.Duration
	RetryMaxDelay     time.Duration
	RequestsPerMinute int

	// API server
	APIHost          string
	APIPort          int
	CORSAllowOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	return &Config{
		OutputDir: envOr("OUTPUT_DIR", "output"),

		BaseURL: envOr("BASE_URL", "https://www.fantasypros.com"),
		UserAgent: envOr("USER_AGENT",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"),
		HTTPTimeout:       time.Duration(envInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		MaxRetries:        envInt("MAX_RETRIES", 3),
		RetryBaseDelay:    time.Duration(envInt("RETRY_BASE_DELAY_MS", 500)) * time.Millisecond,
		RetryMaxDelay:     time.Duration(envInt("RETRY_MAX_DELAY_MS", 10000)) * time.Millisecond,
		RequestsPerMinute: envInt("REQUESTS_PER_MINUTE", 20),

		APIHost: envOr("API_HOST", "0.0.0.0"),
		APIPort: envInt("API_PORT", envInt("PORT", 8000)),
		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),
	}, nil
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
