// Package alphavantage provides a client for the Alpha Vantage intraday
// time-series API.
package alphavantage

import (
	"log/slog"
	"os"
	"time"
)

const defaultBaseURL = "https://www.alphavantage.co/query"

// Config holds configuration for the Alpha Vantage API client.
type Config struct {
	APIKey     string        // API key for authentication
	BaseURL    string        // Base URL for the API
	OutputSize string        // "compact" (last 100 points) or "full"
	Timeout    time.Duration // HTTP request timeout
}

// LoadConfig loads Alpha Vantage configuration from environment variables.
// A missing API key degrades to the provider's "demo" credential so the
// service still starts with partial functionality instead of failing fast.
func LoadConfig() Config {
	apiKey := os.Getenv("ALPHA_VANTAGE_API_KEY")
	if apiKey == "" {
		slog.Warn("ALPHA_VANTAGE_API_KEY not set, falling back to demo key")
		apiKey = "demo"
	}

	baseURL := os.Getenv("ALPHA_VANTAGE_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return Config{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		OutputSize: "compact",
		Timeout:    30 * time.Second,
	}
}
