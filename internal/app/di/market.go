// Package di provides dependency injection factories for creating
// application components.
package di

import (
	"time"

	"stock_etl/internal/platform/externalapi/alphavantage"
	infrahttp "stock_etl/internal/platform/http"
	"stock_etl/internal/shared/ratelimiter"
)

// Free-tier cap is 5 calls per minute; one call every 12 seconds.
const providerMinInterval = 12 * time.Second

// NewMarket creates a fully configured Alpha Vantage client with its HTTP
// client and the process-wide rate limiter.
func NewMarket() *alphavantage.Client {
	cfg := alphavantage.LoadConfig()
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	limiter := ratelimiter.NewRateLimiter(providerMinInterval, nil)
	return alphavantage.NewClient(cfg, httpClient, limiter)
}
