package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stock_etl/internal/feature/intraday/domain/entity"
	"stock_etl/internal/feature/intraday/usecase"
	"stock_etl/internal/platform/externalapi/alphavantage/dto"
	"stock_etl/internal/shared/ratelimiter"
)

// Client fetches intraday time series from the Alpha Vantage API. It issues
// exactly one request per call, gated by the shared rate limiter, and never
// retries; retry policy belongs to the orchestration layer.
type Client struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
}

// Compile-time check that Client implements the extractor port.
var _ usecase.MarketRepository = (*Client)(nil)

// NewClient creates a Client with the given configuration, HTTP client and
// rate limiter. The limiter must be the process-wide instance shared by all
// provider callers.
func NewClient(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) *Client {
	return &Client{cfg: cfg, client: client, limiter: limiter}
}

// FetchIntraday retrieves the intraday series for one symbol. The returned
// error, when non-nil, is always a *FetchError classifying the failure.
// A well-formed response with zero data points is a success with an empty
// series, logged as a warning.
func (c *Client) FetchIntraday(ctx context.Context, symbol, interval string) (*entity.RawPayload, error) {
	if symbol == "" {
		return nil, &FetchError{Kind: KindProvider, Symbol: symbol, Message: "empty symbol"}
	}
	if !entity.IsSupportedInterval(interval) {
		return nil, &FetchError{Kind: KindProvider, Symbol: symbol, Message: fmt.Sprintf("unsupported interval %q", interval)}
	}
	symbol = strings.ToUpper(symbol)

	c.limiter.Acquire()

	q := url.Values{}
	q.Set("function", "TIME_SERIES_INTRADAY")
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("outputsize", c.cfg.OutputSize)
	q.Set("apikey", c.cfg.APIKey)

	u := fmt.Sprintf("%s?%s", c.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Symbol: symbol, Err: err}
	}

	slog.Info("extracting intraday data", "symbol", symbol, "interval", interval)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Symbol: symbol, Err: err}
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, &FetchError{Kind: KindTransport, Symbol: symbol, Message: fmt.Sprintf("http %d", res.StatusCode)}
	}

	var body dto.TimeSeriesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, &FetchError{Kind: KindTransport, Symbol: symbol, Err: fmt.Errorf("decode response: %w", err)}
	}

	if body.ErrorMessage != "" {
		return nil, &FetchError{Kind: KindProvider, Symbol: symbol, Message: body.ErrorMessage}
	}
	if body.Note != "" {
		return nil, &FetchError{Kind: KindRateLimited, Symbol: symbol, Message: body.Note}
	}
	if body.Series == nil {
		return nil, &FetchError{Kind: KindProvider, Symbol: symbol, Message: "no time series in response"}
	}

	series := make(map[string]entity.RawBar, len(body.Series))
	for ts, bar := range body.Series {
		series[ts] = entity.RawBar{
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: bar.Volume,
		}
	}

	if len(series) == 0 {
		slog.Warn("no intraday data available", "symbol", symbol, "interval", interval)
	} else {
		slog.Info("extracted intraday data", "symbol", symbol, "points", len(series))
	}

	return &entity.RawPayload{
		Symbol:   symbol,
		Interval: interval,
		Series:   series,
		Meta: entity.RawMeta{
			LastRefreshed: body.MetaData.LastRefreshed,
			TimeZone:      body.MetaData.TimeZone,
			ExtractedAt:   time.Now().UTC(),
		},
	}, nil
}
