package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stock_etl/internal/feature/intraday/domain/entity"
)

// PriceUsecase serves read queries over stored price points.
type PriceUsecase struct {
	prices PriceRepository
}

// NewPriceUsecase creates a PriceUsecase.
func NewPriceUsecase(prices PriceRepository) *PriceUsecase {
	return &PriceUsecase{prices: prices}
}

// History returns price points for a symbol, newest first, optionally
// bounded by a time window.
func (u *PriceUsecase) History(ctx context.Context, symbol, interval string, from, to *time.Time, limit int) ([]entity.PricePoint, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("price history: empty symbol")
	}
	if interval != "" && !entity.IsSupportedInterval(interval) {
		return nil, fmt.Errorf("price history: unsupported interval %q", interval)
	}
	if limit <= 0 || limit > 5000 {
		limit = 1000
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, fmt.Errorf("price history: to %s before from %s", to, from)
	}
	return u.prices.FindBySymbol(ctx, symbol, interval, from, to, limit)
}

// Latest returns the most recent stored point for a symbol, or nil when the
// symbol has no data yet.
func (u *PriceUsecase) Latest(ctx context.Context, symbol, interval string) (*entity.PricePoint, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("latest price: empty symbol")
	}
	if interval != "" && !entity.IsSupportedInterval(interval) {
		return nil, fmt.Errorf("latest price: unsupported interval %q", interval)
	}
	return u.prices.LatestBySymbol(ctx, symbol, interval)
}
