package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stock_etl/internal/feature/intraday/domain/entity"
)

// ErrStockNotFound is returned when a symbol has no stock row.
var ErrStockNotFound = errors.New("stock not found")

// StockUsecase is the CRUD facade over stock descriptors, consumed by the
// HTTP transport.
type StockUsecase struct {
	stocks StockRepository
}

// NewStockUsecase creates a StockUsecase.
func NewStockUsecase(stocks StockRepository) *StockUsecase {
	return &StockUsecase{stocks: stocks}
}

// Create registers a stock. The symbol is normalized to upper case; creating
// an already-known symbol is a no-op, matching the loader's semantics.
func (u *StockUsecase) Create(ctx context.Context, stock entity.Stock) (*entity.Stock, error) {
	stock.Symbol = strings.ToUpper(strings.TrimSpace(stock.Symbol))
	if stock.Symbol == "" {
		return nil, fmt.Errorf("create stock: empty symbol")
	}
	if stock.Currency == "" {
		stock.Currency = "USD"
	}
	stock.IsActive = true

	if err := u.stocks.InsertIfAbsent(ctx, stock); err != nil {
		return nil, fmt.Errorf("create stock %s: %w", stock.Symbol, err)
	}
	return u.stocks.FindBySymbol(ctx, stock.Symbol)
}

// Get returns one stock by symbol.
func (u *StockUsecase) Get(ctx context.Context, symbol string) (*entity.Stock, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	stock, err := u.stocks.FindBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, ErrStockNotFound
	}
	return stock, nil
}

// List returns stocks matching the filter, symbol-ordered with pagination.
func (u *StockUsecase) List(ctx context.Context, filter StockFilter) ([]entity.Stock, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Symbol = strings.ToUpper(strings.TrimSpace(filter.Symbol))
	filter.Exchange = strings.TrimSpace(filter.Exchange)
	return u.stocks.FindAll(ctx, filter)
}

// Update replaces the mutable descriptor fields of an existing stock.
func (u *StockUsecase) Update(ctx context.Context, stock entity.Stock) (*entity.Stock, error) {
	stock.Symbol = strings.ToUpper(strings.TrimSpace(stock.Symbol))
	existing, err := u.Get(ctx, stock.Symbol)
	if err != nil {
		return nil, err
	}

	existing.CompanyName = stock.CompanyName
	existing.Exchange = stock.Exchange
	if stock.Currency != "" {
		existing.Currency = stock.Currency
	}
	if err := u.stocks.Update(ctx, *existing); err != nil {
		return nil, fmt.Errorf("update stock %s: %w", stock.Symbol, err)
	}
	return u.stocks.FindBySymbol(ctx, stock.Symbol)
}

// Deactivate soft-deletes a stock; its historical prices stay queryable.
func (u *StockUsecase) Deactivate(ctx context.Context, symbol string) error {
	if _, err := u.Get(ctx, symbol); err != nil {
		return err
	}
	return u.stocks.Deactivate(ctx, strings.ToUpper(strings.TrimSpace(symbol)))
}
