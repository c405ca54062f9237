package usecase

import (
	"context"
	"errors"
	"time"

	"stock_etl/internal/feature/intraday/domain/entity"
)

// mockMarketRepository is a mock implementation of the MarketRepository interface.
type mockMarketRepository struct {
	FetchIntradayFunc  func(ctx context.Context, symbol, interval string) (*entity.RawPayload, error)
	FetchIntradayCalls int
}

func (m *mockMarketRepository) FetchIntraday(ctx context.Context, symbol, interval string) (*entity.RawPayload, error) {
	m.FetchIntradayCalls++
	if m.FetchIntradayFunc != nil {
		return m.FetchIntradayFunc(ctx, symbol, interval)
	}
	return nil, errors.New("FetchIntradayFunc is not implemented")
}

// mockStockRepository is a mock implementation of the StockRepository interface.
type mockStockRepository struct {
	InsertIfAbsentFunc  func(ctx context.Context, stock entity.Stock) error
	InsertIfAbsentCalls int
	FindBySymbolFunc    func(ctx context.Context, symbol string) (*entity.Stock, error)
	FindAllFunc         func(ctx context.Context, filter StockFilter) ([]entity.Stock, error)
	UpdateFunc          func(ctx context.Context, stock entity.Stock) error
	DeactivateFunc      func(ctx context.Context, symbol string) error
}

func (m *mockStockRepository) InsertIfAbsent(ctx context.Context, stock entity.Stock) error {
	m.InsertIfAbsentCalls++
	if m.InsertIfAbsentFunc != nil {
		return m.InsertIfAbsentFunc(ctx, stock)
	}
	return nil
}

func (m *mockStockRepository) FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	if m.FindBySymbolFunc != nil {
		return m.FindBySymbolFunc(ctx, symbol)
	}
	return &entity.Stock{Symbol: symbol}, nil
}

func (m *mockStockRepository) FindAll(ctx context.Context, filter StockFilter) ([]entity.Stock, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockStockRepository) Update(ctx context.Context, stock entity.Stock) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, stock)
	}
	return nil
}

func (m *mockStockRepository) Deactivate(ctx context.Context, symbol string) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, symbol)
	}
	return nil
}

// mockPriceRepository is a mock implementation of the PriceRepository interface.
type mockPriceRepository struct {
	UpsertOneFunc     func(ctx context.Context, point entity.PricePoint) error
	UpsertOneCalls    int
	FindBySymbolFunc  func(ctx context.Context, symbol, interval string, from, to *time.Time, limit int) ([]entity.PricePoint, error)
	LatestBySymbolFunc func(ctx context.Context, symbol, interval string) (*entity.PricePoint, error)
}

func (m *mockPriceRepository) UpsertOne(ctx context.Context, point entity.PricePoint) error {
	m.UpsertOneCalls++
	if m.UpsertOneFunc != nil {
		return m.UpsertOneFunc(ctx, point)
	}
	return nil
}

func (m *mockPriceRepository) FindBySymbol(ctx context.Context, symbol, interval string, from, to *time.Time, limit int) ([]entity.PricePoint, error) {
	if m.FindBySymbolFunc != nil {
		return m.FindBySymbolFunc(ctx, symbol, interval, from, to, limit)
	}
	return nil, nil
}

func (m *mockPriceRepository) LatestBySymbol(ctx context.Context, symbol, interval string) (*entity.PricePoint, error) {
	if m.LatestBySymbolFunc != nil {
		return m.LatestBySymbolFunc(ctx, symbol, interval)
	}
	return nil, nil
}

// mockJobLogRepository is a mock implementation of the JobLogRepository interface.
type mockJobLogRepository struct {
	AppendFunc     func(ctx context.Context, log entity.JobLog) error
	Appended       []entity.JobLog
	FindRecentFunc func(ctx context.Context, jobName, status string, limit int) ([]entity.JobLog, error)
	SummaryFunc    func(ctx context.Context, since time.Time) (*entity.JobSummary, error)
}

func (m *mockJobLogRepository) Append(ctx context.Context, log entity.JobLog) error {
	m.Appended = append(m.Appended, log)
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, log)
	}
	return nil
}

func (m *mockJobLogRepository) FindRecent(ctx context.Context, jobName, status string, limit int) ([]entity.JobLog, error) {
	if m.FindRecentFunc != nil {
		return m.FindRecentFunc(ctx, jobName, status, limit)
	}
	return nil, nil
}

func (m *mockJobLogRepository) Summary(ctx context.Context, since time.Time) (*entity.JobSummary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx, since)
	}
	return &entity.JobSummary{}, nil
}

// mockLoader is a mock implementation of the TransformedLoader interface.
type mockLoader struct {
	LoadTransformedFunc  func(ctx context.Context, data *TransformedData) LoadOutcome
	LoadTransformedCalls int
}

func (m *mockLoader) LoadTransformed(ctx context.Context, data *TransformedData) LoadOutcome {
	m.LoadTransformedCalls++
	if m.LoadTransformedFunc != nil {
		return m.LoadTransformedFunc(ctx, data)
	}
	return LoadOutcome{Symbol: data.Stock.Symbol, Success: true, PricesLoaded: len(data.Points), TotalRecords: len(data.Points)}
}
