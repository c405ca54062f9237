package usecase

import (
	"context"
	"log/slog"
	"time"

	"stock_etl/internal/feature/intraday/domain/entity"
)

// StockFilter narrows FindAll. Zero-valued fields apply no filter.
type StockFilter struct {
	ActiveOnly bool
	Symbol     string
	Exchange   string
	Limit      int
	Offset     int
}

// StockRepository persists stock descriptors.
// Interfaces are defined by the consumer (usecase).
type StockRepository interface {
	// InsertIfAbsent creates the stock when its symbol is unknown and is a
	// no-op otherwise.
	InsertIfAbsent(ctx context.Context, stock entity.Stock) error
	FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error)
	FindAll(ctx context.Context, filter StockFilter) ([]entity.Stock, error)
	Update(ctx context.Context, stock entity.Stock) error
	Deactivate(ctx context.Context, symbol string) error
}

// PriceRepository persists and queries intraday price points.
type PriceRepository interface {
	// UpsertOne inserts the point or, when (symbol, timestamp, interval)
	// already exists, overwrites the OHLCV values.
	UpsertOne(ctx context.Context, point entity.PricePoint) error
	FindBySymbol(ctx context.Context, symbol, interval string, from, to *time.Time, limit int) ([]entity.PricePoint, error)
	LatestBySymbol(ctx context.Context, symbol, interval string) (*entity.PricePoint, error)
}

// JobLogRepository records pipeline run outcomes.
type JobLogRepository interface {
	Append(ctx context.Context, log entity.JobLog) error
	FindRecent(ctx context.Context, jobName, status string, limit int) ([]entity.JobLog, error)
	Summary(ctx context.Context, since time.Time) (*entity.JobSummary, error)
}

// LoadOutcome reports one loading attempt for one symbol.
type LoadOutcome struct {
	Symbol       string
	Success      bool
	PricesLoaded int
	TotalRecords int
	ErrorMessage string
	LoadedAt     time.Time
}

// TransformedLoader is the loading port consumed by the pipeline.
type TransformedLoader interface {
	LoadTransformed(ctx context.Context, data *TransformedData) LoadOutcome
}

// LoaderUsecase writes transformed data to storage. Price points are loaded
// one by one so a single bad record cannot sink the batch, and every attempt
// leaves exactly one job log row.
type LoaderUsecase struct {
	stocks  StockRepository
	prices  PriceRepository
	jobLogs JobLogRepository
}

var _ TransformedLoader = (*LoaderUsecase)(nil)

// NewLoaderUsecase creates a LoaderUsecase.
func NewLoaderUsecase(stocks StockRepository, prices PriceRepository, jobLogs JobLogRepository) *LoaderUsecase {
	return &LoaderUsecase{stocks: stocks, prices: prices, jobLogs: jobLogs}
}

// LoadStock ensures the stock row exists before its prices reference it.
func (l *LoaderUsecase) LoadStock(ctx context.Context, stock entity.Stock) error {
	return l.stocks.InsertIfAbsent(ctx, stock)
}

// LoadPrices upserts each point individually and returns the number that
// landed. Per-record failures are logged and skipped.
func (l *LoaderUsecase) LoadPrices(ctx context.Context, symbol string, points []entity.PricePoint) int {
	loaded := 0
	for _, p := range points {
		if err := l.prices.UpsertOne(ctx, p); err != nil {
			slog.Error("failed to load price point",
				"symbol", symbol, "timestamp", p.Timestamp, "error", err)
			continue
		}
		loaded++
	}
	return loaded
}

// LoadTransformed loads the stock then its price points, and appends one job
// log row for the attempt. The attempt fails only when the stock itself
// cannot be written; partial price failures still count as success.
func (l *LoaderUsecase) LoadTransformed(ctx context.Context, data *TransformedData) LoadOutcome {
	start := time.Now().UTC()
	symbol := data.Stock.Symbol

	if err := l.LoadStock(ctx, data.Stock); err != nil {
		slog.Error("failed to load stock", "symbol", symbol, "error", err)
		msg := "stock load failed: " + err.Error()
		l.logJob(ctx, symbol, entity.JobStatusFailed, start, 0, len(data.Points), msg)
		return LoadOutcome{
			Symbol:       symbol,
			TotalRecords: len(data.Points),
			ErrorMessage: msg,
			LoadedAt:     start,
		}
	}

	loaded := l.LoadPrices(ctx, symbol, data.Points)
	slog.Info("loaded intraday data", "symbol", symbol, "loaded", loaded, "total", len(data.Points))
	l.logJob(ctx, symbol, entity.JobStatusSuccess, start, loaded, len(data.Points), "")

	return LoadOutcome{
		Symbol:       symbol,
		Success:      true,
		PricesLoaded: loaded,
		TotalRecords: len(data.Points),
		LoadedAt:     start,
	}
}

// logJob appends the run record; a logging failure must never fail the load.
func (l *LoaderUsecase) logJob(ctx context.Context, symbol, status string, start time.Time, processed, total int, errMsg string) {
	end := time.Now().UTC()
	log := entity.JobLog{
		JobName:          entity.IntradayJobName(symbol),
		Status:           status,
		StartTime:        start,
		EndTime:          &end,
		RecordsProcessed: processed,
		TotalRecords:     total,
		ErrorMessage:     errMsg,
	}
	if err := l.jobLogs.Append(ctx, log); err != nil {
		slog.Error("failed to append job log", "job", log.JobName, "error", err)
	}
}
