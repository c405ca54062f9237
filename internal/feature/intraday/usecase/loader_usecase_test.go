package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"stock_etl/internal/feature/intraday/domain/entity"
)

var errDB = errors.New("database error")

func sampleTransformed(symbol string, n int) *TransformedData {
	points := make([]entity.PricePoint, 0, n)
	base := time.Date(2024, 1, 15, 16, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		points = append(points, entity.PricePoint{
			Symbol:    symbol,
			Timestamp: base.Add(time.Duration(i) * 5 * time.Minute),
			Open:      100, High: 110, Low: 95, Close: 105, Volume: 1000,
			Interval: entity.Interval5Min,
		})
	}
	return &TransformedData{
		Stock:  entity.Stock{Symbol: symbol, CompanyName: symbol + " Stock", Currency: "USD", IsActive: true},
		Points: points,
		Meta:   TransformMeta{Symbol: symbol, Interval: entity.Interval5Min, RecordCount: n},
	}
}

func TestLoaderUsecase_LoadTransformed_Success(t *testing.T) {
	ctx := context.Background()
	stocks := &mockStockRepository{}
	prices := &mockPriceRepository{}
	jobLogs := &mockJobLogRepository{}
	loader := NewLoaderUsecase(stocks, prices, jobLogs)

	outcome := loader.LoadTransformed(ctx, sampleTransformed("AAPL", 3))

	if !outcome.Success {
		t.Fatalf("expected success, got %+v", outcome)
	}
	if outcome.PricesLoaded != 3 || outcome.TotalRecords != 3 {
		t.Errorf("counts mismatch: got %d/%d, want 3/3", outcome.PricesLoaded, outcome.TotalRecords)
	}
	if stocks.InsertIfAbsentCalls != 1 {
		t.Errorf("InsertIfAbsent calls: got %d, want 1", stocks.InsertIfAbsentCalls)
	}
	if prices.UpsertOneCalls != 3 {
		t.Errorf("UpsertOne calls: got %d, want 3", prices.UpsertOneCalls)
	}
	if len(jobLogs.Appended) != 1 {
		t.Fatalf("job log rows: got %d, want 1", len(jobLogs.Appended))
	}
	log := jobLogs.Appended[0]
	if log.JobName != "intraday_etl_AAPL" {
		t.Errorf("job name mismatch: got %s", log.JobName)
	}
	if log.Status != entity.JobStatusSuccess {
		t.Errorf("job status mismatch: got %s, want %s", log.Status, entity.JobStatusSuccess)
	}
	if log.RecordsProcessed != 3 || log.TotalRecords != 3 {
		t.Errorf("job counts mismatch: got %d/%d", log.RecordsProcessed, log.TotalRecords)
	}
	if log.EndTime == nil {
		t.Error("job end time not set")
	}
}

func TestLoaderUsecase_LoadTransformed_PartialPriceFailure(t *testing.T) {
	ctx := context.Background()
	stocks := &mockStockRepository{}
	calls := 0
	prices := &mockPriceRepository{
		UpsertOneFunc: func(ctx context.Context, p entity.PricePoint) error {
			calls++
			if calls == 2 {
				return errDB
			}
			return nil
		},
	}
	jobLogs := &mockJobLogRepository{}
	loader := NewLoaderUsecase(stocks, prices, jobLogs)

	outcome := loader.LoadTransformed(ctx, sampleTransformed("AAPL", 3))

	// One bad record must not fail the attempt.
	if !outcome.Success {
		t.Fatalf("expected success despite partial failure, got %+v", outcome)
	}
	if outcome.PricesLoaded != 2 || outcome.TotalRecords != 3 {
		t.Errorf("counts mismatch: got %d/%d, want 2/3", outcome.PricesLoaded, outcome.TotalRecords)
	}
	if len(jobLogs.Appended) != 1 || jobLogs.Appended[0].Status != entity.JobStatusSuccess {
		t.Errorf("expected single SUCCESS job row, got %+v", jobLogs.Appended)
	}
}

func TestLoaderUsecase_LoadTransformed_StockFailure(t *testing.T) {
	ctx := context.Background()
	stocks := &mockStockRepository{
		InsertIfAbsentFunc: func(ctx context.Context, s entity.Stock) error { return errDB },
	}
	prices := &mockPriceRepository{}
	jobLogs := &mockJobLogRepository{}
	loader := NewLoaderUsecase(stocks, prices, jobLogs)

	outcome := loader.LoadTransformed(ctx, sampleTransformed("AAPL", 2))

	if outcome.Success {
		t.Fatal("expected failure when stock cannot be written")
	}
	if prices.UpsertOneCalls != 0 {
		t.Errorf("prices must not be written after stock failure, got %d calls", prices.UpsertOneCalls)
	}
	if len(jobLogs.Appended) != 1 {
		t.Fatalf("job log rows: got %d, want 1", len(jobLogs.Appended))
	}
	if jobLogs.Appended[0].Status != entity.JobStatusFailed {
		t.Errorf("job status mismatch: got %s, want %s", jobLogs.Appended[0].Status, entity.JobStatusFailed)
	}
	if jobLogs.Appended[0].ErrorMessage == "" {
		t.Error("expected error message on FAILED row")
	}
}

func TestLoaderUsecase_LoadTransformed_EmptyPoints(t *testing.T) {
	ctx := context.Background()
	stocks := &mockStockRepository{}
	prices := &mockPriceRepository{}
	jobLogs := &mockJobLogRepository{}
	loader := NewLoaderUsecase(stocks, prices, jobLogs)

	outcome := loader.LoadTransformed(ctx, sampleTransformed("AAPL", 0))

	if !outcome.Success || outcome.PricesLoaded != 0 {
		t.Fatalf("empty batch should succeed with zero loaded, got %+v", outcome)
	}
	if len(jobLogs.Appended) != 1 || jobLogs.Appended[0].Status != entity.JobStatusSuccess {
		t.Errorf("expected single SUCCESS job row, got %+v", jobLogs.Appended)
	}
}

func TestLoaderUsecase_JobLogFailureDoesNotFailLoad(t *testing.T) {
	ctx := context.Background()
	jobLogs := &mockJobLogRepository{
		AppendFunc: func(ctx context.Context, log entity.JobLog) error { return errDB },
	}
	loader := NewLoaderUsecase(&mockStockRepository{}, &mockPriceRepository{}, jobLogs)

	outcome := loader.LoadTransformed(ctx, sampleTransformed("AAPL", 1))
	if !outcome.Success {
		t.Fatalf("logging failure must not fail the load, got %+v", outcome)
	}
}
