package usecase

import (
	"context"
	"log/slog"
	"time"

	"stock_etl/internal/feature/intraday/domain/entity"
)

// MarketRepository is the extraction port: one provider call per invocation,
// already rate limited by the implementation.
type MarketRepository interface {
	FetchIntraday(ctx context.Context, symbol, interval string) (*entity.RawPayload, error)
}

// ExtractionStats aggregates the extraction phase of a full pipeline run.
type ExtractionStats struct {
	TotalSymbols    int     `json:"total_symbols"`
	Successful      int     `json:"successful"`
	Failed          int     `json:"failed"`
	TotalDataPoints int     `json:"total_data_points"`
	SuccessRate     float64 `json:"success_rate"`
}

// TransformationStats aggregates the transformation phase.
type TransformationStats struct {
	TotalSymbols     int     `json:"total_symbols"`
	Successful       int     `json:"successful"`
	Failed           int     `json:"failed"`
	TotalPricePoints int     `json:"total_price_points"`
	SuccessRate      float64 `json:"success_rate"`
}

// LoadingStats aggregates the loading phase. LoadingEfficiency is the share
// of transformed points that actually landed in storage.
type LoadingStats struct {
	TotalSymbols      int     `json:"total_symbols"`
	Successful        int     `json:"successful"`
	Failed            int     `json:"failed"`
	TotalLoaded       int     `json:"total_loaded"`
	SuccessRate       float64 `json:"success_rate"`
	LoadingEfficiency float64 `json:"loading_efficiency"`
}

// PipelineStats is the report produced by RunFullPipeline.
type PipelineStats struct {
	StartTime          time.Time           `json:"start_time"`
	EndTime            time.Time           `json:"end_time"`
	Duration           time.Duration       `json:"duration"`
	Interval           string              `json:"interval"`
	SymbolsProcessed   int                 `json:"symbols_processed"`
	Extraction         ExtractionStats     `json:"extraction"`
	Transformation     TransformationStats `json:"transformation"`
	Loading            LoadingStats        `json:"loading"`
	OverallSuccessRate float64             `json:"overall_success_rate"`
	TotalRecordsLoaded int                 `json:"total_records_loaded"`
}

// PipelineUsecase wires extraction, transformation and loading for intraday
// data. Symbols are processed strictly sequentially; one symbol's failure
// never aborts the rest of a batch.
type PipelineUsecase struct {
	market      MarketRepository
	transformer *Transformer
	loader      TransformedLoader
	jobLogs     JobLogRepository
}

// NewPipelineUsecase creates a PipelineUsecase.
func NewPipelineUsecase(market MarketRepository, transformer *Transformer, loader TransformedLoader, jobLogs JobLogRepository) *PipelineUsecase {
	return &PipelineUsecase{
		market:      market,
		transformer: transformer,
		loader:      loader,
		jobLogs:     jobLogs,
	}
}

// RunOne executes extract, transform and load for a single symbol and
// returns the number of price points loaded. Every attempt appends exactly
// one job log row; extraction and transformation failures append it here,
// load attempts append it inside the loader.
func (p *PipelineUsecase) RunOne(ctx context.Context, symbol, interval string) int {
	start := time.Now().UTC()

	raw, err := p.market.FetchIntraday(ctx, symbol, interval)
	if err != nil {
		slog.Error("extraction failed", "symbol", symbol, "error", err)
		p.logFailure(ctx, symbol, start, "extraction failed: "+err.Error())
		return 0
	}

	data, err := p.transformer.Transform(raw)
	if err != nil {
		slog.Error("transformation failed", "symbol", symbol, "error", err)
		p.logFailure(ctx, symbol, start, "transformation failed: "+err.Error())
		return 0
	}

	outcome := p.loader.LoadTransformed(ctx, data)
	if !outcome.Success {
		return 0
	}
	return outcome.PricesLoaded
}

// RunMany runs the single-symbol pipeline for each symbol in order and
// returns loaded counts per symbol. A failed symbol contributes zero.
func (p *PipelineUsecase) RunMany(ctx context.Context, symbols []string, interval string) map[string]int {
	results := make(map[string]int, len(symbols))
	for _, symbol := range symbols {
		results[symbol] = p.RunOne(ctx, symbol, interval)
	}
	return results
}

// RunFullPipeline runs the three phases batch-wise over all symbols and
// returns aggregate statistics. Per-symbol outcomes match RunOne: the same
// isolation, the same one-job-log-row-per-attempt rule.
func (p *PipelineUsecase) RunFullPipeline(ctx context.Context, symbols []string, interval string) PipelineStats {
	start := time.Now().UTC()
	slog.Info("starting full pipeline", "symbols", len(symbols), "interval", interval)

	// Phase 1: extract everything first so provider pacing is contiguous.
	raws := make(map[string]*entity.RawPayload, len(symbols))
	var extraction ExtractionStats
	extraction.TotalSymbols = len(symbols)
	for _, symbol := range symbols {
		raw, err := p.market.FetchIntraday(ctx, symbol, interval)
		if err != nil {
			slog.Error("extraction failed", "symbol", symbol, "error", err)
			p.logFailure(ctx, symbol, start, "extraction failed: "+err.Error())
			extraction.Failed++
			continue
		}
		raws[symbol] = raw
		extraction.Successful++
		extraction.TotalDataPoints += len(raw.Series)
	}
	extraction.SuccessRate = rate(extraction.Successful, extraction.TotalSymbols)

	// Phase 2: transform.
	transformed := make(map[string]*TransformedData, len(raws))
	var transformation TransformationStats
	transformation.TotalSymbols = len(raws)
	for symbol, raw := range raws {
		data, err := p.transformer.Transform(raw)
		if err != nil {
			slog.Error("transformation failed", "symbol", symbol, "error", err)
			p.logFailure(ctx, symbol, start, "transformation failed: "+err.Error())
			transformation.Failed++
			continue
		}
		transformed[symbol] = data
		transformation.Successful++
		transformation.TotalPricePoints += len(data.Points)
	}
	transformation.SuccessRate = rate(transformation.Successful, transformation.TotalSymbols)

	// Phase 3: load.
	var loading LoadingStats
	loading.TotalSymbols = len(transformed)
	for _, data := range transformed {
		outcome := p.loader.LoadTransformed(ctx, data)
		if !outcome.Success {
			loading.Failed++
			continue
		}
		loading.Successful++
		loading.TotalLoaded += outcome.PricesLoaded
	}
	loading.SuccessRate = rate(loading.Successful, loading.TotalSymbols)
	loading.LoadingEfficiency = rate(loading.TotalLoaded, transformation.TotalPricePoints)

	end := time.Now().UTC()
	stats := PipelineStats{
		StartTime:          start,
		EndTime:            end,
		Duration:           end.Sub(start),
		Interval:           interval,
		SymbolsProcessed:   len(symbols),
		Extraction:         extraction,
		Transformation:     transformation,
		Loading:            loading,
		OverallSuccessRate: rate(loading.Successful, len(symbols)),
		TotalRecordsLoaded: loading.TotalLoaded,
	}

	slog.Info("full pipeline finished",
		"symbols", len(symbols),
		"loaded", stats.TotalRecordsLoaded,
		"overall_success_rate", stats.OverallSuccessRate,
		"duration", stats.Duration)
	return stats
}

// logFailure appends the FAILED job row for pre-load phase failures.
func (p *PipelineUsecase) logFailure(ctx context.Context, symbol string, start time.Time, msg string) {
	end := time.Now().UTC()
	log := entity.JobLog{
		JobName:      entity.IntradayJobName(symbol),
		Status:       entity.JobStatusFailed,
		StartTime:    start,
		EndTime:      &end,
		ErrorMessage: msg,
	}
	if err := p.jobLogs.Append(ctx, log); err != nil {
		slog.Error("failed to append job log", "job", log.JobName, "error", err)
	}
}

func rate(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
