package usecase

import (
	"context"
	"log/slog"
	"time"

	scheduleusecase "stock_etl/internal/feature/schedule/usecase"
	"stock_etl/internal/shared/clock"
)

// PollingConfig tunes the foreground polling loops.
type PollingConfig struct {
	DataInterval  string
	PollEvery     time.Duration
	BatchSize     int
	BatchPause    time.Duration
	MaxIterations int
}

func (c PollingConfig) withDefaults() PollingConfig {
	if c.DataInterval == "" {
		c.DataInterval = "5min"
	}
	if c.PollEvery <= 0 {
		c.PollEvery = 5 * time.Minute
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 5
	}
	if c.BatchPause <= 0 {
		c.BatchPause = 2 * time.Second
	}
	return c
}

// PollingManager runs the pipeline in the foreground on a cadence,
// processing symbols in small batches with a short pause between batches.
// Unlike the Supervisor it blocks the caller and stops via context
// cancellation.
type PollingManager struct {
	runner   PipelineRunner
	schedule scheduleusecase.MarketSchedule
	clk      clock.Clock
}

// NewPollingManager creates a PollingManager. A nil clk falls back to the
// real clock.
func NewPollingManager(runner PipelineRunner, schedule scheduleusecase.MarketSchedule, clk clock.Clock) *PollingManager {
	if clk == nil {
		clk = clock.New()
	}
	return &PollingManager{runner: runner, schedule: schedule, clk: clk}
}

// ContinuousPoll polls regardless of market hours until the context is
// cancelled or the iteration cap is reached. It returns the number of
// completed iterations.
func (p *PollingManager) ContinuousPoll(ctx context.Context, symbols []string, cfg PollingConfig) int {
	return p.poll(ctx, symbols, cfg, nil)
}

// MarketHoursPoll polls only while the regular session is open; outside the
// window an iteration is skipped, not counted, and the loop just waits for
// the next tick.
func (p *PollingManager) MarketHoursPoll(ctx context.Context, symbols []string, cfg PollingConfig) int {
	return p.poll(ctx, symbols, cfg, p.schedule.IsMarketOpen)
}

func (p *PollingManager) poll(ctx context.Context, symbols []string, cfg PollingConfig, gate func(time.Time) bool) int {
	cfg = cfg.withDefaults()
	iterations := 0

	for {
		if ctx.Err() != nil {
			return iterations
		}

		now := p.clk.Now()
		if gate == nil || gate(now) {
			p.runBatches(ctx, symbols, cfg)
			iterations++
			if cfg.MaxIterations > 0 && iterations >= cfg.MaxIterations {
				return iterations
			}
		} else {
			slog.Info("market closed, skipping poll", "now", now, "next_open", p.schedule.NextMarketOpen(now))
		}

		if cancelled := p.sleep(ctx, cfg.PollEvery); cancelled {
			return iterations
		}
	}
}

// runBatches fans the symbol set out in fixed-size batches, pausing briefly
// between batches to spread provider load.
func (p *PollingManager) runBatches(ctx context.Context, symbols []string, cfg PollingConfig) {
	for start := 0; start < len(symbols); start += cfg.BatchSize {
		if ctx.Err() != nil {
			return
		}
		end := start + cfg.BatchSize
		if end > len(symbols) {
			end = len(symbols)
		}
		batch := symbols[start:end]

		slog.Info("polling batch", "from", start, "size", len(batch))
		results := p.runner.RunMany(ctx, batch, cfg.DataInterval)
		total := 0
		for _, n := range results {
			total += n
		}
		slog.Info("batch finished", "size", len(batch), "records", total)

		if end < len(symbols) {
			if cancelled := p.sleep(ctx, cfg.BatchPause); cancelled {
				return
			}
		}
	}
}

// sleep waits d in one-second steps, honoring context cancellation within
// about a second.
func (p *PollingManager) sleep(ctx context.Context, d time.Duration) bool {
	deadline := p.clk.Now().Add(d)
	for {
		remaining := deadline.Sub(p.clk.Now())
		if remaining <= 0 {
			return false
		}
		step := waitStep
		if remaining < step {
			step = remaining
		}
		select {
		case <-ctx.Done():
			return true
		case <-p.clk.After(step):
		}
	}
}
