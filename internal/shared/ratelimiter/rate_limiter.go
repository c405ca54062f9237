// Package ratelimiter paces calls against the market-data provider, which
// caps free-tier accounts at a handful of requests per minute.
package ratelimiter

import (
	"log/slog"
	"sync"
	"time"

	"stock_etl/internal/shared/clock"
)

// RateLimiterInterface is the acquisition gate consumed by the extractor.
type RateLimiterInterface interface {
	Acquire()
}

// RateLimiter enforces a fixed minimum spacing between consecutive calls.
// The last-call timestamp is process-wide state: a single instance must be
// shared by everything that talks to the provider.
type RateLimiter struct {
	mu          sync.Mutex
	minInterval time.Duration
	clk         clock.Clock
	lastCall    time.Time
}

// NewRateLimiter creates a RateLimiter with the given minimum spacing.
// Alpha Vantage's free tier allows 5 calls per minute, so the production
// spacing is 12 seconds.
func NewRateLimiter(minInterval time.Duration, clk clock.Clock) *RateLimiter {
	if clk == nil {
		clk = clock.New()
	}
	return &RateLimiter{minInterval: minInterval, clk: clk}
}

// Acquire blocks until at least minInterval has elapsed since the previous
// successful acquisition, then records the new last-call time. The whole
// read-wait-write sequence holds the mutex so concurrent callers are strictly
// ordered and never compute the wait against a stale timestamp.
func (rl *RateLimiter) Acquire() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clk.Now()
	if !rl.lastCall.IsZero() {
		if wait := rl.minInterval - now.Sub(rl.lastCall); wait > 0 {
			slog.Info("rate limiting: waiting before next call", "wait", wait)
			rl.clk.Sleep(wait)
		}
	}
	rl.lastCall = rl.clk.Now()
}
