// Package usecase implements the long-lived streaming loop that runs the
// pipeline on a cadence, and the batched polling variants.
package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"stock_etl/internal/shared/clock"
)

// PipelineRunner is the slice of the pipeline the streaming loop drives.
type PipelineRunner interface {
	RunMany(ctx context.Context, symbols []string, interval string) map[string]int
}

// CycleCallback receives the outcome of one streaming iteration. Panics are
// caught and logged, never propagated into the loop.
type CycleCallback func(iteration int, results map[string]int, elapsed time.Duration)

// Status is a point-in-time snapshot of the supervisor.
type Status struct {
	Running       bool      `json:"running"`
	StopRequested bool      `json:"stop_requested"`
	LoopAlive     bool      `json:"loop_alive"`
	Timestamp     time.Time `json:"timestamp"`
}

// stopWaitBound limits how long Stop waits for the loop to exit.
const stopWaitBound = 10 * time.Second

// waitStep is the cancellation poll granularity during the inter-cycle wait.
const waitStep = time.Second

// Supervisor runs the pipeline repeatedly on its own goroutine until
// stopped or a maximum iteration count is reached. At most one loop is
// active per instance; Start while Running is a no-op.
type Supervisor struct {
	runner PipelineRunner
	clk    clock.Clock

	mu            sync.Mutex
	running       bool
	stopRequested bool
	stopc         chan struct{}
	done          chan struct{}
}

// NewSupervisor creates a Supervisor. A nil clk falls back to the real
// clock.
func NewSupervisor(runner PipelineRunner, clk clock.Clock) *Supervisor {
	if clk == nil {
		clk = clock.New()
	}
	return &Supervisor{runner: runner, clk: clk}
}

// Start launches the control loop. It returns false without side effects
// when a loop is already running. maxIterations <= 0 means unbounded.
func (s *Supervisor) Start(ctx context.Context, symbols []string, dataInterval string, pollEvery time.Duration, maxIterations int, callback CycleCallback) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		slog.Warn("streaming already running")
		return false
	}

	s.running = true
	s.stopRequested = false
	s.stopc = make(chan struct{})
	s.done = make(chan struct{})

	slog.Info("starting streaming loop",
		"symbols", len(symbols), "interval", dataInterval, "poll_every", pollEvery, "max_iterations", maxIterations)

	go s.loop(ctx, symbols, dataInterval, pollEvery, maxIterations, callback, s.stopc, s.done)
	return true
}

// loop receives its stopc/done channels as arguments: a restart after a
// natural exit swaps fresh channels into the struct, and the exiting
// goroutine must only ever close the pair it was started with.
func (s *Supervisor) loop(ctx context.Context, symbols []string, dataInterval string, pollEvery time.Duration, maxIterations int, callback CycleCallback, stopc, done chan struct{}) {
	defer func() {
		s.mu.Lock()
		s.running = false
		close(done)
		s.mu.Unlock()
		slog.Info("streaming loop exited")
	}()

	iteration := 0
	for {
		select {
		case <-stopc:
			return
		case <-ctx.Done():
			return
		default:
		}

		iteration++
		start := s.clk.Now()
		results := s.runCycle(ctx, symbols, dataInterval, iteration)
		elapsed := s.clk.Now().Sub(start)

		if callback != nil {
			s.invokeCallback(callback, iteration, results, elapsed)
		}

		if maxIterations > 0 && iteration >= maxIterations {
			slog.Info("streaming reached max iterations", "iterations", iteration)
			return
		}

		if stopped := s.wait(ctx, pollEvery, stopc); stopped {
			return
		}
	}
}

// runCycle executes one pipeline pass; a panicking cycle is logged and the
// loop continues.
func (s *Supervisor) runCycle(ctx context.Context, symbols []string, dataInterval string, iteration int) (results map[string]int) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("streaming cycle panicked", "iteration", iteration, "panic", r)
			results = nil
		}
	}()
	return s.runner.RunMany(ctx, symbols, dataInterval)
}

func (s *Supervisor) invokeCallback(callback CycleCallback, iteration int, results map[string]int, elapsed time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("streaming callback panicked", "iteration", iteration, "panic", r)
		}
	}()
	callback(iteration, results, elapsed)
}

// wait sleeps the inter-cycle interval in one-second steps so a stop request
// is honored within about a second instead of the full interval.
func (s *Supervisor) wait(ctx context.Context, d time.Duration, stopc chan struct{}) bool {
	deadline := s.clk.Now().Add(d)
	for {
		remaining := deadline.Sub(s.clk.Now())
		if remaining <= 0 {
			return false
		}
		step := waitStep
		if remaining < step {
			step = remaining
		}
		select {
		case <-stopc:
			return true
		case <-ctx.Done():
			return true
		case <-s.clk.After(step):
		}
	}
}

// Stop requests cancellation and waits, bounded, for the loop to exit. It is
// idempotent; stopping an idle supervisor returns true immediately.
func (s *Supervisor) Stop() bool {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return true
	}
	if !s.stopRequested {
		s.stopRequested = true
		close(s.stopc)
	}
	done := s.done
	s.mu.Unlock()

	slog.Info("stopping streaming loop")
	select {
	case <-done:
		return true
	case <-time.After(stopWaitBound):
		slog.Error("streaming loop did not stop in time", "bound", stopWaitBound)
		return false
	}
}

// Status reports the current loop state.
func (s *Supervisor) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	loopAlive := false
	if s.done != nil {
		select {
		case <-s.done:
		default:
			loopAlive = true
		}
	}
	return Status{
		Running:       s.running,
		StopRequested: s.stopRequested,
		LoopAlive:     loopAlive,
		Timestamp:     s.clk.Now(),
	}
}
