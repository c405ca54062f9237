package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"stock_etl/internal/feature/schedule/domain/entity"
	"stock_etl/internal/shared/clock"
)

// PipelineRunner is the slice of the pipeline the engine drives.
// Interfaces are defined by the consumer (usecase).
type PipelineRunner interface {
	RunMany(ctx context.Context, symbols []string, interval string) map[string]int
}

// ScheduleEngine holds named job registrations and runs the ones whose
// market window matches "now". All state is owned by the instance; callers
// share one engine per process.
type ScheduleEngine struct {
	mu       sync.Mutex
	jobs     map[string]*entity.ScheduledJob
	schedule MarketSchedule
	runner   PipelineRunner
	clk      clock.Clock
}

// NewScheduleEngine creates a ScheduleEngine. A nil clk falls back to the
// real clock.
func NewScheduleEngine(schedule MarketSchedule, runner PipelineRunner, clk clock.Clock) *ScheduleEngine {
	if clk == nil {
		clk = clock.New()
	}
	return &ScheduleEngine{
		jobs:     make(map[string]*entity.ScheduledJob),
		schedule: schedule,
		runner:   runner,
		clk:      clk,
	}
}

// ScheduleJob registers a named job. It returns false, leaving the existing
// registration untouched, when the name is already taken.
func (e *ScheduleEngine) ScheduleJob(job entity.ScheduledJob) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.jobs[job.Name]; exists {
		slog.Warn("job already registered", "name", job.Name)
		return false
	}
	if job.DataInterval == "" {
		job.DataInterval = "5min"
	}
	job.CreatedAt = e.clk.Now()
	e.jobs[job.Name] = &job
	slog.Info("scheduled job", "name", job.Name, "kind", job.Kind, "symbols", len(job.Symbols))
	return true
}

// RemoveJob unregisters a job, returning false when the name is unknown.
func (e *ScheduleEngine) RemoveJob(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.jobs[name]; !exists {
		return false
	}
	delete(e.jobs, name)
	slog.Info("removed job", "name", name)
	return true
}

// Jobs returns the current registrations sorted by name.
func (e *ScheduleEngine) Jobs() []entity.ScheduledJob {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]entity.ScheduledJob, 0, len(e.jobs))
	for _, j := range e.jobs {
		out = append(out, *j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RunScheduledJobs evaluates every registration against "now" and runs the
// matching ones. One job's failure is recorded in its outcome and never
// prevents the remaining jobs from running.
func (e *ScheduleEngine) RunScheduledJobs(ctx context.Context) map[string]entity.JobOutcome {
	now := e.clk.Now()
	outcomes := make(map[string]entity.JobOutcome, len(e.jobs))

	for _, job := range e.Jobs() {
		if !e.windowMatches(job.Kind, now) {
			outcomes[job.Name] = entity.JobOutcome{Name: job.Name, Status: entity.OutcomeSkipped}
			continue
		}
		outcomes[job.Name] = e.runJob(ctx, job)
	}
	return outcomes
}

func (e *ScheduleEngine) windowMatches(kind entity.JobKind, now time.Time) bool {
	switch kind {
	case entity.KindMarketHours:
		return e.schedule.IsMarketOpen(now)
	case entity.KindPreMarket:
		return e.schedule.IsPreMarket(now)
	case entity.KindAfterHours:
		return e.schedule.IsAfterHours(now)
	default:
		slog.Warn("unknown job kind", "kind", kind)
		return false
	}
}

// runJob executes one job, converting panics from the runner or the callback
// into an error outcome instead of letting them escape the pass.
func (e *ScheduleEngine) runJob(ctx context.Context, job entity.ScheduledJob) (outcome entity.JobOutcome) {
	outcome = entity.JobOutcome{Name: job.Name, Status: entity.OutcomeRan}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("scheduled job panicked", "name", job.Name, "panic", r)
			outcome.Status = entity.OutcomeError
			outcome.Error = fmt.Sprint(r)
		}
	}()

	slog.Info("running scheduled job", "name", job.Name, "symbols", len(job.Symbols))
	outcome.Results = e.runner.RunMany(ctx, job.Symbols, job.DataInterval)

	if job.Callback != nil {
		e.invokeCallback(job, outcome.Results)
	}
	return outcome
}

// invokeCallback isolates callback panics; they are logged, never
// propagated.
func (e *ScheduleEngine) invokeCallback(job entity.ScheduledJob, results map[string]int) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("job callback panicked", "name", job.Name, "panic", r)
		}
	}()
	job.Callback(results)
}
