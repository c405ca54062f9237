// Package entity defines the in-memory scheduling domain model. Job
// registrations are process state only; a restart loses them.
package entity

import "time"

// JobKind selects which market window gates a scheduled job.
type JobKind string

const (
	KindMarketHours JobKind = "market_hours"
	KindPreMarket   JobKind = "pre_market"
	KindAfterHours  JobKind = "after_hours"
)

// JobCallback receives the per-symbol loaded counts of one job run.
type JobCallback func(results map[string]int)

// ScheduledJob is one named recurring registration.
type ScheduledJob struct {
	Name            string
	Symbols         []string
	IntervalMinutes int
	Kind            JobKind
	DataInterval    string
	Callback        JobCallback `json:"-"`
	CreatedAt       time.Time
}

// Outcome statuses for one pass of the engine.
const (
	OutcomeRan     = "ran"
	OutcomeSkipped = "skipped"
	OutcomeError   = "error"
)

// JobOutcome records what happened to one job during a scheduler pass.
type JobOutcome struct {
	Name    string
	Status  string
	Error   string
	Results map[string]int
}
