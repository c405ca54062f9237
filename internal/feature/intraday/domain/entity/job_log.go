package entity

import (
	"fmt"
	"time"
)

// Job execution statuses.
const (
	JobStatusSuccess = "SUCCESS"
	JobStatusFailed  = "FAILED"
	JobStatusRunning = "RUNNING"
)

// JobLog is one append-only audit row per symbol per pipeline attempt.
// Rows are never mutated or deleted by the core.
type JobLog struct {
	ID               uint
	JobName          string
	Status           string
	StartTime        time.Time
	EndTime          *time.Time
	RecordsProcessed int
	TotalRecords     int
	ErrorMessage     string
	CreatedAt        time.Time
}

// IntradayJobName derives the audit job name for one symbol's ETL attempt.
func IntradayJobName(symbol string) string {
	return fmt.Sprintf("intraday_etl_%s", symbol)
}

// JobSummary aggregates job-log rows over a trailing window.
type JobSummary struct {
	TotalJobs      int64
	SuccessfulJobs int64
	FailedJobs     int64
	RunningJobs    int64
	LastRun        *time.Time
}

// IsRunning reports whether any job in the window is still marked RUNNING.
func (s JobSummary) IsRunning() bool {
	return s.RunningJobs > 0
}
