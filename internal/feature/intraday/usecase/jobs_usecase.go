package usecase

import (
	"context"
	"strings"
	"time"

	"stock_etl/internal/feature/intraday/domain/entity"
)

// JobUsecase serves read queries over pipeline run history.
type JobUsecase struct {
	jobLogs JobLogRepository
}

// NewJobUsecase creates a JobUsecase.
func NewJobUsecase(jobLogs JobLogRepository) *JobUsecase {
	return &JobUsecase{jobLogs: jobLogs}
}

// Recent returns the newest job log rows, optionally filtered to one
// symbol's intraday job and to one status.
func (u *JobUsecase) Recent(ctx context.Context, symbol, status string, limit int) ([]entity.JobLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	jobName := ""
	if symbol = strings.ToUpper(strings.TrimSpace(symbol)); symbol != "" {
		jobName = entity.IntradayJobName(symbol)
	}
	status = strings.ToUpper(strings.TrimSpace(status))
	return u.jobLogs.FindRecent(ctx, jobName, status, limit)
}

// Summary aggregates job outcomes over the trailing window, seven days when
// no window is given.
func (u *JobUsecase) Summary(ctx context.Context, window time.Duration) (*entity.JobSummary, error) {
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}
	return u.jobLogs.Summary(ctx, time.Now().UTC().Add(-window))
}
