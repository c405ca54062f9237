package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"stock_etl/internal/feature/intraday/domain/entity"
	"stock_etl/internal/feature/intraday/usecase"
)

type jobLogGorm struct {
	db *gorm.DB
}

var _ usecase.JobLogRepository = (*jobLogGorm)(nil)

func NewJobLogRepository(db *gorm.DB) *jobLogGorm {
	return &jobLogGorm{db: db}
}

type JobLogModel struct {
	ID               uint      `gorm:"primaryKey"`
	JobName          string    `gorm:"size:64;not null;index"`
	Status           string    `gorm:"size:16;not null"`
	StartTime        time.Time `gorm:"not null"`
	EndTime          *time.Time
	RecordsProcessed int    `gorm:"not null;default:0"`
	TotalRecords     int    `gorm:"not null;default:0"`
	ErrorMessage     string `gorm:"type:text"`
	CreatedAt        time.Time
}

func (JobLogModel) TableName() string {
	return "job_logs"
}

func toJobLogEntity(m JobLogModel) entity.JobLog {
	return entity.JobLog{
		ID:               m.ID,
		JobName:          m.JobName,
		Status:           m.Status,
		StartTime:        m.StartTime,
		EndTime:          m.EndTime,
		RecordsProcessed: m.RecordsProcessed,
		TotalRecords:     m.TotalRecords,
		ErrorMessage:     m.ErrorMessage,
		CreatedAt:        m.CreatedAt,
	}
}

// Append is insert-only; job history rows are never updated.
func (r *jobLogGorm) Append(ctx context.Context, log entity.JobLog) error {
	m := JobLogModel{
		JobName:          log.JobName,
		Status:           log.Status,
		StartTime:        log.StartTime,
		EndTime:          log.EndTime,
		RecordsProcessed: log.RecordsProcessed,
		TotalRecords:     log.TotalRecords,
		ErrorMessage:     log.ErrorMessage,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *jobLogGorm) FindRecent(ctx context.Context, jobName, status string, limit int) ([]entity.JobLog, error) {
	var rows []JobLogModel
	q := r.db.WithContext(ctx).Order("start_time DESC").Limit(limit)
	if jobName != "" {
		q = q.Where("job_name = ?", jobName)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.JobLog, 0, len(rows))
	for _, m := range rows {
		out = append(out, toJobLogEntity(m))
	}
	return out, nil
}

// Summary aggregates outcomes since the given instant with per-status counts
// and the newest start time.
func (r *jobLogGorm) Summary(ctx context.Context, since time.Time) (*entity.JobSummary, error) {
	base := r.db.WithContext(ctx).Model(&JobLogModel{}).Where("start_time >= ?", since)

	var summary entity.JobSummary
	if err := base.Session(&gorm.Session{}).Count(&summary.TotalJobs).Error; err != nil {
		return nil, err
	}
	counts := []struct {
		status string
		dest   *int64
	}{
		{entity.JobStatusSuccess, &summary.SuccessfulJobs},
		{entity.JobStatusFailed, &summary.FailedJobs},
		{entity.JobStatusRunning, &summary.RunningJobs},
	}
	for _, c := range counts {
		if err := base.Session(&gorm.Session{}).Where("status = ?", c.status).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	var last JobLogModel
	err := r.db.WithContext(ctx).Where("start_time >= ?", since).
		Order("start_time DESC").First(&last).Error
	if err == nil {
		summary.LastRun = &last.StartTime
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &summary, nil
}
