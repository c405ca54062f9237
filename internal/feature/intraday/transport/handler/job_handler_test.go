package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"stock_etl/internal/feature/intraday/domain/entity"
	"stock_etl/internal/feature/intraday/transport/handler"
)

// mockJobUsecase is a mock implementation of the JobUsecase interface.
type mockJobUsecase struct {
	RecentFunc  func(ctx context.Context, symbol, status string, limit int) ([]entity.JobLog, error)
	SummaryFunc func(ctx context.Context, window time.Duration) (*entity.JobSummary, error)
}

func (m *mockJobUsecase) Recent(ctx context.Context, symbol, status string, limit int) ([]entity.JobLog, error) {
	return m.RecentFunc(ctx, symbol, status, limit)
}
func (m *mockJobUsecase) Summary(ctx context.Context, window time.Duration) (*entity.JobSummary, error) {
	return m.SummaryFunc(ctx, window)
}

func jobRouter(uc handler.JobUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewJobHandler(uc)
	r.GET("/jobs", h.Recent)
	r.GET("/jobs/summary", h.Summary)
	return r
}

func TestJobHandler_Recent(t *testing.T) {
	start := time.Date(2024, 1, 15, 16, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Second)
	uc := &mockJobUsecase{
		RecentFunc: func(ctx context.Context, symbol, status string, limit int) ([]entity.JobLog, error) {
			assert.Equal(t, "AAPL", symbol)
			assert.Equal(t, "FAILED", status)
			assert.Equal(t, 5, limit)
			return []entity.JobLog{{
				ID:               1,
				JobName:          "intraday_etl_AAPL",
				Status:           entity.JobStatusSuccess,
				StartTime:        start,
				EndTime:          &end,
				RecordsProcessed: 100,
				TotalRecords:     100,
			}}, nil
		},
	}
	r := jobRouter(uc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/jobs?symbol=AAPL&status=FAILED&limit=5", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{
		"id": 1,
		"job_name": "intraday_etl_AAPL",
		"status": "SUCCESS",
		"start_time": "2024-01-15T16:00:00Z",
		"end_time": "2024-01-15T16:00:03Z",
		"records_processed": 100,
		"total_records": 100
	}]`, w.Body.String())
}

func TestJobHandler_Summary(t *testing.T) {
	lastRun := time.Date(2024, 1, 15, 16, 0, 0, 0, time.UTC)
	uc := &mockJobUsecase{
		SummaryFunc: func(ctx context.Context, window time.Duration) (*entity.JobSummary, error) {
			assert.Equal(t, 48*time.Hour, window)
			return &entity.JobSummary{
				TotalJobs:      10,
				SuccessfulJobs: 8,
				FailedJobs:     2,
				LastRun:        &lastRun,
			}, nil
		},
	}
	r := jobRouter(uc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/jobs/summary?hours=48", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"total_jobs": 10,
		"successful_jobs": 8,
		"failed_jobs": 2,
		"running_jobs": 0,
		"last_run": "2024-01-15T16:00:00Z",
		"window_hours": 48
	}`, w.Body.String())
}

func TestJobHandler_Summary_DefaultWindowIsSevenDays(t *testing.T) {
	uc := &mockJobUsecase{
		SummaryFunc: func(ctx context.Context, window time.Duration) (*entity.JobSummary, error) {
			assert.Equal(t, 168*time.Hour, window)
			return &entity.JobSummary{}, nil
		},
	}
	r := jobRouter(uc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/jobs/summary", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
