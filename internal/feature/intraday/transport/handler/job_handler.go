package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stock_etl/internal/feature/intraday/domain/entity"
	"stock_etl/internal/feature/intraday/transport/http/dto"
)

// JobUsecase is the job history contract consumed by the handler.
type JobUsecase interface {
	Recent(ctx context.Context, symbol, status string, limit int) ([]entity.JobLog, error)
	Summary(ctx context.Context, window time.Duration) (*entity.JobSummary, error)
}

// JobHandler handles job history read requests.
type JobHandler struct {
	uc JobUsecase
}

// NewJobHandler creates a JobHandler.
func NewJobHandler(uc JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

// Recent handles GET /jobs?symbol=AAPL&status=FAILED&limit=50.
func (h *JobHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	logs, err := h.uc.Recent(c.Request.Context(), c.Query("symbol"), c.Query("status"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}

	out := make([]dto.JobLogResponse, 0, len(logs))
	for _, j := range logs {
		out = append(out, dto.NewJobLogResponse(j))
	}
	c.JSON(http.StatusOK, out)
}

// Summary handles GET /jobs/summary?hours=168. The default window is the
// trailing seven days, matching the CLI status report.
func (h *JobHandler) Summary(c *gin.Context) {
	hours, _ := strconv.Atoi(c.DefaultQuery("hours", "168"))
	if hours <= 0 {
		hours = 168
	}

	summary, err := h.uc.Summary(c.Request.Context(), time.Duration(hours)*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.JobSummaryResponse{
		TotalJobs:      summary.TotalJobs,
		SuccessfulJobs: summary.SuccessfulJobs,
		FailedJobs:     summary.FailedJobs,
		RunningJobs:    summary.RunningJobs,
		LastRun:        summary.LastRun,
		WindowHours:    hours,
	})
}
