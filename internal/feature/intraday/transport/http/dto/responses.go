// Package dto defines the request and response shapes of the read/CRUD API.
package dto

import (
	"time"

	"stock_etl/internal/feature/intraday/domain/entity"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateStockRequest registers a new symbol.
type CreateStockRequest struct {
	Symbol      string `json:"symbol" binding:"required"`
	CompanyName string `json:"company_name"`
	Exchange    string `json:"exchange"`
	Currency    string `json:"currency"`
}

// UpdateStockRequest replaces the mutable descriptor fields.
type UpdateStockRequest struct {
	CompanyName string `json:"company_name"`
	Exchange    string `json:"exchange"`
	Currency    string `json:"currency"`
}

// StockResponse is one stock descriptor.
type StockResponse struct {
	Symbol      string    `json:"symbol"`
	CompanyName string    `json:"company_name"`
	Exchange    string    `json:"exchange"`
	Currency    string    `json:"currency"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewStockResponse maps a stock entity to its response shape.
func NewStockResponse(s entity.Stock) StockResponse {
	return StockResponse{
		Symbol:      s.Symbol,
		CompanyName: s.CompanyName,
		Exchange:    s.Exchange,
		Currency:    s.Currency,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// PriceResponse is one OHLCV record.
type PriceResponse struct {
	Timestamp string  `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
	Interval  string  `json:"interval"`
}

// NewPriceResponse maps a price point to its response shape.
func NewPriceResponse(p entity.PricePoint) PriceResponse {
	return PriceResponse{
		Timestamp: p.Timestamp.UTC().Format("2006-01-02 15:04:05"),
		Open:      p.Open,
		High:      p.High,
		Low:       p.Low,
		Close:     p.Close,
		Volume:    p.Volume,
		Interval:  p.Interval,
	}
}

// JobLogResponse is one pipeline run record.
type JobLogResponse struct {
	ID               uint       `json:"id"`
	JobName          string     `json:"job_name"`
	Status           string     `json:"status"`
	StartTime        time.Time  `json:"start_time"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	RecordsProcessed int        `json:"records_processed"`
	TotalRecords     int        `json:"total_records"`
	ErrorMessage     string     `json:"error_message,omitempty"`
}

// NewJobLogResponse maps a job log entity to its response shape.
func NewJobLogResponse(j entity.JobLog) JobLogResponse {
	return JobLogResponse{
		ID:               j.ID,
		JobName:          j.JobName,
		Status:           j.Status,
		StartTime:        j.StartTime,
		EndTime:          j.EndTime,
		RecordsProcessed: j.RecordsProcessed,
		TotalRecords:     j.TotalRecords,
		ErrorMessage:     j.ErrorMessage,
	}
}

// JobSummaryResponse aggregates run outcomes over a trailing window.
type JobSummaryResponse struct {
	TotalJobs      int64      `json:"total_jobs"`
	SuccessfulJobs int64      `json:"successful_jobs"`
	FailedJobs     int64      `json:"failed_jobs"`
	RunningJobs    int64      `json:"running_jobs"`
	LastRun        *time.Time `json:"last_run,omitempty"`
	WindowHours    int        `json:"window_hours"`
}
