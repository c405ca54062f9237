// Package handler provides the HTTP handlers of the read/CRUD facade.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stock_etl/internal/feature/intraday/domain/entity"
	"stock_etl/internal/feature/intraday/transport/http/dto"
	"stock_etl/internal/feature/intraday/usecase"
)

// StockUsecase is the stock CRUD contract consumed by the handler.
// Interfaces are defined by the consumer (handler).
type StockUsecase interface {
	Create(ctx context.Context, stock entity.Stock) (*entity.Stock, error)
	Get(ctx context.Context, symbol string) (*entity.Stock, error)
	List(ctx context.Context, filter usecase.StockFilter) ([]entity.Stock, error)
	Update(ctx context.Context, stock entity.Stock) (*entity.Stock, error)
	Deactivate(ctx context.Context, symbol string) error
}

// StockHandler handles stock CRUD requests.
type StockHandler struct {
	uc StockUsecase
}

// NewStockHandler creates a StockHandler.
func NewStockHandler(uc StockUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Create handles POST /stocks.
func (h *StockHandler) Create(c *gin.Context) {
	var req dto.CreateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	stock, err := h.uc.Create(c.Request.Context(), entity.Stock{
		Symbol:      req.Symbol,
		CompanyName: req.CompanyName,
		Exchange:    req.Exchange,
		Currency:    req.Currency,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.NewStockResponse(*stock))
}

// Get handles GET /stocks/:symbol.
func (h *StockHandler) Get(c *gin.Context) {
	stock, err := h.uc.Get(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrStockNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.NewStockResponse(*stock))
}

// List handles GET /stocks?active=true&symbol=AAPL&exchange=NASDAQ&limit=100&offset=0.
func (h *StockHandler) List(c *gin.Context) {
	filter := usecase.StockFilter{
		ActiveOnly: c.DefaultQuery("active", "true") == "true",
		Symbol:     c.Query("symbol"),
		Exchange:   c.Query("exchange"),
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	stocks, err := h.uc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}

	out := make([]dto.StockResponse, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, dto.NewStockResponse(s))
	}
	c.JSON(http.StatusOK, out)
}

// Update handles PUT /stocks/:symbol.
func (h *StockHandler) Update(c *gin.Context) {
	var req dto.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	stock, err := h.uc.Update(c.Request.Context(), entity.Stock{
		Symbol:      c.Param("symbol"),
		CompanyName: req.CompanyName,
		Exchange:    req.Exchange,
		Currency:    req.Currency,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrStockNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.NewStockResponse(*stock))
}

// Deactivate handles DELETE /stocks/:symbol. Soft delete: historical prices
// stay queryable.
func (h *StockHandler) Deactivate(c *gin.Context) {
	if err := h.uc.Deactivate(c.Request.Context(), c.Param("symbol")); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrStockNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
