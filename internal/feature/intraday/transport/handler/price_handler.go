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

// PriceUsecase is the price read contract consumed by the handler.
type PriceUsecase interface {
	History(ctx context.Context, symbol, interval string, from, to *time.Time, limit int) ([]entity.PricePoint, error)
	Latest(ctx context.Context, symbol, interval string) (*entity.PricePoint, error)
}

// PriceHandler handles price read requests.
type PriceHandler struct {
	uc PriceUsecase
}

// NewPriceHandler creates a PriceHandler.
func NewPriceHandler(uc PriceUsecase) *PriceHandler {
	return &PriceHandler{uc: uc}
}

// History handles GET /stocks/:symbol/prices.
//
// Example:
// GET /stocks/AAPL/prices?interval=5min&from=2024-01-15T00:00:00Z&limit=500
func (h *PriceHandler) History(c *gin.Context) {
	interval := c.Query("interval")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "1000"))

	from, err := parseTimeParam(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid from: " + err.Error()})
		return
	}
	to, err := parseTimeParam(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid to: " + err.Error()})
		return
	}

	points, err := h.uc.History(c.Request.Context(), c.Param("symbol"), interval, from, to, limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	out := make([]dto.PriceResponse, 0, len(points))
	for _, p := range points {
		out = append(out, dto.NewPriceResponse(p))
	}
	c.JSON(http.StatusOK, out)
}

// Latest handles GET /stocks/:symbol/prices/latest.
func (h *PriceHandler) Latest(c *gin.Context) {
	point, err := h.uc.Latest(c.Request.Context(), c.Param("symbol"), c.Query("interval"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if point == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "no price data for symbol"})
		return
	}
	c.JSON(http.StatusOK, dto.NewPriceResponse(*point))
}

func parseTimeParam(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
