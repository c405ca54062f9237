// Package router wires the HTTP routes of the read/CRUD facade.
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	intradayhandler "stock_etl/internal/feature/intraday/transport/handler"
	platformhandler "stock_etl/internal/platform/http/handler"
)

// NewRouter builds the gin engine with all facade routes. The pipeline never
// writes through these routes; prices and job logs are read-only here.
func NewRouter(stocks *intradayhandler.StockHandler, prices *intradayhandler.PriceHandler, jobs *intradayhandler.JobHandler) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/healthz", platformhandler.Health)

	r.POST("/stocks", stocks.Create)
	r.GET("/stocks", stocks.List)
	r.GET("/stocks/:symbol", stocks.Get)
	r.PUT("/stocks/:symbol", stocks.Update)
	r.DELETE("/stocks/:symbol", stocks.Deactivate)

	r.GET("/stocks/:symbol/prices", prices.History)
	r.GET("/stocks/:symbol/prices/latest", prices.Latest)

	r.GET("/jobs", jobs.Recent)
	r.GET("/jobs/summary", jobs.Summary)

	return r
}
