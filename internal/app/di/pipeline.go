package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"stock_etl/internal/feature/intraday/adapters"
	"stock_etl/internal/feature/intraday/usecase"
	"stock_etl/internal/platform/cache"
)

// NewPriceRepository creates a PriceRepository implementation. With Redis
// available it is wrapped in the caching decorator; otherwise reads go
// straight to the database.
func NewPriceRepository(rdb *redis.Client, db *gorm.DB) usecase.PriceRepository {
	repo := adapters.NewPriceRepository(db)
	if rdb != nil {
		return cache.NewCachingPriceRepository(rdb, 5*time.Minute, repo, "prices")
	}
	return repo
}

// NewPipeline assembles the full extract-transform-load pipeline over the
// given database.
func NewPipeline(db *gorm.DB) *usecase.PipelineUsecase {
	stockRepo := adapters.NewStockRepository(db)
	priceRepo := adapters.NewPriceRepository(db)
	jobLogRepo := adapters.NewJobLogRepository(db)

	loader := usecase.NewLoaderUsecase(stockRepo, priceRepo, jobLogRepo)
	return usecase.NewPipelineUsecase(NewMarket(), usecase.NewTransformer(), loader, jobLogRepo)
}
