package main

import (
	"log"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"stock_etl/internal/app/di"
	"stock_etl/internal/app/router"
	"stock_etl/internal/feature/intraday/adapters"
	"stock_etl/internal/feature/intraday/transport/handler"
	"stock_etl/internal/feature/intraday/usecase"
	infradb "stock_etl/internal/platform/db"
	infraredis "stock_etl/internal/platform/redis"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	db := infradb.OpenDB()

	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	stockRepo := adapters.NewStockRepository(db)
	priceRepo := di.NewPriceRepository(rdb, db)
	jobLogRepo := adapters.NewJobLogRepository(db)

	// Usecase
	stockUC := usecase.NewStockUsecase(stockRepo)
	priceUC := usecase.NewPriceUsecase(priceRepo)
	jobUC := usecase.NewJobUsecase(jobLogRepo)

	// Handler
	stockH := handler.NewStockHandler(stockUC)
	priceH := handler.NewPriceHandler(priceUC)
	jobH := handler.NewJobHandler(jobUC)

	r := router.NewRouter(stockH, priceH, jobH)

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
