package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/venuekit/seating-chart/internal/config"     // Internal config loader
	"github.com/venuekit/seating-chart/internal/database"   // MySQL connection
	"github.com/venuekit/seating-chart/internal/handler"    // Chart HTTP handlers
	"github.com/venuekit/seating-chart/internal/middleware" // Redis cache + rate limiting
	"github.com/venuekit/seating-chart/internal/queue"      // Chart event consumer
	"github.com/venuekit/seating-chart/internal/repository" // Data access
	"github.com/venuekit/seating-chart/internal/router"     // Route registration
	"github.com/venuekit/seating-chart/internal/service"    // Queue publisher
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis backs the HTTP response cache and rate limiter. A nil client
	// simply disables both.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	charts := handler.NewChartHandler(
		repository.NewSeatRecordRepo(db),
		repository.NewTopologyRepo(db),
		service.PublishChartEvent,
		cfg.FilterDebounce,
	)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterChart(e, charts,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewResponseCache(config.LoadCacheConfig(), rdb),
	)

	// Background consumer mirrors chart events into logs/chart.log.
	go func() {
		if err := queue.StartChartConsumer(); err != nil {
			log.Printf("chart consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
