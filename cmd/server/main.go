package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/harmyko/database-management-systems/internal/config"
	"github.com/harmyko/database-management-systems/internal/database"
	"github.com/harmyko/database-management-systems/internal/handler"
	"github.com/harmyko/database-management-systems/internal/middleware"
	"github.com/harmyko/database-management-systems/internal/queue"
	"github.com/harmyko/database-management-systems/internal/repository"
	"github.com/harmyko/database-management-systems/internal/router"
	"github.com/harmyko/database-management-systems/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("database: %v", err)
	}

	guestRepo := repository.NewGuestRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	inventoryRepo := repository.NewInventoryRepo(db)
	ratingRepo := repository.NewRatingRepo(db)
	statsRepo := repository.NewStatsRepo(db)

	bookingSvc := service.NewBookingService(db, guestRepo, roomRepo, bookingRepo, inventoryRepo, queue.NewPublisher())

	// Best-effort Redis: nil disables both the cache and the limiter.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e, router.Handlers{
		Guests:   handler.NewGuestHandler(guestRepo),
		Rooms:    handler.NewRoomHandler(roomRepo),
		Bookings: handler.NewBookingHandler(bookingSvc, bookingRepo),
		Ratings:  handler.NewRatingHandler(ratingRepo, guestRepo, roomRepo),
		Stats:    handler.NewStatsHandler(statsRepo),
	}, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	// Booking events are appended to logs/booking.log by the consumer;
	// it reconnects forever on its own.
	go func() {
		if err := queue.StartConsumer(); err != nil {
			log.Printf("booking-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
