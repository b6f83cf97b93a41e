package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-rental-marketplace/internal/config"
	"github.com/iliyamo/car-rental-marketplace/internal/database"
	"github.com/iliyamo/car-rental-marketplace/internal/handler"
	"github.com/iliyamo/car-rental-marketplace/internal/middleware"
	"github.com/iliyamo/car-rental-marketplace/internal/queue"
	"github.com/iliyamo/car-rental-marketplace/internal/repository"
	"github.com/iliyamo/car-rental-marketplace/internal/router"
	"github.com/iliyamo/car-rental-marketplace/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis is optional; when unavailable the cache and rate limiter
	// disable themselves.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	cars := repository.NewCarRepo(db)
	bookings := repository.NewBookingRepo(db)

	avail := service.NewAvailability(cars, bookings)
	bookingSvc := service.NewBookings(bookings)

	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	publicHandler := handler.NewPublicHandler(cars)
	ownerHandler := handler.NewOwnerHandler(users, cars, bookings)
	bookingHandler := handler.NewBookingHandler(avail, bookingSvc, cars, queue.PublishBookingCreated)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	authMW := middleware.JWTAuth(cfg.JWTSecret, users)
	cacheMW := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e, publicHandler, cacheMW)
	router.RegisterUser(e, authHandler, authMW)
	router.RegisterOwner(e, ownerHandler, authMW)
	router.RegisterBookings(e, bookingHandler, authMW)

	// Background consumer appends booking.created events to logs/booking.log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
