package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/kamuxx/reservas-api/internal/config"
	"github.com/kamuxx/reservas-api/internal/database"
	"github.com/kamuxx/reservas-api/internal/handler"
	"github.com/kamuxx/reservas-api/internal/queue"
	"github.com/kamuxx/reservas-api/internal/repository"
	"github.com/kamuxx/reservas-api/internal/router"
	"github.com/kamuxx/reservas-api/internal/usecase"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Resolve the reservation status vocabulary once. A broken status seed
	// must stop the boot, not surface as per-request failures later.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	statuses, err := repository.NewStatusRepo(db).LoadStatusSet(ctx)
	cancel()
	if err != nil {
		log.Fatalf("status seed: %v", err)
	}

	rdb := config.NewRedisClient() // nil disables cache and rate limiting
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	spaces := repository.NewSpaceRepo(db)
	reservations := repository.NewReservationRepo(db)
	audits := repository.NewAuditRepo(db)

	run := database.NewTxRunner(db)
	reservationUC := usecase.NewReservationUseCases(run, spaces, reservations, audits, statuses)
	spaceUC := usecase.NewSpaceUseCases(run, spaces, reservations, audits, statuses)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterReservations(e, handler.NewReservationHandler(reservationUC, reservations, cfg.AMQPURL),
		cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)
	router.RegisterSpaces(e, handler.NewSpaceHandler(spaceUC),
		cfg.JWTSecret, config.LoadCacheConfig(), rdb)

	if cfg.AMQPURL != "" {
		go func() {
			if err := queue.StartReservationConsumer(cfg.AMQPURL); err != nil {
				log.Printf("reservation consumer stopped: %v", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
