package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/StockSmart-AI/stock-smart-backend/internal/config"
	"github.com/StockSmart-AI/stock-smart-backend/internal/infra"
	"github.com/StockSmart-AI/stock-smart-backend/internal/middleware"
	"github.com/StockSmart-AI/stock-smart-backend/internal/repository"
	"github.com/StockSmart-AI/stock-smart-backend/internal/router"
	"github.com/StockSmart-AI/stock-smart-backend/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	middleware.InitMetrics()

	// Start goroutine worker pool for async email jobs (OTP, invitations,
	// low-stock alerts, receipts). Workers are wired here at the composition
	// root so they share the same infra as the HTTP layer.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	emailWorker := worker.NewEmailWorker(mailer, cfg.AlertEmail)
	worker.StartWorkerPool(ctx, rdb, emailWorker, cfg.WorkerPoolSize)

	// Periodic stock audit: non-negative quantities, serialized drift,
	// cached inventory value refresh.
	scheduler := worker.StartAuditCron(ctx, worker.AuditCronConfig{
		Shops:    repository.NewShopRepository(db),
		Products: repository.NewProductRepository(db),
		Items:    repository.NewItemRepository(db),
		Interval: time.Duration(cfg.AuditIntervalMin) * time.Minute,
	})

	// The forecast sidecar circuit breaker lives here so its state survives
	// individual requests.
	forecastCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())

	r := router.New(cfg, db, rdb, forecastCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("StockSmart backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	scheduler.Stop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
