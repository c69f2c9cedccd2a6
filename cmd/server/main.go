package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"meubleerp/internal/config"
	"meubleerp/internal/infra"
	"meubleerp/internal/middleware"
	"meubleerp/internal/router"
	"meubleerp/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title        Meuble ERP API
// @version      1.0
// @description  Devis, factures, bons de livraison, reçus de paiement, produits et caisse.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	primary, err := infra.NewDatabase(cfg.PrimaryDatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to primary postgres")
	}
	secondary, err := infra.NewDatabase(cfg.SecondaryDatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to secondary postgres")
	}
	if err := infra.MigratePrimary(primary); err != nil {
		log.Fatal().Err(err).Msg("primary migration failed")
	}
	if err := infra.MigrateSecondary(secondary); err != nil {
		log.Fatal().Err(err).Msg("secondary migration failed")
	}

	// Redis is optional: without it products are read uncached and
	// document e-mailing answers 503.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
	} else {
		log.Warn().Msg("REDIS_URL empty: cache and e-mail queue disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svcs := router.NewServices(cfg, primary, secondary, rdb)

	// Worker handlers are wired here (composition root) so the pool reaches
	// the rendered documents and the mailer.
	var (
		workers *sync.WaitGroup
		mailer  *infra.GuardedMailer
	)
	if rdb != nil {
		mailer = infra.NewGuardedMailer(infra.NewMailer(cfg), infra.DefaultBreakerConfig())
		emailWorker := worker.NewEmailWorker(svcs.Documents, mailer, rdb, cfg.SocieteNom)
		workers = worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, map[string]worker.JobHandler{
			worker.JobEmail: emailWorker,
		})
	}

	limiter := middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.RunPurge(ctx)

	r := router.New(cfg, router.Infra{
		Primary:   primary,
		Secondary: secondary,
		Redis:     rdb,
		Limiter:   limiter,
		Mailer:    mailer,
	}, svcs)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("meubleerp backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}

	cancel()
	if workers != nil {
		workers.Wait()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}
