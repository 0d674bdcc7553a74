package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hsallam/matjar-pos/api/routes"
	"github.com/hsallam/matjar-pos/internal/carts"
	"github.com/hsallam/matjar-pos/pkg/config"
	"github.com/hsallam/matjar-pos/pkg/db"
	"github.com/hsallam/matjar-pos/pkg/logger"
	"github.com/hsallam/matjar-pos/pkg/migrate"
	"github.com/hsallam/matjar-pos/pkg/redis"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "matjar-pos-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(ctx, "database connection failed", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "dev auto-migration failed", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis)
		if err != nil {
			logg.Error(ctx, "redis connection failed", err)
			os.Exit(1)
		}
		defer redisClient.Close()
	} else {
		logg.Warn(ctx, "redis not configured, idempotency replay disabled")
	}

	cartService, err := carts.NewService(carts.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(ctx, "cart service init failed", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := routes.Dependencies{
		Config:      cfg,
		Logger:      logg,
		CartService: cartService,
		Registry:    registry,
		DBPinger:    dbClient,
	}
	if redisClient != nil {
		deps.Idempotency = redisClient
		deps.RedisPinger = redisClient
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           routes.New(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logg.Info(logg.WithField(ctx, "port", cfg.App.Port), "cart api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "server stopped", err)
			stop()
		}
	}()

	<-ctx.Done()
	logg.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "graceful shutdown failed", err)
	}
}
