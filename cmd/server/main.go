// Package main is the entry point for the user service API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"usersvc/internal/config"
	"usersvc/internal/core/db"
	"usersvc/internal/domain/user"
	"usersvc/internal/events"
	v1 "usersvc/internal/infrastructure/http/v1"
	"usersvc/internal/infrastructure/storage/postgres"
	"usersvc/internal/infrastructure/storage/postgres/event_repo"
	"usersvc/internal/infrastructure/storage/postgres/user_repo"
	"usersvc/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting user service")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = cfg.PoolMaxConns
	poolCfg.MinConns = cfg.PoolMinConns

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	dbCtx := postgres.NewContext(pool)
	manager := db.NewManager(dbCtx)

	// --- Events ---
	store := event_repo.New(dbCtx)
	consumer := events.NewChannelConsumer(store, events.ConsumerOptions{
		BufferSize:   cfg.EventBufferSize,
		BatchSize:    cfg.EventBatchSize,
		BatchTimeout: cfg.EventBatchTimeout,
		WorkerCount:  cfg.EventWorkerCount,
	})
	consumer.Start(ctx)
	defer consumer.Stop()

	publisher := events.NewConsumerPublisher(cfg.EventTopic, consumer)

	// --- Domain ---
	userService := user.NewService(manager, user_repo.New(), publisher)

	// --- HTTP ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:        pool,
		Logger:      log,
		UserService: userService,
	})

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		log.Infow("http server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("http server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Infow("shutting down", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("http server shutdown failed", "error", err)
	}

	// Deferred consumer.Stop drains buffered events before pool.Close.
	log.Info("server stopped")
}
