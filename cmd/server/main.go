// Package main is the entry point of the session statistics server.
//
// The architecture follows Clean Architecture and DDD:
// - Domain: pure aggregation and criteria resolution rules
// - Application: use case orchestration (Commands/Queries)
// - Infrastructure: PostgreSQL repositories, Redis cache, audit sink
// - Interface: HTTP endpoints
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vedantpareek96/il-management/config"
	"github.com/vedantpareek96/il-management/internal/application/command"
	"github.com/vedantpareek96/il-management/internal/application/query"
	"github.com/vedantpareek96/il-management/internal/domain/stats"
	auditsink "github.com/vedantpareek96/il-management/internal/infrastructure/audit"
	"github.com/vedantpareek96/il-management/internal/infrastructure/persistence/postgres"
	rediscache "github.com/vedantpareek96/il-management/internal/infrastructure/persistence/redis"
	httpserver "github.com/vedantpareek96/il-management/internal/interface/http"
	"github.com/vedantpareek96/il-management/pkg/logger"
	"github.com/vedantpareek96/il-management/pkg/retry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})
	log.Info("starting server",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database")

	var dbConn *postgres.Connection
	retrier := retry.New(
		retry.WithMaxAttempts(cfg.Database.ConnectMaxRetries),
		retry.WithInitialDelay(cfg.Database.ConnectBaseDelay),
	)
	err = retrier.Do(ctx, func(ctx context.Context) error {
		var connErr error
		dbConn, connErr = postgres.NewConnection(ctx, cfg.Database)
		return connErr
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection")
		dbConn.Close()
	}()

	log.Info("running database migrations")
	if err := postgres.NewMigrator(dbConn).Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REPOSITORIES AND STORES
	// ─────────────────────────────────────────────────────────────────────────
	personRepo := postgres.NewPersonRepository(dbConn)
	sessionRepo := postgres.NewSessionRepository(dbConn)
	criteriaStore := postgres.NewCriteriaStore(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 5. APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	statsHandler := query.NewComputeStatsHandler(personRepo, sessionRepo, criteriaStore, nil,
		query.WithRecentSessionLimit(cfg.Stats.RecentSessionLimit))
	filterHandler := query.NewFilterPeopleHandler(personRepo, sessionRepo, criteriaStore,
		query.FilterPeopleConfig{
			Band: stats.Band{
				Lower: cfg.Stats.BandLower,
				Upper: cfg.Stats.BandUpper,
			},
			WindowMonths: cfg.Stats.WindowMonths,
		}, nil)
	leadersHandler := query.NewListLeadersHandler(personRepo, nil)
	criteriaListHandler := query.NewListCriteriaHandler(criteriaStore, nil)
	createCriteriaHandler := command.NewCreateCriteriaHandler(criteriaStore, auditsink.NewLogSink(log), nil)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. LEADERBOARD (optionally cached in Redis)
	// ─────────────────────────────────────────────────────────────────────────
	var leaderboardHandler httpserver.LeaderboardHandler
	leaderboardHandler = query.NewComputeLeaderboardHandler(personRepo, sessionRepo, nil,
		query.WithDefaultLeaderboardLimit(cfg.Stats.LeaderboardLimit))

	if !cfg.Redis.Disabled {
		redisClient, err := rediscache.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("failed to connect to Redis, leaderboard caching disabled", logger.Err(err))
		} else {
			defer func() {
				log.Info("closing Redis connection")
				_ = redisClient.Close()
			}()
			leaderboardHandler = rediscache.NewCachedLeaderboardHandler(
				leaderboardHandler, redisClient, cfg.Redis.LeaderboardTTL, log)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	server := httpserver.NewServer(cfg.HTTP, httpserver.Dependencies{
		ComputeStats:       statsHandler,
		ComputeLeaderboard: leaderboardHandler,
		FilterPeople:       filterHandler,
		ListLeaders:        leadersHandler,
		ListCriteria:       criteriaListHandler,
		CreateCriteria:     createCriteriaHandler,
		Logger:             log,
		DB:                 dbConn,
	})

	errCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 8. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	log.Info("server stopped")
	return nil
}
