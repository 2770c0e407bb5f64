// Package main provides the API server entry point for the wealth planner service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wealth-planner/internal/api"
	"github.com/wealth-planner/internal/config"
	"github.com/wealth-planner/internal/logging"
	"github.com/wealth-planner/internal/retry"
	"github.com/wealth-planner/internal/service"
	"github.com/wealth-planner/internal/storage"
)

func main() {
	fmt.Println("Wealth Planner API Server")
	log.Println("Server starting...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logLevel := logging.ParseLogLevel(cfg.Logging.Level)
	logFormat := logging.ParseLogFormat(cfg.Logging.Format)
	logging.InitGlobalLogger(logLevel, logFormat)

	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	// Connect to the stores, retrying while they come up
	logger.Info("Connecting to databases...")
	ctx := context.Background()

	var postgres *storage.PostgresDB
	if err := retry.WithRetry(ctx, func(ctx context.Context, attempt int) error {
		var connErr error
		postgres, connErr = storage.NewPostgresDB(&cfg.Database.Postgres)
		return connErr
	}); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Postgres")
	}
	defer postgres.Close()

	var clickhouse *storage.ClickHouseDB
	if err := retry.WithRetry(ctx, func(ctx context.Context, attempt int) error {
		var connErr error
		clickhouse, connErr = storage.NewClickHouseDB(&cfg.Database.ClickHouse)
		return connErr
	}); err != nil {
		logger.WithError(err).Fatal("Failed to connect to ClickHouse")
	}
	defer clickhouse.Close()

	var redis *storage.RedisCache
	if err := retry.WithRetry(ctx, func(ctx context.Context, attempt int) error {
		var connErr error
		redis, connErr = storage.NewRedisCache(&cfg.Database.Redis)
		return connErr
	}); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redis.Close()

	logger.Info("Database connections established")

	// Initialize repositories
	clientRepo := storage.NewClientRepository(postgres)
	simulationRepo := storage.NewSimulationRepository(postgres)
	allocationRepo := storage.NewAllocationRepository(postgres)
	movementRepo := storage.NewMovementRepository(postgres)
	insuranceRepo := storage.NewInsuranceRepository(postgres)
	snapshotRepo := storage.NewSnapshotRepository(postgres)
	runRepo := storage.NewProjectionRunRepository(clickhouse)

	// Initialize cache service
	cacheService := storage.NewCacheService(redis, cfg.Cache.TTL)

	// Initialize services
	logger.Info("Initializing services...")

	clientService := service.NewClientService(clientRepo, simulationRepo, cacheService)
	simulationService := service.NewSimulationService(simulationRepo, clientRepo, cacheService)
	allocationService := service.NewAllocationService(allocationRepo, simulationRepo, cacheService)
	movementService := service.NewMovementService(movementRepo, simulationRepo, cacheService)
	insuranceService := service.NewInsuranceService(insuranceRepo, simulationRepo, cacheService)

	// Projection and timeline both read plan snapshots through the same provider
	projectionService := service.NewProjectionService(snapshotRepo, cacheService, runRepo)
	timelineService := service.NewTimelineService(snapshotRepo, cacheService)

	logger.Info("Services initialized")

	// Create server configuration
	serverConfig := &api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		RateLimitRPS:    cfg.RateLimit.RequestsPerSecond,
		RateLimitBurst:  cfg.RateLimit.Burst,
	}

	server := api.NewServer(
		serverConfig,
		clientService,
		simulationService,
		allocationService,
		movementService,
		insuranceService,
		projectionService,
		timelineService,
	)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	logger.WithFields(map[string]interface{}{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
