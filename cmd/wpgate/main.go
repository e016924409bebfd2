package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pressops/wpgate/internal/api"
	"github.com/pressops/wpgate/internal/archive"
	"github.com/pressops/wpgate/internal/cache"
	"github.com/pressops/wpgate/internal/config"
	"github.com/pressops/wpgate/internal/enrich"
	"github.com/pressops/wpgate/internal/logger"
	"github.com/pressops/wpgate/internal/middleware"
	"github.com/pressops/wpgate/internal/wp"
)

func main() {
	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Init(logger.Config{Level: "info"})
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize logger
	logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: cfg.LogFile,
		Pretty: cfg.Env == "development",
	})

	logger.Info().Str("env", cfg.Env).Msg("Starting wpgate...")

	// Image URL cache: Redis when configured, in-memory otherwise
	var images cache.Store
	if cfg.RedisURL != "" {
		redisStore, err := cache.NewRedisStore(cfg.RedisURL, cfg.RedisPrefix, cfg.CacheTTL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize Redis cache")
		}
		images = redisStore
	} else {
		logger.Warn().Msg("REDIS_URL not set, using in-memory image cache")
		images = cache.NewMemoryStore()
	}
	defer func() {
		logger.Info().Msg("Closing image cache...")
		if err := images.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing image cache")
		}
	}()

	// WordPress client
	client := wp.NewClient(wp.Config{
		BaseURL:          cfg.WPBaseURL,
		Timeout:          cfg.WPTimeout,
		RetryCount:       cfg.WPRetryCount,
		RetryWaitTime:    cfg.WPRetryWait,
		RetryMaxWaitTime: cfg.WPRetryMaxWait,
		RateLimitRPS:     cfg.WPRateLimitRPS,
	})

	log := logger.Get()
	resolver := enrich.NewResolver(client, log, cfg.MaxConcurrency)
	enricher := enrich.NewEnricher(client, images, log, cfg.MaxConcurrency)

	// Snapshot storage: R2 when configured, local disk otherwise
	var archiver archive.Archiver
	if cfg.R2Enabled() {
		r2, err := archive.NewR2Store(context.Background(), archive.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKey,
			SecretAccessKey: cfg.R2SecretKey,
			Bucket:          cfg.R2Bucket,
			Endpoint:        cfg.R2Endpoint,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize R2 snapshot storage")
		}
		archiver = r2
	} else {
		fileStore, err := archive.NewFileStore(cfg.SnapshotPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize snapshot storage")
		}
		archiver = fileStore
	}

	// Create Fiber app with custom config
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	handlers := api.NewHandlers(cfg, client, resolver, enricher, images, archiver)
	api.SetupRoutes(app, handlers)

	// Start server in a goroutine
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	// Create a deadline for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited properly")
}
