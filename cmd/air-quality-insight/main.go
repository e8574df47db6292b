package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/aqinsight/air-quality-insight/internal/airquality"
	"github.com/aqinsight/air-quality-insight/internal/airquality/providers"
	httpapi "github.com/aqinsight/air-quality-insight/internal/api/http"
	"github.com/aqinsight/air-quality-insight/internal/config"
	"github.com/aqinsight/air-quality-insight/internal/ingest"
	"github.com/aqinsight/air-quality-insight/internal/scheduler"
	"github.com/aqinsight/air-quality-insight/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// In-memory readings store, optionally preloaded from the
	// processed dataset.
	memStore := store.NewMemoryStore()
	if cfg.DataPath != "" {
		readings, err := ingest.LoadFile(cfg.DataPath)
		if err != nil {
			log.Fatalf("failed to load readings from %s: %v", cfg.DataPath, err)
		}
		memStore.ReplaceAll(readings)
		log.Printf("loaded %d readings from %s", len(readings), cfg.DataPath)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Upstream providers with resilience (backoff + circuit breaker).
	var provs []airquality.Provider
	provs = append(provs, providers.NewOpenMeteoProvider(httpClient, cfg.GeocoderAPIKey))
	if cfg.OpenWeatherAPIKey != "" {
		provs = append(provs, providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey))
	}

	// Core service orchestrating store, providers, and the index
	// pipeline.
	service := airquality.NewService(memStore, provs)

	// Scheduler that periodically fetches and stores fresh readings.
	sched := scheduler.New(cfg.Locations, cfg.FetchInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "air-quality-insight",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "air-quality-insight",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, cfg.DefaultThreshold)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
