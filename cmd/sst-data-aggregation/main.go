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

	httpapi "github.com/oceanobs/sst-data-aggregation/internal/api/http"
	"github.com/oceanobs/sst-data-aggregation/internal/config"
	"github.com/oceanobs/sst-data-aggregation/internal/datadir"
	"github.com/oceanobs/sst-data-aggregation/internal/scheduler"
	"github.com/oceanobs/sst-data-aggregation/internal/sst"
	"github.com/oceanobs/sst-data-aggregation/internal/sst/sources"
	"github.com/oceanobs/sst-data-aggregation/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound fetches.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Export directory under the caller-supplied root.
	dir, err := datadir.New(cfg.DataRoot)
	if err != nil {
		log.Fatalf("failed to prepare data root: %v", err)
	}

	// Core service routing datasets to their sources.
	service := sst.NewService(memStore,
		sources.NewPortalSource(httpClient, cfg.PortalURL),
		sources.NewBuoySource(httpClient, cfg.BuoyURLTemplate),
	)

	// Scheduler that periodically refreshes stored tables.
	sched := scheduler.New(cfg.FetchInterval, cfg.BuoyWindowDays, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "sst-data-aggregation",
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
			"service": "sst-data-aggregation",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, dir)

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
