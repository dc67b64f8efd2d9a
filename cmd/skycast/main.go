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
	"github.com/google/uuid"

	httpapi "github.com/skycast-app/skycast/internal/api/http"
	"github.com/skycast-app/skycast/internal/config"
	"github.com/skycast-app/skycast/internal/store"
	"github.com/skycast-app/skycast/internal/weather"
	"github.com/skycast-app/skycast/internal/weather/providers"
)

func main() {
	// Load configuration (also loads .env when present).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls; its timeout is the
	// per-request budget for every weather and geocoding call.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	client := providers.NewOpenWeatherClient(httpClient, cfg.OpenWeatherAPIKey, cfg.WeatherBaseURL, cfg.GeoBaseURL)

	// Durable settings: favorites, current location, unit, theme.
	settings, err := store.NewSQLiteSettings(cfg.SettingsPath)
	if err != nil {
		log.Fatalf("failed to open settings store: %v", err)
	}
	defer settings.Close()

	// Coordinator owning the application state; restores settings on startup.
	service := weather.NewService(client, settings)

	app := fiber.New(fiber.Config{
		AppName:               "skycast",
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
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Request-Id", uuid.NewString())
		return c.Next()
	})
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "skycast",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

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
