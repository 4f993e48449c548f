// Package internal contains core application wiring.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"sitewatch/internal/config"
	"sitewatch/internal/database"
	"sitewatch/internal/jobs"
	"sitewatch/internal/logging"
	"sitewatch/internal/pkg/geoip"
)

// Application wires the HTTP server, store, and background jobs.
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	DBManager *database.Manager
	Fiber     *fiber.App
	Scheduler *jobs.Scheduler
}

// NewApp creates a new application instance with default settings.
func NewApp() (*Application, error) {
	cfg := config.GetConfig()
	return NewAppWithConfig(cfg)
}

// NewAppWithConfig creates a new application with the provided config.
func NewAppWithConfig(cfg *config.Config) (*Application, error) {
	logger := logging.NewLogger(cfg)
	geoip.InitLogger(logger)

	dbManager := database.NewManager(cfg, logger)
	if err := dbManager.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	scheduler, err := jobs.NewScheduler(dbManager, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize jobs: %w", err)
	}

	fiberApp := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: !cfg.IsDevelopment(),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := http.StatusInternalServerError
			if fiberErr, ok := err.(*fiber.Error); ok {
				code = fiberErr.Code
			}
			logger.Error("Unhandled request error",
				slog.String("path", c.Path()),
				slog.Int("status", code),
				slog.Any("error", err))
			return c.Status(code).JSON(fiber.Map{"error": "internal error"})
		},
	})
	fiberApp.Use(recover.New())

	MountRoutes(fiberApp, dbManager.GetConnection(), logger)

	return &Application{
		Config:    cfg,
		Logger:    logger,
		DBManager: dbManager,
		Fiber:     fiberApp,
		Scheduler: scheduler,
	}, nil
}

// Migrate applies the schema migrations.
func (a *Application) Migrate() error {
	return a.DBManager.Migrate()
}

// StartAsync launches the background jobs and the HTTP listener.
func (a *Application) StartAsync() error {
	if err := a.Scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start background jobs: %w", err)
	}

	addr := ":" + a.Config.AppPort
	a.Logger.Info("Starting HTTP server", slog.String("addr", addr))

	go func() {
		if err := a.Fiber.Listen(addr); err != nil {
			a.Logger.Error("HTTP server stopped", slog.Any("error", err))
		}
	}()

	return nil
}

// Shutdown stops the jobs, drains the HTTP server, and closes the store.
func (a *Application) Shutdown(ctx context.Context) error {
	a.Scheduler.Stop()

	if err := a.Fiber.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}

	if err := a.DBManager.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	a.Logger.Info("Application shut down")
	return nil
}
