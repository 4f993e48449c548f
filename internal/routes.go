package internal

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"

	"sitewatch/internal/http"
)

// publicCORSConfig is the permissive CORS setup shared by the public
// endpoints; beacons arrive cross-origin from tracked sites.
var publicCORSConfig = cors.Config{
	AllowOrigins: "*",
	AllowMethods: "POST,GET,OPTIONS",
	AllowHeaders: "Origin, Content-Type, Accept, Referrer, User-Agent",
}

// MountRoutes wires all endpoints onto the fiber app.
func MountRoutes(app *fiber.App, db *gorm.DB, logger *slog.Logger) {
	trackHandler := http.NewTrackHandler(db, logger)
	analyticsHandler := http.NewAnalyticsHandler(db, logger)
	healthHandler := http.NewHealthHandler(db)

	app.Get("/_health", healthHandler.Handle)
	app.Head("/_health", healthHandler.Handle)

	api := app.Group("/api/v1", cors.New(publicCORSConfig))
	api.Post("/track", trackHandler.Handle)
	api.Options("/track", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	api.Get("/analytics", analyticsHandler.Handle)
}
