package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/pressops/wpgate/internal/middleware"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, h *Handlers) {
	// Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(nil))

	// API group with versioning
	api := app.Group("/api/v1")

	// Health check endpoint
	api.Get("/health", h.HealthCheck)

	// Content endpoints
	api.Get("/posts", middleware.ValidateQuery[PostsQuery](), h.GetPosts)
	api.Get("/pages/:slug", h.GetPageBySlug)

	// Admin endpoints
	admin := api.Group("/admin", middleware.AdminOnly(h.config.AdminAPIKey))
	{
		admin.Post("/cache/clear", h.ClearCache)
		admin.Post("/archive", middleware.ValidateBody[ArchiveRequest](), h.ArchivePosts)
	}

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
