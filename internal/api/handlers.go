package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pressops/wpgate/internal/archive"
	"github.com/pressops/wpgate/internal/cache"
	"github.com/pressops/wpgate/internal/config"
	"github.com/pressops/wpgate/internal/enrich"
	"github.com/pressops/wpgate/internal/logger"
	"github.com/pressops/wpgate/internal/middleware"
	"github.com/pressops/wpgate/internal/wp"
)

// PostsQuery carries the query parameters of GET /api/v1/posts.
type PostsQuery struct {
	PerPage int    `query:"per_page" validate:"omitempty,min=1,max=100"`
	Fields  string `query:"fields"`
	Resolve bool   `query:"resolve"`
	Images  bool   `query:"images"`
}

// ArchiveRequest carries the body of POST /api/v1/admin/archive.
type ArchiveRequest struct {
	Label   string   `json:"label" validate:"required,hostname_rfc1123,max=64"`
	PerPage int      `json:"per_page" validate:"omitempty,min=1,max=100"`
	Fields  []string `json:"fields" validate:"omitempty,dive,required"`
}

type Handlers struct {
	config   *config.Config
	client   *wp.Client
	resolver *enrich.Resolver
	enricher *enrich.Enricher
	images   cache.Store
	archiver archive.Archiver
}

// NewHandlers wires the HTTP handlers to their collaborators. The
// archiver may be nil when no snapshot storage is configured.
func NewHandlers(cfg *config.Config, client *wp.Client, resolver *enrich.Resolver, enricher *enrich.Enricher, images cache.Store, archiver archive.Archiver) *Handlers {
	return &Handlers{
		config:   cfg,
		client:   client,
		resolver: resolver,
		enricher: enricher,
		images:   images,
		archiver: archiver,
	}
}

// HealthCheck handles GET /api/v1/health
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": "1.0.0",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// GetPosts handles GET /api/v1/posts
func (h *Handlers) GetPosts(c *fiber.Ctx) error {
	q := c.Locals(middleware.QueryKey).(*PostsQuery)

	params := wp.BuildEndpointParams(splitFields(q.Fields), q.PerPage)

	posts, err := h.client.FetchPosts(c.Context(), params)
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error fetching posts")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to fetch posts from upstream",
		})
	}

	response := fiber.Map{}

	if q.Resolve {
		var stats enrich.RedirectStats
		posts, stats = h.resolver.ResolveRedirects(c.Context(), posts)
		response["redirect_stats"] = stats
	}

	if q.Images {
		var stats enrich.ImageStats
		posts, stats = h.enricher.AddImages(c.Context(), posts)
		response["image_stats"] = stats
	}

	response["count"] = len(posts)
	response["posts"] = posts

	return c.JSON(response)
}

// GetPageBySlug handles GET /api/v1/pages/:slug
func (h *Handlers) GetPageBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Page slug is required",
		})
	}

	pages, err := h.client.FetchBySlug(c.Context(), slug)
	if err != nil {
		logger.Get().Error().Err(err).Str("slug", slug).Msg("Error fetching page")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to fetch page from upstream",
		})
	}

	if len(pages) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Page not found",
		})
	}

	if c.QueryBool("images") {
		pages, _ = h.enricher.AddImages(c.Context(), pages)
	}

	return c.JSON(pages[0])
}

// ClearCache handles POST /api/v1/admin/cache/clear
func (h *Handlers) ClearCache(c *fiber.Ctx) error {
	if err := h.images.Clear(c.Context()); err != nil {
		logger.Get().Error().Err(err).Msg("Error clearing image cache")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to clear image cache",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "cleared",
		"message": "Image cache cleared successfully",
	})
}

// ArchivePosts handles POST /api/v1/admin/archive. It runs the full
// pipeline synchronously and reports where the snapshot landed.
func (h *Handlers) ArchivePosts(c *fiber.Ctx) error {
	if h.archiver == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Snapshot storage is not configured",
		})
	}

	req := c.Locals(middleware.BodyKey).(*ArchiveRequest)

	params := wp.BuildEndpointParams(req.Fields, req.PerPage)

	posts, err := h.client.FetchPosts(c.Context(), params)
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error fetching posts for snapshot")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to fetch posts from upstream",
		})
	}

	posts, redirectStats := h.resolver.ResolveRedirects(c.Context(), posts)
	posts, imageStats := h.enricher.AddImages(c.Context(), posts)

	key, err := h.archiver.Save(c.Context(), req.Label, posts)
	if err != nil {
		logger.Get().Error().Err(err).Str("label", req.Label).Msg("Error writing snapshot")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to write snapshot",
		})
	}

	return c.JSON(fiber.Map{
		"status":         "archived",
		"key":            key,
		"count":          len(posts),
		"redirect_stats": redirectStats,
		"image_stats":    imageStats,
	})
}

// splitFields turns a comma-separated field list into its parts,
// dropping empty entries.
func splitFields(raw string) []string {
	if raw == "" {
		return nil
	}

	var fields []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
