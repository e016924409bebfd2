package enrich

import (
	"context"

	"github.com/pressops/wpgate/internal/models"
)

// PageFetcher looks content items up by slug. Implementations answer
// with an empty slice, not an error, when nothing lives at the slug.
type PageFetcher interface {
	FetchBySlug(ctx context.Context, slug string) ([]models.Post, error)
}

// MediaFetcher retrieves media metadata by ID.
type MediaFetcher interface {
	FetchMedia(ctx context.Context, id int) (*models.Media, error)
}
