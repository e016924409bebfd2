package enrich

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pressops/wpgate/internal/cache"
	"github.com/pressops/wpgate/internal/models"
)

// ImageStats summarizes one AddImages run.
type ImageStats struct {
	// Input is the number of posts handed in.
	Input int `json:"input"`
	// Skipped counts posts that needed no lookup, either because they
	// already carry an image or reference no media.
	Skipped int `json:"skipped"`
	// Enriched counts posts that received an image URL.
	Enriched int `json:"enriched"`
	// Failed counts posts passed through after a failed lookup.
	Failed int `json:"failed"`
}

// Enricher fills in the full-size featured image URL for posts that
// reference a media item but do not carry an image yet.
type Enricher struct {
	media         MediaFetcher
	images        cache.Store
	log           *zerolog.Logger
	maxConcurrent int
}

// NewEnricher creates an Enricher. The cache store may be nil, in which
// case every lookup goes to the media fetcher. maxConcurrent bounds the
// number of in-flight lookups; values below 1 fall back to the default.
func NewEnricher(media MediaFetcher, images cache.Store, log *zerolog.Logger, maxConcurrent int) *Enricher {
	if maxConcurrent < 1 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &Enricher{
		media:         media,
		images:        images,
		log:           log,
		maxConcurrent: maxConcurrent,
	}
}

// AddImages resolves the featured image for every post that still needs
// one, each post checked on its own. Lookups run concurrently; a post
// whose lookup fails is passed through unchanged. The input slice is
// never mutated.
func (e *Enricher) AddImages(ctx context.Context, posts []models.Post) ([]models.Post, ImageStats) {
	stats := ImageStats{Input: len(posts)}
	if len(posts) == 0 {
		return []models.Post{}, stats
	}

	out := make([]models.Post, len(posts))
	copy(out, posts)

	var wg sync.WaitGroup
	var mu sync.Mutex
	semaphore := make(chan struct{}, e.maxConcurrent)

loop:
	for i := range out {
		if !out[i].NeedsImage() {
			mu.Lock()
			stats.Skipped++
			mu.Unlock()
			continue
		}

		select {
		case <-ctx.Done():
			e.log.Warn().
				Err(ctx.Err()).
				Int("remaining", len(out)-i).
				Msg("Context cancelled while resolving images")
			mu.Lock()
			for j := i; j < len(out); j++ {
				if out[j].NeedsImage() {
					stats.Failed++
				} else {
					stats.Skipped++
				}
			}
			mu.Unlock()
			break loop
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-semaphore }()

			url, err := e.ImageLink(ctx, out[i].FeaturedMediaID)
			if err != nil {
				e.log.Error().
					Err(err).
					Int("media_id", out[i].FeaturedMediaID).
					Str("slug", out[i].Slug).
					Msg("Error resolving featured image")
				mu.Lock()
				stats.Failed++
				mu.Unlock()
				return
			}

			out[i].Image = url
			mu.Lock()
			stats.Enriched++
			mu.Unlock()
		}(i)
	}

	wg.Wait()

	e.log.Info().
		Int("input", stats.Input).
		Int("skipped", stats.Skipped).
		Int("enriched", stats.Enriched).
		Int("failed", stats.Failed).
		Msg("Image enrichment completed")

	return out, stats
}

// ImageLink returns the full-size image URL for mediaID. Unlike the
// batch operation it propagates failure: a fetch error or a media item
// without a full-size rendition wraps ErrMediaFetch. Results are served
// from and written to the cache store when one is configured; cache
// problems only degrade to a direct lookup.
func (e *Enricher) ImageLink(ctx context.Context, mediaID int) (string, error) {
	if e.images != nil {
		url, err := e.images.GetImageURL(ctx, mediaID)
		if err != nil {
			e.log.Warn().Err(err).Int("media_id", mediaID).Msg("Image cache read failed")
		} else if url != "" {
			return url, nil
		}
	}

	media, err := e.media.FetchMedia(ctx, mediaID)
	if err != nil {
		return "", fmt.Errorf("%w: media %d: %w", ErrMediaFetch, mediaID, err)
	}

	url := media.FullSizeURL()
	if url == "" {
		return "", fmt.Errorf("%w: media %d has no full-size rendition", ErrMediaFetch, mediaID)
	}

	if e.images != nil {
		if err := e.images.SetImageURL(ctx, mediaID, url); err != nil {
			e.log.Warn().Err(err).Int("media_id", mediaID).Msg("Image cache write failed")
		}
	}

	return url, nil
}
