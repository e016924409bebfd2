package enrich

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pressops/wpgate/internal/models"
	"github.com/pressops/wpgate/internal/wp"
)

const defaultMaxConcurrent = 10

// RedirectStats summarizes one ResolveRedirects run.
type RedirectStats struct {
	// Input is the number of posts handed in.
	Input int `json:"input"`
	// Passed counts posts whose link slug already matched their stored slug.
	Passed int `json:"passed"`
	// Resolved counts posts replaced by the content at their link slug.
	Resolved int `json:"resolved"`
	// Failed counts posts kept unchanged after a lookup error or empty result.
	Failed int `json:"failed"`
	// Output is the number of posts handed back after flattening.
	Output int `json:"output"`
}

// Resolver detects posts whose stored slug no longer matches the slug
// embedded in their canonical link and replaces them with the content
// now living at that slug, carrying the original display metadata over.
type Resolver struct {
	pages         PageFetcher
	log           *zerolog.Logger
	maxConcurrent int
}

// NewResolver creates a Resolver. maxConcurrent bounds the number of
// in-flight lookups; values below 1 fall back to the default.
func NewResolver(pages PageFetcher, log *zerolog.Logger, maxConcurrent int) *Resolver {
	if maxConcurrent < 1 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &Resolver{
		pages:         pages,
		log:           log,
		maxConcurrent: maxConcurrent,
	}
}

// ResolveRedirects processes posts concurrently and returns the
// flattened results in input order. A post whose lookup fails or finds
// nothing is kept unchanged, so one bad item never aborts the batch. A
// resolved post may expand to several when more than one item lives at
// the derived slug.
func (r *Resolver) ResolveRedirects(ctx context.Context, posts []models.Post) ([]models.Post, RedirectStats) {
	stats := RedirectStats{Input: len(posts)}
	if len(posts) == 0 {
		return []models.Post{}, stats
	}

	// One slot per input keeps output order independent of goroutine
	// completion order.
	results := make([][]models.Post, len(posts))

	var wg sync.WaitGroup
	var mu sync.Mutex
	semaphore := make(chan struct{}, r.maxConcurrent)

loop:
	for i := range posts {
		select {
		case <-ctx.Done():
			r.log.Warn().
				Err(ctx.Err()).
				Int("remaining", len(posts)-i).
				Msg("Context cancelled while resolving redirects")
			for j := i; j < len(posts); j++ {
				results[j] = []models.Post{posts[j]}
			}
			mu.Lock()
			stats.Failed += len(posts) - i
			mu.Unlock()
			break loop
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, post models.Post) {
			defer wg.Done()
			defer func() { <-semaphore }()

			group, result := r.resolveOne(ctx, post)
			results[i] = group

			mu.Lock()
			switch result {
			case redirectPassed:
				stats.Passed++
			case redirectResolved:
				stats.Resolved++
			case redirectFailed:
				stats.Failed++
			}
			mu.Unlock()
		}(i, posts[i])
	}

	wg.Wait()

	out := make([]models.Post, 0, len(posts))
	for _, group := range results {
		out = append(out, group...)
	}
	stats.Output = len(out)

	r.log.Info().
		Int("input", stats.Input).
		Int("passed", stats.Passed).
		Int("resolved", stats.Resolved).
		Int("failed", stats.Failed).
		Int("output", stats.Output).
		Msg("Redirect resolution completed")

	return out, stats
}

type redirectResult int

const (
	redirectPassed redirectResult = iota
	redirectResolved
	redirectFailed
)

// resolveOne returns the replacement group for a single post. Every
// failure path falls back to the original post.
func (r *Resolver) resolveOne(ctx context.Context, post models.Post) ([]models.Post, redirectResult) {
	derived, err := wp.ExtractSlug(post.Link)
	if err != nil {
		r.log.Error().
			Err(err).
			Str("slug", post.Slug).
			Str("link", post.Link).
			Msg("Error deriving slug from link")
		return []models.Post{post}, redirectFailed
	}

	if derived == post.Slug {
		return []models.Post{post}, redirectPassed
	}

	targets, err := r.pages.FetchBySlug(ctx, derived)
	if err != nil {
		r.log.Error().
			Err(err).
			Str("slug", post.Slug).
			Str("derived_slug", derived).
			Msg("Error fetching redirect target")
		return []models.Post{post}, redirectFailed
	}
	if len(targets) == 0 {
		r.log.Warn().
			Str("slug", post.Slug).
			Str("derived_slug", derived).
			Msg("No content at derived slug, keeping original")
		return []models.Post{post}, redirectFailed
	}

	// The target keeps its identity fields; the original's list
	// presentation (categories, image, rendered title) carries over.
	targets[0].Categories = post.Categories
	targets[0].Image = post.Image
	targets[0].Title.Rendered = post.Title.Rendered

	r.log.Debug().
		Str("slug", post.Slug).
		Str("derived_slug", derived).
		Int("targets", len(targets)).
		Msg("Post redirected to new slug")

	return targets, redirectResolved
}
