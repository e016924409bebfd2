package cache

import "context"

// Store caches resolved featured-image URLs keyed by media ID. A miss
// is reported as an empty URL with a nil error; errors are reserved for
// transport problems.
type Store interface {
	GetImageURL(ctx context.Context, mediaID int) (string, error)
	SetImageURL(ctx context.Context, mediaID int, url string) error
	Clear(ctx context.Context) error
	Close() error
}
