package archive

import (
	"context"

	"github.com/pressops/wpgate/internal/models"
)

// Archiver persists post snapshots for audit and replay.
type Archiver interface {
	// Save stores posts under a dated, content-addressed key derived
	// from label and returns that key.
	Save(ctx context.Context, label string, posts []models.Post) (string, error)
}
