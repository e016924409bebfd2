package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pressops/wpgate/internal/models"
	"github.com/pressops/wpgate/internal/utils"
)

// FileStore writes snapshots to the local filesystem, one JSON file per
// snapshot under snapshots/YYYY/MM/DD.
type FileStore struct {
	basePath string
	mu       sync.Mutex
}

func NewFileStore(basePath string) (*FileStore, error) {
	// Create base directory if it doesn't exist
	if err := os.MkdirAll(filepath.Join(basePath, "snapshots"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	return &FileStore{basePath: basePath}, nil
}

// Save writes posts as indented JSON and returns the key relative to
// the base path. The file name carries a content hash, so saving the
// same posts twice on one day lands on the same key.
func (s *FileStore) Save(ctx context.Context, label string, posts []models.Post) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	// Dated directory (YYYY/MM/DD)
	datePath := filepath.Join("snapshots", time.Now().UTC().Format("2006/01/02"))
	if err := os.MkdirAll(filepath.Join(s.basePath, datePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create date directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s.json", label, utils.ShortHash(string(data), 8))
	key := filepath.Join(datePath, name)

	if err := os.WriteFile(filepath.Join(s.basePath, key), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}

	return key, nil
}
