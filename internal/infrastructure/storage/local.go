package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"civic-connect.backend/internal/domain/repositories"
)

// LocalStore implements repositories.MediaStore on the local filesystem
type LocalStore struct {
	dir        string
	publicBase string
}

// NewLocalStore creates the upload directories under dir
func NewLocalStore(dir, publicBase string) (*LocalStore, error) {
	for _, sub := range []string{"images", "audio"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}
	return &LocalStore{dir: dir, publicBase: publicBase}, nil
}

// Upload writes the blob to disk and returns a URL under the public base path
func (s *LocalStore) Upload(_ context.Context, kind repositories.MediaKind, filename string, data []byte, _ string) (string, string, error) {
	sub := "images"
	if kind == repositories.MediaKindAudio {
		sub = "audio"
	}

	storedName := storageObjectName(filename)
	if err := os.WriteFile(filepath.Join(s.dir, sub, storedName), data, 0o644); err != nil {
		return "", "", fmt.Errorf("write %s: %w", storedName, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicBase, sub, storedName), storedName, nil
}
