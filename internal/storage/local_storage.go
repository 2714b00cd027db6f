package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/suitloom/suitloom-backend/pkg/logger"
)

// LocalStorage writes uploads to a directory served under /uploads.
// Used when S3 credentials are not configured (개발/테스트 환경).
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

// Put writes the bytes under a generated name and returns a root-relative
// URL in the /uploads namespace.
func (s *LocalStorage) Put(ctx context.Context, folder, ext, contentType string, data []byte) (string, error) {
	name := uuid.New().String() + ext
	dir := filepath.Join(s.dir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Error("Failed to write upload to local storage", err, map[string]interface{}{
			"path": path,
		})
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	logger.Debug("Upload written to local storage", map[string]interface{}{
		"path":  path,
		"bytes": len(data),
	})
	return fmt.Sprintf("/uploads/%s/%s", folder, name), nil
}
