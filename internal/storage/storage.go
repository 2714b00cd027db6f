package storage

import (
	"context"
	"fmt"
)

// Storage persists generated photo variants and preview images and
// returns a URL the client can render directly.
type Storage interface {
	Put(ctx context.Context, folder, ext, contentType string, data []byte) (string, error)
}

// ValidateFileSize validates the file size
func ValidateFileSize(size int64, maxSize int64) error {
	if size > maxSize {
		return fmt.Errorf("file size exceeds maximum allowed size of %d bytes", maxSize)
	}
	return nil
}

// ValidateContentType validates the content type
func ValidateContentType(contentType string, allowedTypes []string) error {
	for _, allowed := range allowedTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("content type %s is not allowed", contentType)
}
