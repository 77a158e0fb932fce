package storage

import (
	"context"
)

// StorageClient defines the interface for cutout storage backends
type StorageClient interface {
	// Close closes the storage client
	Close() error

	// StoreFile stores a file at the specified path relative to the backend root
	StoreFile(ctx context.Context, filePath string, fileData []byte) error

	// GetFile retrieves a file from the specified path
	GetFile(ctx context.Context, filePath string) ([]byte, error)

	// FileExists checks if a file exists at the specified path
	FileExists(ctx context.Context, filePath string) (bool, error)

	// ListCutouts lists stored cutout report pages, newest first
	ListCutouts(ctx context.Context, limit int) ([]string, error)

	// LatestCutout returns the path of the most recent cutout report page
	LatestCutout(ctx context.Context) (string, error)
}
