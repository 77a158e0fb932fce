package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// LocalStorageClient handles local file system storage operations
type LocalStorageClient struct {
	baseDir string
}

// NewLocalStorageClient creates a new local storage client rooted at baseDir
func NewLocalStorageClient(baseDir string) (*LocalStorageClient, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory %s: %w", baseDir, err)
	}

	return &LocalStorageClient{
		baseDir: baseDir,
	}, nil
}

// Close is a no-op for local storage (implements same interface as the remote clients)
func (l *LocalStorageClient) Close() error {
	return nil
}

// StoreFile writes a file under the base directory, creating parent folders as needed
func (l *LocalStorageClient) StoreFile(ctx context.Context, filePath string, fileData []byte) error {
	fullPath := filepath.Join(l.baseDir, filePath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(fullPath, fileData, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", fullPath, err)
	}

	return nil
}

// GetFile retrieves a file from under the base directory
func (l *LocalStorageClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	fullPath := filepath.Join(l.baseDir, filePath)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fullPath, err)
	}
	return data, nil
}

// FileExists checks whether a file is present under the base directory
func (l *LocalStorageClient) FileExists(ctx context.Context, filePath string) (bool, error) {
	fullPath := filepath.Join(l.baseDir, filePath)
	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file %s: %w", fullPath, err)
	}
	return !info.IsDir(), nil
}

// LatestCutout returns the most recent cutout report page
func (l *LocalStorageClient) LatestCutout(ctx context.Context) (string, error) {
	cutouts, err := l.ListCutouts(ctx, 1)
	if err != nil {
		return "", err
	}

	if len(cutouts) == 0 {
		return "", fmt.Errorf("no cutouts found")
	}

	return cutouts[0], nil
}

// ListCutouts lists stored cutout report pages, newest first
func (l *LocalStorageClient) ListCutouts(ctx context.Context, limit int) ([]string, error) {
	var cutoutPaths []string

	err := filepath.Walk(l.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors and continue
		}

		// Every stored cutout folder carries an index.html report page
		if info.Name() == "index.html" {
			relPath, _ := filepath.Rel(l.baseDir, path)
			cutoutPaths = append(cutoutPaths, filepath.ToSlash(relPath))
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk cutouts directory: %w", err)
	}

	// Folder names embed the fetch timestamp, so lexical order is
	// chronological order. Sort, then reverse for newest first.
	sort.Strings(cutoutPaths)
	for i, j := 0, len(cutoutPaths)-1; i < j; i, j = i+1, j-1 {
		cutoutPaths[i], cutoutPaths[j] = cutoutPaths[j], cutoutPaths[i]
	}

	if limit > 0 && limit < len(cutoutPaths) {
		cutoutPaths = cutoutPaths[:limit]
	}

	return cutoutPaths, nil
}
