package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"skycutout/internal/logger"
)

// GCSClient handles Google Cloud Storage operations
type GCSClient struct {
	client *storage.Client
	bucket string
}

// NewGCSClient creates a new GCS client for the given bucket
func NewGCSClient(ctx context.Context, bucketName string) (*GCSClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSClient{
		client: client,
		bucket: bucketName,
	}, nil
}

// Close closes the GCS client
func (g *GCSClient) Close() error {
	return g.client.Close()
}

// StoreFile stores a file in GCS at the given object path
func (g *GCSClient) StoreFile(ctx context.Context, filePath string, fileData []byte) error {
	logger.Debugf("Storing file to GCS: gs://%s/%s", g.bucket, filePath)

	bucket := g.client.Bucket(g.bucket)
	obj := bucket.Object(filePath)

	writer := obj.NewWriter(ctx)

	// Content type follows the file extension
	writer.ContentType = GetContentType(filePath)

	writer.CacheControl = "public, max-age=3600" // Cache for 1 hour

	writer.Metadata = map[string]string{
		"stored-at": time.Now().UTC().Format(time.RFC3339),
	}

	if _, err := writer.Write(fileData); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write file to GCS: %w", err)
	}

	// Close finalizes the upload
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS file upload: %w", err)
	}

	logger.Debugf("File successfully stored: %s", filePath)
	return nil
}

// GetFile retrieves a file from GCS
func (g *GCSClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	bucket := g.client.Bucket(g.bucket)
	obj := bucket.Object(filePath)

	reader, err := obj.NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for file %s: %w", filePath, err)
	}
	defer reader.Close()

	fileData, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return fileData, nil
}

// FileExists checks whether an object exists in the bucket
func (g *GCSClient) FileExists(ctx context.Context, filePath string) (bool, error) {
	bucket := g.client.Bucket(g.bucket)
	_, err := bucket.Object(filePath).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object %s: %w", filePath, err)
	}
	return true, nil
}

// LatestCutout returns the most recent cutout report page
func (g *GCSClient) LatestCutout(ctx context.Context) (string, error) {
	cutouts, err := g.ListCutouts(ctx, 1)
	if err != nil {
		return "", err
	}

	if len(cutouts) == 0 {
		return "", fmt.Errorf("no cutouts found")
	}

	return cutouts[0], nil
}

// ListCutouts lists stored cutout report pages from GCS, newest first
func (g *GCSClient) ListCutouts(ctx context.Context, limit int) ([]string, error) {
	bucket := g.client.Bucket(g.bucket)

	// Cutout folders are laid out as YYYY/MM/DD/Cutout-.../, so no
	// prefix narrows the listing usefully across days.
	it := bucket.Objects(ctx, &storage.Query{})

	var cutoutPaths []string

	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		if strings.HasSuffix(attrs.Name, "/index.html") {
			cutoutPaths = append(cutoutPaths, attrs.Name)
		}
	}

	// Sort alphabetically, then reverse for newest first
	sort.Strings(cutoutPaths)
	for i, j := 0, len(cutoutPaths)-1; i < j; i, j = i+1, j-1 {
		cutoutPaths[i], cutoutPaths[j] = cutoutPaths[j], cutoutPaths[i]
	}

	if limit > 0 && limit < len(cutoutPaths) {
		cutoutPaths = cutoutPaths[:limit]
	}

	return cutoutPaths, nil
}
