package storage

import (
	"context"
	"fmt"

	"skycutout/internal/config"
)

// DeploymentMode selects the storage backend
type DeploymentMode string

const (
	DeploymentLocal DeploymentMode = "local"
	DeploymentGCS   DeploymentMode = "gcs"
	DeploymentS3    DeploymentMode = "s3"
)

// NewStorageClient creates a storage client based on deployment mode and configuration
func NewStorageClient(ctx context.Context, deploymentMode DeploymentMode, cfg *config.Config) (StorageClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	switch deploymentMode {
	case DeploymentLocal:
		cutoutsDir := cfg.LocalCutoutsDir
		if cutoutsDir == "" {
			cutoutsDir = "cutouts" // Default fallback
		}

		localClient, err := NewLocalStorageClient(cutoutsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage client: %w", err)
		}
		return localClient, nil

	case DeploymentGCS:
		if cfg.GCSBucket == "" {
			return nil, fmt.Errorf("GCS_BUCKET is required for gcs storage mode")
		}

		gcsClient, err := NewGCSClient(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
		}
		return gcsClient, nil

	case DeploymentS3:
		s3Client, err := NewS3Client(ctx, cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3UseSSL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		return s3Client, nil

	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", deploymentMode)
	}
}
