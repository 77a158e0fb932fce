package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the sky cutout service
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8982"`

	// Name resolution endpoints, tried in order until one answers
	SesameMainURL   string `env:"SESAME_MAIN_URL,default=https://cds.unistra.fr/cgi-bin/nph-sesame"`
	SesameMirrorURL string `env:"SESAME_MIRROR_URL,default=https://vizier.cfa.harvard.edu/viz-bin/nph-sesame"`

	// Image cutout endpoint
	CutoutURL string `env:"CUTOUT_URL,default=https://skyserver.sdss.org/dr16/SkyServerWS/ImgCutout/getjpeg"`

	// Default cutout geometry
	FieldOfViewArcmin float64 `env:"FIELD_OF_VIEW_ARCMIN,default=12"`
	CutoutWidth       int     `env:"CUTOUT_WIDTH,default=1024"`
	CutoutHeight      int     `env:"CUTOUT_HEIGHT,default=1024"`

	// Outbound HTTP timeout in seconds, shared by both remote clients
	HTTPTimeoutSec int `env:"HTTP_TIMEOUT_SEC,default=30"`

	// Storage configuration: local, gcs or s3
	StorageMode     string `env:"STORAGE_MODE,default=local"`
	LocalCutoutsDir string `env:"LOCAL_CUTOUTS_DIR,default=./cutouts"`

	// GCS settings, used when STORAGE_MODE=gcs
	GCPProjectID string `env:"GCP_PROJECT_ID"`
	GCSBucket    string `env:"GCS_BUCKET"`

	// S3 settings, used when STORAGE_MODE=s3
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3UseSSL    bool   `env:"S3_USE_SSL,default=true"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=text"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}

// HTTPTimeout returns the outbound request timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

// ResolverURLs returns the configured resolution endpoints in fallback
// order, skipping any left empty.
func (c *Config) ResolverURLs() []string {
	urls := make([]string, 0, 2)
	if c.SesameMainURL != "" {
		urls = append(urls, c.SesameMainURL)
	}
	if c.SesameMirrorURL != "" {
		urls = append(urls, c.SesameMirrorURL)
	}
	return urls
}
