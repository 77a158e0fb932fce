package storage

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"skycutout/internal/logger"
)

// S3Client handles S3-compatible storage operations via the MinIO SDK
type S3Client struct {
	client *minio.Client
	bucket string
}

// NewS3Client creates a new S3 client and ensures the bucket exists
func NewS3Client(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*S3Client, error) {
	if endpoint == "" {
		return nil, errors.New("S3 endpoint is required")
	}
	if bucket == "" {
		return nil, errors.New("S3 bucket name is required")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create S3 client")
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check S3 bucket %s", bucket)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrapf(err, "failed to create S3 bucket %s", bucket)
		}
		logger.Infof("Created S3 bucket: %s", bucket)
	}

	return &S3Client{
		client: client,
		bucket: bucket,
	}, nil
}

// Close is a no-op, the MinIO client holds no persistent connection
func (s *S3Client) Close() error {
	return nil
}

// StoreFile uploads a file to the bucket at the given object key
func (s *S3Client) StoreFile(ctx context.Context, filePath string, fileData []byte) error {
	logger.Debugf("Storing file to S3: %s/%s", s.bucket, filePath)

	_, err := s.client.PutObject(ctx, s.bucket, filePath,
		bytes.NewReader(fileData), int64(len(fileData)),
		minio.PutObjectOptions{ContentType: GetContentType(filePath)})
	if err != nil {
		return errors.Wrapf(err, "failed to store %s in S3", filePath)
	}

	return nil
}

// GetFile retrieves a file from the bucket
func (s *S3Client) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, filePath, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get %s from S3", filePath)
	}
	defer obj.Close()

	// GetObject is lazy, missing keys surface on the first read
	fileData, err := io.ReadAll(obj)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s from S3", filePath)
	}

	return fileData, nil
}

// FileExists checks whether an object exists in the bucket
func (s *S3Client) FileExists(ctx context.Context, filePath string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, filePath, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, errors.Wrapf(err, "failed to stat %s in S3", filePath)
	}
	return true, nil
}

// LatestCutout returns the most recent cutout report page
func (s *S3Client) LatestCutout(ctx context.Context) (string, error) {
	cutouts, err := s.ListCutouts(ctx, 1)
	if err != nil {
		return "", err
	}

	if len(cutouts) == 0 {
		return "", errors.New("no cutouts found")
	}

	return cutouts[0], nil
}

// ListCutouts lists stored cutout report pages from the bucket, newest first
func (s *S3Client) ListCutouts(ctx context.Context, limit int) ([]string, error) {
	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Recursive: true,
	})

	var cutoutPaths []string

	for object := range objects {
		if object.Err != nil {
			return nil, errors.Wrap(object.Err, "failed to list S3 objects")
		}

		if strings.HasSuffix(object.Key, "/index.html") {
			cutoutPaths = append(cutoutPaths, object.Key)
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
