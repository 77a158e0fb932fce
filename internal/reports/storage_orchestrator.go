package reports

import (
	"context"
	"encoding/json"
	"fmt"

	"skycutout/internal/logger"
	"skycutout/internal/models"
	"skycutout/internal/storage"
)

// StorageOrchestrator stores the artifacts of one completed fetch as a
// timestamped folder: the image, its metadata record, and the report page.
type StorageOrchestrator struct {
	generator *Generator
	storage   storage.StorageClient
}

// NewStorageOrchestrator creates a storage orchestrator
func NewStorageOrchestrator(generator *Generator, client storage.StorageClient) *StorageOrchestrator {
	return &StorageOrchestrator{
		generator: generator,
		storage:   client,
	}
}

// StoreFetch writes cutout.jpg, metadata.json and index.html into the
// fetch's folder and returns the record updated with the stored paths.
func (so *StorageOrchestrator) StoreFetch(ctx context.Context, record models.FetchRecord, image []byte) (models.FetchRecord, error) {
	folderPath := storage.GenerateCutoutFolderPath(record.FetchedAt)

	record.ImageFile = folderPath + "/" + ImageFileName
	record.ReportFile = folderPath + "/" + ReportFileName
	record.ImageBytes = len(image)

	html, err := so.generator.BuildReportHTML(record)
	if err != nil {
		return record, fmt.Errorf("failed to build report page: %w", err)
	}

	metadata, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return record, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := so.storage.StoreFile(ctx, record.ImageFile, image); err != nil {
		return record, fmt.Errorf("failed to store cutout image: %w", err)
	}
	if err := so.storage.StoreFile(ctx, folderPath+"/"+MetadataFileName, metadata); err != nil {
		return record, fmt.Errorf("failed to store metadata: %w", err)
	}
	if err := so.storage.StoreFile(ctx, record.ReportFile, []byte(html)); err != nil {
		return record, fmt.Errorf("failed to store report page: %w", err)
	}

	logger.Infof("Stored cutout of %q in %s (%d byte image)",
		record.Object.Name, folderPath, len(image))

	return record, nil
}
