package reports

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"skycutout/internal/models"
	"skycutout/internal/storage"
)

func TestStoreFetch(t *testing.T) {
	ctx := context.Background()

	client, err := storage.NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create local storage: %v", err)
	}
	defer client.Close()

	orchestrator := NewStorageOrchestrator(NewGenerator(), client)

	image := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02, 0x03}
	record, err := orchestrator.StoreFetch(ctx, testRecord(t), image)
	if err != nil {
		t.Fatalf("StoreFetch failed: %v", err)
	}

	wantFolder := "2026/03/14/Cutout-2026-03-14-15-09-26"
	if record.ImageFile != wantFolder+"/"+ImageFileName {
		t.Errorf("Expected image path %s/%s, got %s", wantFolder, ImageFileName, record.ImageFile)
	}
	if record.ReportFile != wantFolder+"/"+ReportFileName {
		t.Errorf("Expected report path %s/%s, got %s", wantFolder, ReportFileName, record.ReportFile)
	}
	if record.ImageBytes != len(image) {
		t.Errorf("Expected %d image bytes recorded, got %d", len(image), record.ImageBytes)
	}

	// All three artifacts must exist in storage
	for _, name := range []string{ImageFileName, MetadataFileName, ReportFileName} {
		exists, err := client.FileExists(ctx, wantFolder+"/"+name)
		if err != nil {
			t.Fatalf("FileExists failed for %s: %v", name, err)
		}
		if !exists {
			t.Errorf("Expected %s/%s to be stored", wantFolder, name)
		}
	}

	// The stored image is byte for byte what was fetched
	stored, err := client.GetFile(ctx, record.ImageFile)
	if err != nil {
		t.Fatalf("GetFile failed: %v", err)
	}
	if string(stored) != string(image) {
		t.Error("Stored image does not match fetched bytes")
	}

	// metadata.json round-trips back into the record
	metadata, err := client.GetFile(ctx, wantFolder+"/"+MetadataFileName)
	if err != nil {
		t.Fatalf("Failed to read metadata: %v", err)
	}
	var decoded models.FetchRecord
	if err := json.Unmarshal(metadata, &decoded); err != nil {
		t.Fatalf("Metadata is not valid JSON: %v", err)
	}
	if decoded.ID != record.ID {
		t.Errorf("Expected metadata ID %s, got %s", record.ID, decoded.ID)
	}
	if decoded.Object.Name != "HCG 7" {
		t.Errorf("Expected object name HCG 7, got %s", decoded.Object.Name)
	}
	if decoded.Scale != 0.703125 {
		t.Errorf("Expected scale 0.703125, got %v", decoded.Scale)
	}

	// The report page names the object
	report, err := client.GetFile(ctx, record.ReportFile)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	if !strings.Contains(string(report), "HCG 7") {
		t.Error("Report page should name the object")
	}
}

func TestStoreFetchInvalidRecord(t *testing.T) {
	client, err := storage.NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create local storage: %v", err)
	}
	defer client.Close()

	orchestrator := NewStorageOrchestrator(NewGenerator(), client)

	record := testRecord(t)
	record.Object.Dec = -200

	if _, err := orchestrator.StoreFetch(context.Background(), record, []byte{1}); err == nil {
		t.Error("Expected error when the record carries an invalid position")
	}
}
