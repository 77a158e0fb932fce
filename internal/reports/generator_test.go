package reports

import (
	"strings"
	"testing"
	"time"

	"skycutout/internal/astro"
	"skycutout/internal/models"
)

func testRecord(t *testing.T) models.FetchRecord {
	t.Helper()

	pos, err := astro.NewPosition(9.81625, 0.88806)
	if err != nil {
		t.Fatalf("Failed to build position: %v", err)
	}

	record := models.NewFetchRecord(
		models.NewResolvedObject("HCG 7", "CGG", pos),
		models.DefaultCutoutRequest(),
	)
	record.FetchedAt = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	record.Endpoint = "https://skyserver.sdss.org/dr16/SkyServerWS/ImgCutout/getjpeg"
	return record
}

func TestBuildMarkdown(t *testing.T) {
	gen := NewGenerator()

	markdown, err := gen.BuildMarkdown(testRecord(t))
	if err != nil {
		t.Fatalf("BuildMarkdown failed: %v", err)
	}

	// All three representations of the same position must appear
	expected := []string{
		"# HCG 7",
		"9.81625 +0.88806",
		"0.654417h +0.888060d",
		"00h39m15.90s +00d53m17.0s",
		"CGG",
		"0.703125 arcsec/px",
		`<img src="cutout.jpg"`,
	}
	for _, want := range expected {
		if !strings.Contains(markdown, want) {
			t.Errorf("Markdown missing %q:\n%s", want, markdown)
		}
	}
}

func TestBuildMarkdownInvalidPosition(t *testing.T) {
	gen := NewGenerator()

	record := testRecord(t)
	record.Object.Dec = 120 // corrupted record

	if _, err := gen.BuildMarkdown(record); err == nil {
		t.Error("Expected error for out of range declination")
	}
}

func TestBuildReportHTML(t *testing.T) {
	gen := NewGenerator()

	html, err := gen.BuildReportHTML(testRecord(t))
	if err != nil {
		t.Fatalf("BuildReportHTML failed: %v", err)
	}

	if !strings.Contains(html, "<!DOCTYPE html>") {
		t.Error("Report should be a complete HTML document")
	}
	// The GFM table extension must render the representation table
	if !strings.Contains(html, "<table>") {
		t.Error("Report should contain the representation table")
	}
	if !strings.Contains(html, `<img src="cutout.jpg"`) {
		t.Error("Report should embed the cutout image")
	}
	if !strings.Contains(html, "HCG 7") {
		t.Error("Report should name the object")
	}
}

func TestMarkdownToHTML(t *testing.T) {
	gen := NewGenerator()

	html, err := gen.MarkdownToHTML("# Title\n\nSome **bold** text")
	if err != nil {
		t.Fatalf("MarkdownToHTML failed: %v", err)
	}

	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("Unexpected HTML output: %s", html)
	}
}

func TestBuildGalleryHTML(t *testing.T) {
	gen := NewGenerator()

	paths := []string{
		"2026/03/14/Cutout-2026-03-14-15-09-26/index.html",
		"2026/03/13/Cutout-2026-03-13-10-00-00/index.html",
	}

	html, err := gen.BuildGalleryHTML(paths)
	if err != nil {
		t.Fatalf("BuildGalleryHTML failed: %v", err)
	}

	for _, p := range paths {
		if !strings.Contains(html, "/files/"+p) {
			t.Errorf("Gallery missing link to %s", p)
		}
	}
	// Labels drop the report file name
	if !strings.Contains(html, "Cutout-2026-03-14-15-09-26") {
		t.Error("Gallery should label entries with the folder name")
	}
}

func TestBuildGalleryHTMLEmpty(t *testing.T) {
	gen := NewGenerator()

	html, err := gen.BuildGalleryHTML(nil)
	if err != nil {
		t.Fatalf("BuildGalleryHTML failed: %v", err)
	}

	if !strings.Contains(html, "No cutouts stored yet") {
		t.Error("Empty gallery should explain that nothing is stored")
	}
}
