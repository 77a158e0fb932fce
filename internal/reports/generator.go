package reports

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"skycutout/internal/config"
	"skycutout/internal/models"
)

// File names inside a stored cutout folder
const (
	ImageFileName    = "cutout.jpg"
	MetadataFileName = "metadata.json"
	ReportFileName   = "index.html"
)

// Generator renders the per-fetch report page. The report body is
// composed as markdown, converted with goldmark and wrapped into a
// standalone HTML page.
type Generator struct {
	goldmark goldmark.Markdown
}

// NewGenerator creates a report generator
func NewGenerator() *Generator {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithUnsafe(), // the image tag is raw HTML in the markdown
		),
	)

	return &Generator{goldmark: md}
}

// BuildMarkdown composes the markdown summary of one completed fetch:
// the object, every position representation, and the request geometry.
func (g *Generator) BuildMarkdown(record models.FetchRecord) (string, error) {
	pos, err := record.Object.Position()
	if err != nil {
		return "", fmt.Errorf("record carries an invalid position: %w", err)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", record.Object.Name)
	fmt.Fprintf(&b, "Cutout fetched %s\n\n", record.FetchedAt.UTC().Format("2006-01-02 15:04:05 UTC"))

	fmt.Fprintf(&b, "## Position (%s)\n\n", pos.Frame())
	b.WriteString("| Representation | Value |\n")
	b.WriteString("|---|---|\n")
	fmt.Fprintf(&b, "| Decimal degrees | `%s` |\n", pos.DecimalString())
	fmt.Fprintf(&b, "| Hour angle | `%s` |\n", pos.HourString())
	fmt.Fprintf(&b, "| Sexagesimal | `%s` |\n", pos.SexagesimalString())
	if record.Object.ObjectType != "" {
		fmt.Fprintf(&b, "\nObject type: **%s**\n", record.Object.ObjectType)
	}

	b.WriteString("\n## Cutout\n\n")
	fmt.Fprintf(&b, "Field of view %.1f arcmin at %dx%d px, %.6f arcsec/px.\n\n",
		record.Request.FieldOfView, record.Request.Width, record.Request.Height, record.Scale)
	if record.Endpoint != "" {
		fmt.Fprintf(&b, "Source: %s\n\n", record.Endpoint)
	}
	fmt.Fprintf(&b, "<img src=\"%s\" alt=\"%s cutout\" class=\"cutout\"/>\n",
		ImageFileName, record.Object.Name)

	return b.String(), nil
}

// MarkdownToHTML converts markdown to an HTML fragment using goldmark
func (g *Generator) MarkdownToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := g.goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// BuildReportHTML renders the complete report page for one fetch
func (g *Generator) BuildReportHTML(record models.FetchRecord) (string, error) {
	markdown, err := g.BuildMarkdown(record)
	if err != nil {
		return "", err
	}

	content, err := g.MarkdownToHTML(markdown)
	if err != nil {
		return "", err
	}

	data := pageData{
		Title:       record.Object.Name,
		Content:     template.HTML(content),
		GeneratedAt: record.FetchedAt.UTC().Format(time.RFC3339),
		Version:     config.GetVersion(),
	}
	return renderPage(reportTemplate, data)
}

// BuildGalleryHTML renders a plain listing of stored cutout report pages,
// newest first, as served by the /gallery route. Paths are storage paths
// of index.html files; links go through the file proxy.
func (g *Generator) BuildGalleryHTML(cutoutPaths []string) (string, error) {
	items := make([]galleryItem, 0, len(cutoutPaths))
	for _, p := range cutoutPaths {
		items = append(items, galleryItem{
			Label: strings.TrimSuffix(p, "/"+ReportFileName),
			URL:   "/files/" + p,
		})
	}

	data := pageData{
		Title:       "Cutout gallery",
		Gallery:     items,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Version:     config.GetVersion(),
	}
	return renderPage(galleryTemplate, data)
}

type galleryItem struct {
	Label string
	URL   string
}

type pageData struct {
	Title       string
	Content     template.HTML
	Gallery     []galleryItem
	GeneratedAt string
	Version     string
}

func renderPage(tmpl string, data pageData) (string, error) {
	t, err := template.New("page").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse page template: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return buf.String(), nil
}
