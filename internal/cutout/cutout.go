package cutout

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"skycutout/internal/astro"
	"skycutout/internal/logger"
	"skycutout/internal/metrics"
	"skycutout/internal/models"
)

// DefaultURL is the public SkyServer JPEG cutout endpoint.
const DefaultURL = "https://skyserver.sdss.org/dr16/SkyServerWS/ImgCutout/getjpeg"

// Client fetches sky survey cutout images over HTTP. One blocking GET
// per fetch, no retries; a failed fetch is reported to the caller, whose
// documented recovery is reusing a previously saved image.
type Client struct {
	client *resty.Client
	url    string
}

// New creates a cutout client for the given endpoint. An empty URL falls
// back to the public SkyServer endpoint.
func New(endpointURL string, timeout time.Duration) *Client {
	client := resty.New()
	client.SetTimeout(timeout)

	if endpointURL == "" {
		endpointURL = DefaultURL
	}

	return &Client{
		client: client,
		url:    endpointURL,
	}
}

// URL returns the endpoint this client fetches from.
func (c *Client) URL() string { return c.url }

// Fetch retrieves the cutout image centered on pos with the geometry of
// req. The endpoint takes the center in decimal degrees, the pixel
// dimensions, and the scale in arcseconds per pixel derived from the
// field of view. The returned bytes are the raw image payload; nothing
// beyond the content type is inspected.
func (c *Client) Fetch(ctx context.Context, pos astro.Position, req models.CutoutRequest) ([]byte, error) {
	if _, err := models.NewCutoutRequest(req.FieldOfView, req.Width, req.Height); err != nil {
		return nil, fmt.Errorf("invalid cutout request: %w", err)
	}

	started := time.Now()

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ra":     strconv.FormatFloat(pos.RA(), 'f', -1, 64),
			"dec":    strconv.FormatFloat(pos.Dec(), 'f', -1, 64),
			"width":  strconv.Itoa(req.Width),
			"height": strconv.Itoa(req.Height),
			"scale":  strconv.FormatFloat(req.Scale(), 'f', -1, 64),
		}).
		Get(c.url)

	if err != nil {
		metrics.CutoutFailed()
		return nil, fmt.Errorf("failed to fetch cutout: %w", err)
	}

	if resp.StatusCode() != 200 {
		metrics.CutoutFailed()
		return nil, fmt.Errorf("cutout endpoint returned status %d", resp.StatusCode())
	}

	body := resp.Body()
	contentType := http.DetectContentType(body)
	if !strings.Contains(contentType, "image/jpeg") && !strings.Contains(contentType, "image/png") {
		metrics.CutoutFailed()
		return nil, fmt.Errorf("cutout endpoint returned %s, not an image", contentType)
	}

	metrics.CutoutSucceeded(time.Since(started), len(body))
	logger.Infof("Fetched %d byte cutout at RA=%.5f Dec=%+.5f (%dx%d px, %.6f arcsec/px)",
		len(body), pos.RA(), pos.Dec(), req.Width, req.Height, req.Scale())

	return body, nil
}
