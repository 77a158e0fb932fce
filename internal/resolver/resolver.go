package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"skycutout/internal/astro"
	"skycutout/internal/logger"
	"skycutout/internal/metrics"
	"skycutout/internal/models"
)

// Default Sesame endpoints, used when no URLs are configured
const (
	DefaultMainURL   = "https://cds.unistra.fr/cgi-bin/nph-sesame"
	DefaultMirrorURL = "https://vizier.cfa.harvard.edu/viz-bin/nph-sesame"
)

// ErrNotFound reports that the service answered but knows no object by
// the requested name. Callers can fall back to literal coordinates.
var ErrNotFound = errors.New("object name not resolved")

// Client resolves object names to celestial positions by querying
// Sesame compatible plain text endpoints. Endpoints are tried in order,
// once each; there is no retry within an endpoint.
type Client struct {
	client *resty.Client
	urls   []string
}

// New creates a resolver client for the given endpoints. An empty list
// falls back to the public Sesame service and its mirror.
func New(urls []string, timeout time.Duration) *Client {
	client := resty.New()
	client.SetTimeout(timeout)

	if len(urls) == 0 {
		urls = []string{DefaultMainURL, DefaultMirrorURL}
	}

	return &Client{
		client: client,
		urls:   urls,
	}
}

// Resolve looks up an object name and returns its ICRS position together
// with the object type the service reports. Resolving the same name twice
// yields the same position; the lookup has no side effects.
func (c *Client) Resolve(ctx context.Context, name string) (models.ResolvedObject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.ResolvedObject{}, fmt.Errorf("object name is empty")
	}

	started := time.Now()

	var lastErr error
	for _, base := range c.urls {
		obj, err := c.resolveAt(ctx, base, name)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				metrics.ResolveFailed()
				return models.ResolvedObject{}, ctx.Err()
			}
			logger.Warnf("Resolver %s failed for %q: %v", base, name, err)
			continue
		}
		metrics.ResolveSucceeded(time.Since(started))
		logger.Infof("Resolved %q to RA=%.5f Dec=%+.5f (%s)", name, obj.RA, obj.Dec, obj.Frame)
		return obj, nil
	}

	metrics.ResolveFailed()
	return models.ResolvedObject{}, fmt.Errorf("all resolver endpoints failed for %q: %w", name, lastErr)
}

// resolveAt queries one endpoint. The name travels as the raw query
// string after the database selector path, the way Sesame expects it.
func (c *Client) resolveAt(ctx context.Context, base, name string) (models.ResolvedObject, error) {
	requestURL := strings.TrimRight(base, "/") + "/A?" + url.QueryEscape(name)

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/plain").
		Get(requestURL)

	if err != nil {
		return models.ResolvedObject{}, fmt.Errorf("failed to query resolver: %w", err)
	}

	if resp.StatusCode() != 200 {
		return models.ResolvedObject{}, fmt.Errorf("resolver returned status %d", resp.StatusCode())
	}

	reply, err := parseReply(string(resp.Body()))
	if err != nil {
		return models.ResolvedObject{}, err
	}

	pos, err := astro.NewPosition(reply.RA, reply.Dec)
	if err != nil {
		return models.ResolvedObject{}, fmt.Errorf("resolver returned an invalid position: %w", err)
	}

	return models.NewResolvedObject(name, reply.ObjectType, pos), nil
}
