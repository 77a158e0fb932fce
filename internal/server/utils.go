package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"skycutout/internal/astro"
	"skycutout/internal/config"
	"skycutout/internal/models"
)

// objectFromRequest determines the target of a cutout request. Literal
// ra/dec query parameters take precedence over a name, which is the
// documented fallback path when resolution is unavailable. Coordinates
// are accepted as decimal degrees or sexagesimal text.
func (s *Server) objectFromRequest(r *http.Request) (models.ResolvedObject, error) {
	q := r.URL.Query()
	name := strings.TrimSpace(q.Get("name"))
	raStr := strings.TrimSpace(q.Get("ra"))
	decStr := strings.TrimSpace(q.Get("dec"))

	switch {
	case raStr != "" && decStr != "":
		ra, err := astro.ParseRA(raStr)
		if err != nil {
			return models.ResolvedObject{}, fmt.Errorf("invalid 'ra' parameter: %w", err)
		}
		dec, err := astro.ParseDec(decStr)
		if err != nil {
			return models.ResolvedObject{}, fmt.Errorf("invalid 'dec' parameter: %w", err)
		}
		pos, err := astro.NewPosition(ra, dec)
		if err != nil {
			return models.ResolvedObject{}, err
		}
		if name == "" {
			name = pos.SexagesimalString()
		}
		return models.NewResolvedObject(name, "", pos), nil

	case raStr != "" || decStr != "":
		return models.ResolvedObject{}, fmt.Errorf("parameters 'ra' and 'dec' must be supplied together")

	case name != "":
		return s.Resolver.Resolve(r.Context(), name)

	default:
		return models.ResolvedObject{}, fmt.Errorf("either 'name' or 'ra' and 'dec' query parameters are required")
	}
}

// geometryFromRequest builds the cutout geometry, falling back to the
// configured defaults for anything not supplied
func geometryFromRequest(r *http.Request, cfg *config.Config) (models.CutoutRequest, error) {
	q := r.URL.Query()

	fov := cfg.FieldOfViewArcmin
	width := cfg.CutoutWidth
	height := cfg.CutoutHeight

	if v := q.Get("fov"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return models.CutoutRequest{}, fmt.Errorf("invalid 'fov' parameter: %q", v)
		}
		fov = parsed
	}
	if v := q.Get("width"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return models.CutoutRequest{}, fmt.Errorf("invalid 'width' parameter: %q", v)
		}
		width = parsed
	}
	if v := q.Get("height"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return models.CutoutRequest{}, fmt.Errorf("invalid 'height' parameter: %q", v)
		}
		height = parsed
	}

	return models.NewCutoutRequest(fov, width, height)
}

// positionPayload builds the JSON payload for a resolved object with
// all three position representations
func positionPayload(obj models.ResolvedObject) (map[string]interface{}, error) {
	pos, err := obj.Position()
	if err != nil {
		return nil, fmt.Errorf("invalid position: %w", err)
	}

	return map[string]interface{}{
		"name":        obj.Name,
		"object_type": obj.ObjectType,
		"frame":       pos.Frame(),
		"ra_deg":      pos.RA(),
		"dec_deg":     pos.Dec(),
		"ra_hours":    pos.RAHours(),
		"representations": map[string]string{
			"decimal":     pos.DecimalString(),
			"hour_angle":  pos.HourString(),
			"sexagesimal": pos.SexagesimalString(),
		},
	}, nil
}

// parseLimit parses a listing limit, defaulting to 10 and capping at 100
func parseLimit(raw string) int {
	limit := 10
	if raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > 100 {
		limit = 100
	}
	return limit
}
