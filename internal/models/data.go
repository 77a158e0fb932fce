package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"skycutout/internal/astro"
)

// ResolvedObject couples an object name with the position the name
// resolution service returned for it.
type ResolvedObject struct {
	Name       string  `json:"name"`
	ObjectType string  `json:"object_type,omitempty"` // e.g. CGG (compact galaxy group)
	RA         float64 `json:"ra_deg"`                // decimal degrees, [0, 360)
	Dec        float64 `json:"dec_deg"`               // decimal degrees, [-90, +90]
	Frame      string  `json:"frame"`                 // reference frame tag, ICRS
}

// NewResolvedObject records a resolved position under the given name.
func NewResolvedObject(name, objectType string, pos astro.Position) ResolvedObject {
	return ResolvedObject{
		Name:       name,
		ObjectType: objectType,
		RA:         pos.RA(),
		Dec:        pos.Dec(),
		Frame:      pos.Frame(),
	}
}

// Position rebuilds the validated position value from the stored degrees.
func (o ResolvedObject) Position() (astro.Position, error) {
	return astro.NewPositionInFrame(o.RA, o.Dec, o.Frame)
}

// CutoutRequest holds the geometry of one requested sky image.
type CutoutRequest struct {
	FieldOfView float64 `json:"field_of_view_arcmin"` // angular width covered by the image
	Width       int     `json:"width_px"`             // pixel columns
	Height      int     `json:"height_px"`            // pixel rows
}

// DefaultFieldOfView and friends reproduce the classic survey cutout
// geometry: a 12 arcminute field rendered at 1024x1024 pixels.
const (
	DefaultFieldOfView = 12.0
	DefaultWidth       = 1024
	DefaultHeight      = 1024
)

// NewCutoutRequest validates the requested geometry.
func NewCutoutRequest(fieldOfViewArcmin float64, width, height int) (CutoutRequest, error) {
	if fieldOfViewArcmin <= 0 {
		return CutoutRequest{}, fmt.Errorf("field of view must be positive, got %v arcmin", fieldOfViewArcmin)
	}
	if width <= 0 || height <= 0 {
		return CutoutRequest{}, fmt.Errorf("pixel dimensions must be positive, got %dx%d", width, height)
	}
	return CutoutRequest{FieldOfView: fieldOfViewArcmin, Width: width, Height: height}, nil
}

// DefaultCutoutRequest returns the 12 arcmin / 1024 px request.
func DefaultCutoutRequest() CutoutRequest {
	return CutoutRequest{FieldOfView: DefaultFieldOfView, Width: DefaultWidth, Height: DefaultHeight}
}

// FieldOfViewArcsec returns the field of view converted to arcseconds.
func (r CutoutRequest) FieldOfViewArcsec() float64 {
	return r.FieldOfView * 60
}

// Scale derives the image scale in arcseconds per pixel: the field of
// view in arcseconds divided by the pixel width. A 12 arcmin field at
// 1024 px is 0.703125 arcsec/px.
func (r CutoutRequest) Scale() float64 {
	return r.FieldOfViewArcsec() / float64(r.Width)
}

// FetchRecord documents one completed cutout fetch. It is stored as
// metadata.json next to the image it describes.
type FetchRecord struct {
	ID         string         `json:"id"`
	Object     ResolvedObject `json:"object"`
	Request    CutoutRequest  `json:"request"`
	Scale      float64        `json:"scale_arcsec_per_px"`
	Endpoint   string         `json:"endpoint"`
	ImageFile  string         `json:"image_file"`
	ReportFile string         `json:"report_file,omitempty"`
	ImageBytes int            `json:"image_bytes"`
	FetchedAt  time.Time      `json:"fetched_at"`
	DurationMS int64          `json:"duration_ms"`
}

// NewFetchRecord assigns a fresh ID and stamps the fetch time.
func NewFetchRecord(object ResolvedObject, request CutoutRequest) FetchRecord {
	return FetchRecord{
		ID:        uuid.New().String(),
		Object:    object,
		Request:   request,
		Scale:     request.Scale(),
		FetchedAt: time.Now().UTC(),
	}
}
