package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"skycutout/internal/config"
	"skycutout/internal/logger"
	"skycutout/internal/models"
	"skycutout/internal/resolver"
	"skycutout/internal/storage"
)

// HandleRoot redirects to the most recent cutout report page, or shows
// a landing page when nothing has been fetched yet
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	latest, err := s.Storage.LatestCutout(r.Context())
	if err != nil {
		logger.Debugf("No cutouts available yet: %v", err)
		s.serveLandingPage(w)
		return
	}

	w.Header().Set("Location", "/files/"+latest)
	w.WriteHeader(http.StatusFound)
}

// serveLandingPage shows the endpoint overview when no cutouts exist
func (s *Server) serveLandingPage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
    <title>Sky Cutout Service</title>
    <style>
        body { font-family: Georgia, serif; margin: 40px; background: #0b0e1a; color: #d8dce8; }
        .container { max-width: 700px; margin: 0 auto; background: #141a30; padding: 30px; border-radius: 10px; }
        h1 { color: #f0f2f8; text-align: center; }
        .endpoint { margin: 10px 0; }
        code { background: #0b0e1a; padding: 2px 6px; border-radius: 3px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Sky Cutout Service</h1>
        <p>No cutouts have been fetched yet.</p>
        <div class="endpoint"><code>GET /resolve?name=HCG 7</code> - resolve an object name to its position</div>
        <div class="endpoint"><code>GET /cutout?name=HCG 7&amp;fov=12&amp;width=1024&amp;height=1024</code> - fetch and store a cutout</div>
        <div class="endpoint"><code>GET /cutout?ra=9.81625&amp;dec=0.88806</code> - fetch by literal coordinates</div>
        <div class="endpoint"><code>GET /cutouts?limit=10</code> - list stored cutouts</div>
        <div class="endpoint"><code>GET /gallery</code> - browse stored cutouts</div>
        <div class="endpoint"><code>GET /health</code>, <code>GET /version</code>, <code>GET /metrics</code></div>
    </div>
</body>
</html>`)
}

// HandleHealth provides the health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks": map[string]string{
			"storage": "ok",
			"config":  "ok",
		},
	}
	writeJSON(w, http.StatusOK, health)
}

// HandleVersion reports the running service version
func (s *Server) HandleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version":     config.GetVersion(),
		"environment": s.Config.Environment,
	})
}

// HandleResolve resolves an object name and returns the position in all
// three representations, without fetching an image
func (s *Server) HandleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		http.Error(w, "Query parameter 'name' is required", http.StatusBadRequest)
		return
	}

	obj, err := s.Resolver.Resolve(r.Context(), name)
	if err != nil {
		logger.Warnf("Resolution failed for %q: %v", name, err)
		status := http.StatusBadGateway
		if errors.Is(err, resolver.ErrNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, "Name resolution failed: "+err.Error(), status)
		return
	}

	payload, err := positionPayload(obj)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// HandleCutout runs the full flow: resolve (or take literal
// coordinates), fetch the cutout, store image, metadata and report page
func (s *Server) HandleCutout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Only one fetch at a time, reject concurrent requests immediately
	if !s.fetchMutex.TryLock() {
		logger.Warnf("Cutout fetch already in progress, rejecting request")
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":  "Cutout fetch already in progress",
			"status": "conflict",
		})
		return
	}
	defer s.fetchMutex.Unlock()

	ctx := r.Context()
	started := time.Now()

	obj, err := s.objectFromRequest(r)
	if err != nil {
		if errors.Is(err, resolver.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req, err := geometryFromRequest(r, s.Config)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pos, err := obj.Position()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	image, err := s.Cutout.Fetch(ctx, pos, req)
	if err != nil {
		logger.Errorf("Cutout fetch failed: %v", err)
		http.Error(w, "Cutout fetch failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	record := models.NewFetchRecord(obj, req)
	record.Endpoint = s.Cutout.URL()
	record.DurationMS = time.Since(started).Milliseconds()

	record, err = s.Orchestrator.StoreFetch(ctx, record, image)
	if err != nil {
		logger.Errorf("Failed to store fetch: %v", err)
		http.Error(w, "Failed to store fetch: "+err.Error(), http.StatusInternalServerError)
		return
	}

	object, err := positionPayload(obj)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":              "success",
		"id":                  record.ID,
		"object":              object,
		"scale_arcsec_per_px": record.Scale,
		"image_bytes":         record.ImageBytes,
		"image_url":           "/files/" + record.ImageFile,
		"report_url":          "/files/" + record.ReportFile,
		"duration_ms":         time.Since(started).Milliseconds(),
	})
}

// HandleListCutouts lists recently stored cutouts
func (s *Server) HandleListCutouts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := parseLimit(r.URL.Query().Get("limit"))

	cutouts, err := s.Storage.ListCutouts(r.Context(), limit)
	if err != nil {
		logger.Errorf("Failed to list cutouts: %v", err)
		http.Error(w, "Failed to list cutouts: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cutouts":   cutouts,
		"count":     len(cutouts),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleGallery renders the stored cutouts as a browsable HTML page
func (s *Server) HandleGallery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cutouts, err := s.Storage.ListCutouts(r.Context(), parseLimit(r.URL.Query().Get("limit")))
	if err != nil {
		logger.Errorf("Failed to list cutouts: %v", err)
		http.Error(w, "Failed to list cutouts: "+err.Error(), http.StatusInternalServerError)
		return
	}

	html, err := s.Generator.BuildGalleryHTML(cutouts)
	if err != nil {
		http.Error(w, "Failed to build gallery: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, html)
}

// HandleFileProxy serves stored files through the storage client, so it
// works the same for local, GCS and S3 backends
func (s *Server) HandleFileProxy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filePath := strings.TrimPrefix(r.URL.Path, "/files/")
	if filePath == "" {
		http.Error(w, "File path required", http.StatusBadRequest)
		return
	}

	// Prevent directory traversal
	if strings.Contains(filePath, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	fileData, err := s.Storage.GetFile(r.Context(), filePath)
	if err != nil {
		logger.Debugf("Failed to get file %s: %v", filePath, err)
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", storage.GetContentType(filePath))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(fileData)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
