package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skycutout/internal/astro"
	"skycutout/internal/config"
	"skycutout/internal/mocks"
	"skycutout/internal/models"
)

func newTestServer(t *testing.T, sky *mocks.SkyService) *Server {
	t.Helper()

	cfg := &config.Config{
		Port:              "0",
		SesameMainURL:     sky.ResolverURL(),
		CutoutURL:         sky.CutoutURL(),
		FieldOfViewArcmin: 12,
		CutoutWidth:       1024,
		CutoutHeight:      1024,
		HTTPTimeoutSec:    5,
		StorageMode:       "local",
		LocalCutoutsDir:   t.TempDir(),
		Environment:       "test",
	}

	srv, err := NewServer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv
}

func doRequest(t *testing.T, srv *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	srv.SetupRoutes().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestHandleResolve(t *testing.T) {
	sky := mocks.NewSkyService()
	defer sky.Close()
	srv := newTestServer(t, sky)

	rec := doRequest(t, srv, http.MethodGet, "/resolve?name=HCG+7")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	payload := decodeJSON(t, rec)
	assert.Equal(t, "HCG 7", payload["name"])
	assert.Equal(t, "CGG", payload["object_type"])
	assert.Equal(t, "ICRS", payload["frame"])
	assert.InDelta(t, 9.81625, payload["ra_deg"], 1e-9)
	assert.InDelta(t, 0.88806, payload["dec_deg"], 1e-9)

	reps := payload["representations"].(map[string]interface{})
	assert.Equal(t, "9.81625 +0.88806", reps["decimal"])
	assert.Equal(t, "00h39m15.90s +00d53m17.0s", reps["sexagesimal"])
}

func TestHandleResolveUnknownName(t *testing.T) {
	sky := mocks.NewSkyService()
	defer sky.Close()
	srv := newTestServer(t, sky)

	rec := doRequest(t, srv, http.MethodGet, "/resolve?name=Nonexistent+Object")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleResolveMissingName(t *testing.T) {
	sky := mocks.NewSkyService()
	defer sky.Close()
	srv := newTestServer(t, sky)

	rec := doRequest(t, srv, http.MethodGet, "/resolve")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCutout(t *testing.T) {
	sky := mocks.NewSkyService()
	defer sky.Close()
	srv := newTestServer(t, sky)

	rec := doRequest(t, srv, http.MethodGet, "/cutout?name=HCG+7")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	payload := decodeJSON(t, rec)
	assert.Equal(t, "success", payload["status"])
	assert.NotEmpty(t, payload["id"])
	assert.InDelta(t, 0.703125, payload["scale_arcsec_per_px"], 1e-9)

	// The wire query must carry exactly {ra, dec, width, height, scale}
	query := sky.LastCutoutQuery()
	require.NotNil(t, query)
	assert.Equal(t, "9.81625", query.Get("ra"))
	assert.Equal(t, "0.88806", query.Get("dec"))
	assert.Equal(t, "1024", query.Get("width"))
	assert.Equal(t, "1024", query.Get("height"))
	assert.Equal(t, "0.703125", query.Get("scale"))

	// All three artifacts are retrievable through the file proxy
	ctx := context.Background()
	for _, key := range []string{"image_url", "report_url"} {
		path := strings.TrimPrefix(payload[key].(string), "/files/")
		exists, err := srv.Storage.FileExists(ctx, path)
		require.NoError(t, err)
		assert.True(t, exists, "expected %s to be stored", path)
	}

	fileRec := doRequest(t, srv, http.MethodGet, payload["report_url"].(string))
	require.Equal(t, http.StatusOK, fileRec.Code)
	assert.Equal(t, "text/html", fileRec.Header().Get("Content-Type"))
	assert.Contains(t, fileRec.Body.String(), "HCG 7")
}

func TestHandleCutoutLiteralCoordinates(t *testing.T) {
	sky := mocks.NewSkyService()
	defer sky.Close()
	srv := newTestServer(t, sky)

	// Literal coordinates take precedence, the resolver must not be hit
	rec := doRequest(t, srv, http.MethodGet, "/cutout?name=HCG+7&ra=11.88806&dec=-25.28822")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 0, sky.ResolveCalls())

	query := sky.LastCutoutQuery()
	require.NotNil(t, query)
	assert.Equal(t, "11.88806", query.Get("ra"))
	assert.Equal(t, "-25.28822", query.Get("dec"))
}

func TestHandleCutoutSexagesimalCoordinates(t *testing.T) {
	sky := mocks.NewSkyService()
	defer sky.Close()
	srv := newTestServer(t, sky)

	rec := doRequest(t, srv, http.MethodGet, "/cutout?ra=00h39m15.90s&dec=%2B00d53m17.0s")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	query := sky.LastCutoutQuery()
	require.NotNil(t, query)

	ra, err := astro.ParseRA(query.Get("ra"))
	require.NoError(t, err)
	assert.InDelta(t, 9.81625, ra, 1e-4)
}

func TestHandleCutoutRejectsHalfLiteral(t *testing.T) {
	sky := mocks.NewSkyService()
	defer sky.Close()
	srv := newTestServer(t, sky)

	rec := doRequest(t, srv, http.MethodGet, "/cutout?ra=9.81625")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCutoutRejectsBadDeclination(t *testing.T) {
	sky := mocks.NewSkyService()
	defer sky.Close()
	srv := newTestServer(t, sky)

	rec := doRequest(t, srv, http.MethodGet, "/cutout?ra=10&dec=95")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "out of range")
}

func TestHandleCutoutCustomGeometry(t *testing.T) {
	sky := mocks.NewSkyService()
	defer sky.Close()
	srv := newTestServer(t, sky)

	rec := doRequest(t, srv, http.MethodGet, "/cutout?name=M+31&fov=6&width=512&height=256")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// 6 arcmin = 360 arcsec over 512 px
	payload := decodeJSON(t, rec)
	assert.InDelta(t, 0.703125, payload["scale_arcsec_per_px"], 1e-9)

	query := sky.LastCutoutQuery()
	assert.Equal(t, "512", query.Get("width"))
	assert.Equal(t, "256", query.Get("height"))
}

func TestHandleCutoutSingleFlight(t *testing.T) {
	sky := mocks.NewSkyService()
	defer sky.Close()
	srv := newTestServer(t, sky)

	srv.fetchMutex.Lock()
	defer srv.fetchMutex.Unlock()

	rec := doRequest(t, srv, http.MethodGet, "/cutout?name=HCG+7")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleListCutouts(t *testing.T) {
	sky := mocks.NewSkyService()
	defer sky.Close()
	srv := newTestServer(t, sky)

	ctx := context.Background()
	pos, err := astro.NewPosition(9.81625, 0.88806)
	require.NoError(t, err)

	// Two fetches a day apart, stored out of order
	for _, fetchedAt := range []time.Time{
		time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC),
		time.Date(2026, 3, 13, 10, 0, 0, 0, time.UTC),
	} {
		record := models.NewFetchRecord(
			models.NewResolvedObject("HCG 7", "CGG", pos),
			models.DefaultCutoutRequest(),
		)
		record.FetchedAt = fetchedAt
		_, err := srv.Orchestrator.StoreFetch(ctx, record, mocks.TinyJPEG)
		require.NoError(t, err)
	}

	rec := doRequest(t, srv, http.MethodGet, "/cutouts")
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeJSON(t, rec)
	assert.EqualValues(t, 2, payload["count"])

	cutouts := payload["cutouts"].([]interface{})
	require.Len(t, cutouts, 2)
	assert.Contains(t, cutouts[0], "2026-03-14", "newest cutout must come first")
	assert.Contains(t, cutouts[1], "2026-03-13")

	// Limit caps the listing
	rec = doRequest(t, srv, http.MethodGet, "/cutouts?limit=1")
	payload = decodeJSON(t, rec)
	assert.EqualValues(t, 1, payload["count"])
}

func TestHandleRootRedirectsToLatest(t *testing.T) {
	sky := mocks.NewSkyService()
	defer sky.Close()
	srv := newTestServer(t, sky)

	// Empty storage shows the landing page
	rec := doRequest(t, srv, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sky Cutout Service")

	rec = doRequest(t, srv, http.MethodGet, "/cutout?name=NGC+253")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, srv, http.MethodGet, "/")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/files/"))
	assert.True(t, strings.HasSuffix(rec.Header().Get("Location"), "index.html"))
}

func TestHandleGalleryEmpty(t *testing.T) {
	sky := mocks.NewSkyService()
	defer sky.Close()
	srv := newTestServer(t, sky)

	rec := doRequest(t, srv, http.MethodGet, "/gallery")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No cutouts stored yet")
}

func TestHandleFileProxyRejectsTraversal(t *testing.T) {
	sky := mocks.NewSkyService()
	defer sky.Close()
	srv := newTestServer(t, sky)

	// Call the handler directly, the mux would clean the path first
	req := httptest.NewRequest(http.MethodGet, "/files/x", nil)
	req.URL.Path = "/files/../secret"
	rec := httptest.NewRecorder()
	srv.HandleFileProxy(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	sky := mocks.NewSkyService()
	defer sky.Close()
	srv := newTestServer(t, sky)

	rec := doRequest(t, srv, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeJSON(t, rec)["status"])
}

func TestHandleVersion(t *testing.T) {
	sky := mocks.NewSkyService()
	defer sky.Close()
	srv := newTestServer(t, sky)

	rec := doRequest(t, srv, http.MethodGet, "/version")
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeJSON(t, rec)
	assert.NotEmpty(t, payload["version"])
	assert.Equal(t, "test", payload["environment"])
}

func TestMethodNotAllowed(t *testing.T) {
	sky := mocks.NewSkyService()
	defer sky.Close()
	srv := newTestServer(t, sky)

	for _, target := range []string{"/resolve?name=HCG+7", "/cutout?name=HCG+7", "/cutouts", "/health"} {
		rec := doRequest(t, srv, http.MethodPost, target)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, "POST %s", target)
	}
}
