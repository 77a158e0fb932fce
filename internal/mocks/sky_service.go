package mocks

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
)

// TinyJPEG is a minimal JPEG payload: enough of a JFIF header for
// http.DetectContentType to sniff image/jpeg, followed by filler.
var TinyJPEG = []byte{
	0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00,
	0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00,
	0xFF, 0xD9,
}

// CatalogEntry is one object the mock resolver knows about
type CatalogEntry struct {
	RA         float64
	Dec        float64
	ObjectType string
}

// SkyService stands in for both remote dependencies in tests: the
// Sesame name resolver and the SkyServer image cutout endpoint. It
// records the query of the last cutout request so tests can assert the
// exact parameters sent over the wire.
type SkyService struct {
	server  *httptest.Server
	catalog map[string]CatalogEntry

	mu           sync.Mutex
	lastCutout   url.Values
	resolveCalls int
}

// NewSkyService starts a mock service preloaded with a small catalog
func NewSkyService() *SkyService {
	s := &SkyService{
		catalog: map[string]CatalogEntry{
			"HCG 7":   {RA: 9.81625, Dec: 0.88806, ObjectType: "CGG"},
			"M 31":    {RA: 10.68471, Dec: 41.26875, ObjectType: "G"},
			"NGC 253": {RA: 11.88806, Dec: -25.28822, ObjectType: "G"},
		},
	}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Close shuts the mock service down
func (s *SkyService) Close() {
	s.server.Close()
}

// ResolverURL returns the base URL to configure as a Sesame endpoint
func (s *SkyService) ResolverURL() string {
	return s.server.URL + "/nph-sesame"
}

// CutoutURL returns the URL to configure as the cutout endpoint
func (s *SkyService) CutoutURL() string {
	return s.server.URL + "/getjpeg"
}

// LastCutoutQuery returns the query parameters of the most recent
// cutout request, or nil when none arrived yet
func (s *SkyService) LastCutoutQuery() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCutout
}

// ResolveCalls returns how many resolution requests arrived
func (s *SkyService) ResolveCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveCalls
}

// Add puts an object into the mock catalog
func (s *SkyService) Add(name string, entry CatalogEntry) {
	s.catalog[name] = entry
}

func (s *SkyService) handle(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.Contains(r.URL.Path, "nph-sesame"):
		s.handleResolve(w, r)
	case strings.Contains(r.URL.Path, "getjpeg"):
		s.handleCutout(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleResolve answers in the Sesame plain text format: a %J line with
// the position in decimal degrees and a %C.0 line with the object type.
func (s *SkyService) handleResolve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.resolveCalls++
	s.mu.Unlock()

	name, err := url.QueryUnescape(r.URL.RawQuery)
	if err != nil {
		name = r.URL.RawQuery
	}

	w.Header().Set("Content-Type", "text/plain")
	entry, ok := s.catalog[name]
	if !ok {
		fmt.Fprintf(w, "# %s\n#!SIMBAD: Identifier not found in the database\n", name)
		return
	}

	fmt.Fprintf(w, "# %s\n%%J %.5f %+.5f = %s\n%%C.0 %s\n",
		name, entry.RA, entry.Dec, name, entry.ObjectType)
}

func (s *SkyService) handleCutout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.lastCutout = r.URL.Query()
	s.mu.Unlock()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Write(TinyJPEG)
}
