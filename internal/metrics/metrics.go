package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counters and histograms for the two remote operations. Registered on
// the default registry so both the service and the one-shot command pick
// them up without extra wiring.
var (
	resolveTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skycutout_resolve_total",
			Help: "Total number of name resolution attempts",
		},
		[]string{"outcome"},
	)
	resolveLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skycutout_resolve_latency_ms",
			Help:    "Latency of successful name resolutions in milliseconds",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
	)
	cutoutTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skycutout_cutout_fetch_total",
			Help: "Total number of cutout fetch attempts",
		},
		[]string{"outcome"},
	)
	cutoutLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skycutout_cutout_fetch_latency_ms",
			Help:    "Latency of successful cutout fetches in milliseconds",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		},
	)
	cutoutBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skycutout_cutout_bytes_total",
			Help: "Total bytes of cutout imagery fetched",
		},
	)
)

// ResolveSucceeded records a successful name resolution
func ResolveSucceeded(elapsed time.Duration) {
	resolveTotal.WithLabelValues("success").Inc()
	resolveLatency.Observe(float64(elapsed.Milliseconds()))
}

// ResolveFailed records a failed name resolution
func ResolveFailed() {
	resolveTotal.WithLabelValues("error").Inc()
}

// CutoutSucceeded records a successful cutout fetch and its payload size
func CutoutSucceeded(elapsed time.Duration, bytes int) {
	cutoutTotal.WithLabelValues("success").Inc()
	cutoutLatency.Observe(float64(elapsed.Milliseconds()))
	cutoutBytes.Add(float64(bytes))
}

// CutoutFailed records a failed cutout fetch
func CutoutFailed() {
	cutoutTotal.WithLabelValues("error").Inc()
}

// Handler returns the Prometheus scrape handler for the /metrics route
func Handler() http.Handler {
	return promhttp.Handler()
}
