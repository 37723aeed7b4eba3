// Package metrics holds the Prometheus collectors shared by the dataset
// accessor, the renderer and the HTTP server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dataset load outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	datasetLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stopverifage_dataset_loads_total",
		Help: "Dataset load attempts by source and outcome",
	}, []string{"source", "outcome"})

	datasetSites = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stopverifage_dataset_sites",
		Help: "Number of sites in the memoized dataset",
	})

	pageRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stopverifage_page_renders_total",
		Help: "Rendered pages by page identifier",
	}, []string{"page"})

	suggestionsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stopverifage_suggestions_received_total",
		Help: "Suggestion form submissions acknowledged (never stored)",
	})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stopverifage_http_request_duration_seconds",
		Help:    "HTTP request latencies in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	httpRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stopverifage_http_requests_in_flight",
		Help: "Current number of HTTP requests being served",
	})
)

// RecordDatasetLoad counts one attempt to load the dataset from a source.
func RecordDatasetLoad(source, outcome string) {
	datasetLoads.WithLabelValues(source, outcome).Inc()
}

// SetDatasetSites records the size of the memoized dataset.
func SetDatasetSites(n int) {
	datasetSites.Set(float64(n))
}

// RecordPageRender counts one rendered page.
func RecordPageRender(page string) {
	pageRenders.WithLabelValues(page).Inc()
}

// RecordSuggestion counts one acknowledged suggestion.
func RecordSuggestion() {
	suggestionsReceived.Inc()
}

// Handler returns the HTTP handler exposing the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request durations per route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(sw, r)

		// Route patterns keep label cardinality bounded.
		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		httpRequestDuration.
			WithLabelValues(r.Method, path, strconv.Itoa(sw.statusCode)).
			Observe(time.Since(start).Seconds())
	})
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sw *statusWriter) WriteHeader(statusCode int) {
	if !sw.written {
		sw.statusCode = statusCode
		sw.written = true
	}
	sw.ResponseWriter.WriteHeader(statusCode)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if !sw.written {
		sw.WriteHeader(http.StatusOK)
	}
	return sw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}
