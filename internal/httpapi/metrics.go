package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mnnrunner",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mnnrunner",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	httpInflight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "mnnrunner",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "In-flight HTTP requests",
		},
		[]string{"method"},
	)

	httpRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mnnrunner",
			Subsystem: "http",
			Name:      "runs_total",
			Help:      "POST /run responses by final backend and result",
		},
		[]string{"backend", "result"},
	)

	errorsByKind = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mnnrunner",
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Error responses by error kind",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, httpInflight, httpRuns, errorsByKind)
}

// statusRecorder captures the status written by a handler. Handlers that
// never call WriteHeader answer 200.
type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.wrote {
		sr.status, sr.wrote = code, true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	sr.wrote = true
	return sr.ResponseWriter.Write(b)
}

// observeRun counts one /run response. backend is empty when no outcome
// was produced.
func observeRun(backend, result string) {
	if backend == "" {
		backend = "none"
	}
	httpRuns.WithLabelValues(backend, result).Inc()
}

func resultLabel(failed bool) string {
	if failed {
		return "failed"
	}
	return "ok"
}

// MetricsMiddleware instruments requests for Prometheus
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sr := &statusRecorder{ResponseWriter: w, status: 200}
		start := time.Now()
		// inflight is keyed by method; the route pattern is unknown until
		// the router has matched
		httpInflight.WithLabelValues(r.Method).Inc()
		defer httpInflight.WithLabelValues(r.Method).Dec()
		next.ServeHTTP(sr, r)
		// the route pattern is only known once the router has matched
		path := routePatternOrPath(r)
		statusLabel := itoa(sr.status)
		httpRequestsTotal.WithLabelValues(path, r.Method, statusLabel).Inc()
		httpRequestDuration.WithLabelValues(path, r.Method, statusLabel).Observe(time.Since(start).Seconds())
	})
}

// routePatternOrPath returns the chi route pattern if available, otherwise
// falls back to URL path. This avoids high-cardinality label values.
func routePatternOrPath(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// IncrementErrorKind counts an error response of the given kind.
func IncrementErrorKind(kind string) {
	if kind == "" {
		kind = "unspecified"
	}
	errorsByKind.WithLabelValues(kind).Inc()
}

func itoa(n int) string { return strconv.Itoa(n) }
