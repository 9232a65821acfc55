package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/star/sunpos/internal/spa"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sunpos_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sunpos_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	calculationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sunpos_calculations_total",
			Help: "Solar position calculations by outcome; non-ok outcomes name the rejected input field.",
		},
		[]string{"outcome"},
	)

	calculationDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sunpos_calculation_duration_seconds",
			Help:    "Duration of a single solar position calculation.",
			Buckets: []float64{1e-6, 5e-6, 1e-5, 2.5e-5, 5e-5, 1e-4, 2.5e-4, 1e-3},
		},
	)

	iersTableAgeSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sunpos_iers_table_age_seconds",
			Help: "Age of the loaded IERS Earth orientation table in seconds.",
		},
	)

	iersTableRows = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sunpos_iers_table_rows",
			Help: "Number of daily rows in the loaded IERS table.",
		},
	)

	iersRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sunpos_iers_refresh_total",
			Help: "IERS table refresh attempts by result.",
		},
		[]string{"result"},
	)

	workersActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sunpos_workers",
			Help: "Configured worker count for almanac and track computations.",
		},
	)

	batchItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sunpos_batch_items_total",
			Help: "Almanac days and track samples computed, by kind and result.",
		},
		[]string{"kind", "result"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpDurationSeconds,
		calculationsTotal,
		calculationDurationSeconds,
		iersTableAgeSeconds,
		iersTableRows,
		iersRefreshTotal,
		workersActive,
		batchItemsTotal,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// outcomeLabel maps a Calculate error to a bounded label value.
func outcomeLabel(err error) string {
	code := spa.CodeOf(err)
	if code < 0 {
		return "internal"
	}
	return code.String()
}

// ObserveCalculation records the outcome and duration of one calculation.
func ObserveCalculation(err error, d time.Duration) {
	calculationsTotal.WithLabelValues(outcomeLabel(err)).Inc()
	calculationDurationSeconds.Observe(d.Seconds())
}

// SetIERSTable records the age and size of the loaded IERS table.
func SetIERSTable(ageSeconds float64, rows int) {
	iersTableAgeSeconds.Set(ageSeconds)
	iersTableRows.Set(float64(rows))
}

// IncIERSRefresh counts a refresh attempt.
func IncIERSRefresh(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	iersRefreshTotal.WithLabelValues(result).Inc()
}

// SetWorkers records the configured worker count.
func SetWorkers(n int) {
	workersActive.Set(float64(n))
}

// AddBatchItems counts computed almanac days or track samples.
func AddBatchItems(kind string, ok, failed int) {
	batchItemsTotal.WithLabelValues(kind, "ok").Add(float64(ok))
	batchItemsTotal.WithLabelValues(kind, "error").Add(float64(failed))
}

// knownRoutes are the paths served by the API. Anything else is labelled
// "other" to bound label cardinality.
var knownRoutes = map[string]bool{
	"/healthz":              true,
	"/readyz":               true,
	"/metrics":              true,
	"/api/v1/sun/position":  true,
	"/api/v1/sun/almanac":   true,
	"/api/v1/sun/seasons":   true,
	"/api/v1/sun/track":     true,
	"/api/v1/sun/report":    true,
	"/api/v1/iers/metadata": true,
}

// normalizeRoute maps a request path to a metrics label.
func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	return "other"
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		route := normalizeRoute(r.URL.Path)

		httpRequestsTotal.WithLabelValues(route, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(route, r.Method).Observe(duration)
	})
}
