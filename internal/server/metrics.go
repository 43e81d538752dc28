package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsNamespace      = "lead_budget"
	calculationsTotal     = "calculations_total"
	requestDurationMetric = "request_duration_seconds"

	// Calculation sources
	sourceCalculate = "calculate"
	sourceScenarios = "scenarios"

	sourceLabel = "source"
	routeLabel  = "route"
	codeLabel   = "code"
)

// Metrics holds the server's collectors on a private registry so that
// multiple handlers can coexist in one process.
type Metrics struct {
	registry     *prometheus.Registry
	calculations *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

// NewMetrics creates and registers the server collectors.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.calculations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      calculationsTotal,
			Help:      "number of budget calculations partitioned by request source",
		},
		[]string{sourceLabel},
	)

	m.latency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      requestDurationMetric,
			Help:      "time spent serving requests partitioned by route and status code",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{routeLabel, codeLabel},
	)

	m.registry.MustRegister(
		m.calculations,
		m.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// IncCalculations records n calculations from source.
func (m *Metrics) IncCalculations(source string, n int) {
	m.calculations.With(prometheus.Labels{sourceLabel: source}).Add(float64(n))
}

// Handler returns the /metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware observes request latency by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		m.latency.WithLabelValues(route, strconv.Itoa(ww.Status())).Observe(time.Since(start).Seconds())
	}
	return http.HandlerFunc(fn)
}
