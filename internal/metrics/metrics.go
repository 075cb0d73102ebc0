package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sync check outcomes.
const (
	SyncStale   = "stale"
	SyncCurrent = "current"
	SyncNoData  = "no_data"
)

// Metrics holds the service collectors and the registry they are exposed from.
type Metrics struct {
	registry *prometheus.Registry

	Pushes           prometheus.Counter
	SyncChecks       *prometheus.CounterVec
	Recalculations   prometheus.Counter
	UnmatchedResults prometheus.Counter
	Exports          prometheus.Counter
	Restores         prometheus.Counter
	BackupsCreated   prometheus.Counter
	FilesPruned      *prometheus.CounterVec
	MirrorDropped    prometheus.Counter

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
}

// New registers every collector on a fresh registry, along with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Pushes: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "tfm_pushes_total", Help: "Snapshots accepted from clients"},
		),
		SyncChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "tfm_sync_checks_total", Help: "Sync checks by outcome"},
			[]string{"outcome"},
		),
		Recalculations: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "tfm_recalculations_total", Help: "Completed stats recalculations"},
		),
		UnmatchedResults: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "tfm_unmatched_results_total", Help: "Game results that matched no player during recalculation"},
		),
		Exports: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "tfm_exports_total", Help: "Archival exports written"},
		),
		Restores: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "tfm_restores_total", Help: "Backups restored over the data file"},
		),
		BackupsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "tfm_backups_created_total", Help: "Backups written before overwriting the data file"},
		),
		FilesPruned: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "tfm_files_pruned_total", Help: "Backup and export files removed by rotation"},
			[]string{"kind"},
		),
		MirrorDropped: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "tfm_mirror_jobs_dropped_total", Help: "Mirror jobs dropped because the queue was full"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests"},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "route"},
		),
		requestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "http_requests_in_flight", Help: "Current in-flight requests"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Pushes, m.SyncChecks, m.Recalculations, m.UnmatchedResults,
		m.Exports, m.Restores, m.BackupsCreated, m.FilesPruned, m.MirrorDropped,
		m.requestsTotal, m.requestDuration, m.requestsInFlight,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request count, latency and in-flight requests. Routes
// are labelled by their chi pattern so path parameters do not explode
// label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requestsInFlight.Inc()
		defer m.requestsInFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
