package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPLatencyBuckets      = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5}
	InferenceLatencyBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1}
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics owns a private registry so several services (or tests) can build
// their own without colliding on the default registerer.
type Metrics struct {
	registry *prometheus.Registry
	service  string

	HTTPRequestDuration *prometheus.HistogramVec
	InferenceLatency    *prometheus.HistogramVec
	InferenceTotal      *prometheus.CounterVec
	ArtifactsLoaded     *prometheus.GaugeVec
}

func New(service string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		service:  service,
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "predictor_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: HTTPLatencyBuckets,
			},
			[]string{"service", "method", "route", "status_code"},
		),
		InferenceLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "predictor_inference_latency_seconds",
				Help:    "Model inference latency in seconds, encoding excluded.",
				Buckets: InferenceLatencyBuckets,
			},
			[]string{"service", "model"},
		),
		InferenceTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "predictor_inference_total",
				Help: "Model inferences by outcome.",
			},
			[]string{"service", "model", "status"},
		),
		ArtifactsLoaded: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "predictor_artifact_loaded",
				Help: "Artifacts loaded at startup, labelled by name and kind.",
			},
			[]string{"service", "artifact", "kind"},
		),
	}

	m.registry.MustRegister(
		m.HTTPRequestDuration,
		m.InferenceLatency,
		m.InferenceTotal,
		m.ArtifactsLoaded,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveInference records a single model call.
func (m *Metrics) ObserveInference(model string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.InferenceTotal.WithLabelValues(m.service, model, status).Inc()
	m.InferenceLatency.WithLabelValues(m.service, model).Observe(elapsed.Seconds())
}

func (m *Metrics) MarkArtifact(name, kind string) {
	if m == nil {
		return
	}
	m.ArtifactsLoaded.WithLabelValues(m.service, name, kind).Set(1)
}

// Handler serves the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request durations labelled by route template, so path
// parameters never explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		m.HTTPRequestDuration.WithLabelValues(
			m.service,
			r.Method,
			route,
			strconv.Itoa(wrapped.statusCode),
		).Observe(time.Since(start).Seconds())
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
