package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"logo-quiz-service/internal/domain"
)

// Metrics holds the Prometheus collectors of the service. It implements app.Observer.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter    *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	RequestsInFlight  prometheus.Gauge
	Submissions       *prometheus.CounterVec
	SubmissionScores  prometheus.Histogram
	Rejections        *prometheus.CounterVec
	CacheInvalidation *prometheus.CounterVec
}

// New registers every collector on reg. Each test can pass its own registry.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "quiz",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "quiz",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "quiz",
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being processed",
			},
		),
		Submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "quiz",
				Name:      "submissions_total",
				Help:      "Scored submissions by outcome",
			},
			[]string{"result"},
		),
		SubmissionScores: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "quiz",
				Name:      "submission_score_ratio",
				Help:      "Score divided by max score of accepted submissions",
				Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
			},
		),
		Rejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "quiz",
				Name:      "submission_rejections_total",
				Help:      "Rejected submissions by error code",
			},
			[]string{"code"},
		),
		CacheInvalidation: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "quiz",
				Name:      "cache_invalidations_total",
				Help:      "Cache invalidations by target",
			},
			[]string{"target"},
		),
	}
}

func (m *Metrics) SubmissionScored(score domain.Score) {
	m.Submissions.WithLabelValues("accepted").Inc()
	if score.MaxScore > 0 {
		m.SubmissionScores.Observe(float64(score.Score) / float64(score.MaxScore))
	}
}

func (m *Metrics) SubmissionRejected(code string) {
	m.Submissions.WithLabelValues("rejected").Inc()
	m.Rejections.WithLabelValues(code).Inc()
}

func (m *Metrics) CacheInvalidated(target string) {
	m.CacheInvalidation.WithLabelValues(target).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request count and latency labelled by the chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.RequestsInFlight.Inc()
		defer m.RequestsInFlight.Dec()

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.RequestCounter.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
