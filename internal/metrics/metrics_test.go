package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logo-quiz-service/internal/domain"
)

func TestObserverCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SubmissionScored(domain.Score{Score: 4, MaxScore: 8})
	m.SubmissionRejected("answers_length_mismatch")
	m.SubmissionRejected("answers_length_mismatch")
	m.CacheInvalidated("leaderboard")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("accepted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Submissions.WithLabelValues("rejected")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Rejections.WithLabelValues("answers_length_mismatch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheInvalidation.WithLabelValues("leaderboard")))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/rounds/one/{id}/answer", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", m.Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rounds/one/7/answer", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/api/rounds/one/{id}/answer", "404")))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "quiz_http_requests_total")
}
