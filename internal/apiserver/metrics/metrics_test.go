package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/api/v1/jobs", "/api/v1/jobs"},
		{"/api/v1/jobs/job-1a2b3c", "/api/v1/jobs/{id}"},
		{"/api/v1/applications/app-9/offer", "/api/v1/applications/{id}/offer"},
		{"/api/v1/employer/applications/app-9", "/api/v1/employer/applications/{id}"},
		{"/api/v1/admin/users/usr-1/role", "/api/v1/admin/users/{id}/role"},
		{"/api/v1/admin/jobs/job-1/", "/api/v1/admin/jobs/{id}"},
		{"/health", "/health"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePath(tt.in), tt.in)
	}
}

func TestMiddleware(t *testing.T) {
	m := New("test")
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/applications" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/jobs/job-1", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/jobs/job-2", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/v1/applications", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/jobs/{id}", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitedTotal.WithLabelValues("/api/v1/applications")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPRequestsInFlight))
}

func TestDomainCounters(t *testing.T) {
	m := New("test")
	m.RecordJob("create")
	m.RecordApplication("apply")
	m.RecordApplication("apply")
	m.RecordDecision("ACCEPTED", "employer")
	m.RecordOffer("ok", 10*time.Millisecond)
	m.RecordOffer("error", 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobsTotal.WithLabelValues("create")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ApplicationsTotal.WithLabelValues("apply")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DecisionsTotal.WithLabelValues("ACCEPTED", "employer")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OffersTotal.WithLabelValues("error")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() {
		nilMetrics.RecordJob("create")
		nilMetrics.RecordDecision("REJECTED", "admin")
		nilMetrics.RecordOffer("ok", time.Second)
	})
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New("jobboard")
	m.RecordJob("create")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `jobboard_jobs_total{operation="create"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
