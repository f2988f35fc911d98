package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/apiserver/auth"
	"jobboard/internal/apiserver/metrics"
	"jobboard/internal/config"
	"jobboard/internal/core/coretest"
	"jobboard/internal/shared/model"
	"jobboard/internal/shared/ratelimit"
	"jobboard/internal/shared/storage/repository"
	"jobboard/pkg/logging"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	store   *repository.Store
	authCfg auth.Config
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()
	cfg := &config.Config{
		Env: config.EnvTest,
		APIServer: config.APIServerConfig{
			PublicBaseURL:    "http://jobs.test",
			ValidateRequests: true,
		},
		RateLimit: config.RateLimitConfig{
			Enabled:     true,
			ApplyLimit:  10,
			ApplyWindow: time.Minute,
			AuthLimit:   50,
			AuthWindow:  time.Minute,
		},
	}
	if mutate != nil {
		mutate(cfg)
	}
	store := coretest.NewStore(t)
	authCfg := auth.Config{JWTSecret: "server-test-secret", AccessTokenTTL: 15 * time.Minute, RefreshTokenTTL: time.Hour}

	h, err := NewHandler(Options{
		Store:   store,
		Config:  cfg,
		Auth:    authCfg,
		Limiter: ratelimit.NewMemoryLimiter(),
		Metrics: metrics.New("test"),
		Logger:  logging.Nop(),
	})
	require.NoError(t, err)
	return &testServer{t: t, handler: h.Router(), store: store, authCfg: authCfg}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, r)
	return w
}

func (s *testServer) register(name, email, role string) auth.TokenResponse {
	s.t.Helper()
	w := s.do("POST", "/api/v1/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "password123", "role": role,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var resp auth.TokenResponse
	require.NoError(s.t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotEmpty(s.t, resp.AccessToken)
	return resp
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), w.Body.String())
	return v
}

var jobBody = map[string]string{
	"title":          "Backend Engineer",
	"description":    "Build APIs",
	"location":       "Remote",
	"employmentType": "Full-time",
}

func TestHealthAndRequestID(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do("GET", "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	r := httptest.NewRequest("GET", "/health", nil)
	r.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, r)
	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	t.Run("any origin by default", func(t *testing.T) {
		s := newTestServer(t, nil)
		r := httptest.NewRequest(http.MethodOptions, "/api/v1/applications", nil)
		r.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		s.handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	})

	t.Run("allow list", func(t *testing.T) {
		s := newTestServer(t, func(c *config.Config) {
			c.APIServer.AllowedOrigins = []string{"https://jobs.example.com"}
		})
		for origin, want := range map[string]string{
			"https://jobs.example.com": "https://jobs.example.com",
			"https://evil.example.com": "",
		} {
			r := httptest.NewRequest(http.MethodGet, "/health", nil)
			r.Header.Set("Origin", origin)
			w := httptest.NewRecorder()
			s.handler.ServeHTTP(w, r)
			assert.Equal(t, want, w.Header().Get("Access-Control-Allow-Origin"), origin)
		}
	})
}

func TestOpenAPISpecEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do("GET", "/api/v1/openapi.yaml", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "openapi: 3"))
}

func TestHiringFlow(t *testing.T) {
	s := newTestServer(t, nil)

	emp := s.register("Acme HR", "hr@acme.test", "employer")
	seeker := s.register("Jane Doe", "jane@example.com", "")
	assert.Equal(t, model.UserRoleJobSeeker, seeker.User.Role)

	// 匿名可浏览，不可发布
	w := s.do("POST", "/api/v1/jobs", "", jobBody)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do("POST", "/api/v1/jobs", seeker.AccessToken, jobBody)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do("POST", "/api/v1/jobs", emp.AccessToken, jobBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	job := decode[model.JobView](t, w)

	w = s.do("GET", "/api/v1/jobs?title=backend", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	jobs := decode[[]model.JobView](t, w)
	require.Len(t, jobs, 1)
	assert.Equal(t, job.ID, jobs[0].ID)

	w = s.do("POST", "/api/v1/applications", seeker.AccessToken, map[string]string{"jobId": job.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	app := decode[model.ApplicationView](t, w)
	assert.Equal(t, model.ApplicationStatusPending, app.Status)

	w = s.do("GET", "/api/v1/applications/"+app.ID+"/offer", seeker.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do("PUT", "/api/v1/employer/applications/"+app.ID, emp.AccessToken, map[string]string{"status": "ACCEPTED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do("GET", "/api/v1/applications/"+app.ID+"/offer", seeker.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	// 录用后不可撤回
	w = s.do("DELETE", "/api/v1/applications/"+app.ID, seeker.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do("GET", "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_application_decisions_total")
	assert.Contains(t, w.Body.String(), `path="/api/v1/applications/{id}/offer"`)
}

func TestRoleChangeTakesEffectImmediately(t *testing.T) {
	s := newTestServer(t, nil)
	ctx := context.Background()

	admin, err := auth.CreateUser(ctx, s.store, "Root", "root@example.com", "password123", model.UserRoleAdmin)
	require.NoError(t, err)
	adminToken, err := auth.GenerateAccessToken(s.authCfg, admin)
	require.NoError(t, err)

	seeker := s.register("Sam", "sam@example.com", "job_seeker")

	w := s.do("POST", "/api/v1/jobs", seeker.AccessToken, jobBody)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do("PUT", "/api/v1/admin/users/"+seeker.User.ID+"/role", adminToken, map[string]string{"role": "employer"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 旧令牌中的角色已过时，以存储中的角色为准
	w = s.do("POST", "/api/v1/jobs", seeker.AccessToken, jobBody)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestRequestValidation(t *testing.T) {
	s := newTestServer(t, nil)
	emp := s.register("Acme HR", "hr@acme.test", "employer")

	tests := []struct {
		name string
		body string
	}{
		{"wrong field type", `{"title":123,"description":"d","location":"l","employmentType":"Full-time"}`},
		{"not json", `title=x`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do("POST", "/api/v1/jobs", emp.AccessToken, tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, "validation_error", decode[map[string]string](t, w)["kind"])
		})
	}

	t.Run("disabled", func(t *testing.T) {
		off := newTestServer(t, func(c *config.Config) { c.APIServer.ValidateRequests = false })
		emp := off.register("Acme HR", "hr@acme.test", "employer")
		w := off.do("POST", "/api/v1/jobs", emp.AccessToken, `{"title":123}`)
		// 仍由请求体解析拒绝
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthRateLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.RateLimit.AuthLimit = 2 })

	login := map[string]string{"email": "nobody@example.com", "password": "password123"}
	assert.Equal(t, http.StatusUnauthorized, s.do("POST", "/api/v1/auth/login", "", login).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do("POST", "/api/v1/auth/login", "", login).Code)

	w := s.do("POST", "/api/v1/auth/login", "", login)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate_limited", decode[map[string]string](t, w)["kind"])
}

func TestAuthRateLimitClientIP(t *testing.T) {
	login := map[string]string{"email": "nobody@example.com", "password": "password123"}
	send := func(s *testServer, peer, forwarded string) int {
		body, err := json.Marshal(login)
		require.NoError(t, err)
		r := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		r.RemoteAddr = peer + ":40000"
		r.Header.Set("X-Forwarded-For", forwarded)
		w := httptest.NewRecorder()
		s.handler.ServeHTTP(w, r)
		return w.Code
	}

	t.Run("forwarded header from untrusted peer", func(t *testing.T) {
		s := newTestServer(t, func(c *config.Config) { c.RateLimit.AuthLimit = 2 })
		assert.Equal(t, http.StatusUnauthorized, send(s, "198.51.100.7", "203.0.113.1"))
		assert.Equal(t, http.StatusUnauthorized, send(s, "198.51.100.7", "203.0.113.2"))
		assert.Equal(t, http.StatusTooManyRequests, send(s, "198.51.100.7", "203.0.113.3"))
	})

	t.Run("behind trusted proxy", func(t *testing.T) {
		s := newTestServer(t, func(c *config.Config) {
			c.RateLimit.AuthLimit = 1
			c.RateLimit.TrustedProxies = []string{"10.0.0.0/8"}
		})
		assert.Equal(t, http.StatusUnauthorized, send(s, "10.0.0.2", "203.0.113.1"))
		assert.Equal(t, http.StatusTooManyRequests, send(s, "10.0.0.2", "203.0.113.1"))
		assert.Equal(t, http.StatusUnauthorized, send(s, "10.0.0.2", "203.0.113.2"))
	})
}

func TestInvalidTrustedProxy(t *testing.T) {
	_, err := NewHandler(Options{
		Store:  coretest.NewStore(t),
		Config: &config.Config{RateLimit: config.RateLimitConfig{TrustedProxies: []string{"proxy.local"}}},
		Logger: logging.Nop(),
	})
	assert.Error(t, err)
}
