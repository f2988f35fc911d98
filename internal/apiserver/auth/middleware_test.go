package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/core/coretest"
	"jobboard/internal/shared/model"
	"jobboard/pkg/logging"
)

func testConfig() Config {
	return Config{JWTSecret: "test-secret", AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour}
}

func TestIsPublicRoute(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		expected bool
	}{
		// 公开路由
		{"login", "POST", "/api/v1/auth/login", true},
		{"register", "POST", "/api/v1/auth/register", true},
		{"refresh", "POST", "/api/v1/auth/refresh", true},
		{"health", "GET", "/health", true},
		{"metrics", "GET", "/metrics", true},
		{"openapi", "GET", "/api/v1/openapi.yaml", true},
		{"list jobs", "GET", "/api/v1/jobs", true},
		{"get job", "GET", "/api/v1/jobs/job-1", true},
		{"preflight", "OPTIONS", "/api/v1/applications", true},

		// 需要 JWT
		{"me", "GET", "/api/v1/auth/me", false},
		{"create job", "POST", "/api/v1/jobs", false},
		{"update job", "PUT", "/api/v1/jobs/job-1", false},
		{"delete job", "DELETE", "/api/v1/jobs/job-1", false},
		{"jobs prefix lookalike", "GET", "/api/v1/jobsearch", false},
		{"apply", "POST", "/api/v1/applications", false},
		{"admin users", "GET", "/api/v1/admin/users", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isPublicRoute(tt.method, tt.path))
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	user := &model.User{ID: "usr-1", Email: "a@example.com", Role: model.UserRoleEmployer}

	access, err := GenerateAccessToken(cfg, user)
	require.NoError(t, err)
	claims, err := ParseToken(cfg, access)
	require.NoError(t, err)
	assert.Equal(t, "usr-1", claims.Subject)
	assert.Equal(t, "employer", claims.Role)
	assert.Equal(t, tokenTypeAccess, claims.Type)

	refresh, err := GenerateRefreshToken(cfg, user.ID)
	require.NoError(t, err)
	claims, err = ParseToken(cfg, refresh)
	require.NoError(t, err)
	assert.Equal(t, tokenTypeRefresh, claims.Type)

	_, err = ParseToken(Config{JWTSecret: "other"}, access)
	assert.Error(t, err)

	expired := cfg
	expired.AccessTokenTTL = -time.Minute
	stale, err := GenerateAccessToken(expired, user)
	require.NoError(t, err)
	_, err = ParseToken(cfg, stale)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)
	assert.True(t, CheckPassword("password123", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestMiddleware(t *testing.T) {
	cfg := testConfig()
	store := coretest.NewStore(t)
	coretest.SeedUser(t, store, "emp-1", model.UserRoleEmployer)

	var seen *AuthUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetAuthUser(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := Middleware(cfg, store, logging.Nop())(next)

	// 令牌中的角色已过期，以存储中的当前角色为准
	staleRole, err := GenerateAccessToken(cfg, &model.User{ID: "emp-1", Email: "emp-1@example.com", Role: model.UserRoleJobSeeker})
	require.NoError(t, err)
	refresh, err := GenerateRefreshToken(cfg, "emp-1")
	require.NoError(t, err)
	ghost, err := GenerateAccessToken(cfg, &model.User{ID: "ghost", Role: model.UserRoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name       string
		method     string
		path       string
		header     string
		wantStatus int
		wantUser   string
		wantRole   model.UserRole
	}{
		{"missing header", "POST", "/api/v1/jobs", "", http.StatusUnauthorized, "", ""},
		{"bad scheme", "POST", "/api/v1/jobs", "Basic abc", http.StatusUnauthorized, "", ""},
		{"garbage token", "POST", "/api/v1/jobs", "Bearer nope", http.StatusUnauthorized, "", ""},
		{"refresh token rejected", "POST", "/api/v1/jobs", "Bearer " + refresh, http.StatusUnauthorized, "", ""},
		{"deleted user", "POST", "/api/v1/jobs", "Bearer " + ghost, http.StatusUnauthorized, "", ""},
		{"valid token uses stored role", "POST", "/api/v1/jobs", "Bearer " + staleRole, http.StatusOK, "emp-1", model.UserRoleEmployer},
		{"public without token", "GET", "/api/v1/jobs", "", http.StatusOK, "", ""},
		{"public with bad token stays anonymous", "GET", "/api/v1/jobs", "Bearer nope", http.StatusOK, "", ""},
		{"public with token is identified", "GET", "/api/v1/jobs", "Bearer " + staleRole, http.StatusOK, "emp-1", model.UserRoleEmployer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			r := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				var body map[string]string
				require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.Equal(t, "unauthorized", body["kind"])
				return
			}
			if tt.wantUser == "" {
				assert.Nil(t, seen)
				return
			}
			require.NotNil(t, seen)
			assert.Equal(t, tt.wantUser, seen.ID)
			assert.Equal(t, tt.wantRole, seen.Role)
			assert.Equal(t, tt.wantRole, seen.Actor().Role)
		})
	}
}
