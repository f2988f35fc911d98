package admin

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/apiserver/apitest"
	"jobboard/internal/core/coretest"
	"jobboard/internal/shared/model"
	"jobboard/pkg/logging"
)

func TestAdminHandlers(t *testing.T) {
	store := coretest.NewStore(t)
	mux := http.NewServeMux()
	NewHandler(store, nil, logging.Nop()).RegisterRoutes(mux)
	ctx := context.Background()

	admin := apitest.As(coretest.SeedUser(t, store, "adm-1", model.UserRoleAdmin))
	emp := apitest.As(coretest.SeedUser(t, store, "emp-1", model.UserRoleEmployer))
	coretest.SeedUser(t, store, "seek-1", model.UserRoleJobSeeker)
	coretest.SeedJob(t, store, "job-1", "emp-1")
	coretest.SeedJob(t, store, "job-2", "emp-1")
	coretest.SeedApplication(t, store, "app-1", "job-1", "seek-1", model.ApplicationStatusPending)
	coretest.SeedApplication(t, store, "app-2", "job-2", "seek-1", model.ApplicationStatusAccepted)

	forbidden := []struct {
		method string
		path   string
		body   any
	}{
		{"GET", "/api/v1/admin/users", nil},
		{"PUT", "/api/v1/admin/users/seek-1/role", RoleRequest{Role: "admin"}},
		{"GET", "/api/v1/admin/jobs", nil},
		{"DELETE", "/api/v1/admin/jobs/job-1", nil},
		{"GET", "/api/v1/admin/applications", nil},
		{"PUT", "/api/v1/admin/applications/app-1", StatusRequest{Status: "ACCEPTED"}},
	}
	for _, tt := range forbidden {
		t.Run("non-admin "+tt.method+" "+tt.path, func(t *testing.T) {
			w := apitest.Do(t, mux, tt.method, tt.path, emp, tt.body)
			assert.Equal(t, http.StatusForbidden, w.Code)
			w = apitest.Do(t, mux, tt.method, tt.path, nil, tt.body)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}

	t.Run("list users by role", func(t *testing.T) {
		w := apitest.Do(t, mux, "GET", "/api/v1/admin/users", admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, apitest.Decode[[]model.User](t, w), 3)

		w = apitest.Do(t, mux, "GET", "/api/v1/admin/users?role=employer", admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		users := apitest.Decode[[]model.User](t, w)
		require.Len(t, users, 1)
		assert.Equal(t, "emp-1", users[0].ID)

		w = apitest.Do(t, mux, "GET", "/api/v1/admin/users?role=root", admin, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("set role", func(t *testing.T) {
		w := apitest.Do(t, mux, "PUT", "/api/v1/admin/users/seek-1/role", admin, RoleRequest{Role: "employer"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "hash")
		u, err := store.GetUserByID(ctx, "seek-1")
		require.NoError(t, err)
		assert.Equal(t, model.UserRoleEmployer, u.Role)

		w = apitest.Do(t, mux, "PUT", "/api/v1/admin/users/nobody/role", admin, RoleRequest{Role: "employer"})
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = apitest.Do(t, mux, "PUT", "/api/v1/admin/users/seek-1/role", admin, RoleRequest{Role: "owner"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("applications and force decide", func(t *testing.T) {
		w := apitest.Do(t, mux, "GET", "/api/v1/admin/applications?status=ACCEPTED", admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		apps := apitest.Decode[[]model.ApplicationView](t, w)
		require.Len(t, apps, 1)
		assert.Equal(t, "app-2", apps[0].ID)

		w = apitest.Do(t, mux, "PUT", "/api/v1/admin/applications/app-1", admin, StatusRequest{Status: "REJECTED"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, model.ApplicationStatusRejected, apitest.Decode[model.ApplicationView](t, w).Status)

		w = apitest.Do(t, mux, "PUT", "/api/v1/admin/applications/app-1", admin, StatusRequest{Status: "PENDING"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = apitest.Do(t, mux, "PUT", "/api/v1/admin/applications/app-404", admin, StatusRequest{Status: "ACCEPTED"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("jobs and force delete", func(t *testing.T) {
		w := apitest.Do(t, mux, "GET", "/api/v1/admin/jobs", admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, apitest.Decode[[]model.JobView](t, w), 2)

		w = apitest.Do(t, mux, "DELETE", "/api/v1/admin/jobs/job-2", admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Job removed by admin", apitest.Decode[map[string]string](t, w)["message"])

		// 级联删除
		app, err := store.GetApplication(ctx, "app-2")
		require.NoError(t, err)
		assert.Nil(t, app)

		w = apitest.Do(t, mux, "DELETE", "/api/v1/admin/jobs/job-2", admin, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
