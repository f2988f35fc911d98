// Package admin 管理员接口 - HTTP 处理
//
// 角色校验在核心层完成，这里只做请求解析与响应输出。
package admin

import (
	"net/http"

	"jobboard/internal/apiserver/auth"
	"jobboard/internal/apiserver/metrics"
	"jobboard/internal/apiserver/respond"
	adminsvc "jobboard/internal/core/admin"
	"jobboard/pkg/logging"
)

// Handler 管理员 HTTP 处理器
type Handler struct {
	svc     *adminsvc.Service
	metrics *metrics.Metrics
	log     *logging.Logger
}

// NewHandler 创建管理员处理器
func NewHandler(store adminsvc.Store, m *metrics.Metrics, log *logging.Logger) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	return &Handler{svc: adminsvc.New(store), metrics: m, log: log.Named("admin")}
}

// RegisterRoutes 注册管理员路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/admin/users", h.ListUsers)
	mux.HandleFunc("PUT /api/v1/admin/users/{id}/role", h.SetUserRole)
	mux.HandleFunc("GET /api/v1/admin/jobs", h.ListJobs)
	mux.HandleFunc("DELETE /api/v1/admin/jobs/{id}", h.DeleteJob)
	mux.HandleFunc("GET /api/v1/admin/applications", h.ListApplications)
	mux.HandleFunc("PUT /api/v1/admin/applications/{id}", h.Decide)
}

// RoleRequest 修改角色请求
type RoleRequest struct {
	Role string `json:"role"`
}

// StatusRequest 强制决策请求
type StatusRequest struct {
	Status string `json:"status"`
}

// ListUsers 用户列表
// GET /api/v1/admin/users?role=
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}
	users, err := h.svc.ListUsers(r.Context(), user.Actor(), r.URL.Query().Get("role"))
	if err != nil {
		respond.Error(w, r, h.log, "ListUsers", err)
		return
	}
	respond.JSON(w, http.StatusOK, users)
}

// SetUserRole 修改用户角色
// PUT /api/v1/admin/users/{id}/role
func (h *Handler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}
	var req RoleRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, h.log, "SetUserRole", err)
		return
	}
	updated, err := h.svc.SetUserRole(r.Context(), user.Actor(), r.PathValue("id"), req.Role)
	if err != nil {
		respond.Error(w, r, h.log, "SetUserRole", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "User role updated",
		"user":    updated,
	})
}

// ListJobs 全部职位
// GET /api/v1/admin/jobs
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}
	jobs, err := h.svc.ListJobs(r.Context(), user.Actor())
	if err != nil {
		respond.Error(w, r, h.log, "ListJobs", err)
		return
	}
	respond.JSON(w, http.StatusOK, jobs)
}

// DeleteJob 强制删除职位
// DELETE /api/v1/admin/jobs/{id}
func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}
	if err := h.svc.ForceJobDelete(r.Context(), user.Actor(), r.PathValue("id")); err != nil {
		respond.Error(w, r, h.log, "DeleteJob", err)
		return
	}
	h.metrics.RecordJob("admin_delete")
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Job removed by admin"})
}

// ListApplications 全部申请
// GET /api/v1/admin/applications?status=
func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}
	apps, err := h.svc.ListApplications(r.Context(), user.Actor(), r.URL.Query().Get("status"))
	if err != nil {
		respond.Error(w, r, h.log, "ListApplications", err)
		return
	}
	respond.JSON(w, http.StatusOK, apps)
}

// Decide 强制设置申请状态
// PUT /api/v1/admin/applications/{id}
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}
	var req StatusRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, h.log, "Decide", err)
		return
	}
	app, err := h.svc.ForceDecide(r.Context(), user.Actor(), r.PathValue("id"), req.Status)
	if err != nil {
		respond.Error(w, r, h.log, "Decide", err)
		return
	}
	h.metrics.RecordDecision(string(app.Status), "admin")
	respond.JSON(w, http.StatusOK, app)
}
