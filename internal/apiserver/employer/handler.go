// Package employer 雇主视角的申请处理 - HTTP
package employer

import (
	"net/http"

	"jobboard/internal/apiserver/auth"
	"jobboard/internal/apiserver/metrics"
	"jobboard/internal/apiserver/respond"
	"jobboard/internal/core/lifecycle"
	"jobboard/pkg/logging"
)

// Handler 雇主 HTTP 处理器
type Handler struct {
	svc     *lifecycle.Service
	metrics *metrics.Metrics
	log     *logging.Logger
}

// NewHandler 创建雇主处理器
func NewHandler(store lifecycle.Store, m *metrics.Metrics, log *logging.Logger) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	return &Handler{svc: lifecycle.New(store), metrics: m, log: log.Named("employer")}
}

// RegisterRoutes 注册雇主路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/employer/applications", h.ListApplications)
	mux.HandleFunc("PUT /api/v1/employer/applications/{id}", h.Decide)
}

// DecideRequest 决策请求
type DecideRequest struct {
	Status string `json:"status"`
}

// ListApplications 名下职位收到的申请
// GET /api/v1/employer/applications?status=
func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}
	apps, err := h.svc.ListForEmployer(r.Context(), user.Actor(), r.URL.Query().Get("status"))
	if err != nil {
		respond.Error(w, r, h.log, "ListApplications", err)
		return
	}
	respond.JSON(w, http.StatusOK, apps)
}

// Decide 接受或拒绝申请
// PUT /api/v1/employer/applications/{id}
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}
	var req DecideRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, h.log, "Decide", err)
		return
	}
	app, err := h.svc.Decide(r.Context(), user.Actor(), r.PathValue("id"), req.Status)
	if err != nil {
		respond.Error(w, r, h.log, "Decide", err)
		return
	}
	h.metrics.RecordDecision(string(app.Status), "employer")
	respond.JSON(w, http.StatusOK, app)
}
