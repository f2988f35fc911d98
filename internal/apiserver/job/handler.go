// Package job 职位目录 - HTTP 处理
package job

import (
	"net/http"

	"jobboard/internal/apiserver/auth"
	"jobboard/internal/apiserver/metrics"
	"jobboard/internal/apiserver/respond"
	"jobboard/internal/core/catalog"
	"jobboard/internal/shared/model"
	"jobboard/internal/shared/storage"
	"jobboard/pkg/logging"
)

// Handler 职位目录 HTTP 处理器
type Handler struct {
	svc     *catalog.Service
	metrics *metrics.Metrics
	log     *logging.Logger
}

// NewHandler 创建职位处理器，m 可为 nil
func NewHandler(store storage.JobStore, m *metrics.Metrics, log *logging.Logger) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	return &Handler{svc: catalog.New(store), metrics: m, log: log.Named("job")}
}

// RegisterRoutes 注册职位相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/jobs", h.List)
	mux.HandleFunc("POST /api/v1/jobs", h.Create)
	mux.HandleFunc("GET /api/v1/jobs/{id}", h.Get)
	mux.HandleFunc("PUT /api/v1/jobs/{id}", h.Update)
	mux.HandleFunc("DELETE /api/v1/jobs/{id}", h.Delete)
}

// List 浏览职位
// GET /api/v1/jobs?title=&location=&employmentType=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	jobs, err := h.svc.List(r.Context(), model.JobFilter{
		Title:          q.Get("title"),
		Location:       q.Get("location"),
		EmploymentType: model.EmploymentType(q.Get("employmentType")),
	})
	if err != nil {
		respond.Error(w, r, h.log, "List", err)
		return
	}
	respond.JSON(w, http.StatusOK, jobs)
}

// Get 职位详情
// GET /api/v1/jobs/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, h.log, "Get", err)
		return
	}
	respond.JSON(w, http.StatusOK, job)
}

// Create 发布职位（雇主）
// POST /api/v1/jobs
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}
	var fields model.JobFields
	if err := respond.Decode(r, &fields); err != nil {
		respond.Error(w, r, h.log, "Create", err)
		return
	}
	job, err := h.svc.Create(r.Context(), user.Actor(), fields)
	if err != nil {
		respond.Error(w, r, h.log, "Create", err)
		return
	}
	h.metrics.RecordJob("create")
	respond.JSON(w, http.StatusCreated, job)
}

// Update 全量更新职位（所有者或管理员）
// PUT /api/v1/jobs/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}
	var fields model.JobFields
	if err := respond.Decode(r, &fields); err != nil {
		respond.Error(w, r, h.log, "Update", err)
		return
	}
	job, err := h.svc.Update(r.Context(), user.Actor(), r.PathValue("id"), fields)
	if err != nil {
		respond.Error(w, r, h.log, "Update", err)
		return
	}
	h.metrics.RecordJob("update")
	respond.JSON(w, http.StatusOK, job)
}

// Delete 删除职位及其所有申请（所有者或管理员）
// DELETE /api/v1/jobs/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), user.Actor(), r.PathValue("id")); err != nil {
		respond.Error(w, r, h.log, "Delete", err)
		return
	}
	h.metrics.RecordJob("delete")
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Job removed"})
}
