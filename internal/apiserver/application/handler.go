// Package application 求职申请 - HTTP 处理（求职者视角）
package application

import (
	"net/http"
	"strconv"
	"time"

	"jobboard/internal/apiserver/auth"
	"jobboard/internal/apiserver/metrics"
	"jobboard/internal/apiserver/respond"
	"jobboard/internal/core/lifecycle"
	"jobboard/internal/core/offer"
	"jobboard/pkg/logging"
)

// Handler 申请 HTTP 处理器
type Handler struct {
	svc     *lifecycle.Service
	offers  *offer.Service
	metrics *metrics.Metrics
	log     *logging.Logger
}

// NewHandler 创建申请处理器，m 可为 nil
func NewHandler(store lifecycle.Store, offers *offer.Service, m *metrics.Metrics, log *logging.Logger) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	return &Handler{
		svc:     lifecycle.New(store),
		offers:  offers,
		metrics: m,
		log:     log.Named("application"),
	}
}

// RegisterRoutes 注册申请相关路由
//
// applyGuard 套在投递接口上（按用户限流），可为 nil
func (h *Handler) RegisterRoutes(mux *http.ServeMux, applyGuard func(http.Handler) http.Handler) {
	var apply http.Handler = http.HandlerFunc(h.Apply)
	if applyGuard != nil {
		apply = applyGuard(apply)
	}
	mux.Handle("POST /api/v1/applications", apply)
	mux.HandleFunc("GET /api/v1/applications", h.ListMine)
	mux.HandleFunc("GET /api/v1/applications/{id}", h.Get)
	mux.HandleFunc("DELETE /api/v1/applications/{id}", h.Withdraw)
	mux.HandleFunc("GET /api/v1/applications/{id}/offer", h.Offer)
}

// ApplyRequest 投递请求
type ApplyRequest struct {
	JobID string `json:"jobId"`
}

// Apply 投递申请
// POST /api/v1/applications
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}
	var req ApplyRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, h.log, "Apply", err)
		return
	}
	app, err := h.svc.Apply(r.Context(), user.Actor(), req.JobID)
	if err != nil {
		respond.Error(w, r, h.log, "Apply", err)
		return
	}
	h.metrics.RecordApplication("apply")
	respond.JSON(w, http.StatusCreated, app)
}

// ListMine 当前求职者的全部申请
// GET /api/v1/applications
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}
	apps, err := h.svc.ListMine(r.Context(), user.Actor())
	if err != nil {
		respond.Error(w, r, h.log, "ListMine", err)
		return
	}
	respond.JSON(w, http.StatusOK, apps)
}

// Get 申请详情
// GET /api/v1/applications/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}
	app, err := h.svc.Get(r.Context(), user.Actor(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, h.log, "Get", err)
		return
	}
	respond.JSON(w, http.StatusOK, app)
}

// Withdraw 撤回 PENDING 状态的申请
// DELETE /api/v1/applications/{id}
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}
	if err := h.svc.Withdraw(r.Context(), user.Actor(), r.PathValue("id")); err != nil {
		respond.Error(w, r, h.log, "Withdraw", err)
		return
	}
	h.metrics.RecordApplication("withdraw")
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Application withdrawn"})
}

// Offer 下载录用通知书（PDF）
// GET /api/v1/applications/{id}/offer
func (h *Handler) Offer(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}
	start := time.Now()
	doc, err := h.offers.Generate(r.Context(), user.Actor(), r.PathValue("id"))
	if err != nil {
		h.metrics.RecordOffer("error", 0)
		respond.Error(w, r, h.log, "Offer", err)
		return
	}
	h.metrics.RecordOffer("ok", time.Since(start))

	w.Header().Set("Content-Type", offer.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(doc.Data)
}
