// Package server 路由配置与核心基础设施
//
// 本文件定义 HTTP API 路由，将请求分发到各领域独立包：
//   - auth: 注册、登录、令牌刷新
//   - job: 职位浏览与发布
//   - application: 求职者申请、撤回、下载录用通知书
//   - employer: 雇主审核申请
//   - admin: 管理员覆盖操作
//
// 中间件顺序（外→内）：CORS → 请求日志 → 指标 → 认证 → OpenAPI 校验 → 路由
package server

import (
	"net/http"

	"jobboard/internal/apiserver/admin"
	"jobboard/internal/apiserver/application"
	"jobboard/internal/apiserver/auth"
	"jobboard/internal/apiserver/employer"
	"jobboard/internal/apiserver/job"
	"jobboard/internal/shared/ratelimit"
)

// Router 返回配置好的 HTTP 路由
//
// 路由规则：
//
// 基础:
//   - GET  /health              - 服务健康检查
//   - GET  /metrics             - Prometheus 指标
//   - GET  /api/v1/openapi.yaml - API 契约
//
// 认证 (Auth):
//   - POST /api/v1/auth/register - 注册（按 IP 限流）
//   - POST /api/v1/auth/login    - 登录（按 IP 限流）
//   - POST /api/v1/auth/refresh  - 刷新访问令牌
//   - GET  /api/v1/auth/me       - 当前用户
//
// 职位 (Job):
//   - GET    /api/v1/jobs      - 浏览职位（公开）
//   - POST   /api/v1/jobs      - 发布职位
//   - GET    /api/v1/jobs/{id} - 职位详情（公开）
//   - PUT    /api/v1/jobs/{id} - 修改职位
//   - DELETE /api/v1/jobs/{id} - 删除职位
//
// 申请 (Application):
//   - POST   /api/v1/applications            - 申请职位（按用户限流）
//   - GET    /api/v1/applications            - 我的申请
//   - GET    /api/v1/applications/{id}       - 申请详情
//   - DELETE /api/v1/applications/{id}       - 撤回申请
//   - GET    /api/v1/applications/{id}/offer - 下载录用通知书
//
// 雇主 (Employer):
//   - GET /api/v1/employer/applications      - 收到的申请
//   - PUT /api/v1/employer/applications/{id} - 录用/拒绝
//
// 管理员 (Admin):
//   - GET    /api/v1/admin/users           - 用户列表
//   - PUT    /api/v1/admin/users/{id}/role - 修改角色
//   - GET    /api/v1/admin/jobs            - 全部职位
//   - DELETE /api/v1/admin/jobs/{id}       - 强制删除职位
//   - GET    /api/v1/admin/applications    - 全部申请
//   - PUT    /api/v1/admin/applications/{id} - 强制设置申请状态
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	// 健康检查
	mux.HandleFunc("GET /health", h.Health)

	// Prometheus 指标端点
	mux.Handle("GET /metrics", h.metrics.Handler())

	// API 契约
	mux.HandleFunc("GET /api/v1/openapi.yaml", h.OpenAPISpec)

	authHandler := auth.NewHandler(h.store, h.authConfig, h.log)
	authHandler.RegisterRoutes(mux, h.authGuard())

	jobHandler := job.NewHandler(h.store, h.metrics, h.log)
	jobHandler.RegisterRoutes(mux)

	appHandler := application.NewHandler(h.store, h.offers, h.metrics, h.log)
	appHandler.RegisterRoutes(mux, h.applyGuard())

	empHandler := employer.NewHandler(h.store, h.metrics, h.log)
	empHandler.RegisterRoutes(mux)

	adminHandler := admin.NewHandler(h.store, h.metrics, h.log)
	adminHandler.RegisterRoutes(mux)

	var handler http.Handler = mux

	// OpenAPI 请求校验
	if h.validator != nil {
		handler = h.validator.Middleware(handler)
	}

	// 认证中间件
	handler = auth.Middleware(h.authConfig, h.store, h.log)(handler)

	// 指标中间件
	handler = h.metrics.Middleware(handler)

	// 请求 ID 与访问日志
	handler = requestLogMiddleware(h.log, h.proxies)(handler)

	// CORS 最外层，预检请求不进入认证
	return corsMiddleware(h.cfg.APIServer.AllowedOrigins)(handler)
}

// applyGuard 申请接口按用户限流
func (h *Handler) applyGuard() func(http.Handler) http.Handler {
	rl := h.cfg.RateLimit
	if !rl.Enabled || h.limiter == nil {
		return nil
	}
	return ratelimit.Middleware(h.limiter, "apply", auth.UserKey, rl.ApplyLimit, rl.ApplyWindow)
}

// authGuard 注册/登录按客户端 IP 限流，X-Forwarded-For 只在对端为可信代理时采用
func (h *Handler) authGuard() func(http.Handler) http.Handler {
	rl := h.cfg.RateLimit
	if !rl.Enabled || h.limiter == nil {
		return nil
	}
	return ratelimit.Middleware(h.limiter, "auth", h.proxies.ClientIP, rl.AuthLimit, rl.AuthWindow)
}
