package server

import (
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"

	"jobboard/internal/apiserver/metrics"
	"jobboard/internal/shared/ratelimit"
	"jobboard/pkg/logging"
)

// RequestIDHeader 请求 ID 头
const RequestIDHeader = "X-Request-ID"

// corsMiddleware 添加 CORS 头支持跨域请求
//
// allowed 为空时允许任意来源
func corsMiddleware(allowed []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case len(allowed) == 0:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && slices.Contains(allowed, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)
			w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, "+RequestIDHeader)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requestLogMiddleware 分配请求 ID 并记录访问日志
//
// 客户端携带 X-Request-ID 时沿用，否则生成新的 UUID
func requestLogMiddleware(log *logging.Logger, proxies *ratelimit.TrustedProxies) func(http.Handler) http.Handler {
	access := log.Named("http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			r = r.WithContext(logging.ContextWithRequestID(r.Context(), id))

			wrapped := &metrics.ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			access.WithContext(r.Context()).HTTPRequestLog(r.Method, r.URL.Path, wrapped.StatusCode, time.Since(start), proxies.ClientIP(r))
		})
	}
}
