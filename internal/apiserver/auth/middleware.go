package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"jobboard/internal/apiserver/respond"
	"jobboard/internal/shared/apperr"
	"jobboard/internal/shared/storage"
	"jobboard/pkg/logging"
)

// 免认证路由白名单（前缀匹配）
var publicPrefixes = []string{
	"/api/v1/auth/register",
	"/api/v1/auth/login",
	"/api/v1/auth/refresh",
	"/api/v1/openapi.yaml",
	"/health",
	"/metrics",
}

// 只读公开的路由前缀（仅 GET）
var publicReadPrefixes = []string{
	"/api/v1/jobs",
}

func isPublicRoute(method, path string) bool {
	if method == http.MethodOptions {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	if method == http.MethodGet {
		for _, prefix := range publicReadPrefixes {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return true
			}
		}
	}
	return false
}

// Middleware 创建 JWT 认证中间件
//
// 令牌校验通过后按 subject 重新读取用户，角色以存储中的当前值为准，
// 管理员修改角色后无需等待令牌过期即可生效。
// 公开路由携带有效令牌时同样注入用户信息。
func Middleware(cfg Config, users storage.UserStore, log *logging.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logging.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			public := isPublicRoute(r.Method, r.URL.Path)

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				if public {
					next.ServeHTTP(w, r)
					return
				}
				unauthorized(w, "missing authorization header")
				return
			}

			user, msg := authenticate(r, cfg, users, authHeader, log)
			if user == nil {
				if public {
					next.ServeHTTP(w, r)
					return
				}
				unauthorized(w, msg)
				return
			}

			ctx := WithAuthUser(r.Context(), user)
			ctx = logging.ContextWithUserID(ctx, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticate 解析 Bearer 令牌并加载用户，失败时返回原因
func authenticate(r *http.Request, cfg Config, users storage.UserStore, header string, log *logging.Logger) (*AuthUser, string) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, "invalid authorization header"
	}

	claims, err := ParseToken(cfg, strings.TrimSpace(parts[1]))
	if err != nil {
		log.Debug("[auth] token parse error", zap.Error(err))
		return nil, "invalid or expired token"
	}
	if claims.Type != tokenTypeAccess {
		return nil, "invalid token type"
	}

	u, err := users.GetUserByID(r.Context(), claims.Subject)
	if err != nil {
		log.WithContext(r.Context()).Error("[auth] GetUserByID error", zap.Error(err))
		return nil, "user not found"
	}
	if u == nil {
		return nil, "user not found"
	}
	return &AuthUser{ID: u.ID, Email: u.Email, Role: u.Role}, ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	respond.Message(w, http.StatusUnauthorized, apperr.KindUnauthorized, msg)
}

// RequireUser 要求已认证，返回调用方；未认证时写入 401 并返回 false
func RequireUser(w http.ResponseWriter, r *http.Request) (*AuthUser, bool) {
	user := GetAuthUser(r.Context())
	if user == nil {
		unauthorized(w, "not authenticated")
		return nil, false
	}
	return user, true
}

// UserKey 以当前用户 ID 作为限流键，未认证时返回空字符串
func UserKey(r *http.Request) string {
	if user := GetAuthUser(r.Context()); user != nil {
		return user.ID
	}
	return ""
}
