// Package auth 用户认证：JWT 令牌管理、密码哈希、HTTP 中间件
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"jobboard/internal/config"
	"jobboard/internal/core/policy"
	"jobboard/internal/shared/model"
)

// contextKey context 键类型
type contextKey string

const ctxKeyAuthUser contextKey = "auth_user"

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// AuthUser 已认证的调用方
type AuthUser struct {
	ID    string
	Email string
	Role  model.UserRole
}

// Actor 转换为核心层使用的调用方
func (u *AuthUser) Actor() policy.Actor {
	if u == nil {
		return policy.Actor{}
	}
	return policy.Actor{ID: u.ID, Role: u.Role}
}

// Config 认证配置
type Config struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// DefaultConfig 返回默认认证配置
func DefaultConfig() Config {
	return Config{
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

// ConfigFrom 从应用配置构建认证配置
func ConfigFrom(cfg *config.Config) Config {
	c := DefaultConfig()
	c.JWTSecret = cfg.Auth.JWTSecret
	if d := cfg.AccessTTL(); d > 0 {
		c.AccessTokenTTL = d
	}
	if d := cfg.RefreshTTL(); d > 0 {
		c.RefreshTokenTTL = d
	}
	return c
}

// ============================================================================
// 密码哈希
// ============================================================================

// MaxPasswordBytes bcrypt 可接受的最大密码字节数
const MaxPasswordBytes = 72

// HashPassword 使用 bcrypt 哈希密码
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	return string(bytes), err
}

// CheckPassword 验证密码
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ============================================================================
// JWT Token
// ============================================================================

// Claims JWT 声明
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	Type  string `json:"type,omitempty"` // "access" | "refresh"
}

func signToken(cfg Config, claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// GenerateAccessToken 生成访问令牌
func GenerateAccessToken(cfg Config, user *model.User) (string, error) {
	return signToken(cfg, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID},
		Email:            user.Email,
		Role:             string(user.Role),
		Type:             tokenTypeAccess,
	}, cfg.AccessTokenTTL)
}

// GenerateRefreshToken 生成刷新令牌
func GenerateRefreshToken(cfg Config, userID string) (string, error) {
	return signToken(cfg, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
		Type:             tokenTypeRefresh,
	}, cfg.RefreshTokenTTL)
}

// ParseToken 解析并验证 JWT
func ParseToken(cfg Config, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// ============================================================================
// Context 辅助函数
// ============================================================================

// WithAuthUser 将认证用户信息注入 context
func WithAuthUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, ctxKeyAuthUser, user)
}

// GetAuthUser 从 context 获取认证用户
func GetAuthUser(ctx context.Context) *AuthUser {
	user, _ := ctx.Value(ctxKeyAuthUser).(*AuthUser)
	return user
}

// ActorFrom 返回 context 中的调用方，未认证时 ok 为 false
func ActorFrom(ctx context.Context) (policy.Actor, bool) {
	user := GetAuthUser(ctx)
	if user == nil {
		return policy.Actor{}, false
	}
	return user.Actor(), true
}
