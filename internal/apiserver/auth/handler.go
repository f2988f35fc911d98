package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"jobboard/internal/apiserver/respond"
	"jobboard/internal/shared/apperr"
	"jobboard/internal/shared/model"
	"jobboard/internal/shared/storage"
	"jobboard/pkg/logging"
)

// Handler 认证 HTTP 处理器
type Handler struct {
	store storage.UserStore
	cfg   Config
	log   *logging.Logger
}

// NewHandler 创建认证处理器
func NewHandler(store storage.UserStore, cfg Config, log *logging.Logger) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	return &Handler{store: store, cfg: cfg, log: log.Named("auth")}
}

// RegisterRoutes 注册认证相关路由
//
// wrap 用于给注册/登录套上限流等中间件，可为 nil
func (h *Handler) RegisterRoutes(mux *http.ServeMux, wrap func(http.Handler) http.Handler) {
	if wrap == nil {
		wrap = func(next http.Handler) http.Handler { return next }
	}
	mux.Handle("POST /api/v1/auth/register", wrap(http.HandlerFunc(h.Register)))
	mux.Handle("POST /api/v1/auth/login", wrap(http.HandlerFunc(h.Login)))
	mux.HandleFunc("POST /api/v1/auth/refresh", h.Refresh)
	mux.HandleFunc("GET /api/v1/auth/me", h.Me)
}

// ============================================================================
// 请求/响应类型
// ============================================================================

// RegisterRequest 注册请求，role 只允许 employer / job_seeker，缺省为 job_seeker
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=employer job_seeker"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenResponse 登录/注册响应
type TokenResponse struct {
	User         *model.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken,omitempty"`
}

// ============================================================================
// Handlers
// ============================================================================

// Register 用户注册
// POST /api/v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, h.log, "Register", err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	req.Role = strings.TrimSpace(req.Role)
	if err := model.Validate(req); err != nil {
		respond.Error(w, r, h.log, "Register", apperr.Validation("%s", err.Error()))
		return
	}

	role := model.UserRoleJobSeeker
	if req.Role != "" {
		role = model.UserRole(req.Role)
	}

	user, err := CreateUser(r.Context(), h.store, req.Name, req.Email, req.Password, role)
	if err != nil {
		respond.Error(w, r, h.log, "Register", err)
		return
	}

	h.log.WithContext(r.Context()).Info("[auth] User registered",
		zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	h.issueTokens(w, r, http.StatusCreated, user)
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, h.log, "Login", err)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respond.Error(w, r, h.log, "Login", apperr.Validation("email and password are required"))
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), normalizeEmail(req.Email))
	if err != nil {
		respond.Error(w, r, h.log, "Login", apperr.Wrap(err, "get user by email"))
		return
	}
	if user == nil || !CheckPassword(req.Password, user.PasswordHash) {
		respond.Error(w, r, h.log, "Login", apperr.Unauthorized("invalid email or password"))
		return
	}

	h.issueTokens(w, r, http.StatusOK, user)
}

// Refresh 刷新访问令牌
// POST /api/v1/auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, h.log, "Refresh", err)
		return
	}
	if req.RefreshToken == "" {
		respond.Error(w, r, h.log, "Refresh", apperr.Validation("refreshToken is required"))
		return
	}

	claims, err := ParseToken(h.cfg, req.RefreshToken)
	if err != nil || claims.Type != tokenTypeRefresh {
		respond.Error(w, r, h.log, "Refresh", apperr.Unauthorized("invalid refresh token"))
		return
	}

	// 查询用户确保仍然存在
	user, err := h.store.GetUserByID(r.Context(), claims.Subject)
	if err != nil {
		respond.Error(w, r, h.log, "Refresh", apperr.Wrap(err, "get user"))
		return
	}
	if user == nil {
		respond.Error(w, r, h.log, "Refresh", apperr.Unauthorized("user not found"))
		return
	}

	accessToken, err := GenerateAccessToken(h.cfg, user)
	if err != nil {
		respond.Error(w, r, h.log, "Refresh", apperr.Wrap(err, "sign access token"))
		return
	}
	respond.JSON(w, http.StatusOK, TokenResponse{User: user, AccessToken: accessToken})
}

// Me 获取当前用户信息
// GET /api/v1/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	authUser, ok := RequireUser(w, r)
	if !ok {
		return
	}
	user, err := h.store.GetUserByID(r.Context(), authUser.ID)
	if err != nil {
		respond.Error(w, r, h.log, "Me", apperr.Wrap(err, "get user"))
		return
	}
	if user == nil {
		respond.Error(w, r, h.log, "Me", apperr.NotFound("user not found"))
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

func (h *Handler) issueTokens(w http.ResponseWriter, r *http.Request, status int, user *model.User) {
	accessToken, err := GenerateAccessToken(h.cfg, user)
	if err != nil {
		respond.Error(w, r, h.log, "IssueTokens", apperr.Wrap(err, "sign access token"))
		return
	}
	refreshToken, err := GenerateRefreshToken(h.cfg, user.ID)
	if err != nil {
		respond.Error(w, r, h.log, "IssueTokens", apperr.Wrap(err, "sign refresh token"))
		return
	}
	respond.JSON(w, status, TokenResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// ============================================================================
// 用户创建
// ============================================================================

// CreateUser 哈希密码并写入用户，邮箱重复返回 Conflict
func CreateUser(ctx context.Context, store storage.UserStore, name, email, password string, role model.UserRole) (*model.User, error) {
	email = normalizeEmail(email)
	existing, err := store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Wrap(err, "get user by email")
	}
	if existing != nil {
		return nil, apperr.Conflict("email already registered")
	}
	// bcrypt 按字节截断，多字节字符可能通过长度校验
	if len(password) > MaxPasswordBytes {
		return nil, apperr.Validation("password must be at most %d bytes", MaxPasswordBytes)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, apperr.Wrap(err, "hash password")
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           model.NewID("usr"),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, apperr.Wrap(err, "create user")
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ============================================================================
// Admin Bootstrap
// ============================================================================

// EnsureAdminUser 确保管理员用户存在（启动时调用）
//
// 未配置邮箱或密码时跳过；同邮箱用户已存在时提升为 admin，密码保持不变。
func EnsureAdminUser(ctx context.Context, store storage.UserStore, name, email, password string, log *logging.Logger) error {
	if email == "" || password == "" {
		return nil
	}
	if log == nil {
		log = logging.Nop()
	}
	email = normalizeEmail(email)

	existing, err := store.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if existing != nil {
		if existing.Role != model.UserRoleAdmin {
			if err := store.UpdateUserRole(ctx, existing.ID, model.UserRoleAdmin); err != nil {
				return fmt.Errorf("promote admin user: %w", err)
			}
			log.Info("[auth] Promoted user to admin", zap.String("user_id", existing.ID))
			return nil
		}
		log.Info("[auth] Admin user already exists", zap.String("user_id", existing.ID))
		return nil
	}

	if name == "" {
		name = "Admin"
	}
	user, err := CreateUser(ctx, store, name, email, password, model.UserRoleAdmin)
	if err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.Info("[auth] Created admin user", zap.String("user_id", user.ID))
	return nil
}
