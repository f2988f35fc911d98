package server

import (
	"net/http"

	"jobboard/api"
	"jobboard/internal/apiserver/auth"
	"jobboard/internal/apiserver/metrics"
	"jobboard/internal/apiserver/respond"
	"jobboard/internal/config"
	"jobboard/internal/core/offer"
	"jobboard/internal/shared/ratelimit"
	"jobboard/internal/shared/storage"
	"jobboard/pkg/logging"
)

// Handler API 处理器
//
// Handler 是所有 HTTP API 的入口，负责：
//   - 路由请求到各领域处理器
//   - 持有存储层、限流器、通知书服务
//   - 组装中间件链
type Handler struct {
	store      storage.PersistentStore
	cfg        *config.Config
	authConfig auth.Config
	limiter    ratelimit.Limiter // 可为 nil
	proxies    *ratelimit.TrustedProxies
	offers     *offer.Service
	validator  *requestValidator // 未开启校验时为 nil
	metrics    *metrics.Metrics
	log        *logging.Logger
}

// Options 创建 Handler 的依赖
type Options struct {
	Store   storage.PersistentStore
	Config  *config.Config
	Auth    auth.Config
	Limiter ratelimit.Limiter
	Archive offer.Archiver // 通知书归档，可为 nil
	Metrics *metrics.Metrics
	Logger  *logging.Logger
}

// NewHandler 创建 Handler 实例
//
// 开启 validate_requests 时加载内嵌的 OpenAPI 契约，契约无效返回错误
func NewHandler(opts Options) (*Handler, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New("jobboard")
	}

	h := &Handler{
		store:      opts.Store,
		cfg:        cfg,
		authConfig: opts.Auth,
		limiter:    opts.Limiter,
		offers:     offer.NewService(opts.Store, offer.Generator{}, cfg.APIServer.PublicBaseURL, opts.Archive, log),
		metrics:    m,
		log:        log,
	}

	proxies, err := ratelimit.ParseTrustedProxies(cfg.RateLimit.TrustedProxies)
	if err != nil {
		return nil, err
	}
	h.proxies = proxies

	if cfg.APIServer.ValidateRequests {
		spec, err := api.Spec()
		if err != nil {
			return nil, err
		}
		v, err := newRequestValidator(spec)
		if err != nil {
			return nil, err
		}
		h.validator = v
	}
	return h, nil
}

// Health 健康检查
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// OpenAPISpec 返回 API 契约
// GET /api/v1/openapi.yaml
func (h *Handler) OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	spec, err := api.Spec()
	if err != nil {
		respond.Error(w, r, h.log, "load openapi spec", err)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	w.Write(spec)
}
