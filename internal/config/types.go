// Package config 统一配置管理
//
// 配置加载优先级（高→低）：
//  1. 环境变量（通过 .env / .env.{env} 文件或 shell 注入）
//  2. YAML 配置文件（configs/{env}.yaml，如 dev.yaml、test.yaml、prod.yaml）
//  3. 代码硬编码默认值
//
// 密码/密钥只从环境变量读取，YAML 中不存储任何凭据。
//
// 配置路径确定策略：
//  1. --config 命令行参数（SetConfigDir）
//  2. CONFIG_DIR 环境变量
//  3. configs/、../configs/
//
// 环境：
//   - 开发: APP_ENV=dev → configs/dev.yaml + .env.dev
//   - 测试: APP_ENV=test → configs/test.yaml + .env.test
//   - 生产: APP_ENV=prod → configs/prod.yaml（不加载 .env）
package config

import (
	"time"

	"jobboard/pkg/logging"
)

// Environment 环境类型
type Environment string

const (
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
	EnvDevelopment Environment = "dev"
)

// YAMLConfig YAML 配置文件结构
type YAMLConfig struct {
	APIServer APIServerConfig `yaml:"api_server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	MinIO     MinIOConfig     `yaml:"minio"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       logging.Config  `yaml:"log"`
}

// APIServerConfig API Server 配置
type APIServerConfig struct {
	Port             string   `yaml:"port"`
	PublicBaseURL    string   `yaml:"public_base_url"`   // 前端站点地址（通知书二维码指向 {url}/jobs/{id}）
	ValidateRequests bool     `yaml:"validate_requests"` // 按 OpenAPI 文档校验请求
	AllowedOrigins   []string `yaml:"allowed_origins"`   // CORS，空表示允许任意来源
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // "mongodb"（默认）、"sqlite" 或 "postgres"
	Path     string `yaml:"path"`   // SQLite 文件路径
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"-"` // 只从 DB_PASSWORD 环境变量读取
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	URI      string `yaml:"uri"` // MongoDB 连接 URI（优先于 host/port）
}

// RedisConfig Redis 配置（限流计数）
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	DB       int    `yaml:"db"`
	Password string `yaml:"-"` // 只从 REDIS_PASSWORD 环境变量读取
	URL      string `yaml:"url"`
}

// MinIOConfig MinIO 对象存储配置（通知书归档），Endpoint 为空表示不归档
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"` // 例如 localhost:9000
	AccessKey string `yaml:"-"`        // 只从 MINIO_ROOT_USER 环境变量读取
	SecretKey string `yaml:"-"`        // 只从 MINIO_ROOT_PASSWORD 环境变量读取
	UseSSL    bool   `yaml:"use_ssl"`
	Bucket    string `yaml:"bucket"`
}

// AuthConfig 认证配置
// 注意：JWTSecret/AdminEmail/AdminPassword 只从环境变量读取，不存储在 YAML 中
type AuthConfig struct {
	JWTSecret       string `yaml:"-"`                 // 只从 JWT_SECRET 环境变量读取
	AccessTokenTTL  string `yaml:"access_token_ttl"`  // 例如 "15m"
	RefreshTokenTTL string `yaml:"refresh_token_ttl"` // 例如 "168h"
	AdminName       string `yaml:"admin_name"`
	AdminEmail      string `yaml:"-"` // 只从 ADMIN_EMAIL 环境变量读取
	AdminPassword   string `yaml:"-"` // 只从 ADMIN_PASSWORD 环境变量读取
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled     bool          `yaml:"enabled"`
	ApplyLimit  int           `yaml:"apply_limit"`  // 每个用户每窗口的申请次数
	ApplyWindow time.Duration `yaml:"apply_window"` // 例如 1m
	AuthLimit   int           `yaml:"auth_limit"`   // 每个 IP 每窗口的登录/注册次数
	AuthWindow  time.Duration `yaml:"auth_window"`

	// 可信反向代理（IP 或 CIDR），仅这些对端的 X-Forwarded-For 会被采用
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// Config 应用配置（最终使用的配置）
type Config struct {
	Env            Environment
	DatabaseDriver string // "mongodb", "sqlite", or "postgres"
	DatabaseURL    string
	DatabaseDBName string // MongoDB 数据库名称
	RedisURL       string // 为空表示不使用 Redis
	APIServer      APIServerConfig
	MinIO          MinIOConfig
	Auth           AuthConfig
	RateLimit      RateLimitConfig
	Log            logging.Config
	ConfigFilePath string // 实际加载的配置文件路径
}
