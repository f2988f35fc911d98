package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// configDir 由外部通过 SetConfigDir 指定，优先级最高
var configDir string

// envSearchDirs .env 文件搜索目录
var envSearchDirs = []string{
	".",
	"..",
}

// SetConfigDir 设置配置文件目录（用于 --config 命令行参数）
func SetConfigDir(dir string) {
	configDir = dir
}

// Load 加载配置
// 1. 加载 .env（敏感信息 + APP_ENV）
// 2. 根据 APP_ENV 加载 {env}.yaml
// 3. 环境变量覆盖
func Load() (*Config, error) {
	env := parseEnv(getEnv("APP_ENV", "dev"))
	loadEnvFiles(env)
	// .env 中也可能设置 APP_ENV
	env = parseEnv(getEnv("APP_ENV", "dev"))

	yc, path, err := loadYAMLConfig(env)
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(yc)

	cfg := &Config{
		Env:            env,
		DatabaseDriver: detectDatabaseDriver(yc.Database.Driver, os.Getenv("DATABASE_URL")),
		DatabaseDBName: yc.Database.Name,
		APIServer:      yc.APIServer,
		MinIO:          yc.MinIO,
		Auth:           yc.Auth,
		RateLimit:      yc.RateLimit,
		Log:            yc.Log,
		ConfigFilePath: path,
	}
	cfg.DatabaseURL = getEnv("DATABASE_URL", buildDatabaseURL(withDriver(yc.Database, cfg.DatabaseDriver)))
	if yc.Redis.Enabled || yc.Redis.URL != "" {
		cfg.RedisURL = buildRedisURL(yc.Redis)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultYAMLConfig 代码默认值
func defaultYAMLConfig() *YAMLConfig {
	return &YAMLConfig{
		APIServer: APIServerConfig{
			Port:             "5000",
			PublicBaseURL:    "http://localhost:5173",
			ValidateRequests: true,
		},
		Database: DatabaseConfig{
			Driver:  "mongodb",
			Path:    "jobboard.db",
			Host:    "localhost",
			Port:    27017,
			User:    "",
			Name:    "jobboard",
			SSLMode: "disable",
		},
		Redis: RedisConfig{Host: "localhost", Port: 6379, DB: 0},
		MinIO: MinIOConfig{Bucket: "jobboard"},
		Auth: AuthConfig{
			AccessTokenTTL:  "15m",
			RefreshTokenTTL: "168h",
			AdminName:       "Admin",
		},
		RateLimit: RateLimitConfig{
			Enabled:     true,
			ApplyLimit:  10,
			ApplyWindow: time.Minute,
			AuthLimit:   20,
			AuthWindow:  time.Minute,
		},
		Log: loggingDefaults(),
	}
}

// loadYAMLConfig 默认值 → {env}.yaml，返回实际加载的文件路径（未找到时为空）
func loadYAMLConfig(env Environment) (*YAMLConfig, string, error) {
	cfg := defaultYAMLConfig()

	filename := fmt.Sprintf("%s.yaml", env)
	for _, base := range effectiveConfigPaths() {
		path := filepath.Join(base, filename)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, path, fmt.Errorf("parse %s: %w", path, err)
		}
		return cfg, path, nil
	}
	return cfg, "", nil
}

// applyEnvOverrides 环境变量覆盖 YAML，凭据只来自环境变量
func applyEnvOverrides(c *YAMLConfig) {
	c.APIServer.Port = getEnv("PORT", c.APIServer.Port)
	c.APIServer.PublicBaseURL = getEnv("PUBLIC_BASE_URL", c.APIServer.PublicBaseURL)

	if uri := firstEnv("MONGO_URI", "MONGODB_URI"); uri != "" {
		c.Database.URI = uri
	}
	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.Password = firstEnv("DB_PASSWORD", "MONGO_ROOT_PASSWORD", "POSTGRES_PASSWORD")

	c.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if u := os.Getenv("REDIS_URL"); u != "" {
		c.Redis.URL = u
	}

	c.MinIO.Endpoint = getEnv("MINIO_ENDPOINT", c.MinIO.Endpoint)
	c.MinIO.AccessKey = os.Getenv("MINIO_ROOT_USER")
	c.MinIO.SecretKey = os.Getenv("MINIO_ROOT_PASSWORD")

	c.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	c.Auth.AdminEmail = os.Getenv("ADMIN_EMAIL")
	c.Auth.AdminPassword = os.Getenv("ADMIN_PASSWORD")

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// validate 检查必需项
func (c *Config) validate() error {
	if c.Env == EnvProduction && c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if _, err := time.ParseDuration(c.Auth.AccessTokenTTL); err != nil {
		return fmt.Errorf("invalid auth.access_token_ttl %q: %w", c.Auth.AccessTokenTTL, err)
	}
	if _, err := time.ParseDuration(c.Auth.RefreshTokenTTL); err != nil {
		return fmt.Errorf("invalid auth.refresh_token_ttl %q: %w", c.Auth.RefreshTokenTTL, err)
	}
	if c.RateLimit.Enabled && (c.RateLimit.ApplyLimit <= 0 || c.RateLimit.ApplyWindow <= 0) {
		return fmt.Errorf("rate_limit.apply_limit and rate_limit.apply_window must be positive")
	}
	return nil
}

// effectiveConfigPaths 返回实际搜索路径
//
// 优先级：
//  1. --config 命令行参数（SetConfigDir）
//  2. CONFIG_DIR 环境变量
//  3. configs/、../configs/
func effectiveConfigPaths() []string {
	if configDir != "" {
		return []string{configDir}
	}
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		return []string{dir}
	}
	return []string{"configs", "../configs"}
}

// loadEnvFiles 加载 .env 文件
//
// 生产环境不搜索 .env 文件（密码由部署环境注入）。
// godotenv.Load 不覆盖已有环境变量，优先级低于 shell 环境变量。
func loadEnvFiles(env Environment) {
	if env == EnvProduction {
		return
	}
	for _, name := range []string{fmt.Sprintf(".env.%s", env), ".env"} {
		for _, dir := range envSearchDirs {
			if err := godotenv.Load(filepath.Join(dir, name)); err == nil {
				break
			}
		}
	}
}
