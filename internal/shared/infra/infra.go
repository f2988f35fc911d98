// Package infra 基础设施聚合层
//
// 按配置初始化并持有运行时依赖：
//   - Storage：持久化存储（MongoDB / PostgreSQL / SQLite）
//   - Redis：限流计数（可选）
//   - Archive：通知书归档（MinIO，可选）
package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"jobboard/internal/config"
	"jobboard/internal/shared/objstore"
	"jobboard/internal/shared/ratelimit"
	"jobboard/internal/shared/storage"
	"jobboard/internal/shared/storage/driver/postgres"
	"jobboard/internal/shared/storage/driver/sqlite"
	"jobboard/internal/shared/storage/mongostore"
	"jobboard/internal/shared/storage/repository"
	"jobboard/pkg/logging"
)

// Infrastructure 基础设施聚合结构
type Infrastructure struct {
	// Storage 持久化存储
	Storage storage.PersistentStore

	// Redis 客户端，未配置时为 nil
	Redis *redis.Client

	// Archive 通知书归档，未配置 MinIO 时为 nil
	Archive *objstore.Client
}

// Open 按配置初始化基础设施
//
// 数据库不可用时返回错误；Redis / MinIO 连接失败只记录警告并降级
func Open(ctx context.Context, cfg *config.Config, log *logging.Logger) (*Infrastructure, error) {
	if log == nil {
		log = logging.Nop()
	}
	log = log.Named("infra")

	store, err := OpenStorage(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("Storage ready", zap.String("driver", cfg.DatabaseDriver))

	inf := &Infrastructure{Storage: store}

	if cfg.RedisURL != "" {
		client, err := ratelimit.OpenRedis(cfg.RedisURL)
		if err != nil {
			log.Warn("Redis unavailable, falling back to in-process rate limiting", zap.Error(err))
		} else {
			inf.Redis = client
			log.Info("Redis connected")
		}
	}

	if cfg.MinIO.Endpoint != "" {
		archive, err := openArchive(ctx, cfg.MinIO, log)
		if err != nil {
			log.Warn("MinIO unavailable, offer letters will not be archived", zap.Error(err))
		} else {
			inf.Archive = archive
		}
	}

	return inf, nil
}

// OpenStorage 按驱动打开持久化存储，SQL 驱动会自动建表
func OpenStorage(cfg *config.Config) (storage.PersistentStore, error) {
	switch cfg.DatabaseDriver {
	case "", "mongodb":
		store, err := mongostore.NewStore(cfg.DatabaseURL, cfg.DatabaseDBName)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "sqlite":
		db, err := sqlite.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		dialect := sqlite.NewDialect()
		if err := dialect.AutoMigrate(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite migrate: %w", err)
		}
		return repository.NewStore(db, dialect), nil
	case "postgres":
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		dialect := postgres.NewDialect()
		if err := dialect.AutoMigrate(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("postgres migrate: %w", err)
		}
		return repository.NewStore(db, dialect), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}

func openArchive(ctx context.Context, cfg config.MinIOConfig, log *logging.Logger) (*objstore.Client, error) {
	client, err := objstore.NewClient(cfg, log)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	log.Info("MinIO ready", zap.String("bucket", client.Bucket()))
	return client, nil
}

// Limiter 返回限流器：有 Redis 时多实例共享计数，否则使用进程内计数
func (i *Infrastructure) Limiter() ratelimit.Limiter {
	if i.Redis != nil {
		return ratelimit.NewRedisLimiter(i.Redis)
	}
	return ratelimit.NewMemoryLimiter()
}

// Close 关闭所有基础设施连接
func (i *Infrastructure) Close() error {
	var lastErr error

	if i.Storage != nil {
		if err := i.Storage.Close(); err != nil {
			lastErr = err
		}
	}

	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}
