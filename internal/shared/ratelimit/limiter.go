// Package ratelimit 固定窗口限流
//
// 两种实现共用 Limiter 接口：
//   - MemoryLimiter：进程内计数，单实例部署
//   - RedisLimiter：Redis INCR + PEXPIRE，多实例共享计数
package ratelimit

import (
	"sync"
	"time"
)

// Limiter 限流器
type Limiter interface {
	Allow(key string, limit int, window time.Duration) bool
}

// sweepThreshold 桶数量超过该值时清理过期桶
const sweepThreshold = 10000

// MemoryLimiter 进程内固定窗口限流
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	count     int
	windowEnd time.Time
}

// NewMemoryLimiter 创建进程内限流器
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(key string, limit int, window time.Duration) bool {
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok || now.After(b.windowEnd) {
		if len(l.buckets) >= sweepThreshold {
			l.sweep(now)
		}
		l.buckets[key] = &bucket{count: 1, windowEnd: now.Add(window)}
		return true
	}
	if b.count >= limit {
		return false
	}
	b.count++
	return true
}

func (l *MemoryLimiter) sweep(now time.Time) {
	for k, b := range l.buckets {
		if now.After(b.windowEnd) {
			delete(l.buckets, k)
		}
	}
}
