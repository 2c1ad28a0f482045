package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Racheal-stack/ProFootball-Real-Time-Backend/internal/config"
)

// Limiter decides whether a user may post another chat message inside
// the current window.
type Limiter interface {
	Allow(ctx context.Context, userID string) (bool, error)
}

// RedisLimiter counts messages per user in Redis so the window holds
// across multiple server instances.
type RedisLimiter struct {
	client *redis.Client
	cfg    config.RateLimitConfig
}

func NewRedisLimiter(client *redis.Client, cfg config.RateLimitConfig) *RedisLimiter {
	return &RedisLimiter{client: client, cfg: cfg}
}

func (l *RedisLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, l.cfg.Timeout)
	defer cancel()

	key := fmt.Sprintf("ratelimit:chat:%s", userID)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.client.PExpire(ctx, key, l.cfg.Window).Err(); err != nil {
			return false, err
		}
	}

	return count <= int64(l.cfg.MaxMessages), nil
}

// LocalLimiter is the in-process fallback used when Redis is down or
// not configured. Same window semantics, per-instance counting.
type LocalLimiter struct {
	mu      sync.Mutex
	entries map[string]*windowCount
	cfg     config.RateLimitConfig
	now     func() time.Time
}

type windowCount struct {
	count   int
	resetAt time.Time
}

func NewLocalLimiter(cfg config.RateLimitConfig) *LocalLimiter {
	return &LocalLimiter{
		entries: make(map[string]*windowCount),
		cfg:     cfg,
		now:     time.Now,
	}
}

func (l *LocalLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.entries[userID]
	if !ok || now.After(entry.resetAt) {
		entry = &windowCount{resetAt: now.Add(l.cfg.Window)}
		l.entries[userID] = entry
	}
	entry.count++

	return entry.count <= l.cfg.MaxMessages, nil
}
