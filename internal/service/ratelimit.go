package service

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Issuance limits for verification mails, counted per email address
const (
	EmailRateLimit  = 5
	EmailRateWindow = time.Hour
)

// RateLimiter gates verification mail issuance. Allow reports whether
// another mail may be sent for the given key and consumes one slot
// when it may.
type RateLimiter interface {
	Allow(ctx context.Context, key string) bool
}

// RedisRateLimiter counts attempts in redis so the limit holds across
// multiple instances of the app. The key expires on its own once the
// window elapses, there is no cleanup pass.
type RedisRateLimiter struct {
	Client *redis.Client
	Limit  int64
	Window time.Duration
}

func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{
		Client: client,
		Limit:  EmailRateLimit,
		Window: EmailRateWindow,
	}
}

func (r *RedisRateLimiter) Allow(ctx context.Context, key string) bool {
	n, err := r.Client.Incr(ctx, "email_rate_limit:"+key).Result()
	if err != nil {
		// A broken counter store shouldn't lock everyone out of
		// verification mails
		zap.L().Warn("Rate limit counter unavailable, allowing request", zap.Error(err))
		return true
	}

	if n == 1 {
		if err := r.Client.Expire(ctx, "email_rate_limit:"+key, r.Window).Err(); err != nil {
			zap.L().Warn("Failed to set rate limit key expiry", zap.Error(err))
		}
	}

	return n <= r.Limit
}

type bucket struct {
	count     int
	windowEnd time.Time
}

// MemoryRateLimiter is the single-instance fallback used when redis
// isn't configured, and by tests. Same counting-window behaviour as
// the redis version.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	Limit  int
	Window time.Duration

	// Now is swappable so tests can move time forward
	Now func() time.Time
}

func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{
		buckets: make(map[string]*bucket),
		Limit:   EmailRateLimit,
		Window:  EmailRateWindow,
		Now:     time.Now,
	}
}

func (m *MemoryRateLimiter) Allow(_ context.Context, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.Now()

	b, ok := m.buckets[key]
	if !ok || now.After(b.windowEnd) {
		m.buckets[key] = &bucket{count: 1, windowEnd: now.Add(m.Window)}
		return true
	}

	if b.count >= m.Limit {
		return false
	}

	b.count++
	return true
}
