package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryRateLimiterWindow(t *testing.T) {
	t.Parallel()

	now := time.Now()
	limiter := NewMemoryRateLimiter()
	limiter.Now = func() time.Time { return now }

	ctx := context.Background()

	for i := 0; i < EmailRateLimit; i++ {
		assert.True(t, limiter.Allow(ctx, "a@example.com"), "call %d should be allowed", i+1)
	}

	assert.False(t, limiter.Allow(ctx, "a@example.com"), "call over the limit should be denied")

	// One second past the window the budget resets
	now = now.Add(EmailRateWindow + time.Second)
	assert.True(t, limiter.Allow(ctx, "a@example.com"))
}

func TestMemoryRateLimiterKeysAreIndependent(t *testing.T) {
	t.Parallel()

	limiter := NewMemoryRateLimiter()
	ctx := context.Background()

	for i := 0; i < EmailRateLimit; i++ {
		limiter.Allow(ctx, "a@example.com")
	}

	assert.False(t, limiter.Allow(ctx, "a@example.com"))
	assert.True(t, limiter.Allow(ctx, "b@example.com"), "a different email must have its own budget")
}

func TestMemoryRateLimiterDeniedCallsDontExtendWindow(t *testing.T) {
	t.Parallel()

	now := time.Now()
	limiter := NewMemoryRateLimiter()
	limiter.Now = func() time.Time { return now }

	ctx := context.Background()

	for i := 0; i < EmailRateLimit; i++ {
		limiter.Allow(ctx, "a@example.com")
	}

	// Hammering the limiter while denied must not push the reset out
	now = now.Add(30 * time.Minute)
	assert.False(t, limiter.Allow(ctx, "a@example.com"))

	now = now.Add(EmailRateWindow/2 + time.Second)
	assert.True(t, limiter.Allow(ctx, "a@example.com"))
}
