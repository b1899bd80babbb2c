package service

import (
	"testing"
	"time"

	"hously/rental-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCleanupDeletesOnlyExpired(t *testing.T) {
	conn := newTestDB(t)

	expired := model.VerificationToken{
		Token:     "expired-token",
		UserID:    "someone",
		CreatedAt: time.Now().Add(-model.TokenLifetime - time.Hour),
	}
	fresh := model.VerificationToken{
		Token:     "fresh-token",
		UserID:    "someone",
		CreatedAt: time.Now(),
	}
	require.NoError(t, conn.Create(&expired).Error)
	require.NoError(t, conn.Create(&fresh).Error)

	TokenCleanup(10*time.Millisecond, conn)

	assert.Eventually(t, func() bool {
		var count int64
		conn.Model(&model.VerificationToken{}).Count(&count)
		return count == 1
	}, time.Second, 20*time.Millisecond)

	var remaining model.VerificationToken
	require.NoError(t, conn.First(&remaining).Error)
	assert.Equal(t, "fresh-token", remaining.Token)
}
