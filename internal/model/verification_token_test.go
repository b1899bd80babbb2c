package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerificationTokenIsValidAt(t *testing.T) {
	t.Parallel()

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	token := VerificationToken{Token: "abc", CreatedAt: created}

	assert.True(t, token.IsValidAt(created))
	assert.True(t, token.IsValidAt(created.Add(time.Hour)))

	// The boundary itself is still valid, one nanosecond past isn't
	assert.True(t, token.IsValidAt(created.Add(TokenLifetime)))
	assert.False(t, token.IsValidAt(created.Add(TokenLifetime+time.Nanosecond)))
}

func TestVerificationTokenUsedNeverValid(t *testing.T) {
	t.Parallel()

	now := time.Now()
	token := VerificationToken{Token: "abc", CreatedAt: now, Used: true}

	assert.False(t, token.IsValidAt(now))
}
