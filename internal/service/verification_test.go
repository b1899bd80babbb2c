package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"hously/rental-api/db"
	"hously/rental-api/internal/model"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.Migrate(conn))

	return conn
}

func seedUser(t *testing.T, conn *gorm.DB, id, email string) *model.User {
	t.Helper()

	user := &model.User{
		ID:    id,
		Email: email,
		Profile: model.Profile{
			UserID: id,
			Role:   model.RoleTenant,
		},
	}
	require.NoError(t, conn.Create(user).Error)

	return user
}

func newVerification(conn *gorm.DB, mailer Mailer) *Verification {
	return NewVerification(conn, mailer, NewMemoryRateLimiter())
}

func TestIssueSendsMailWithTokenLink(t *testing.T) {
	viper.Set("verification.backend_url", "http://localhost:8080")
	viper.Set("mail.from", "support@example.com")

	conn := newTestDB(t)
	user := seedUser(t, conn, "userone", "one@example.com")

	mailer := &MemoryMailer{}
	v := newVerification(conn, mailer)

	require.NoError(t, v.Issue(context.Background(), user))

	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, user.Email, sent[0].To)

	var token model.VerificationToken
	require.NoError(t, conn.Where("user_id = ?", user.ID).First(&token).Error)

	assert.Contains(t, sent[0].HTML, token.Token)
	assert.Contains(t, sent[0].Plain, token.Token)
	assert.False(t, token.Used)

	var profile model.Profile
	require.NoError(t, conn.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.True(t, profile.EmailVerificationSent)
}

func TestIssueLeavesSingleLiveToken(t *testing.T) {
	conn := newTestDB(t)
	user := seedUser(t, conn, "usertwo", "two@example.com")

	v := newVerification(conn, &MemoryMailer{})

	for i := 0; i < 3; i++ {
		require.NoError(t, v.Issue(context.Background(), user))
	}

	var live int64
	require.NoError(t, conn.Model(&model.VerificationToken{}).
		Where("user_id = ? AND used = ?", user.ID, false).
		Count(&live).Error)
	assert.EqualValues(t, 1, live)

	var total int64
	require.NoError(t, conn.Model(&model.VerificationToken{}).
		Where("user_id = ?", user.ID).
		Count(&total).Error)
	assert.EqualValues(t, 3, total)
}

func TestIssueRateLimited(t *testing.T) {
	conn := newTestDB(t)
	user := seedUser(t, conn, "userthree", "three@example.com")

	mailer := &MemoryMailer{}
	v := newVerification(conn, mailer)

	for i := 0; i < EmailRateLimit; i++ {
		require.NoError(t, v.Issue(context.Background(), user))
	}

	err := v.Issue(context.Background(), user)
	assert.ErrorIs(t, err, ErrRateLimited)

	// The denied call must not have created a token or sent a mail
	var total int64
	require.NoError(t, conn.Model(&model.VerificationToken{}).
		Where("user_id = ?", user.ID).
		Count(&total).Error)
	assert.EqualValues(t, EmailRateLimit, total)
	assert.Len(t, mailer.Sent(), EmailRateLimit)
}

func TestIssueFailedSendInvalidatesToken(t *testing.T) {
	conn := newTestDB(t)
	user := seedUser(t, conn, "userfour", "four@example.com")

	mailer := &MemoryMailer{FailWith: errors.New("smtp down")}
	v := newVerification(conn, mailer)

	err := v.Issue(context.Background(), user)
	assert.ErrorIs(t, err, ErrMailDispatch)

	var token model.VerificationToken
	require.NoError(t, conn.Where("user_id = ?", user.ID).First(&token).Error)
	assert.True(t, token.Used, "a token nobody received must not stay redeemable")
}

func TestVerifyActivatesUserOnce(t *testing.T) {
	conn := newTestDB(t)
	user := seedUser(t, conn, "userfive", "five@example.com")

	v := newVerification(conn, &MemoryMailer{})
	require.NoError(t, v.Issue(context.Background(), user))

	var token model.VerificationToken
	require.NoError(t, conn.Where("user_id = ?", user.ID).First(&token).Error)

	got, err := v.Verify(context.Background(), token.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.True(t, got.Active)

	var profile model.Profile
	require.NoError(t, conn.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.True(t, profile.EmailVerified)

	var stored model.User
	require.NoError(t, conn.Where("id = ?", user.ID).First(&stored).Error)
	assert.True(t, stored.Active)

	// Tokens are single use, replaying one must fail
	_, err = v.Verify(context.Background(), token.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyUnknownToken(t *testing.T) {
	conn := newTestDB(t)

	v := newVerification(conn, &MemoryMailer{})

	_, err := v.Verify(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyExpiredTokenStaysUnused(t *testing.T) {
	conn := newTestDB(t)
	user := seedUser(t, conn, "usersix", "six@example.com")

	v := newVerification(conn, &MemoryMailer{})
	require.NoError(t, v.Issue(context.Background(), user))

	var token model.VerificationToken
	require.NoError(t, conn.Where("user_id = ?", user.ID).First(&token).Error)

	// Push the token past its lifetime
	backdated := time.Now().Add(-model.TokenLifetime - time.Minute)
	require.NoError(t, conn.Model(&model.VerificationToken{}).
		Where("id = ?", token.ID).
		Update("created_at", backdated).Error)

	_, err := v.Verify(context.Background(), token.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// Expired tokens are left for the cleanup sweep, not flipped to used
	var stored model.VerificationToken
	require.NoError(t, conn.Where("id = ?", token.ID).First(&stored).Error)
	assert.False(t, stored.Used)

	var stored2 model.User
	require.NoError(t, conn.Where("id = ?", user.ID).First(&stored2).Error)
	assert.False(t, stored2.Active)
}

func TestRecentlyIssued(t *testing.T) {
	conn := newTestDB(t)
	user := seedUser(t, conn, "userseven", "seven@example.com")

	v := newVerification(conn, &MemoryMailer{})

	recent, err := v.RecentlyIssued(context.Background(), user.ID, 5*time.Minute)
	require.NoError(t, err)
	assert.False(t, recent)

	require.NoError(t, v.Issue(context.Background(), user))

	recent, err = v.RecentlyIssued(context.Background(), user.ID, 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, recent)

	// Superseded tokens still count against the cooldown
	require.NoError(t, v.Issue(context.Background(), user))

	recent, err = v.RecentlyIssued(context.Background(), user.ID, 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, recent)
}
