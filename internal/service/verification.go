package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hously/rental-api/internal/model"
	"hously/rental-api/pkg/security"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrRateLimited means the hourly issuance budget for this email
	// is spent
	ErrRateLimited = errors.New("too many verification attempts")

	// ErrMailDispatch means the transport rejected the message. The
	// token created for it is already invalidated by the time this is
	// returned.
	ErrMailDispatch = errors.New("failed to dispatch verification mail")

	// ErrTokenInvalid covers both unknown and already-used tokens.
	// Callers must not tell those cases apart, that would hand
	// feedback to someone guessing tokens.
	ErrTokenInvalid = errors.New("invalid verification token")

	ErrTokenExpired   = errors.New("verification token expired")
	ErrProfileMissing = errors.New("user profile not found")
)

// Verification owns the token lifecycle: issuing tokens over mail and
// redeeming them later
type Verification struct {
	DB      *gorm.DB
	Mailer  Mailer
	Limiter RateLimiter
}

func NewVerification(db *gorm.DB, mailer Mailer, limiter RateLimiter) *Verification {
	return &Verification{
		DB:      db,
		Mailer:  mailer,
		Limiter: limiter,
	}
}

// Issue invalidates every live token the user still has, creates a
// fresh one and mails the verification link. At most one usable token
// exists per user once this returns.
//
// A failed send invalidates the fresh token too, a link nobody
// received must not stay redeemable. The rate limit slot consumed at
// the start is not returned on failure, failed sends still count
// against the hourly budget.
func (s *Verification) Issue(ctx context.Context, user *model.User) error {
	if !s.Limiter.Allow(ctx, user.Email) {
		zap.L().Warn("Verification mail rate limit exceeded", zap.String("email", user.Email))
		return ErrRateLimited
	}

	token, err := security.MakeVerificationToken(user.ID)
	if err != nil {
		return err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.VerificationToken{}).
			Where("user_id = ? AND used = ?", user.ID, false).
			Updates(map[string]any{
				"used":    true,
				"used_at": time.Now(),
			}).Error
		if err != nil {
			return err
		}

		return tx.Create(token).Error
	})
	if err != nil {
		return fmt.Errorf("failed to rotate verification token, %w", err)
	}

	mail := buildVerificationMail(user, token.Token)

	if err := s.Mailer.Send(mail); err != nil {
		// Kill the token so a half-failed send can't leave a live
		// link nobody got
		markErr := s.DB.WithContext(ctx).
			Model(&model.VerificationToken{}).
			Where("id = ?", token.ID).
			Updates(map[string]any{
				"used":    true,
				"used_at": time.Now(),
			}).Error
		if markErr != nil {
			zap.L().Error("Failed to invalidate token after failed send", zap.Error(markErr))
		}

		return fmt.Errorf("%w, %v", ErrMailDispatch, err)
	}

	err = s.DB.WithContext(ctx).
		Model(&model.Profile{}).
		Where("user_id = ?", user.ID).
		Update("email_verification_sent", true).Error
	if err != nil {
		zap.L().Error("Failed to flag verification mail as sent", zap.Error(err), zap.String("userID", user.ID))
	}

	zap.L().Info("Verification mail sent", zap.String("userID", user.ID))
	return nil
}

// Verify redeems a token and activates its owner. Expired tokens are
// left untouched for the sweep job to collect, only a successful
// redemption mutates state.
func (s *Verification) Verify(ctx context.Context, tokenID string) (*model.User, error) {
	var token model.VerificationToken

	err := s.DB.WithContext(ctx).
		Where("token = ? AND used = ?", tokenID, false).
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}

	if !token.IsValid() {
		return nil, ErrTokenExpired
	}

	var user model.User
	if err := s.DB.WithContext(ctx).Where("id = ?", token.UserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}

	var profile model.Profile
	if err := s.DB.WithContext(ctx).Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileMissing
		}
		return nil, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !profile.EmailVerified {
			err := tx.Model(&model.Profile{}).
				Where("user_id = ?", user.ID).
				Update("email_verified", true).Error
			if err != nil {
				return err
			}
		}

		if !user.Active {
			err := tx.Model(&model.User{}).
				Where("id = ?", user.ID).
				Update("active", true).Error
			if err != nil {
				return err
			}
		}

		return tx.Model(&model.VerificationToken{}).
			Where("id = ?", token.ID).
			Updates(map[string]any{
				"used":    true,
				"used_at": time.Now(),
			}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to redeem verification token, %w", err)
	}

	user.Active = true

	zap.L().Info("Email verified", zap.String("userID", user.ID))
	return &user, nil
}

// RecentlyIssued reports whether any token for the user was created
// within the given duration. Superseded tokens count too, the check
// debounces resend requests rather than tracking live tokens.
func (s *Verification) RecentlyIssued(ctx context.Context, userID string, within time.Duration) (bool, error) {
	var found bool

	err := s.DB.WithContext(ctx).
		Model(&model.VerificationToken{}).
		Select("count(*) > 0").
		Where("user_id = ? AND created_at > ?", userID, time.Now().Add(-within)).
		Find(&found).Error

	return found, err
}

func buildVerificationMail(user *model.User, token string) *Mail {
	base := strings.TrimRight(viper.GetString("verification.backend_url"), "/")
	link := fmt.Sprintf("%s/api/accounts/verify-email/%s", base, token)

	support := viper.GetString("mail.from")

	name := user.FirstName
	if name == "" {
		name = user.Email
	}

	html := fmt.Sprintf(`<p>Hello %s,</p>
<p>Please verify your email address by clicking <a href="%s">this link</a> or opening it directly:</p>
<p>%s</p>
<p>The link expires in 24 hours. If you didn't create an account you can ignore this mail.</p>
<p>Need help? Contact us at %s.</p>`, name, link, link, support)

	return &Mail{
		To:      user.Email,
		Subject: "Verify Your Email Address - Hously",
		HTML:    html,
		Plain:   StripTags(html),
	}
}
