package service

import (
	"time"

	"hously/rental-api/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TokenCleanup periodically deletes verification tokens that expired.
// Expired-but-unused tokens are never mutated on access, this sweep
// is the only thing that removes them.
func TokenCleanup(t time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Token cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			cutoff := time.Now().Add(-model.TokenLifetime)

			r := db.
				Where("created_at < ?", cutoff).
				Delete(&model.VerificationToken{})
			if r.Error != nil {
				zap.L().Error("Failed to cleanup expired tokens", zap.Error(r.Error))
				continue
			}

			if r.RowsAffected > 0 {
				zap.L().Debug("Cleaned up expired tokens", zap.Int64("count", r.RowsAffected))
			}
		}
	}()
}
