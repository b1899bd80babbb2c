package model

import "time"

// TokenLifetime is how long a verification token stays usable after
// it was created
const TokenLifetime = 24 * time.Hour

type VerificationToken struct {
	ID        int    `gorm:"primaryKey;autoIncrement"`
	Token     string `gorm:"uniqueIndex;not null"`
	UserID    string `gorm:"index;not null"`
	CreatedAt time.Time
	Used      bool `gorm:"default:false"`
	UsedAt    *time.Time
}

// IsValid reports whether the token can still be redeemed. A token
// is only good for a single use and expires TokenLifetime after
// creation.
func (t *VerificationToken) IsValid() bool {
	return t.IsValidAt(time.Now())
}

func (t *VerificationToken) IsValidAt(now time.Time) bool {
	return !t.Used && !now.After(t.CreatedAt.Add(TokenLifetime))
}
