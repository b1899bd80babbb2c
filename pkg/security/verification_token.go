package security

import (
	"errors"
	"time"

	"hously/rental-api/internal/model"

	"github.com/google/uuid"
)

// MakeVerificationToken builds a fresh single-use token for a user.
// The token identifier is a random UUID4, 122 bits of entropy, which
// is what makes the verify endpoint safe without its own throttle.
func MakeVerificationToken(userID string) (*model.VerificationToken, error) {
	if userID == "" {
		return nil, errors.New("no user ID provided")
	}

	return &model.VerificationToken{
		UserID:    userID,
		Token:     uuid.NewString(),
		CreatedAt: time.Now(),
		Used:      false,
	}, nil
}
