package validators

import (
	"errors"

	"hously/rental-api/internal/model"
)

var (
	ErrRoleEmpty   = errors.New("no user type provided")
	ErrRoleInvalid = errors.New("user type must be either landlord or tenant")
)

func RoleValidator(r string) error {
	if r == "" {
		return ErrRoleEmpty
	}

	if r != model.RoleLandlord && r != model.RoleTenant {
		return ErrRoleInvalid
	}

	return nil
}
