package internal

import (
	"hously/rental-api/aws"
	"hously/rental-api/internal/service"
	"hously/rental-api/pkg/security"

	"gorm.io/gorm"
)

type Deps struct {
	DB           *gorm.DB
	Argon        *security.ArgonHash
	S3           *aws.S3Client
	Verification *service.Verification
	Mailer       service.Mailer
}
