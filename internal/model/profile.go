package model

import "time"

const (
	RoleLandlord = "landlord"
	RoleTenant   = "tenant"
)

// Profile extends a User with their role and everything attached to it.
// The role is fixed at registration and never changes afterwards, it
// decides which endpoints the user may write to.
type Profile struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"`
	Role   string `gorm:"not null" json:"user_type"`

	PhoneNumber string `json:"phone_number"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`
	Website     string `json:"website"`

	// Landlord-only fields, empty for tenants
	PropertyName    string `json:"property_name,omitempty"`
	YearsExperience int    `json:"years_experience,omitempty"`

	TotalPropertyViews     int `gorm:"default:0" json:"total_property_views"`
	TotalInquiriesReceived int `gorm:"default:0" json:"total_inquiries_received"`

	EmailVerified         bool `gorm:"default:false" json:"email_verified"`
	EmailVerificationSent bool `gorm:"default:false" json:"email_verification_sent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
