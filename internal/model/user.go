// Package model defines database models
package model

import "time"

type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`

	// Accounts start inactive and are activated by email verification
	// or by an operator flipping the flag directly
	Active bool `gorm:"default:false" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	Profile            Profile             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	VerificationTokens []VerificationToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
