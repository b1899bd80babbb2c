package model

import "time"

// One review per tenant per property, enforced with a composite
// unique index
type PropertyReview struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID uint      `gorm:"uniqueIndex:idx_property_tenant;not null" json:"property_id"`
	TenantID   string    `gorm:"uniqueIndex:idx_property_tenant;not null" json:"tenant_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type LandlordReview struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	LandlordID string    `gorm:"uniqueIndex:idx_landlord_tenant;not null" json:"landlord_id"`
	TenantID   string    `gorm:"uniqueIndex:idx_landlord_tenant;not null" json:"tenant_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
