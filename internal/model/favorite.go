package model

import "time"

type Favorite struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID   string    `gorm:"uniqueIndex:idx_tenant_property;not null" json:"tenant_id"`
	PropertyID uint      `gorm:"uniqueIndex:idx_tenant_property;not null" json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`

	Property Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"property"`
}
