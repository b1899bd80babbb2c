package model

import "time"

// Conversation ties a landlord and a tenant together, optionally
// about a specific property. The unique index stops duplicate
// threads for the same triple.
type Conversation struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	LandlordID string    `gorm:"uniqueIndex:idx_conv_parties;not null" json:"landlord_id"`
	TenantID   string    `gorm:"uniqueIndex:idx_conv_parties;not null" json:"tenant_id"`
	PropertyID *uint     `gorm:"uniqueIndex:idx_conv_parties" json:"property_id,omitempty"`
	Subject    string    `json:"subject"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

type Message struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uint      `gorm:"index;not null" json:"conversation_id"`
	SenderID       string    `gorm:"not null" json:"sender_id"`
	Content        string    `gorm:"not null" json:"content"`
	Read           bool      `gorm:"default:false" json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}
