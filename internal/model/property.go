package model

import "time"

var PropertyTypes = []string{"apartment", "house", "studio", "room", "duplex"}

const (
	PropertyAvailable   = "available"
	PropertyRented      = "rented"
	PropertyMaintenance = "maintenance"
)

var PropertyStatuses = []string{PropertyAvailable, PropertyRented, PropertyMaintenance}

type Property struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	LandlordID string `gorm:"index;not null" json:"landlord_id"`

	Title        string  `gorm:"not null" json:"title"`
	PropertyType string  `gorm:"default:apartment" json:"property_type"`
	Location     string  `gorm:"not null" json:"location"`
	Address      string  `json:"address"`
	Price        float64 `gorm:"not null" json:"price"`
	Bedrooms     int     `gorm:"default:1" json:"bedrooms"`
	Bathrooms    int     `gorm:"default:1" json:"bathrooms"`
	AreaSqft     int     `json:"area_sqft"`
	Description  string  `json:"description"`
	Status       string  `gorm:"default:available" json:"status"`

	Furnished         bool `json:"furnished"`
	Parking           bool `json:"parking"`
	PetsAllowed       bool `json:"pets_allowed"`
	UtilitiesIncluded bool `json:"utilities_included"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Images []PropertyImage `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

type PropertyImage struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID uint      `gorm:"index;not null" json:"-"`
	S3Key      string    `json:"s3_key"`
	Caption    string    `json:"caption"`
	IsPrimary  bool      `json:"is_primary"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// PropertyView is an analytics record written every time somebody
// opens a property detail page. ViewerID is nil for anonymous views.
type PropertyView struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID uint      `gorm:"index;not null" json:"property_id"`
	ViewerID   *string   `json:"viewer_id,omitempty"`
	IPAddress  string    `json:"ip_address"`
	ViewedAt   time.Time `json:"viewed_at"`
}
