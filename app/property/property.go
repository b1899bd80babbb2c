// Package property holds the listing endpoints: CRUD, search,
// images and view analytics
package property

import (
	"errors"
	"net/http"
	"slices"
	"strconv"

	"hously/rental-api/internal"
	"hously/rental-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type propertyBody struct {
	Title             string  `json:"title"`
	PropertyType      string  `json:"property_type"`
	Location          string  `json:"location"`
	Address           string  `json:"address"`
	Price             float64 `json:"price"`
	Bedrooms          int     `json:"bedrooms"`
	Bathrooms         int     `json:"bathrooms"`
	AreaSqft          int     `json:"area_sqft"`
	Description       string  `json:"description"`
	Status            string  `json:"status"`
	Furnished         bool    `json:"furnished"`
	Parking           bool    `json:"parking"`
	PetsAllowed       bool    `json:"pets_allowed"`
	UtilitiesIncluded bool    `json:"utilities_included"`
}

func (b *propertyBody) validate() string {
	if b.Title == "" {
		return "Title is required"
	}

	if b.Location == "" {
		return "Location is required"
	}

	if b.Price <= 0 {
		return "Price must be bigger than 0"
	}

	if b.PropertyType != "" && !slices.Contains(model.PropertyTypes, b.PropertyType) {
		return "Invalid property type"
	}

	if b.Status != "" && !slices.Contains(model.PropertyStatuses, b.Status) {
		return "Invalid status"
	}

	return ""
}

// parseID reads the :id route param
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}

	return uint(id), true
}

// fetchOwned loads a property and checks the caller is its landlord.
// Writes the error response itself when something is off.
func fetchOwned(c *gin.Context, d *internal.Deps, requestID string) (*model.Property, bool) {
	userID := c.MustGet("userID").(string)

	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid property ID",
			"requestID": requestID,
		})
		return nil, false
	}

	var prop model.Property
	err := d.DB.Where("id = ?", id).First(&prop).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Property not found",
				"requestID": requestID,
			})
			return nil, false
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up property", zap.Error(err), zap.String("requestID", requestID))
		return nil, false
	}

	if prop.LandlordID != userID {
		c.JSON(http.StatusForbidden, gin.H{
			"error":     "You can only modify your own properties",
			"requestID": requestID,
		})
		return nil, false
	}

	return &prop, true
}
