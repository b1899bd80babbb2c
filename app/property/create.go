package property

import (
	"net/http"

	"hously/rental-api/internal"
	"hously/rental-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Create(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data propertyBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if msg := data.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     msg,
			"requestID": requestID,
		})
		return
	}

	prop := model.Property{
		LandlordID:        userID,
		Title:             data.Title,
		PropertyType:      data.PropertyType,
		Location:          data.Location,
		Address:           data.Address,
		Price:             data.Price,
		Bedrooms:          data.Bedrooms,
		Bathrooms:         data.Bathrooms,
		AreaSqft:          data.AreaSqft,
		Description:       data.Description,
		Status:            data.Status,
		Furnished:         data.Furnished,
		Parking:           data.Parking,
		PetsAllowed:       data.PetsAllowed,
		UtilitiesIncluded: data.UtilitiesIncluded,
	}

	if prop.PropertyType == "" {
		prop.PropertyType = "apartment"
	}

	if prop.Status == "" {
		prop.Status = model.PropertyAvailable
	}

	if prop.Bedrooms == 0 {
		prop.Bedrooms = 1
	}

	if prop.Bathrooms == 0 {
		prop.Bathrooms = 1
	}

	if err := d.DB.Create(&prop).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create property", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, prop)
}
