package property

import (
	"net/http"

	"hously/rental-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Edit(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	prop, ok := fetchOwned(c, d, requestID)
	if !ok {
		return
	}

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

	prop.Title = data.Title
	prop.PropertyType = data.PropertyType
	prop.Location = data.Location
	prop.Address = data.Address
	prop.Price = data.Price
	prop.Bedrooms = data.Bedrooms
	prop.Bathrooms = data.Bathrooms
	prop.AreaSqft = data.AreaSqft
	prop.Description = data.Description
	prop.Status = data.Status
	prop.Furnished = data.Furnished
	prop.Parking = data.Parking
	prop.PetsAllowed = data.PetsAllowed
	prop.UtilitiesIncluded = data.UtilitiesIncluded

	if err := d.DB.Save(prop).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update property", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, prop)
}
