// Package favorite lets tenants bookmark properties
package favorite

import (
	"errors"
	"net/http"
	"strconv"

	"hously/rental-api/internal"
	"hously/rental-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func List(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var favorites []model.Favorite
	err := d.DB.Where("tenant_id = ?", userID).
		Preload("Property").
		Preload("Property.Images").
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list favorites", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(favorites),
		"results": favorites,
	})
}

func Create(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data struct {
		PropertyID uint `json:"property_id"`
	}

	if err := c.ShouldBind(&data); err != nil || data.PropertyID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "property_id is required",
			"requestID": requestID,
		})
		return
	}

	var prop model.Property
	if err := d.DB.Where("id = ?", data.PropertyID).First(&prop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Property not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up property", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Saving the same property twice just returns the existing row
	var existing model.Favorite
	err := d.DB.Where("tenant_id = ? AND property_id = ?", userID, data.PropertyID).
		First(&existing).Error
	if err == nil {
		c.JSON(http.StatusOK, existing)
		return
	}

	fav := model.Favorite{
		TenantID:   userID,
		PropertyID: data.PropertyID,
	}

	if err := d.DB.Create(&fav).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create favorite", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, fav)
}

// Delete removes a favorite by property ID, not favorite ID, so the
// frontend doesn't have to track the join row
func Delete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	propertyID, err := strconv.ParseUint(c.Param("property_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid property ID",
			"requestID": requestID,
		})
		return
	}

	res := d.DB.Where("tenant_id = ? AND property_id = ?", userID, propertyID).
		Delete(&model.Favorite{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete favorite", zap.Error(res.Error), zap.String("requestID", requestID))
		return
	}

	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Favorite not found",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Favorite removed",
		"requestID": requestID,
	})
}
