package property

import (
	"errors"
	"net/http"
	"time"

	"hously/rental-api/internal"
	"hously/rental-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Fetch returns a single property and records the view for the
// landlord's analytics. Anonymous viewers are tracked by IP only.
func Fetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid property ID",
			"requestID": requestID,
		})
		return
	}

	var prop model.Property
	err := d.DB.Where("id = ?", id).Preload("Images").First(&prop).Error
	if err != nil {
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

		zap.L().Error("Failed to fetch property", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	trackView(d, &prop, c)

	c.JSON(http.StatusOK, prop)
}

// trackView is best effort, a failed analytics write never breaks the
// detail page
func trackView(d *internal.Deps, prop *model.Property, c *gin.Context) {
	view := model.PropertyView{
		PropertyID: prop.ID,
		IPAddress:  c.ClientIP(),
		ViewedAt:   time.Now(),
	}

	if viewerID := c.GetString("userID"); viewerID != "" {
		view.ViewerID = &viewerID
	}

	if err := d.DB.Create(&view).Error; err != nil {
		zap.L().Error("Failed to record property view", zap.Error(err))
		return
	}

	err := d.DB.Model(&model.Profile{}).
		Where("user_id = ?", prop.LandlordID).
		Update("total_property_views", gorm.Expr("total_property_views + 1")).Error
	if err != nil {
		zap.L().Error("Failed to bump landlord view counter", zap.Error(err))
	}
}

// Views lists the raw view records of one of the caller's properties
func Views(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	prop, ok := fetchOwned(c, d, requestID)
	if !ok {
		return
	}

	var views []model.PropertyView
	err := d.DB.Where("property_id = ?", prop.ID).
		Order("viewed_at DESC").
		Limit(500).
		Find(&views).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list property views", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(views),
		"results": views,
	})
}
