package review

import (
	"errors"
	"net/http"

	"hously/rental-api/internal"
	"hously/rental-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PropertyReviewList is public, anyone may read reviews
func PropertyReviewList(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid property ID",
			"requestID": requestID,
		})
		return
	}

	var reviews []model.PropertyReview
	err := d.DB.Where("property_id = ?", id).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list property reviews", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(reviews),
		"results": reviews,
	})
}

// PropertyReviewCreate lets a tenant leave one review per property
func PropertyReviewCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid property ID",
			"requestID": requestID,
		})
		return
	}

	var data reviewBody
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

	var prop model.Property
	if err := d.DB.Where("id = ?", id).First(&prop).Error; err != nil {
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

	review := model.PropertyReview{
		PropertyID: id,
		TenantID:   userID,
		Rating:     data.Rating,
		Comment:    data.Comment,
	}

	if err := d.DB.Create(&review).Error; err != nil {
		if isDuplicate(err) {
			c.JSON(http.StatusConflict, gin.H{
				"error":     "You already reviewed this property",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create review", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, review)
}
