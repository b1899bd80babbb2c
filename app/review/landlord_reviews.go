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

func LandlordReviewList(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	landlordID := c.Param("id")

	var reviews []model.LandlordReview
	err := d.DB.Where("landlord_id = ?", landlordID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list landlord reviews", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(reviews),
		"results": reviews,
	})
}

// LandlordReviewCreate checks the target actually is a landlord
// before accepting the review
func LandlordReviewCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)
	landlordID := c.Param("id")

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

	var profile model.Profile
	if err := d.DB.Where("user_id = ?", landlordID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Landlord not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up landlord", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if profile.Role != model.RoleLandlord {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "User is not a landlord",
			"requestID": requestID,
		})
		return
	}

	review := model.LandlordReview{
		LandlordID: landlordID,
		TenantID:   userID,
		Rating:     data.Rating,
		Comment:    data.Comment,
	}

	if err := d.DB.Create(&review).Error; err != nil {
		if isDuplicate(err) {
			c.JSON(http.StatusConflict, gin.H{
				"error":     "You already reviewed this landlord",
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
