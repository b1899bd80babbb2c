package property

import (
	"net/http"

	"hously/rental-api/internal"
	"hously/rental-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Delete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	prop, ok := fetchOwned(c, d, requestID)
	if !ok {
		return
	}

	// Collect image keys before the rows cascade away
	var keys []string
	err := d.DB.Model(&model.PropertyImage{}).
		Where("property_id = ?", prop.ID).
		Pluck("s3_key", &keys).Error
	if err != nil {
		zap.L().Error("Failed to collect image keys", zap.Error(err), zap.String("requestID", requestID))
	}

	if err := d.DB.Delete(prop).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete property", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if len(keys) > 0 && d.S3 != nil {
		if err := d.S3.DeleteKeys(c.Request.Context(), keys); err != nil {
			zap.L().Error("Failed to delete property images from S3", zap.Error(err), zap.String("requestID", requestID))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Property deleted",
		"requestID": requestID,
	})
}
