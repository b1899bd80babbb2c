package account

import (
	"net/http"

	"hously/rental-api/internal"
	"hously/rental-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LandlordList returns every landlord profile together with their
// aggregate stats. Public, cached at the router.
func LandlordList(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var profiles []model.Profile
	err := d.DB.Where("role = ?", model.RoleLandlord).Find(&profiles).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list landlords", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}

	// One grouped query per aggregate instead of two per landlord
	type countRow struct {
		LandlordID string
		N          int64
	}
	type ratingRow struct {
		LandlordID string
		Avg        float64
	}

	propertyCounts := map[string]int64{}
	if len(ids) > 0 {
		var rows []countRow
		err := d.DB.Model(&model.Property{}).
			Select("landlord_id, count(*) as n").
			Where("landlord_id IN ?", ids).
			Group("landlord_id").
			Find(&rows).Error
		if err != nil {
			zap.L().Error("Failed to count properties", zap.Error(err), zap.String("requestID", requestID))
		}

		for _, r := range rows {
			propertyCounts[r.LandlordID] = r.N
		}
	}

	ratings := map[string]float64{}
	if len(ids) > 0 {
		var rows []ratingRow
		err := d.DB.Model(&model.LandlordReview{}).
			Select("landlord_id, avg(rating) as avg").
			Where("landlord_id IN ?", ids).
			Group("landlord_id").
			Find(&rows).Error
		if err != nil {
			zap.L().Error("Failed to average ratings", zap.Error(err), zap.String("requestID", requestID))
		}

		for _, r := range rows {
			ratings[r.LandlordID] = r.Avg
		}
	}

	out := make([]gin.H, 0, len(profiles))
	for _, p := range profiles {
		entry := gin.H{
			"profile":          p,
			"total_properties": propertyCounts[p.UserID],
		}

		if avg, ok := ratings[p.UserID]; ok {
			entry["average_rating"] = avg
		} else {
			entry["average_rating"] = nil
		}

		out = append(out, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"landlords": out,
	})
}
