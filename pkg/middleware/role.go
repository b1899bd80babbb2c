package middleware

import (
	"errors"
	"net/http"

	"hously/rental-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RequireRole lets only users whose profile carries the given role
// through. Must run after the JWT middleware so userID is set.
func RequireRole(d *gorm.DB, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)
		userID := c.MustGet("userID").(string)

		var profile model.Profile
		err := d.Where("user_id = ?", userID).First(&profile).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
					"error":     "User profile not found",
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to load profile for role check", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if profile.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":     "Only " + role + "s may do this",
				"requestID": requestID,
			})
			return
		}

		c.Set("role", profile.Role)
		c.Next()
	}
}
