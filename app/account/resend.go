package account

import (
	"errors"
	"net/http"
	"time"

	"hously/rental-api/internal"
	"hously/rental-api/internal/model"
	"hously/rental-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// resendCooldown debounces the resend button. This sits on top of the
// hourly issuance limit, the two throttles are independent.
const resendCooldown = 5 * time.Minute

type resendBody struct {
	Email string `json:"email"`
}

func ResendVerification(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	if !viper.GetBool("verification.enabled") {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Email verification is not enabled",
			"requestID": requestID,
		})
		return
	}

	var data resendBody
	if err := c.ShouldBind(&data); err != nil || data.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Email is required",
			"requestID": requestID,
		})
		return
	}

	var user model.User
	err := d.DB.Where("email = ?", data.Email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Never reveal whether an account exists
			c.JSON(http.StatusOK, gin.H{
				"message": "If an account with this email exists, a verification email has been sent.",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var profile model.Profile
	if err := d.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load profile", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if profile.EmailVerified {
		c.JSON(http.StatusOK, gin.H{
			"message": "Email is already verified",
		})
		return
	}

	recent, err := d.Verification.RecentlyIssued(c.Request.Context(), user.ID, resendCooldown)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check resend cooldown", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if recent {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":     "Verification email was recently sent. Please wait before requesting another.",
			"requestID": requestID,
		})
		return
	}

	if err := d.Verification.Issue(c.Request.Context(), &user); err != nil {
		if errors.Is(err, service.ErrRateLimited) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":     "Too many verification attempts. Please try again later.",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to send verification email. Please try again later.",
			"requestID": requestID,
		})

		zap.L().Error("Failed to resend verification email", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Verification email has been resent. Please check your inbox.",
		"email":   user.Email,
	})
}
