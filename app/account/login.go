package account

import (
	"errors"
	"net/http"
	"strings"

	"hously/rental-api/internal"
	"hously/rental-api/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data loginBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Email == "" || data.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Both email and password are required",
			"requestID": requestID,
		})
		return
	}

	var user model.User

	if err := d.DB.Where("email = ?", data.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Invalid credentials",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	ok, err := d.Argon.VerifyPasswd(data.Password, user.PasswordHash)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":     "Invalid credentials",
			"requestID": requestID,
		})
		return
	}

	var profile model.Profile
	if err := d.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load profile", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if viper.GetBool("verification.enabled") && !profile.EmailVerified {
		base := strings.TrimRight(viper.GetString("verification.backend_url"), "/")

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":                   "Email not verified. Please check your email for the verification link.",
			"resend_verification_url": base + "/api/accounts/resend-verification-email",
			"requestID":               requestID,
		})
		return
	}

	access, err := makeToken(user.ID, "auth", accessTokenTTL)
	if err == nil {
		var refresh string
		refresh, err = makeToken(user.ID, "refresh", refreshTokenTTL)

		if err == nil {
			c.SetCookie("auth_token", access, int(accessTokenTTL.Seconds()), "/", "", false, true)

			c.JSON(http.StatusOK, gin.H{
				"message": "Login successful",
				"user":    userSummary(&user, &profile),
				"profile": profile,
				"access":  access,
				"refresh": refresh,
			})
			return
		}
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error":     "Internal server error",
		"requestID": requestID,
	})

	zap.L().Error("Failed to generate JWT tokens", zap.Error(err), zap.String("requestID", requestID))
}

type refreshBody struct {
	Refresh string `json:"refresh"`
}

// Refresh exchanges a refresh token for a fresh access token
func Refresh(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data refreshBody
	if err := c.ShouldBind(&data); err != nil || data.Refresh == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Refresh token is required",
			"requestID": requestID,
		})
		return
	}

	userID, err := parseRefreshToken(data.Refresh)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":     "token_invalid",
			"requestID": requestID,
		})
		return
	}

	var user model.User
	if err := d.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":     "token_invalid",
			"requestID": requestID,
		})
		return
	}

	access, err := makeToken(user.ID, "auth", accessTokenTTL)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate JWT auth token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access": access,
	})
}
