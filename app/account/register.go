package account

import (
	"errors"
	"net/http"

	"hously/rental-api/internal"
	"hously/rental-api/internal/model"
	"hously/rental-api/internal/service"
	"hously/rental-api/pkg/validators"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

type registerBody struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"user_type"`

	PhoneNumber string `json:"phone_number"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`

	// Only meaningful when registering as a landlord
	PropertyName    string `json:"property_name"`
	YearsExperience int    `json:"years_experience"`
}

func Register(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data registerBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if err := validators.RoleValidator(data.Role); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	var found bool

	r := d.DB.Model(model.User{}).
		Select("count(*) > 0").
		Where("email = ?", data.Email).
		Find(&found)
	if r.Error != nil && !errors.Is(r.Error, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check if user is registered", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	if found {
		c.JSON(http.StatusConflict, gin.H{
			"error":     "This email is already registered. Please login or use a different email",
			"requestID": requestID,
		})
		return
	}

	hash, err := d.Argon.GenerateFromPassword(data.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	userID, err := gonanoid.Generate(idCharset, 16)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate user ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	verificationEnabled := viper.GetBool("verification.enabled")

	user := &model.User{
		ID:           userID,
		Email:        data.Email,
		PasswordHash: hash,
		FirstName:    data.FirstName,
		LastName:     data.LastName,

		// Without verification there is nothing to wait for
		Active: !verificationEnabled,

		Profile: model.Profile{
			UserID:      userID,
			Role:        data.Role,
			PhoneNumber: data.PhoneNumber,
			Bio:         data.Bio,
			Location:    data.Location,
		},
	}

	if data.Role == model.RoleLandlord {
		user.Profile.PropertyName = data.PropertyName
		user.Profile.YearsExperience = data.YearsExperience
	}

	if err := d.DB.Create(user).Error; err != nil {
		// The exists check above races with concurrent registrations,
		// the unique index on email is what actually decides
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{
				"error":     "This email is already registered. Please login or use a different email",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	message := "Registration successful."

	if verificationEnabled {
		message = "Registration successful. Please check your email to verify your account."

		// A failed mail never blocks account creation, the user can
		// always ask for a resend later
		if err := d.Verification.Issue(c.Request.Context(), user); err != nil {
			if errors.Is(err, service.ErrRateLimited) {
				zap.L().Warn("Registration hit verification rate limit", zap.String("userID", userID))
			} else {
				zap.L().Error("Failed to send verification email", zap.Error(err), zap.String("requestID", requestID))
			}
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": message,
		"user":    userSummary(user, &user.Profile),
	})
}
