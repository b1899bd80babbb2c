package account

import (
	"errors"
	"net/http"

	"hously/rental-api/internal"
	"hously/rental-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProfileFetch returns the caller's own profile
func ProfileFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	profile, user, ok := loadProfile(c, d, userID, requestID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, profileDetail(d, user, profile))
}

// ProfileDetail returns any user's public profile
func ProfileDetail(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.Param("user_id")

	profile, user, ok := loadProfile(c, d, userID, requestID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, profileDetail(d, user, profile))
}

type profileUpdateBody struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
	Bio         *string `json:"bio"`
	Location    *string `json:"location"`
	Website     *string `json:"website"`

	PropertyName    *string `json:"property_name"`
	YearsExperience *int    `json:"years_experience"`
}

// ProfileUpdate changes the caller's profile. The role is fixed at
// registration, there is deliberately no way to switch it here.
func ProfileUpdate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data profileUpdateBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	profile, user, ok := loadProfile(c, d, userID, requestID)
	if !ok {
		return
	}

	userCols := map[string]any{}
	if data.FirstName != nil {
		userCols["first_name"] = *data.FirstName
	}
	if data.LastName != nil {
		userCols["last_name"] = *data.LastName
	}

	profileCols := map[string]any{}
	if data.PhoneNumber != nil {
		profileCols["phone_number"] = *data.PhoneNumber
	}
	if data.Bio != nil {
		profileCols["bio"] = *data.Bio
	}
	if data.Location != nil {
		profileCols["location"] = *data.Location
	}
	if data.Website != nil {
		profileCols["website"] = *data.Website
	}

	if profile.Role == model.RoleLandlord {
		if data.PropertyName != nil {
			profileCols["property_name"] = *data.PropertyName
		}
		if data.YearsExperience != nil {
			profileCols["years_experience"] = *data.YearsExperience
		}
	}

	err := d.DB.Transaction(func(tx *gorm.DB) error {
		if len(userCols) > 0 {
			if err := tx.Model(&model.User{}).Where("id = ?", userID).Updates(userCols).Error; err != nil {
				return err
			}
		}

		if len(profileCols) > 0 {
			return tx.Model(&model.Profile{}).Where("user_id = ?", userID).Updates(profileCols).Error
		}

		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update profile", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	profile, user, ok = loadProfile(c, d, userID, requestID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, profileDetail(d, user, profile))
}

func loadProfile(c *gin.Context, d *internal.Deps, userID, requestID string) (*model.Profile, *model.User, bool) {
	var user model.User
	if err := d.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "User not found",
				"requestID": requestID,
			})
			return nil, nil, false
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return nil, nil, false
	}

	var profile model.Profile
	if err := d.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "User profile not found",
				"requestID": requestID,
			})
			return nil, nil, false
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load profile", zap.Error(err), zap.String("requestID", requestID))
		return nil, nil, false
	}

	return &profile, &user, true
}

// profileDetail adds the derived landlord stats the frontend shows on
// profile pages
func profileDetail(d *internal.Deps, user *model.User, profile *model.Profile) gin.H {
	out := gin.H{
		"user":    userSummary(user, profile),
		"profile": profile,
	}

	if profile.Role == model.RoleLandlord {
		var avgRating *float64
		row := d.DB.Model(&model.LandlordReview{}).
			Select("avg(rating)").
			Where("landlord_id = ?", user.ID).
			Row()
		if err := row.Scan(&avgRating); err != nil {
			zap.L().Debug("Failed to compute average rating", zap.Error(err))
		}

		var totalProperties int64
		d.DB.Model(&model.Property{}).Where("landlord_id = ?", user.ID).Count(&totalProperties)

		out["average_rating"] = avgRating
		out["total_properties"] = totalProperties
	}

	return out
}
