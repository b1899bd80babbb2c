package messaging

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

type startBody struct {
	PropertyID uint   `json:"property_id"`
	Subject    string `json:"subject"`
	Message    string `json:"message"`
}

// Start opens (or reuses) a conversation between a tenant and the
// landlord of a property, seeded with a first message. Starting a new
// thread counts as an inquiry on the landlord's profile.
func Start(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data startBody
	if err := c.ShouldBind(&data); err != nil || data.PropertyID == 0 || data.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "property_id and message are required",
			"requestID": requestID,
		})
		return
	}

	var prop model.Property
	if err := d.DB.Where("id = ?", data.PropertyID).First(&prop).Error; err != nil {
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

	if prop.LandlordID == userID {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "You can't start a conversation about your own property",
			"requestID": requestID,
		})
		return
	}

	var conv model.Conversation
	err := d.DB.Where("landlord_id = ? AND tenant_id = ? AND property_id = ?",
		prop.LandlordID, userID, prop.ID).
		First(&conv).Error

	created := false

	switch {
	case err == nil:
		// Existing thread, just append
	case errors.Is(err, gorm.ErrRecordNotFound):
		propertyID := prop.ID
		conv = model.Conversation{
			LandlordID: prop.LandlordID,
			TenantID:   userID,
			PropertyID: &propertyID,
			Subject:    data.Subject,
		}

		if err := d.DB.Create(&conv).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to create conversation", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		created = true
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up conversation", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	msg := model.Message{
		ConversationID: conv.ID,
		SenderID:       userID,
		Content:        data.Message,
	}

	err = d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}

		if err := tx.Model(&conv).Update("updated_at", time.Now()).Error; err != nil {
			return err
		}

		if created {
			return tx.Model(&model.Profile{}).
				Where("user_id = ?", prop.LandlordID).
				Update("total_inquiries_received", gorm.Expr("total_inquiries_received + 1")).Error
		}

		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store message", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	c.JSON(status, gin.H{
		"conversation": conv,
		"message":      msg,
	})
}
