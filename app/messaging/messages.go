package messaging

import (
	"net/http"
	"time"

	"hously/rental-api/internal"
	"hously/rental-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MessageCreate appends a message to a conversation the caller is
// part of and bumps the thread so it sorts to the top
func MessageCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	conv, ok := fetchConversation(c, d, requestID)
	if !ok {
		return
	}

	var data struct {
		Content string `json:"content"`
	}

	if err := c.ShouldBind(&data); err != nil || data.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Message content is required",
			"requestID": requestID,
		})
		return
	}

	msg := model.Message{
		ConversationID: conv.ID,
		SenderID:       userID,
		Content:        data.Content,
	}

	err := d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}

		return tx.Model(conv).Update("updated_at", time.Now()).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create message", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, msg)
}
