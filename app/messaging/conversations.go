// Package messaging implements landlord/tenant conversations
package messaging

import (
	"errors"
	"net/http"
	"strconv"

	"hously/rental-api/internal"
	"hously/rental-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}

	return uint(id), true
}

// fetchConversation loads a conversation and rejects anyone who isn't
// one of its two participants
func fetchConversation(c *gin.Context, d *internal.Deps, requestID string) (*model.Conversation, bool) {
	userID := c.MustGet("userID").(string)

	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid conversation ID",
			"requestID": requestID,
		})
		return nil, false
	}

	var conv model.Conversation
	if err := d.DB.Where("id = ?", id).First(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Conversation not found",
				"requestID": requestID,
			})
			return nil, false
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch conversation", zap.Error(err), zap.String("requestID", requestID))
		return nil, false
	}

	if conv.LandlordID != userID && conv.TenantID != userID {
		c.JSON(http.StatusForbidden, gin.H{
			"error":     "You are not part of this conversation",
			"requestID": requestID,
		})
		return nil, false
	}

	return &conv, true
}

// List returns the caller's conversations, most recently active first
func List(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var convs []model.Conversation
	err := d.DB.Where("landlord_id = ? OR tenant_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&convs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list conversations", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(convs),
		"results": convs,
	})
}

// Detail returns a conversation with its messages and marks the
// counterpart's messages as read
func Detail(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	conv, ok := fetchConversation(c, d, requestID)
	if !ok {
		return
	}

	err := d.DB.Model(&model.Message{}).
		Where("conversation_id = ? AND sender_id != ? AND read = ?", conv.ID, userID, false).
		Update("read", true).Error
	if err != nil {
		zap.L().Error("Failed to mark messages read", zap.Error(err), zap.String("requestID", requestID))
	}

	var messages []model.Message
	err = d.DB.Where("conversation_id = ?", conv.ID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load messages", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	conv.Messages = messages

	c.JSON(http.StatusOK, conv)
}

// UnreadCount reports how many messages across all of the caller's
// conversations are still unread
func UnreadCount(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var count int64
	err := d.DB.Model(&model.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("(conversations.landlord_id = ? OR conversations.tenant_id = ?)", userID, userID).
		Where("messages.sender_id != ? AND messages.read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to count unread messages", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unread_count": count,
	})
}
