package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gymfluence/api-go/models"
	"github.com/gymfluence/api-go/utils"
)

type MessageController struct {
	DB *gorm.DB
}

func NewMessageController(db *gorm.DB) *MessageController {
	return &MessageController{DB: db}
}

func (mc *MessageController) SendMessage(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		message(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	recipientID, ok := utils.ParseUintParam(c, "userId")
	if !ok {
		message(c, http.StatusBadRequest, "Invalid user id")
		return
	}
	if recipientID == claims.UserID {
		message(c, http.StatusBadRequest, "Cannot message yourself")
		return
	}

	var input struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		message(c, http.StatusBadRequest, err.Error())
		return
	}

	var recipient models.User
	if err := mc.DB.First(&recipient, recipientID).Error; err != nil {
		message(c, http.StatusNotFound, "User not found")
		return
	}

	msg := models.Message{
		SenderID:    claims.UserID,
		RecipientID: recipient.ID,
		Body:        input.Body,
	}
	if err := mc.DB.Create(&msg).Error; err != nil {
		message(c, http.StatusInternalServerError, "Failed to send message")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message_id": msg.ID})
}

// GetConversation returns the two-way thread with another user, oldest first,
// and marks the peer's messages read.
func (mc *MessageController) GetConversation(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		message(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	peerID, ok := utils.ParseUintParam(c, "userId")
	if !ok {
		message(c, http.StatusBadRequest, "Invalid user id")
		return
	}

	page, pageSize := utils.ParsePagination(c, 50, 200)
	offset := (page - 1) * pageSize

	var messages []models.Message
	if err := mc.DB.
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			claims.UserID, peerID, peerID, claims.UserID).
		Order("created_at ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&messages).Error; err != nil {
		message(c, http.StatusInternalServerError, "Error fetching conversation")
		return
	}

	now := time.Now()
	mc.DB.Model(&models.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND read_at IS NULL", peerID, claims.UserID).
		Update("read_at", &now)

	c.JSON(http.StatusOK, gin.H{"messages": messages, "page": page, "pageSize": pageSize})
}

// ListConversations returns the principal's conversation peers with the
// latest message per peer, newest first.
func (mc *MessageController) ListConversations(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		message(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var recent []models.Message
	if err := mc.DB.
		Where("sender_id = ? OR recipient_id = ?", claims.UserID, claims.UserID).
		Order("created_at DESC").
		Limit(500).
		Find(&recent).Error; err != nil {
		message(c, http.StatusInternalServerError, "Error fetching conversations")
		return
	}

	type conversation struct {
		PeerID   uint               `json:"peer_id"`
		LastBody string             `json:"last_body"`
		LastAt   time.Time          `json:"last_at"`
		Outgoing bool               `json:"outgoing"`
		Peer     models.UserSummary `json:"peer"`
	}

	seen := map[uint]bool{}
	conversations := []conversation{}
	for _, m := range recent {
		peerID := m.SenderID
		outgoing := false
		if m.SenderID == claims.UserID {
			peerID = m.RecipientID
			outgoing = true
		}
		if seen[peerID] {
			continue
		}
		seen[peerID] = true

		var peer models.User
		if err := mc.DB.First(&peer, peerID).Error; err != nil {
			continue
		}
		conversations = append(conversations, conversation{
			PeerID:   peerID,
			LastBody: m.Body,
			LastAt:   m.CreatedAt,
			Outgoing: outgoing,
			Peer:     peer.Summary(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}
