package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gymfluence/api-go/services"
	"github.com/gymfluence/api-go/utils"
)

type NotificationController struct {
	Notifications *services.NotificationService
	Follows       *services.FollowService
}

func NewNotificationController(notifications *services.NotificationService, follows *services.FollowService) *NotificationController {
	return &NotificationController{Notifications: notifications, Follows: follows}
}

// List returns the principal's notifications, newest first, paginated.
func (nc *NotificationController) List(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		message(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	page, pageSize := utils.ParsePagination(c, 50, 200)
	items, err := nc.Notifications.List(c.Request.Context(), claims.UserID, page, pageSize)
	if err != nil {
		message(c, http.StatusInternalServerError, "Error fetching notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": items, "page": page, "pageSize": pageSize})
}

// Accept approves the follow request behind a FOLLOW_REQUEST notification.
func (nc *NotificationController) Accept(c *gin.Context) {
	nc.resolveRequest(c, nc.Follows.AcceptFollowRequest)
}

// Decline rejects the follow request; the pending edge is deleted.
func (nc *NotificationController) Decline(c *gin.Context) {
	nc.resolveRequest(c, nc.Follows.DeclineFollowRequest)
}

func (nc *NotificationController) resolveRequest(c *gin.Context, resolve func(ctx context.Context, recipientID, notificationID uint) error) {
	claims := utils.GetUser(c)
	if claims == nil {
		message(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		message(c, http.StatusBadRequest, "Invalid notification id")
		return
	}

	if err := resolve(c.Request.Context(), claims.UserID, id); err != nil {
		if errors.Is(err, services.ErrInvalidNotification) {
			message(c, http.StatusBadRequest, "Invalid notification")
			return
		}
		message(c, http.StatusInternalServerError, "Error resolving follow request")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// MarkRead flips a single notification to read.
func (nc *NotificationController) MarkRead(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		message(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, ok := utils.ParseUintParam(c, "id")
	if !ok {
		message(c, http.StatusBadRequest, "Invalid notification id")
		return
	}

	if err := nc.Notifications.MarkRead(c.Request.Context(), claims.UserID, id); err != nil {
		if errors.Is(err, services.ErrInvalidNotification) {
			message(c, http.StatusBadRequest, "Invalid notification")
			return
		}
		message(c, http.StatusInternalServerError, "Error updating notification")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// UnreadCount backs the notification badge.
func (nc *NotificationController) UnreadCount(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		message(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cnt, err := nc.Notifications.UnreadCount(c.Request.Context(), claims.UserID)
	if err != nil {
		message(c, http.StatusInternalServerError, "Error fetching notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": cnt})
}
