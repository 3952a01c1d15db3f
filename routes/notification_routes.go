package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/gymfluence/api-go/controllers"
)

func SetupNotificationRoutes(protected *gin.RouterGroup, notificationController *controllers.NotificationController) {
	notifications := protected.Group("/notifications")
	{
		notifications.GET("", notificationController.List)
		notifications.GET("/unread-count", notificationController.UnreadCount)
		notifications.POST("/:id/accept", notificationController.Accept)
		notifications.POST("/:id/decline", notificationController.Decline)
		notifications.POST("/:id/read", notificationController.MarkRead)
	}
}
