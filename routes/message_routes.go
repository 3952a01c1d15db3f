package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/gymfluence/api-go/controllers"
)

func SetupMessageRoutes(protected *gin.RouterGroup, messageController *controllers.MessageController) {
	protected.GET("/conversations", messageController.ListConversations)

	messages := protected.Group("/messages")
	{
		messages.POST("/:userId", messageController.SendMessage)
		messages.GET("/:userId", messageController.GetConversation)
	}
}
