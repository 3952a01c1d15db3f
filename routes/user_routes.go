package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/gymfluence/api-go/controllers"
)

func SetupUserRoutes(viewer *gin.RouterGroup, userController *controllers.UserController) {
	users := viewer.Group("/users")
	{
		users.GET("/search", userController.SearchUsers)
		users.GET("/:userId/profile", userController.GetUserProfile)
	}
}
