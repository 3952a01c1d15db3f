package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/gymfluence/api-go/controllers"
)

// SetupPostReadRoutes mounts the visibility-gated read surface; auth is
// optional so anonymous viewers can see public content.
func SetupPostReadRoutes(viewer *gin.RouterGroup, postController *controllers.PostController, interactionController *controllers.InteractionController) {
	viewer.GET("/users/:userId/posts", postController.GetUserPosts)

	posts := viewer.Group("/posts")
	{
		posts.GET("/:id/preview", postController.GetPostPreview)
		posts.GET("/:id/comments", interactionController.GetComments)
	}
}

func SetupPostRoutes(protected *gin.RouterGroup, postController *controllers.PostController, interactionController *controllers.InteractionController) {
	posts := protected.Group("/posts")
	{
		posts.POST("", postController.CreatePost)
		posts.DELETE("/:id", postController.DeletePost)
		posts.POST("/:id/like", interactionController.LikePost)
		posts.POST("/:id/comments", interactionController.CreateComment)
	}

	protected.DELETE("/comments/:id", interactionController.DeleteComment)
}
