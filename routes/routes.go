package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gymfluence/api-go/controllers"
	"github.com/gymfluence/api-go/middleware"
	"github.com/gymfluence/api-go/services"
	"github.com/gymfluence/api-go/utils"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, logger *zap.Logger) {
	// Core services
	notificationService := services.NewNotificationService(db, logger)
	followService := services.NewFollowService(db, notificationService, logger)
	visibilityPolicy := services.NewVisibilityPolicy(db)
	mailer := utils.NewLogDispatcher(logger)

	// Controllers
	authController := controllers.NewAuthController(db, mailer)
	userController := controllers.NewUserController(db, followService, visibilityPolicy)
	followController := controllers.NewFollowController(followService)
	notificationController := controllers.NewNotificationController(notificationService, followService)
	postController := controllers.NewPostController(db, visibilityPolicy)
	interactionController := controllers.NewInteractionController(db, visibilityPolicy)
	messageController := controllers.NewMessageController(db)
	adminController := controllers.NewAdminController(db, logger)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
		public.POST("/verify-email", authController.VerifyEmail)
		public.POST("/password-reset/request", authController.RequestPasswordReset)
		public.POST("/password-reset/confirm", authController.ResetPassword)
	}

	// Viewer-relative reads: auth optional, anonymous allowed
	viewer := r.Group("/api")
	viewer.Use(middleware.OptionalAuthMiddleware())
	{
		viewer.GET("/follow-state/:targetId", followController.GetFollowState)
		viewer.GET("/followers/:userId", followController.GetFollowers)
		viewer.GET("/following/:userId", followController.GetFollowing)
		SetupUserRoutes(viewer, userController)
		SetupPostReadRoutes(viewer, postController, interactionController)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/logout", authController.Logout)
		protected.POST("/refresh-token", authController.RefreshToken)
		protected.GET("/profile", authController.GetProfile)
		protected.PUT("/profile", authController.UpdateProfile)
		protected.PUT("/settings/privacy", authController.UpdatePrivacy)

		protected.POST("/follow/:targetId", followController.Follow)

		SetupNotificationRoutes(protected, notificationController)
		SetupPostRoutes(protected, postController, interactionController)
		SetupMessageRoutes(protected, messageController)

		protected.POST("/users/:userId/report", userController.ReportUser)
	}

	// Admin routes
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireAdmin())
	{
		SetupAdminRoutes(admin, adminController)
	}
}
