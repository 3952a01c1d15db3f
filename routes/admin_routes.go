package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/gymfluence/api-go/controllers"
)

func SetupAdminRoutes(admin *gin.RouterGroup, adminController *controllers.AdminController) {
	admin.GET("/reports", adminController.ListReports)
	admin.PUT("/reports/:id", adminController.UpdateReport)
	admin.DELETE("/users/:userId", adminController.PurgeUser)
}
