package routes

import (
	"github.com/MarisolQZ/pipeline_end/controllers"
	"github.com/MarisolQZ/pipeline_end/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterDashboardRoutes registers the stats endpoint.
func RegisterDashboardRoutes(router *gin.Engine) {
	dashboard := router.Group("/api/dashboard")
	dashboard.Use(middleware.AuthMiddleware())

	dashboard.GET("/stats", controllers.GetDashboardStats)
}
