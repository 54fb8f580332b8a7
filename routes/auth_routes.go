package routes

import (
	"github.com/MarisolQZ/pipeline_end/controllers"
	"github.com/MarisolQZ/pipeline_end/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers authentication routes.
func RegisterAuthRoutes(router *gin.Engine) {
	auth := router.Group("/api/auth")

	// public, no token required
	auth.POST("/login", controllers.Login)
	auth.POST("/register", controllers.Register)

	auth.GET("/validate", middleware.AuthMiddleware(), controllers.ValidateToken)
}
