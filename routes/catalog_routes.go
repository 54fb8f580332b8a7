package routes

import (
	"github.com/MarisolQZ/pipeline_end/controllers"
	"github.com/MarisolQZ/pipeline_end/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterCatalogRoutes registers service and pricing package routes.
// Listing is public for the landing page; mutations need a token.
func RegisterCatalogRoutes(router *gin.Engine) {
	router.GET("/api/services", controllers.GetServices)
	router.GET("/api/services/:id", controllers.GetServiceDetail)

	services := router.Group("/api/services")
	services.Use(middleware.AuthMiddleware())

	services.POST("/", controllers.CreateService)
	services.DELETE("/:id", controllers.DeleteService)

	services.POST("/:id/packages", controllers.CreatePackage)
	services.PUT("/:id/packages/:pkgId", controllers.UpdatePackage)
	services.DELETE("/:id/packages/:pkgId", controllers.DeletePackage)
	services.POST("/:id/packages/:pkgId/move", controllers.MovePackage)
	services.PUT("/:id/packages/reorder", controllers.ReorderPackages)

	services.POST("/:id/packages/:pkgId/features", controllers.AddPackageFeature)
	services.PUT("/:id/packages/:pkgId/features/:featureId", controllers.UpdatePackageFeature)
	services.DELETE("/:id/packages/:pkgId/features/:featureId", controllers.DeletePackageFeature)
	services.POST("/:id/packages/:pkgId/features/:featureId/move", controllers.MovePackageFeature)
}
