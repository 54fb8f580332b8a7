package routes

import (
	"github.com/MarisolQZ/pipeline_end/repository"
	"github.com/MarisolQZ/pipeline_end/utils"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every resource group onto the engine.
func RegisterRoutes(router *gin.Engine) {
	RegisterAuthRoutes(router)
	RegisterLeadRoutes(router)
	RegisterProjectRoutes(router)
	RegisterCatalogRoutes(router)
	RegisterDashboardRoutes(router)

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/api/db-status", func(c *gin.Context) {
		status, err := repository.GetDatabaseStatus()
		if err != nil {
			utils.ErrorResponse(c, "failed to read database status: "+err.Error(), 500)
			return
		}
		utils.SuccessResponse(c, status, "")
	})
}
