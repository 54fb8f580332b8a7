package routes

import (
	"github.com/MarisolQZ/pipeline_end/controllers"
	"github.com/MarisolQZ/pipeline_end/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterProjectRoutes registers project, requirement, milestone,
// deployment and file routes.
func RegisterProjectRoutes(router *gin.Engine) {
	projects := router.Group("/api/projects")
	projects.Use(middleware.AuthMiddleware())

	projects.GET("/", controllers.GetProjects)
	projects.POST("/", controllers.CreateProject)
	projects.PUT("/reorder", controllers.ReorderProjects)
	projects.GET("/:id", controllers.GetProjectDetail)
	projects.PUT("/:id", controllers.UpdateProject)

	projects.PUT("/:id/status", controllers.UpdateProjectStatus)
	projects.POST("/:id/archive", controllers.ArchiveProject)
	projects.POST("/:id/unarchive", controllers.UnarchiveProject)
	projects.POST("/:id/trash", controllers.TrashProject)
	projects.POST("/:id/restore", controllers.RestoreProject)
	projects.DELETE("/:id", controllers.PermanentDeleteProject)
	projects.POST("/:id/duplicate", controllers.DuplicateProject)
	projects.POST("/:id/move", controllers.MoveProject)

	projects.GET("/:id/activity", controllers.GetProjectActivity)

	projects.POST("/:id/requirements", controllers.AddRequirement)
	projects.PUT("/:id/requirements/:reqId", controllers.UpdateRequirement)
	projects.POST("/:id/requirements/:reqId/toggle", controllers.ToggleRequirement)
	projects.POST("/:id/requirements/:reqId/move", controllers.MoveRequirement)
	projects.DELETE("/:id/requirements/:reqId", controllers.DeleteRequirement)
	projects.POST("/:id/requirement-groups/:group/toggle", controllers.ToggleRequirementGroup)
	projects.PUT("/:id/requirement-groups/:group/reorder", controllers.ReorderRequirements)

	projects.POST("/:id/milestones", controllers.AddMilestone)
	projects.PUT("/:id/milestones/:msId", controllers.UpdateMilestone)
	projects.POST("/:id/milestones/:msId/move", controllers.MoveMilestone)
	projects.PUT("/:id/milestones/reorder", controllers.ReorderMilestones)
	projects.DELETE("/:id/milestones/:msId", controllers.DeleteMilestone)

	projects.GET("/:id/deployments", controllers.GetDeployments)
	projects.POST("/:id/deployments", controllers.RecordDeployment)

	projects.POST("/:id/files", controllers.AttachFile)
	projects.DELETE("/:id/files/:fileId", controllers.RemoveFile)
}
