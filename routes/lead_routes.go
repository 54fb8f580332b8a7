package routes

import (
	"github.com/MarisolQZ/pipeline_end/controllers"
	"github.com/MarisolQZ/pipeline_end/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterLeadRoutes registers lead pipeline routes. Creation is public so
// the site contact form can post straight in; everything else needs a token.
func RegisterLeadRoutes(router *gin.Engine) {
	router.POST("/api/leads", controllers.CreateLead)

	leads := router.Group("/api/leads")
	leads.Use(middleware.AuthMiddleware())

	leads.GET("/", controllers.GetLeads)
	leads.GET("/:id", controllers.GetLeadDetail)
	leads.PUT("/:id", controllers.UpdateLead)
	leads.DELETE("/:id", controllers.DeleteLead)

	leads.PUT("/:id/qualification", controllers.UpdateLeadQualification)
	leads.PUT("/:id/status", controllers.UpdateLeadStatus)
	leads.POST("/:id/contacted", controllers.MarkLeadContacted)
	leads.POST("/:id/appointment", controllers.ScheduleLeadAppointment)
	leads.POST("/:id/qualify", controllers.QualifyLead)
	leads.POST("/:id/disqualify", controllers.DisqualifyLead)
	leads.PUT("/:id/assign", controllers.AssignLead)
	leads.PUT("/:id/priority", controllers.SetLeadPriority)
	leads.PUT("/:id/unread", controllers.SetLeadUnread)
	leads.POST("/:id/convert", controllers.ConvertLead)

	leads.GET("/:id/activity", controllers.GetLeadActivity)
}
