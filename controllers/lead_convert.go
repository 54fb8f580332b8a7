package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/MarisolQZ/pipeline_end/models"
	"github.com/MarisolQZ/pipeline_end/service"
	"github.com/MarisolQZ/pipeline_end/utils"

	"github.com/gin-gonic/gin"
)

// ConvertLead creates a delivery project from a lead. Repeated calls create
// additional projects; conversion is not a one-shot transition.
func ConvertLead(c *gin.Context) {
	var input models.LeadConvertRequest
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	lead, apiErr := loadLead(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	result, err := service.ConvertLeadToProject(ctx, lead, input)
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"leadId": lead.ID.Hex()})
		return
	}

	respondResult(c, result)
}
