package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/MarisolQZ/pipeline_end/models"
	"github.com/MarisolQZ/pipeline_end/repository"
	"github.com/MarisolQZ/pipeline_end/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ownerActivity(ctx context.Context, ownerType models.ActivityOwnerType, ownerID string, limit int64) ([]models.ActivityEntry, error) {
	cursor, err := repository.Collection(repository.ActivitiesCollection).Find(ctx,
		bson.M{"ownerType": ownerType, "ownerId": ownerID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.ActivityEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetLeadActivity lists a lead's timeline, newest first.
func GetLeadActivity(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lead, apiErr := loadLead(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	entries, err := ownerActivity(ctx, models.ActivityOwnerLead, lead.ID.Hex(), 200)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "activity": entries})
}

// GetProjectActivity lists a project's timeline, newest first. Readable even
// when the project sits in Trash.
func GetProjectActivity(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	project, apiErr := loadProject(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	entries, err := ownerActivity(ctx, models.ActivityOwnerProject, project.ID.Hex(), 200)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "activity": entries})
}
