package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/MarisolQZ/pipeline_end/models"
	"github.com/MarisolQZ/pipeline_end/repository"
	"github.com/MarisolQZ/pipeline_end/service"
	"github.com/MarisolQZ/pipeline_end/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecordDeployment appends a release record. Deployments are append-only;
// there is no update or delete path short of permanently deleting the
// project itself.
func RecordDeployment(c *gin.Context) {
	var input models.DeploymentCreateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	project, ok := loadGuardedProject(c, ctx)
	if !ok {
		return
	}
	pid := project.ID.Hex()

	result, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		deployment := models.Deployment{
			ProjectID:   pid,
			Environment: input.Environment,
			VersionTag:  input.VersionTag,
			Notes:       input.Notes,
			CreatedAt:   time.Now(),
		}

		inserted, err := repository.Collection(repository.DeploymentsCollection).InsertOne(sc, deployment)
		if err != nil {
			return nil, err
		}
		if oid, ok := inserted.InsertedID.(primitive.ObjectID); ok {
			deployment.ID = oid
		}

		if _, err := service.AppendActivity(sc, models.ActivityOwnerProject, pid,
			models.ActivityDeploymentRecorded,
			fmt.Sprintf("Deployed %s to %s", input.VersionTag, input.Environment),
			map[string]interface{}{"environment": input.Environment, "versionTag": input.VersionTag}); err != nil {
			return nil, err
		}

		return deployment, nil
	})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"projectId": pid})
		return
	}

	c.JSON(http.StatusCreated, models.OKResult("Deployment recorded.", result))
}

// GetDeployments lists a project's release history, newest first.
func GetDeployments(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	project, apiErr := loadProject(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	cursor, err := repository.Collection(repository.DeploymentsCollection).Find(ctx,
		bson.M{"projectId": project.ID.Hex()},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer cursor.Close(ctx)

	var deployments []models.Deployment
	if err = cursor.All(ctx, &deployments); err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "deployments": deployments})
}
