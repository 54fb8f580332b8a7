package controllers

import (
	"context"
	"net/http"

	"github.com/MarisolQZ/pipeline_end/models"
	"github.com/MarisolQZ/pipeline_end/repository"
	"github.com/MarisolQZ/pipeline_end/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// respondResult maps the uniform operation result onto an HTTP response.
func respondResult(c *gin.Context, res *models.OpResult) {
	switch {
	case res.OK:
		c.JSON(http.StatusOK, res)
	case res.FieldErrors != nil:
		c.JSON(http.StatusUnprocessableEntity, res)
	default:
		c.JSON(http.StatusBadRequest, res)
	}
}

// respondFailure logs an infrastructure error and answers with a generic
// failure result.
func respondFailure(c *gin.Context, err error, logCtx map[string]interface{}) {
	utils.LogError(err, logCtx, "operation failed")
	c.JSON(http.StatusInternalServerError, models.FailResult(""))
}

// loadLead fetches a lead by hex id.
func loadLead(ctx context.Context, id string) (*models.Lead, *utils.ApiError) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.CreateBadRequestError("invalid lead id")
	}

	var lead models.Lead
	err = repository.Collection(repository.LeadsCollection).
		FindOne(ctx, bson.M{"_id": objID}).Decode(&lead)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.CreateNotFoundError("lead")
		}
		return nil, utils.NewApiError(err.Error(), http.StatusInternalServerError, "DB_ERROR")
	}

	return &lead, nil
}

// loadProject fetches a project by hex id.
func loadProject(ctx context.Context, id string) (*models.Project, *utils.ApiError) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.CreateBadRequestError("invalid project id")
	}

	var project models.Project
	err = repository.Collection(repository.ProjectsCollection).
		FindOne(ctx, bson.M{"_id": objID}).Decode(&project)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.CreateNotFoundError("project")
		}
		return nil, utils.NewApiError(err.Error(), http.StatusInternalServerError, "DB_ERROR")
	}

	return &project, nil
}

// loadService fetches a service by hex id.
func loadService(ctx context.Context, id string) (*models.Service, *utils.ApiError) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.CreateBadRequestError("invalid service id")
	}

	var svc models.Service
	err = repository.Collection(repository.ServicesCollection).
		FindOne(ctx, bson.M{"_id": objID}).Decode(&svc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.CreateNotFoundError("service")
		}
		return nil, utils.NewApiError(err.Error(), http.StatusInternalServerError, "DB_ERROR")
	}

	return &svc, nil
}
