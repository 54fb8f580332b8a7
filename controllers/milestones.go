package controllers

import (
	"context"
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

// milestoneScope reads the ordering siblings of one project's milestones.
func milestoneScope(ctx context.Context, projectID string) ([]service.OrderedItem, error) {
	cursor, err := repository.Collection(repository.MilestonesCollection).Find(ctx,
		bson.M{"projectId": projectID},
		options.Find().SetProjection(bson.M{"_id": 1, "sortOrder": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []models.Milestone
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	items := make([]service.OrderedItem, 0, len(rows))
	for _, m := range rows {
		items = append(items, service.OrderedItem{ID: m.ID.Hex(), SortOrder: m.SortOrder})
	}
	return items, nil
}

func loadMilestone(ctx context.Context, projectID, id string) (*models.Milestone, *utils.ApiError) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.CreateBadRequestError("invalid milestone id")
	}

	var milestone models.Milestone
	err = repository.Collection(repository.MilestonesCollection).
		FindOne(ctx, bson.M{"_id": objID, "projectId": projectID}).Decode(&milestone)
	if err == mongo.ErrNoDocuments {
		return nil, utils.CreateNotFoundError("milestone")
	}
	if err != nil {
		return nil, utils.CreateInternalServerError("failed to load milestone")
	}
	return &milestone, nil
}

// AddMilestone appends a milestone at the end of the project's sequence.
func AddMilestone(c *gin.Context) {
	var input models.MilestoneCreateRequest
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
		scope, err := milestoneScope(sc, pid)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		milestone := models.Milestone{
			ProjectID: pid,
			Title:     input.Title,
			DueDate:   input.DueDate,
			Status:    models.MilestoneStatusNOT_STARTED,
			SortOrder: service.NextSortOrder(scope),
			CreatedAt: now,
			UpdatedAt: now,
		}

		inserted, err := repository.Collection(repository.MilestonesCollection).InsertOne(sc, milestone)
		if err != nil {
			return nil, err
		}
		if oid, ok := inserted.InsertedID.(primitive.ObjectID); ok {
			milestone.ID = oid
		}
		return milestone, nil
	})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"projectId": pid})
		return
	}

	c.JSON(http.StatusCreated, models.OKResult("Milestone added.", result))
}

// UpdateMilestone edits title, due date or status.
func UpdateMilestone(c *gin.Context) {
	var input models.MilestoneUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	project, ok := loadGuardedProject(c, ctx)
	if !ok {
		return
	}
	pid := project.ID.Hex()

	milestone, apiErr := loadMilestone(ctx, pid, c.Param("msId"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	if input.Status != nil && !service.IsValidMilestoneStatus(*input.Status) {
		respondResult(c, models.RejectResult("Unknown milestone status.", map[string]string{
			"status": "Unknown milestone status: " + string(*input.Status),
		}))
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.DueDate != nil {
		set["dueDate"] = *input.DueDate
	}
	if input.Status != nil {
		set["status"] = *input.Status
	}

	_, err := repository.Collection(repository.MilestonesCollection).UpdateOne(ctx,
		bson.M{"_id": milestone.ID}, bson.M{"$set": set})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"milestoneId": milestone.ID.Hex()})
		return
	}

	respondResult(c, models.OKResult("Milestone updated.", nil))
}

// MoveMilestone swaps a milestone with its neighbor.
func MoveMilestone(c *gin.Context) {
	var input models.MoveRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	project, ok := loadGuardedProject(c, ctx)
	if !ok {
		return
	}
	pid := project.ID.Hex()

	milestone, apiErr := loadMilestone(ctx, pid, c.Param("msId"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	_, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		scope, err := milestoneScope(sc, pid)
		if err != nil {
			return nil, err
		}
		plan, err := service.PlanSwapMove(scope, milestone.ID.Hex(), service.MoveDirection(input.Direction))
		if err != nil {
			return nil, err
		}
		return nil, applyOrderPlan(sc, repository.Collection(repository.MilestonesCollection), plan)
	})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"milestoneId": milestone.ID.Hex()})
		return
	}

	respondResult(c, models.OKResult("Order updated.", nil))
}

// ReorderMilestones applies a full permutation of the project's milestones.
func ReorderMilestones(c *gin.Context) {
	var input models.ReorderRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	project, ok := loadGuardedProject(c, ctx)
	if !ok {
		return
	}
	pid := project.ID.Hex()

	_, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		scope, err := milestoneScope(sc, pid)
		if err != nil {
			return nil, err
		}
		plan, err := service.PlanReorder(scope, input.OrderedIDs)
		if err != nil {
			return nil, err
		}
		return nil, applyOrderPlan(sc, repository.Collection(repository.MilestonesCollection), plan)
	})
	if err != nil {
		respondResult(c, models.RejectResult(err.Error(), nil))
		return
	}

	respondResult(c, models.OKResult("Order updated.", nil))
}

// DeleteMilestone removes a milestone and densifies the sequence.
func DeleteMilestone(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	project, ok := loadGuardedProject(c, ctx)
	if !ok {
		return
	}
	pid := project.ID.Hex()

	milestone, apiErr := loadMilestone(ctx, pid, c.Param("msId"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	_, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := repository.Collection(repository.MilestonesCollection).
			DeleteOne(sc, bson.M{"_id": milestone.ID}); err != nil {
			return nil, err
		}

		scope, err := milestoneScope(sc, pid)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(scope))
		for _, it := range service.SortedByOrder(scope) {
			ids = append(ids, it.ID)
		}
		plan, err := service.PlanReorder(scope, ids)
		if err != nil {
			return nil, err
		}
		return nil, applyOrderPlan(sc, repository.Collection(repository.MilestonesCollection), plan)
	})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"milestoneId": milestone.ID.Hex()})
		return
	}

	respondResult(c, models.OKResult("Milestone deleted.", nil))
}
