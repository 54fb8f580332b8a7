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

// defaultRequirementGroup is used when a checklist row is added without one.
const defaultRequirementGroup = "General"

// requirementScope reads the ordering siblings of one checklist group.
func requirementScope(ctx context.Context, projectID, group string) ([]service.OrderedItem, error) {
	cursor, err := repository.Collection(repository.RequirementsCollection).Find(ctx,
		bson.M{"projectId": projectID, "group": group},
		options.Find().SetProjection(bson.M{"_id": 1, "sortOrder": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []models.Requirement
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	items := make([]service.OrderedItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, service.OrderedItem{ID: r.ID.Hex(), SortOrder: r.SortOrder})
	}
	return items, nil
}

// loadGuardedProject loads the parent project and enforces the trash guard
// shared by every requirement, milestone, deployment and file mutation.
func loadGuardedProject(c *gin.Context, ctx context.Context) (*models.Project, bool) {
	project, apiErr := loadProject(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return nil, false
	}
	if reject := service.GuardProjectMutation(project); reject != nil {
		respondResult(c, reject)
		return nil, false
	}
	return project, true
}

func loadRequirement(ctx context.Context, projectID, id string) (*models.Requirement, *utils.ApiError) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.CreateBadRequestError("invalid requirement id")
	}

	var requirement models.Requirement
	err = repository.Collection(repository.RequirementsCollection).
		FindOne(ctx, bson.M{"_id": objID, "projectId": projectID}).Decode(&requirement)
	if err == mongo.ErrNoDocuments {
		return nil, utils.CreateNotFoundError("requirement")
	}
	if err != nil {
		return nil, utils.CreateInternalServerError("failed to load requirement")
	}
	return &requirement, nil
}

// AddRequirement appends a checklist row at the end of its group.
func AddRequirement(c *gin.Context) {
	var input models.RequirementCreateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload: " + err.Error()})
		return
	}
	if input.Group == "" {
		input.Group = defaultRequirementGroup
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	project, ok := loadGuardedProject(c, ctx)
	if !ok {
		return
	}
	pid := project.ID.Hex()

	result, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		scope, err := requirementScope(sc, pid, input.Group)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		requirement := models.Requirement{
			ProjectID: pid,
			Group:     input.Group,
			Label:     input.Label,
			SortOrder: service.NextSortOrder(scope),
			CreatedAt: now,
			UpdatedAt: now,
		}

		inserted, err := repository.Collection(repository.RequirementsCollection).InsertOne(sc, requirement)
		if err != nil {
			return nil, err
		}
		if oid, ok := inserted.InsertedID.(primitive.ObjectID); ok {
			requirement.ID = oid
		}
		return requirement, nil
	})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"projectId": pid})
		return
	}

	c.JSON(http.StatusCreated, models.OKResult("Requirement added.", result))
}

// UpdateRequirement edits label or group. Moving to another group re-appends
// the row at that group's end.
func UpdateRequirement(c *gin.Context) {
	var input models.RequirementUpdateRequest
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

	requirement, apiErr := loadRequirement(ctx, pid, c.Param("reqId"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	_, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		set := bson.M{"updatedAt": time.Now()}
		if input.Label != nil {
			set["label"] = *input.Label
		}
		if input.Group != nil && *input.Group != requirement.Group {
			target, err := requirementScope(sc, pid, *input.Group)
			if err != nil {
				return nil, err
			}
			set["group"] = *input.Group
			set["sortOrder"] = service.NextSortOrder(target)
		}

		if _, err := repository.Collection(repository.RequirementsCollection).UpdateOne(sc,
			bson.M{"_id": requirement.ID}, bson.M{"$set": set}); err != nil {
			return nil, err
		}

		if input.Group != nil && *input.Group != requirement.Group {
			// densify the group the row left
			source, err := requirementScope(sc, pid, requirement.Group)
			if err != nil {
				return nil, err
			}
			ids := make([]string, 0, len(source))
			for _, it := range service.SortedByOrder(source) {
				ids = append(ids, it.ID)
			}
			plan, err := service.PlanReorder(source, ids)
			if err != nil {
				return nil, err
			}
			return nil, applyOrderPlan(sc, repository.Collection(repository.RequirementsCollection), plan)
		}
		return nil, nil
	})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"projectId": pid, "requirementId": requirement.ID.Hex()})
		return
	}

	respondResult(c, models.OKResult("Requirement updated.", nil))
}

// ToggleRequirement flips the done flag of one row.
func ToggleRequirement(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	project, ok := loadGuardedProject(c, ctx)
	if !ok {
		return
	}
	pid := project.ID.Hex()

	requirement, apiErr := loadRequirement(ctx, pid, c.Param("reqId"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	_, err := repository.Collection(repository.RequirementsCollection).UpdateOne(ctx,
		bson.M{"_id": requirement.ID},
		bson.M{"$set": bson.M{"isDone": !requirement.IsDone, "updatedAt": time.Now()}})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"requirementId": requirement.ID.Hex()})
		return
	}

	respondResult(c, models.OKResult("Requirement updated.", gin.H{"isDone": !requirement.IsDone}))
}

// ToggleRequirementGroup sets every row of a group done, or all not done
// when the group is already complete.
func ToggleRequirementGroup(c *gin.Context) {
	group := c.Param("group")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	project, ok := loadGuardedProject(c, ctx)
	if !ok {
		return
	}
	pid := project.ID.Hex()

	result, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		requirements := repository.Collection(repository.RequirementsCollection)

		total, err := requirements.CountDocuments(sc, bson.M{"projectId": pid, "group": group})
		if err != nil {
			return nil, err
		}
		if total == 0 {
			return nil, mongo.ErrNoDocuments
		}
		done, err := requirements.CountDocuments(sc, bson.M{"projectId": pid, "group": group, "isDone": true})
		if err != nil {
			return nil, err
		}

		target := done < total
		_, err = requirements.UpdateMany(sc,
			bson.M{"projectId": pid, "group": group},
			bson.M{"$set": bson.M{"isDone": target, "updatedAt": time.Now()}})
		return gin.H{"isDone": target}, err
	})
	if err == mongo.ErrNoDocuments {
		utils.HandleError(c, utils.CreateNotFoundError("requirement group"))
		return
	}
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"projectId": pid, "group": group})
		return
	}

	respondResult(c, models.OKResult("Group updated.", result))
}

// MoveRequirement swaps a row with its neighbor inside its group.
func MoveRequirement(c *gin.Context) {
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

	requirement, apiErr := loadRequirement(ctx, pid, c.Param("reqId"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	_, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		scope, err := requirementScope(sc, pid, requirement.Group)
		if err != nil {
			return nil, err
		}
		plan, err := service.PlanSwapMove(scope, requirement.ID.Hex(), service.MoveDirection(input.Direction))
		if err != nil {
			return nil, err
		}
		return nil, applyOrderPlan(sc, repository.Collection(repository.RequirementsCollection), plan)
	})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"requirementId": requirement.ID.Hex()})
		return
	}

	respondResult(c, models.OKResult("Order updated.", nil))
}

// ReorderRequirements applies a full permutation of one group.
func ReorderRequirements(c *gin.Context) {
	var input models.ReorderRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	group := c.Param("group")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	project, ok := loadGuardedProject(c, ctx)
	if !ok {
		return
	}
	pid := project.ID.Hex()

	_, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		scope, err := requirementScope(sc, pid, group)
		if err != nil {
			return nil, err
		}
		plan, err := service.PlanReorder(scope, input.OrderedIDs)
		if err != nil {
			return nil, err
		}
		return nil, applyOrderPlan(sc, repository.Collection(repository.RequirementsCollection), plan)
	})
	if err != nil {
		respondResult(c, models.RejectResult(err.Error(), nil))
		return
	}

	respondResult(c, models.OKResult("Order updated.", nil))
}

// DeleteRequirement removes a row and densifies its group.
func DeleteRequirement(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	project, ok := loadGuardedProject(c, ctx)
	if !ok {
		return
	}
	pid := project.ID.Hex()

	requirement, apiErr := loadRequirement(ctx, pid, c.Param("reqId"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	_, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := repository.Collection(repository.RequirementsCollection).
			DeleteOne(sc, bson.M{"_id": requirement.ID}); err != nil {
			return nil, err
		}

		scope, err := requirementScope(sc, pid, requirement.Group)
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
		return nil, applyOrderPlan(sc, repository.Collection(repository.RequirementsCollection), plan)
	})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"requirementId": requirement.ID.Hex()})
		return
	}

	respondResult(c, models.OKResult("Requirement deleted.", nil))
}
