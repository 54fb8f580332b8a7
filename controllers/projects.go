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

// applyOrderPlan persists a set of sortOrder assignments. Must run inside a
// transaction together with the read that produced the plan.
func applyOrderPlan(sc mongo.SessionContext, collection *mongo.Collection, plan []service.OrderUpdate) error {
	for _, u := range plan {
		objID, err := primitive.ObjectIDFromHex(u.ID)
		if err != nil {
			return fmt.Errorf("invalid id in order plan: %w", err)
		}
		if _, err := collection.UpdateOne(sc,
			bson.M{"_id": objID},
			bson.M{"$set": bson.M{"sortOrder": u.SortOrder}}); err != nil {
			return err
		}
	}
	return nil
}

// projectOrderScope reads the sibling scope for project ordering: every
// project not in Trash, trashed ones keep their old sortOrder dormant.
func projectOrderScope(ctx context.Context) ([]service.OrderedItem, error) {
	cursor, err := repository.Collection(repository.ProjectsCollection).Find(ctx,
		bson.M{"deletedAt": nil},
		options.Find().SetProjection(bson.M{"_id": 1, "sortOrder": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []models.Project
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	items := make([]service.OrderedItem, 0, len(rows))
	for _, p := range rows {
		items = append(items, service.OrderedItem{ID: p.ID.Hex(), SortOrder: p.SortOrder})
	}
	return items, nil
}

// CreateProject creates a project directly, without a source lead.
func CreateProject(c *gin.Context) {
	var input models.ProjectCreateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	projects := repository.Collection(repository.ProjectsCollection)

	slug, err := service.UniqueSlug(input.Name, func(candidate string) (bool, error) {
		count, err := projects.CountDocuments(ctx, bson.M{"slug": candidate})
		if err != nil {
			return false, err
		}
		return count > 0, nil
	})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"name": input.Name})
		return
	}

	result, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		scope, err := projectOrderScope(sc)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		project := models.Project{
			Name:      input.Name,
			Slug:      slug,
			Summary:   input.Summary,
			Status:    models.ProjectStatusPLANNING,
			StartDate: input.StartDate,
			Deadline:  input.Deadline,
			SortOrder: service.NextSortOrder(scope),
			CreatedAt: now,
			UpdatedAt: now,
		}

		inserted, err := projects.InsertOne(sc, project)
		if err != nil {
			return nil, err
		}
		if oid, ok := inserted.InsertedID.(primitive.ObjectID); ok {
			project.ID = oid
		}

		if _, err := service.AppendActivity(sc, models.ActivityOwnerProject, project.ID.Hex(),
			models.ActivityCreated, "Project created", nil); err != nil {
			return nil, err
		}

		return project, nil
	})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"name": input.Name})
		return
	}

	c.JSON(http.StatusCreated, models.OKResult("Project created.", result))
}

// GetProjects lists projects by view. Default view hides archived and
// trashed; "archived" and "trash" show their own buckets, "all" shows
// everything live plus archived.
func GetProjects(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	switch c.DefaultQuery("view", "active") {
	case "archived":
		filter["isArchived"] = true
		filter["deletedAt"] = nil
	case "trash":
		filter["deletedAt"] = bson.M{"$ne": nil}
	case "all":
		filter["deletedAt"] = nil
	default:
		filter["isArchived"] = false
		filter["deletedAt"] = nil
	}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := repository.Collection(repository.ProjectsCollection).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}}))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err = cursor.All(ctx, &projects); err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "projects": projects})
}

// GetProjectDetail returns a project with its requirements, milestones and
// deployments. Trashed projects stay readable.
func GetProjectDetail(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	project, apiErr := loadProject(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}
	pid := project.ID.Hex()

	var requirements []models.Requirement
	cursor, err := repository.Collection(repository.RequirementsCollection).Find(ctx,
		bson.M{"projectId": pid},
		options.Find().SetSort(bson.D{{Key: "group", Value: 1}, {Key: "sortOrder", Value: 1}}))
	if err == nil {
		err = cursor.All(ctx, &requirements)
		cursor.Close(ctx)
	}
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var milestones []models.Milestone
	cursor, err = repository.Collection(repository.MilestonesCollection).Find(ctx,
		bson.M{"projectId": pid},
		options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}}))
	if err == nil {
		err = cursor.All(ctx, &milestones)
		cursor.Close(ctx)
	}
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var deployments []models.Deployment
	cursor, err = repository.Collection(repository.DeploymentsCollection).Find(ctx,
		bson.M{"projectId": pid},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err == nil {
		err = cursor.All(ctx, &deployments)
		cursor.Close(ctx)
	}
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"project":      project,
		"requirements": requirements,
		"milestones":   milestones,
		"deployments":  deployments,
	})
}

// UpdateProject edits name, summary and dates. Renaming does not touch the
// slug; it stays stable once assigned.
func UpdateProject(c *gin.Context) {
	var input models.ProjectUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	project, apiErr := loadProject(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	if reject := service.GuardProjectMutation(project); reject != nil {
		respondResult(c, reject)
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.Summary != nil {
		set["summary"] = *input.Summary
	}
	if input.StartDate != nil {
		set["startDate"] = *input.StartDate
	}
	if input.Deadline != nil {
		set["deadline"] = *input.Deadline
	}

	_, err := repository.Collection(repository.ProjectsCollection).UpdateOne(ctx,
		bson.M{"_id": project.ID}, bson.M{"$set": set})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"projectId": project.ID.Hex()})
		return
	}

	respondResult(c, models.OKResult("Project updated.", nil))
}

// UpdateProjectStatus changes the delivery phase.
func UpdateProjectStatus(c *gin.Context) {
	var input models.ProjectStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	project, apiErr := loadProject(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	if reject := service.GuardProjectMutation(project); reject != nil {
		respondResult(c, reject)
		return
	}
	if reject := service.ValidateProjectStatus(input.Status); reject != nil {
		respondResult(c, reject)
		return
	}

	_, err := repository.Collection(repository.ProjectsCollection).UpdateOne(ctx,
		bson.M{"_id": project.ID},
		bson.M{"$set": bson.M{"status": input.Status, "updatedAt": time.Now()}})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"projectId": project.ID.Hex()})
		return
	}

	if _, err := service.AppendActivity(ctx, models.ActivityOwnerProject, project.ID.Hex(),
		models.ActivityStatusChanged,
		fmt.Sprintf("Status changed from %s to %s", project.Status, input.Status),
		map[string]interface{}{"from": project.Status, "to": input.Status}); err != nil {
		utils.LogError(err, map[string]interface{}{"projectId": project.ID.Hex()}, "failed to log status change")
	}

	respondResult(c, models.OKResult("Status updated.", nil))
}

// ArchiveProject puts a live project in the archive. Archiving an already
// archived project is a no-op.
func ArchiveProject(c *gin.Context) {
	setProjectArchived(c, true)
}

// UnarchiveProject brings an archived project back to the active list.
func UnarchiveProject(c *gin.Context) {
	setProjectArchived(c, false)
}

func setProjectArchived(c *gin.Context, archived bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	project, apiErr := loadProject(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	if reject := service.CheckArchive(project); reject != nil {
		respondResult(c, reject)
		return
	}

	if project.IsArchived == archived {
		respondResult(c, models.OKResult("No change.", nil))
		return
	}

	now := time.Now()
	set := bson.M{"isArchived": archived, "updatedAt": now}
	if archived {
		set["archivedAt"] = now
	} else {
		set["archivedAt"] = nil
	}

	_, err := repository.Collection(repository.ProjectsCollection).UpdateOne(ctx,
		bson.M{"_id": project.ID}, bson.M{"$set": set})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"projectId": project.ID.Hex()})
		return
	}

	entryType := models.ActivityArchived
	message := "Project archived"
	if !archived {
		entryType = models.ActivityUnarchived
		message = "Project unarchived"
	}
	if _, err := service.AppendActivity(ctx, models.ActivityOwnerProject, project.ID.Hex(),
		entryType, message, nil); err != nil {
		utils.LogError(err, map[string]interface{}{"projectId": project.ID.Hex()}, "failed to log archive change")
	}

	respondResult(c, models.OKResult(message+".", nil))
}

// TrashProject soft-deletes: the project keeps all its data but refuses
// every edit until restored.
func TrashProject(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	project, apiErr := loadProject(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	if reject := service.CheckSoftDelete(project); reject != nil {
		respondResult(c, reject)
		return
	}

	now := time.Now()
	_, err := repository.Collection(repository.ProjectsCollection).UpdateOne(ctx,
		bson.M{"_id": project.ID},
		bson.M{"$set": bson.M{"deletedAt": now, "updatedAt": now}})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"projectId": project.ID.Hex()})
		return
	}

	if _, err := service.AppendActivity(ctx, models.ActivityOwnerProject, project.ID.Hex(),
		models.ActivityTrashed, "Project moved to Trash", nil); err != nil {
		utils.LogError(err, map[string]interface{}{"projectId": project.ID.Hex()}, "failed to log trash")
	}

	respondResult(c, models.OKResult("Project moved to Trash.", nil))
}

// RestoreProject clears the trash marker. One of the two writes allowed on a
// trashed project.
func RestoreProject(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	project, apiErr := loadProject(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	if project.DeletedAt == nil {
		respondResult(c, models.OKResult("No change.", nil))
		return
	}

	// the active set may have been renumbered while this project sat in
	// Trash, so its dormant sortOrder can collide; re-append at the end
	_, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		scope, err := projectOrderScope(sc)
		if err != nil {
			return nil, err
		}
		return repository.Collection(repository.ProjectsCollection).UpdateOne(sc,
			bson.M{"_id": project.ID},
			bson.M{"$set": bson.M{
				"deletedAt": nil,
				"sortOrder": service.NextSortOrder(scope),
				"updatedAt": time.Now(),
			}})
	})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"projectId": project.ID.Hex()})
		return
	}

	if _, err := service.AppendActivity(ctx, models.ActivityOwnerProject, project.ID.Hex(),
		models.ActivityRestored, "Project restored from Trash", nil); err != nil {
		utils.LogError(err, map[string]interface{}{"projectId": project.ID.Hex()}, "failed to log restore")
	}

	respondResult(c, models.OKResult("Project restored.", nil))
}

// PermanentDeleteProject removes the project and everything it owns. Only
// reachable from Trash; deleting a live project is refused.
func PermanentDeleteProject(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	project, apiErr := loadProject(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	if reject := service.CheckPermanentDelete(project); reject != nil {
		respondResult(c, reject)
		return
	}

	pid := project.ID.Hex()
	_, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := repository.Collection(repository.ProjectsCollection).
			DeleteOne(sc, bson.M{"_id": project.ID}); err != nil {
			return nil, err
		}
		for _, name := range []string{
			repository.RequirementsCollection,
			repository.MilestonesCollection,
			repository.DeploymentsCollection,
		} {
			if _, err := repository.Collection(name).DeleteMany(sc, bson.M{"projectId": pid}); err != nil {
				return nil, err
			}
		}
		if _, err := repository.Collection(repository.ActivitiesCollection).
			DeleteMany(sc, bson.M{"ownerType": models.ActivityOwnerProject, "ownerId": pid}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"projectId": pid})
		return
	}

	utils.LogInfo(map[string]interface{}{"projectId": pid, "slug": project.Slug}, "project permanently deleted")

	respondResult(c, models.OKResult("Project permanently deleted.", nil))
}

// DuplicateProject clones a project with its requirements and milestones.
// The copy is always live even when the source sits in Trash, so this is one
// of the few paths that bypasses the trash guard. Deployments and activity
// history are records of the original and are not copied.
func DuplicateProject(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	source, apiErr := loadProject(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}
	sourceID := source.ID.Hex()

	projects := repository.Collection(repository.ProjectsCollection)

	copyName := source.Name + " (copy)"
	slug, err := service.UniqueSlug(copyName, func(candidate string) (bool, error) {
		count, err := projects.CountDocuments(ctx, bson.M{"slug": candidate})
		if err != nil {
			return false, err
		}
		return count > 0, nil
	})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"projectId": sourceID})
		return
	}

	result, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		scope, err := projectOrderScope(sc)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		clone := models.Project{
			Name:      copyName,
			Slug:      slug,
			Summary:   source.Summary,
			Status:    models.ProjectStatusPLANNING,
			LeadID:    source.LeadID,
			StartDate: source.StartDate,
			Deadline:  source.Deadline,
			SortOrder: service.NextSortOrder(scope),
			Files:     source.Files,
			CreatedAt: now,
			UpdatedAt: now,
		}

		inserted, err := projects.InsertOne(sc, clone)
		if err != nil {
			return nil, err
		}
		if oid, ok := inserted.InsertedID.(primitive.ObjectID); ok {
			clone.ID = oid
		}
		cloneID := clone.ID.Hex()

		cursor, err := repository.Collection(repository.RequirementsCollection).
			Find(sc, bson.M{"projectId": sourceID})
		if err != nil {
			return nil, err
		}
		var requirements []models.Requirement
		if err = cursor.All(sc, &requirements); err != nil {
			return nil, err
		}
		for _, r := range requirements {
			r.ID = primitive.NilObjectID
			r.ProjectID = cloneID
			r.CreatedAt = now
			r.UpdatedAt = now
			if _, err := repository.Collection(repository.RequirementsCollection).InsertOne(sc, r); err != nil {
				return nil, err
			}
		}

		cursor, err = repository.Collection(repository.MilestonesCollection).
			Find(sc, bson.M{"projectId": sourceID})
		if err != nil {
			return nil, err
		}
		var milestones []models.Milestone
		if err = cursor.All(sc, &milestones); err != nil {
			return nil, err
		}
		for _, m := range milestones {
			m.ID = primitive.NilObjectID
			m.ProjectID = cloneID
			m.CreatedAt = now
			m.UpdatedAt = now
			if _, err := repository.Collection(repository.MilestonesCollection).InsertOne(sc, m); err != nil {
				return nil, err
			}
		}

		if _, err := service.AppendActivity(sc, models.ActivityOwnerProject, cloneID,
			models.ActivityCreated,
			fmt.Sprintf("Project duplicated from %q", source.Name),
			map[string]interface{}{"sourceProjectId": sourceID}); err != nil {
			return nil, err
		}

		return clone, nil
	})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"projectId": sourceID})
		return
	}

	c.JSON(http.StatusCreated, models.OKResult("Project duplicated.", result))
}

// MoveProject swaps a project with its neighbor in the global active order.
func MoveProject(c *gin.Context) {
	var input models.MoveRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	project, apiErr := loadProject(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	if reject := service.GuardProjectMutation(project); reject != nil {
		respondResult(c, reject)
		return
	}

	_, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		scope, err := projectOrderScope(sc)
		if err != nil {
			return nil, err
		}
		plan, err := service.PlanSwapMove(scope, project.ID.Hex(), service.MoveDirection(input.Direction))
		if err != nil {
			return nil, err
		}
		return nil, applyOrderPlan(sc, repository.Collection(repository.ProjectsCollection), plan)
	})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"projectId": project.ID.Hex()})
		return
	}

	respondResult(c, models.OKResult("Order updated.", nil))
}

// ReorderProjects applies an explicit full permutation of the active projects.
func ReorderProjects(c *gin.Context) {
	var input models.ReorderRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	_, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		scope, err := projectOrderScope(sc)
		if err != nil {
			return nil, err
		}
		plan, err := service.PlanReorder(scope, input.OrderedIDs)
		if err != nil {
			return nil, err
		}
		return nil, applyOrderPlan(sc, repository.Collection(repository.ProjectsCollection), plan)
	})
	if err != nil {
		respondResult(c, models.RejectResult(err.Error(), nil))
		return
	}

	respondResult(c, models.OKResult("Order updated.", nil))
}
