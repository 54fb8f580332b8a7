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

type statusCount struct {
	Status string `bson:"_id" json:"status"`
	Count  int64  `bson:"count" json:"count"`
}

func countByStatus(ctx context.Context, collection, field string, filter bson.M) ([]statusCount, error) {
	pipeline := []bson.M{}
	if len(filter) > 0 {
		pipeline = append(pipeline, bson.M{"$match": filter})
	}
	pipeline = append(pipeline,
		bson.M{"$group": bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}},
		bson.M{"$sort": bson.M{"count": -1}},
	)

	cursor, err := repository.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []statusCount
	if err = cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// GetDashboardStats aggregates pipeline numbers for the overview page.
func GetDashboardStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	leads := repository.Collection(repository.LeadsCollection)
	projects := repository.Collection(repository.ProjectsCollection)

	leadsByStatus, err := countByStatus(ctx, repository.LeadsCollection, "leadStatus", nil)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	unreadLeads, err := leads.CountDocuments(ctx, bson.M{"unread": true})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	// average over scored leads only
	avgCursor, err := leads.Aggregate(ctx, []bson.M{
		{"$match": bson.M{"leadScore": bson.M{"$ne": nil}}},
		{"$group": bson.M{"_id": nil, "avg": bson.M{"$avg": "$leadScore"}}},
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	var avgRows []struct {
		Avg float64 `bson:"avg"`
	}
	err = avgCursor.All(ctx, &avgRows)
	avgCursor.Close(ctx)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	averageLeadScore := 0.0
	if len(avgRows) > 0 {
		averageLeadScore = avgRows[0].Avg
	}

	now := time.Now()
	upcomingFollowUps, err := leads.CountDocuments(ctx, bson.M{
		"nextFollowUpAt": bson.M{"$gte": now, "$lte": now.AddDate(0, 0, 7)},
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	projectsByStatus, err := countByStatus(ctx, repository.ProjectsCollection, "status",
		bson.M{"deletedAt": nil, "isArchived": false})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	archivedProjects, err := projects.CountDocuments(ctx, bson.M{"isArchived": true, "deletedAt": nil})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	trashedProjects, err := projects.CountDocuments(ctx, bson.M{"deletedAt": bson.M{"$ne": nil}})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	cursor, err := repository.Collection(repository.ActivitiesCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(20))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	var recentActivity []models.ActivityEntry
	err = cursor.All(ctx, &recentActivity)
	cursor.Close(ctx)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"leadsByStatus":     leadsByStatus,
			"averageLeadScore":  averageLeadScore,
			"unreadLeads":       unreadLeads,
			"upcomingFollowUps": upcomingFollowUps,
			"projectsByStatus":  projectsByStatus,
			"archivedProjects":  archivedProjects,
			"trashedProjects":   trashedProjects,
			"recentActivity":    recentActivity,
		},
	})
}
