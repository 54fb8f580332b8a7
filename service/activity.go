package service

import (
	"context"
	"time"

	"github.com/MarisolQZ/pipeline_end/models"
	"github.com/MarisolQZ/pipeline_end/repository"
	"github.com/MarisolQZ/pipeline_end/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AppendActivity records one immutable entry on a lead or project. Called
// only after the owning mutation is accepted; rejected operations never log.
// Pass a session context to make the append part of the surrounding
// transaction.
func AppendActivity(ctx context.Context, ownerType models.ActivityOwnerType, ownerID string, entryType models.ActivityType, message string, metadata map[string]interface{}) (models.ActivityEntry, error) {
	entry := models.ActivityEntry{
		OwnerType: ownerType,
		OwnerID:   ownerID,
		Type:      entryType,
		Message:   message,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}

	collection := repository.Collection(repository.ActivitiesCollection)
	result, err := collection.InsertOne(ctx, entry)
	if err != nil {
		utils.LogError(err, map[string]interface{}{
			"ownerType": ownerType,
			"ownerId":   ownerID,
			"type":      entryType,
		}, "failed to append activity entry")
		return models.ActivityEntry{}, err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		entry.ID = oid
	}

	return entry, nil
}
