package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityOwnerType tells which aggregate an entry belongs to.
type ActivityOwnerType string

const (
	ActivityOwnerLead    ActivityOwnerType = "LEAD"
	ActivityOwnerProject ActivityOwnerType = "PROJECT"
)

// ActivityType enumerates recorded pipeline events.
type ActivityType string

const (
	ActivityCreated             ActivityType = "CREATED"
	ActivityStatusChanged       ActivityType = "STATUS_CHANGED"
	ActivityContacted           ActivityType = "CONTACTED"
	ActivityAppointment         ActivityType = "APPOINTMENT_SCHEDULED"
	ActivityQualified           ActivityType = "QUALIFIED"
	ActivityDisqualified        ActivityType = "DISQUALIFIED"
	ActivityAssigned            ActivityType = "ASSIGNED"
	ActivityConvertedToProject  ActivityType = "CONVERTED_TO_PROJECT"
	ActivityArchived            ActivityType = "ARCHIVED"
	ActivityUnarchived          ActivityType = "UNARCHIVED"
	ActivityTrashed             ActivityType = "TRASHED"
	ActivityRestored            ActivityType = "RESTORED"
	ActivityDeploymentRecorded  ActivityType = "DEPLOYMENT_RECORDED"
	ActivityFileAttached        ActivityType = "FILE_ATTACHED"
)

// ActivityEntry is an immutable, append-only event record owned by exactly
// one lead or project. Never edited or deleted through normal flow; it is
// only removed when a permanent delete removes the owner itself.
type ActivityEntry struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty" json:"_id,omitempty"`
	OwnerType ActivityOwnerType      `bson:"ownerType" json:"ownerType"`
	OwnerID   string                 `bson:"ownerId" json:"ownerId"`
	Type      ActivityType           `bson:"type" json:"type"`
	Message   string                 `bson:"message" json:"message"`
	Metadata  map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt time.Time              `bson:"createdAt" json:"createdAt"`
}
