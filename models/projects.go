package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectStatus enumerates the delivery phases. Closed list; any other value
// is rejected at the boundary.
type ProjectStatus string

const (
	ProjectStatusPLANNING    ProjectStatus = "PLANNING"
	ProjectStatusIN_PROGRESS ProjectStatus = "IN_PROGRESS"
	ProjectStatusREVIEW      ProjectStatus = "REVIEW"
	ProjectStatusDONE        ProjectStatus = "DONE"
)

// MilestoneStatus enumerates milestone states.
type MilestoneStatus string

const (
	MilestoneStatusNOT_STARTED MilestoneStatus = "NOT_STARTED"
	MilestoneStatusIN_PROGRESS MilestoneStatus = "IN_PROGRESS"
	MilestoneStatusDONE        MilestoneStatus = "DONE"
)

// Project is a delivery engagement, optionally converted from a lead.
// Archive and trash are lifecycle axes orthogonal to Status: DeletedAt set
// means the project sits in Trash and every write path except restore and
// permanent delete must refuse it.
type Project struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Slug      string             `bson:"slug" json:"slug"`
	Summary   string             `bson:"summary,omitempty" json:"summary,omitempty"`
	Status    ProjectStatus      `bson:"status" json:"status"`
	LeadID    string             `bson:"leadId,omitempty" json:"leadId,omitempty"` // back-link to the converted lead
	StartDate *time.Time         `bson:"startDate,omitempty" json:"startDate,omitempty"`
	Deadline  *time.Time         `bson:"deadline,omitempty" json:"deadline,omitempty"`

	IsArchived bool       `bson:"isArchived" json:"isArchived"`
	ArchivedAt *time.Time `bson:"archivedAt,omitempty" json:"archivedAt,omitempty"`
	DeletedAt  *time.Time `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`

	SortOrder int              `bson:"sortOrder" json:"sortOrder"`
	Files     []FileAttachment `bson:"files,omitempty" json:"files,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Requirement is one checklist row owned by a project.
type Requirement struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ProjectID string             `bson:"projectId" json:"projectId"`
	Group     string             `bson:"group" json:"group"`
	Label     string             `bson:"label" json:"label"`
	IsDone    bool               `bson:"isDone" json:"isDone"`
	SortOrder int                `bson:"sortOrder" json:"sortOrder"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Milestone is one dated delivery step owned by a project.
type Milestone struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ProjectID string             `bson:"projectId" json:"projectId"`
	Title     string             `bson:"title" json:"title"`
	DueDate   *time.Time         `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Status    MilestoneStatus    `bson:"status" json:"status"`
	SortOrder int                `bson:"sortOrder" json:"sortOrder"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Deployment is an append-only release record owned by a project.
type Deployment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ProjectID   string             `bson:"projectId" json:"projectId"`
	Environment string             `bson:"environment" json:"environment"`
	VersionTag  string             `bson:"versionTag" json:"versionTag"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// FileAttachment is attachment metadata embedded in the project document.
// Storage itself lives behind an external collaborator; only metadata is kept.
type FileAttachment struct {
	ID           string    `bson:"id" json:"id"` // uuid
	FileName     string    `bson:"fileName" json:"fileName"`
	OriginalName string    `bson:"originalName" json:"originalName"`
	FileSize     int64     `bson:"fileSize" json:"fileSize"`
	FileType     string    `bson:"fileType" json:"fileType"`
	URL          string    `bson:"url" json:"url"`
	UploadedBy   string    `bson:"uploadedBy" json:"uploadedBy"`
	UploadTime   time.Time `bson:"uploadTime" json:"uploadTime"`
}

// Project request shapes.
type (
	// ProjectCreateRequest direct project creation payload
	ProjectCreateRequest struct {
		Name      string     `json:"name" binding:"required"`
		Summary   string     `json:"summary"`
		StartDate *time.Time `json:"startDate"`
		Deadline  *time.Time `json:"deadline"`
	}

	// ProjectUpdateRequest name/summary/dates update payload
	ProjectUpdateRequest struct {
		Name      *string    `json:"name"`
		Summary   *string    `json:"summary"`
		StartDate *time.Time `json:"startDate"`
		Deadline  *time.Time `json:"deadline"`
	}

	// ProjectStatusRequest delivery phase change payload
	ProjectStatusRequest struct {
		Status ProjectStatus `json:"status" binding:"required"`
	}

	// MoveRequest swap-move payload shared by every ordered collection
	MoveRequest struct {
		Direction string `json:"direction" binding:"required,oneof=up down"`
	}

	// ReorderRequest explicit full-permutation payload
	ReorderRequest struct {
		OrderedIDs []string `json:"orderedIds" binding:"required"`
	}

	// RequirementCreateRequest checklist row payload
	RequirementCreateRequest struct {
		Group string `json:"group"`
		Label string `json:"label" binding:"required"`
	}

	// RequirementUpdateRequest checklist row edit payload
	RequirementUpdateRequest struct {
		Group *string `json:"group"`
		Label *string `json:"label"`
	}

	// MilestoneCreateRequest milestone payload
	MilestoneCreateRequest struct {
		Title   string     `json:"title" binding:"required"`
		DueDate *time.Time `json:"dueDate"`
	}

	// MilestoneUpdateRequest milestone edit payload
	MilestoneUpdateRequest struct {
		Title   *string          `json:"title"`
		DueDate *time.Time       `json:"dueDate"`
		Status  *MilestoneStatus `json:"status"`
	}

	// DeploymentCreateRequest release record payload
	DeploymentCreateRequest struct {
		Environment string `json:"environment" binding:"required"`
		VersionTag  string `json:"versionTag" binding:"required"`
		Notes       string `json:"notes"`
	}

	// FileAttachRequest attachment metadata payload
	FileAttachRequest struct {
		FileName     string `json:"fileName" binding:"required"`
		OriginalName string `json:"originalName"`
		FileSize     int64  `json:"fileSize"`
		FileType     string `json:"fileType"`
		URL          string `json:"url"`
	}
)
