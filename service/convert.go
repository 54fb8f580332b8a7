package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MarisolQZ/pipeline_end/models"
	"github.com/MarisolQZ/pipeline_end/repository"
	"github.com/MarisolQZ/pipeline_end/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// minSummaryLength below which the lead message gets the pad note.
	minSummaryLength = 20
	scopePadNote     = " (scope to be detailed during kickoff)"

	// slugAttemptLimit bounds the uniquification loop; hitting it is a
	// conflict, not an infinite retry.
	slugAttemptLimit = 1000
)

// DeriveProjectName picks the project name: explicit input, else the lead
// company, else "<fullName> project".
func DeriveProjectName(explicit string, lead *models.Lead) string {
	if name := strings.TrimSpace(explicit); name != "" {
		return name
	}
	if company := strings.TrimSpace(lead.Company); company != "" {
		return company
	}
	return fmt.Sprintf("%s project", lead.FullName)
}

// DeriveScopeSummary picks the project summary: explicit input, else the
// lead message when long enough, else the message padded with a fixed note.
func DeriveScopeSummary(explicit string, lead *models.Lead) string {
	if summary := strings.TrimSpace(explicit); summary != "" {
		return summary
	}
	message := strings.TrimSpace(lead.Message)
	if len(message) >= minSummaryLength {
		return message
	}
	return message + scopePadNote
}

// UniqueSlug slugifies the name and appends -1, -2, ... until exists reports
// no collision. Each iteration strictly increments, so the loop terminates;
// past slugAttemptLimit the caller gets a conflict error.
func UniqueSlug(name string, exists func(slug string) (bool, error)) (string, error) {
	base := utils.Slugify(name)
	candidate := base
	for i := 0; i <= slugAttemptLimit; i++ {
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not find a free slug for %q within %d attempts", base, slugAttemptLimit)
}

// ConvertLeadToProject creates a delivery project from a lead. Atomic: the
// project insert and both activity entries apply together or not at all.
// The lead's own status is left untouched; callers move it separately.
func ConvertLeadToProject(ctx context.Context, lead *models.Lead, req models.LeadConvertRequest) (*models.OpResult, error) {
	projects := repository.Collection(repository.ProjectsCollection)

	name := DeriveProjectName(req.Name, lead)
	summary := DeriveScopeSummary(req.Summary, lead)

	slug, err := UniqueSlug(name, func(candidate string) (bool, error) {
		count, err := projects.CountDocuments(ctx, bson.M{"slug": candidate})
		if err != nil {
			return false, err
		}
		return count > 0, nil
	})
	if err != nil {
		return models.FailResult("Could not derive a unique project slug. Please retry."), err
	}

	result, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		// next position over the active set, re-read inside the transaction;
		// trashed projects keep a dormant sortOrder outside the ordering scope
		cursor, err := projects.Find(sc, bson.M{"deletedAt": nil},
			options.Find().SetProjection(bson.M{"_id": 1, "sortOrder": 1}))
		if err != nil {
			return nil, err
		}
		var rows []models.Project
		if err = cursor.All(sc, &rows); err != nil {
			return nil, err
		}
		scope := make([]OrderedItem, 0, len(rows))
		for _, p := range rows {
			scope = append(scope, OrderedItem{ID: p.ID.Hex(), SortOrder: p.SortOrder})
		}
		sortOrder := NextSortOrder(scope)

		now := time.Now()
		project := models.Project{
			Name:      name,
			Slug:      slug,
			Summary:   summary,
			Status:    models.ProjectStatusPLANNING,
			LeadID:    lead.ID.Hex(),
			SortOrder: sortOrder,
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

		if _, err := AppendActivity(sc, models.ActivityOwnerProject, project.ID.Hex(), models.ActivityCreated,
			fmt.Sprintf("Project created from lead %s", lead.FullName),
			map[string]interface{}{"leadId": lead.ID.Hex()}); err != nil {
			return nil, err
		}

		if _, err := AppendActivity(sc, models.ActivityOwnerLead, lead.ID.Hex(), models.ActivityConvertedToProject,
			fmt.Sprintf("Converted to project %q", project.Name),
			map[string]interface{}{"projectId": project.ID.Hex(), "slug": slug}); err != nil {
			return nil, err
		}

		return project, nil
	})
	if err != nil {
		utils.LogError(err, map[string]interface{}{"leadId": lead.ID.Hex()}, "lead conversion failed")
		return models.FailResult(""), err
	}

	return models.OKResult("Lead converted to project.", result), nil
}
