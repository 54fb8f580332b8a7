package service

import (
	"github.com/MarisolQZ/pipeline_end/models"
)

// User-facing lifecycle guard messages.
const (
	TrashedProjectMessage        = "This project is in Trash. Restore it to edit."
	PermanentDeleteGuardMessage  = "Move to Trash before permanently deleting."
	AlreadyTrashedMessage        = "This project is already in Trash."
	ArchiveTrashedProjectMessage = "Restore this project from Trash before archiving it."
)

// CanMutateProject is the single trash predicate every project-mutating
// operation consults before writing anything. Leads have no trash axis and
// are not guarded.
func CanMutateProject(p *models.Project) bool {
	return p.DeletedAt == nil
}

// GuardProjectMutation returns a uniform rejection when the project is in
// Trash, nil otherwise. Restore, permanent delete and duplication bypass
// this guard.
func GuardProjectMutation(p *models.Project) *models.OpResult {
	if CanMutateProject(p) {
		return nil
	}
	return models.RejectResult(TrashedProjectMessage, nil)
}

// CheckArchive rejects archiving a trashed project.
func CheckArchive(p *models.Project) *models.OpResult {
	if p.DeletedAt != nil {
		return models.RejectResult(ArchiveTrashedProjectMessage, nil)
	}
	return nil
}

// CheckSoftDelete rejects double-trashing.
func CheckSoftDelete(p *models.Project) *models.OpResult {
	if p.DeletedAt != nil {
		return models.RejectResult(AlreadyTrashedMessage, nil)
	}
	return nil
}

// CheckPermanentDelete requires the project to already sit in Trash.
func CheckPermanentDelete(p *models.Project) *models.OpResult {
	if p.DeletedAt == nil {
		return models.RejectResult(PermanentDeleteGuardMessage, nil)
	}
	return nil
}
