package service

import (
	"testing"
	"time"

	"github.com/MarisolQZ/pipeline_end/models"
)

func TestGuardProjectMutation(t *testing.T) {
	now := time.Now()

	active := &models.Project{}
	if reject := GuardProjectMutation(active); reject != nil {
		t.Errorf("active project rejected: %v", reject.Message)
	}

	archived := &models.Project{IsArchived: true, ArchivedAt: &now}
	if reject := GuardProjectMutation(archived); reject != nil {
		t.Error("archive must not block mutation, only trash does")
	}

	trashed := &models.Project{DeletedAt: &now}
	reject := GuardProjectMutation(trashed)
	if reject == nil {
		t.Fatal("trashed project passed the guard")
	}
	if reject.Message != TrashedProjectMessage {
		t.Errorf("message = %q, want %q", reject.Message, TrashedProjectMessage)
	}
	if reject.OK {
		t.Error("rejection has ok=true")
	}
}

func TestArchiveAndTrashChecks(t *testing.T) {
	now := time.Now()
	trashed := &models.Project{DeletedAt: &now}

	if reject := CheckArchive(&models.Project{}); reject != nil {
		t.Errorf("archiving an active project rejected: %v", reject.Message)
	}
	if reject := CheckArchive(trashed); reject == nil {
		t.Error("archiving a trashed project accepted")
	}

	if reject := CheckSoftDelete(&models.Project{}); reject != nil {
		t.Errorf("trashing an active project rejected: %v", reject.Message)
	}
	if reject := CheckSoftDelete(trashed); reject == nil {
		t.Error("double-trash accepted")
	}
}

func TestCheckPermanentDelete(t *testing.T) {
	reject := CheckPermanentDelete(&models.Project{})
	if reject == nil {
		t.Fatal("permanent delete of a non-trashed project accepted")
	}
	if reject.Message != "Move to Trash before permanently deleting." {
		t.Errorf("message = %q", reject.Message)
	}

	now := time.Now()
	if reject := CheckPermanentDelete(&models.Project{DeletedAt: &now}); reject != nil {
		t.Errorf("permanent delete of a trashed project rejected: %v", reject.Message)
	}
}
