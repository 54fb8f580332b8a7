package service

import (
	"testing"

	"github.com/MarisolQZ/pipeline_end/models"
)

func TestCheckBANTGate(t *testing.T) {
	tests := []struct {
		name   string
		q      models.Qualification
		wantOK bool
	}{
		{
			name: "need+timeline+budget passes",
			q: models.Qualification{
				NeedConfirmed:     true,
				TimelineConfirmed: true,
				BudgetConfirmed:   true,
			},
			wantOK: true,
		},
		{
			name: "need+timeline+authority passes",
			q: models.Qualification{
				NeedConfirmed:      true,
				TimelineConfirmed:  true,
				AuthorityConfirmed: true,
			},
			wantOK: true,
		},
		{
			name: "need+timeline without budget or authority fails",
			q: models.Qualification{
				NeedConfirmed:     true,
				TimelineConfirmed: true,
			},
			wantOK: false,
		},
		{
			name: "budget+authority without need fails",
			q: models.Qualification{
				TimelineConfirmed:  true,
				BudgetConfirmed:    true,
				AuthorityConfirmed: true,
			},
			wantOK: false,
		},
		{
			name: "missing timeline fails",
			q: models.Qualification{
				NeedConfirmed:   true,
				BudgetConfirmed: true,
			},
			wantOK: false,
		},
		{
			name:   "nothing confirmed fails",
			q:      models.Qualification{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reject := CheckBANTGate(tt.q)
			if tt.wantOK && reject != nil {
				t.Errorf("gate rejected: %v", reject.Message)
			}
			if !tt.wantOK {
				if reject == nil {
					t.Fatal("gate passed, want rejection")
				}
				if reject.OK {
					t.Error("rejection has ok=true")
				}
				if reject.FieldErrors["bantNeedConfirmed"] == "" {
					t.Errorf("fieldErrors = %v, want bantNeedConfirmed set", reject.FieldErrors)
				}
			}
		})
	}
}

func TestValidateLeadTransition(t *testing.T) {
	lead := &models.Lead{LeadStatus: models.LeadStatusOPEN}

	t.Run("free movement between non-terminal states", func(t *testing.T) {
		for _, target := range []models.LeadStatus{
			models.LeadStatusNEW,
			models.LeadStatusIN_PROGRESS,
			models.LeadStatusATTEMPTED_TO_CONTACT,
			models.LeadStatusCONNECTED,
			models.LeadStatusAPPOINTMENT_SCHEDULED,
			models.LeadStatusCLOSED_LOST,
			models.LeadStatusBAD_TIMING,
		} {
			if reject := ValidateLeadTransition(lead, target, ""); reject != nil {
				t.Errorf("transition to %s rejected: %v", target, reject.Message)
			}
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		reject := ValidateLeadTransition(lead, models.LeadStatus("LIMBO"), "")
		if reject == nil {
			t.Fatal("unknown status accepted")
		}
		if reject.FieldErrors["status"] == "" {
			t.Errorf("fieldErrors = %v, want status set", reject.FieldErrors)
		}
	})

	t.Run("qualified to buy gated on BANT", func(t *testing.T) {
		if reject := ValidateLeadTransition(lead, models.LeadStatusQUALIFIED_TO_BUY, ""); reject == nil {
			t.Fatal("gate let an unqualified lead through")
		}

		qualified := &models.Lead{
			LeadStatus: models.LeadStatusCONNECTED,
			Qualification: models.Qualification{
				NeedConfirmed:     true,
				TimelineConfirmed: true,
				BudgetConfirmed:   true,
			},
		}
		if reject := ValidateLeadTransition(qualified, models.LeadStatusQUALIFIED_TO_BUY, ""); reject != nil {
			t.Errorf("gate rejected a qualified lead: %v", reject.Message)
		}
	})

	t.Run("not a fit requires a reason", func(t *testing.T) {
		if reject := ValidateLeadTransition(lead, models.LeadStatusNOT_A_FIT, "  "); reject == nil {
			t.Fatal("NOT_A_FIT accepted without reason")
		}
		if reject := ValidateLeadTransition(lead, models.LeadStatusNOT_A_FIT, "wrong vertical"); reject != nil {
			t.Errorf("NOT_A_FIT with reason rejected: %v", reject.Message)
		}
	})
}

func TestClearsDisqualification(t *testing.T) {
	if ClearsDisqualification(models.LeadStatusNOT_A_FIT) {
		t.Error("entering NOT_A_FIT must keep reason and note")
	}

	// reopening a disqualified lead, to any state, drops the stored reason
	for _, target := range []models.LeadStatus{
		models.LeadStatusOPEN,
		models.LeadStatusIN_PROGRESS,
		models.LeadStatusCLOSED_LOST,
		models.LeadStatusBAD_TIMING,
	} {
		if !ClearsDisqualification(target) {
			t.Errorf("transition to %s should clear disqualification fields", target)
		}
	}
}

func TestValidateProjectStatus(t *testing.T) {
	for _, valid := range []models.ProjectStatus{
		models.ProjectStatusPLANNING,
		models.ProjectStatusIN_PROGRESS,
		models.ProjectStatusREVIEW,
		models.ProjectStatusDONE,
	} {
		if reject := ValidateProjectStatus(valid); reject != nil {
			t.Errorf("ValidateProjectStatus(%s) rejected", valid)
		}
	}

	if reject := ValidateProjectStatus("SHIPPED"); reject == nil {
		t.Error("ValidateProjectStatus accepted a value outside the enumeration")
	}
}

func TestIsValidMilestoneStatus(t *testing.T) {
	if !IsValidMilestoneStatus(models.MilestoneStatusNOT_STARTED) {
		t.Error("NOT_STARTED should be valid")
	}
	if IsValidMilestoneStatus("PAUSED") {
		t.Error("PAUSED should be invalid")
	}
}
