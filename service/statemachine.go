package service

import (
	"strings"

	"github.com/MarisolQZ/pipeline_end/models"
)

// validLeadStatuses is the closed set of lead pipeline states.
var validLeadStatuses = map[models.LeadStatus]bool{
	models.LeadStatusNEW:                   true,
	models.LeadStatusOPEN:                  true,
	models.LeadStatusIN_PROGRESS:           true,
	models.LeadStatusATTEMPTED_TO_CONTACT:  true,
	models.LeadStatusCONNECTED:             true,
	models.LeadStatusAPPOINTMENT_SCHEDULED: true,
	models.LeadStatusQUALIFIED_TO_BUY:      true,
	models.LeadStatusCONTRACT_SENT:         true,
	models.LeadStatusCLOSED_WON:            true,
	models.LeadStatusCLOSED_LOST:           true,
	models.LeadStatusNOT_A_FIT:             true,
	models.LeadStatusUNQUALIFIED:           true,
	models.LeadStatusBAD_TIMING:            true,
}

// validProjectStatuses is the closed set of delivery phases.
var validProjectStatuses = map[models.ProjectStatus]bool{
	models.ProjectStatusPLANNING:    true,
	models.ProjectStatusIN_PROGRESS: true,
	models.ProjectStatusREVIEW:      true,
	models.ProjectStatusDONE:        true,
}

// validMilestoneStatuses is the closed set of milestone states.
var validMilestoneStatuses = map[models.MilestoneStatus]bool{
	models.MilestoneStatusNOT_STARTED: true,
	models.MilestoneStatusIN_PROGRESS: true,
	models.MilestoneStatusDONE:        true,
}

// IsValidLeadStatus reports whether the value is an enumerated lead status.
func IsValidLeadStatus(s models.LeadStatus) bool {
	return validLeadStatuses[s]
}

// IsValidProjectStatus reports whether the value is an enumerated phase.
func IsValidProjectStatus(s models.ProjectStatus) bool {
	return validProjectStatuses[s]
}

// IsValidMilestoneStatus reports whether the value is an enumerated
// milestone state.
func IsValidMilestoneStatus(s models.MilestoneStatus) bool {
	return validMilestoneStatuses[s]
}

// CheckBANTGate validates the gate on entering QUALIFIED_TO_BUY:
// needConfirmed AND timelineConfirmed AND (budgetConfirmed OR
// authorityConfirmed). On failure it returns a rejection keyed on
// bantNeedConfirmed whose message names every missing confirmation; the
// caller leaves status unchanged.
func CheckBANTGate(q models.Qualification) *models.OpResult {
	var missing []string
	if !q.NeedConfirmed {
		missing = append(missing, "need")
	}
	if !q.TimelineConfirmed {
		missing = append(missing, "timeline")
	}
	if !q.BudgetConfirmed && !q.AuthorityConfirmed {
		missing = append(missing, "budget or authority")
	}

	if len(missing) == 0 {
		return nil
	}

	msg := "Confirm " + strings.Join(missing, ", ") + " before marking this lead qualified to buy."
	return models.RejectResult(msg, map[string]string{
		"bantNeedConfirmed": msg,
	})
}

// ValidateLeadTransition validates a requested lead status change. Movement
// between states is otherwise free (the UI drives ordering); only the
// QUALIFIED_TO_BUY gate and the NOT_A_FIT reason requirement are enforced.
// Returns nil when the transition is acceptable.
func ValidateLeadTransition(lead *models.Lead, target models.LeadStatus, reason string) *models.OpResult {
	if !IsValidLeadStatus(target) {
		return models.RejectResult("Unknown lead status.", map[string]string{
			"status": "Unknown lead status: " + string(target),
		})
	}

	switch target {
	case models.LeadStatusQUALIFIED_TO_BUY:
		if reject := CheckBANTGate(lead.Qualification); reject != nil {
			return reject
		}
	case models.LeadStatusNOT_A_FIT:
		if strings.TrimSpace(reason) == "" {
			return models.RejectResult("A disqualify reason is required.", map[string]string{
				"reason": "A disqualify reason is required.",
			})
		}
	}

	return nil
}

// ClearsDisqualification reports whether moving to target reopens the lead.
// Every state except NOT_A_FIT drops the stored disqualify reason and note,
// so those fields only ever exist on a disqualified lead.
func ClearsDisqualification(target models.LeadStatus) bool {
	return target != models.LeadStatusNOT_A_FIT
}

// ValidateProjectStatus validates a requested delivery phase change.
func ValidateProjectStatus(target models.ProjectStatus) *models.OpResult {
	if !IsValidProjectStatus(target) {
		return models.RejectResult("Unknown project status.", map[string]string{
			"status": "Unknown project status: " + string(target),
		})
	}
	return nil
}
