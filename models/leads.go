package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LeadStatus enumerates the lead pipeline states. Stored as plain strings;
// always validated against the enumeration at the boundary.
type LeadStatus string

const (
	LeadStatusNEW                   LeadStatus = "NEW"
	LeadStatusOPEN                  LeadStatus = "OPEN"
	LeadStatusIN_PROGRESS           LeadStatus = "IN_PROGRESS"
	LeadStatusATTEMPTED_TO_CONTACT  LeadStatus = "ATTEMPTED_TO_CONTACT"
	LeadStatusCONNECTED             LeadStatus = "CONNECTED"
	LeadStatusAPPOINTMENT_SCHEDULED LeadStatus = "APPOINTMENT_SCHEDULED"
	LeadStatusQUALIFIED_TO_BUY      LeadStatus = "QUALIFIED_TO_BUY"
	LeadStatusCONTRACT_SENT         LeadStatus = "CONTRACT_SENT"
	LeadStatusCLOSED_WON            LeadStatus = "CLOSED_WON"
	LeadStatusCLOSED_LOST           LeadStatus = "CLOSED_LOST"
	LeadStatusNOT_A_FIT             LeadStatus = "NOT_A_FIT"
	LeadStatusUNQUALIFIED           LeadStatus = "UNQUALIFIED"
	LeadStatusBAD_TIMING            LeadStatus = "BAD_TIMING"
)

// LeadPriority enumerates lead priorities.
type LeadPriority string

const (
	LeadPriorityLOW    LeadPriority = "LOW"
	LeadPriorityMEDIUM LeadPriority = "MEDIUM"
	LeadPriorityHIGH   LeadPriority = "HIGH"
)

// Qualification holds the BANT confirmations plus the MEDDICC-lite notes a
// lead is scored from. The persisted score must always match these inputs.
type Qualification struct {
	BudgetRange        string `bson:"budgetRange,omitempty" json:"budgetRange,omitempty"`
	DecisionMakerRole  string `bson:"decisionMakerRole,omitempty" json:"decisionMakerRole,omitempty"`
	BudgetConfirmed    bool   `bson:"budgetConfirmed" json:"budgetConfirmed"`
	AuthorityConfirmed bool   `bson:"authorityConfirmed" json:"authorityConfirmed"`
	NeedConfirmed      bool   `bson:"needConfirmed" json:"needConfirmed"`
	TimelineConfirmed  bool   `bson:"timelineConfirmed" json:"timelineConfirmed"`

	DecisionCriteria    string   `bson:"decisionCriteria,omitempty" json:"decisionCriteria,omitempty"`
	DecisionProcess     string   `bson:"decisionProcess,omitempty" json:"decisionProcess,omitempty"`
	PaperProcess        string   `bson:"paperProcess,omitempty" json:"paperProcess,omitempty"`
	Competition         string   `bson:"competition,omitempty" json:"competition,omitempty"`
	ChampionIdentified  bool     `bson:"championIdentified" json:"championIdentified"`
	MustHaveFeatures    []string `bson:"mustHaveFeatures,omitempty" json:"mustHaveFeatures,omitempty"`
}

// Lead is a prospective customer inquiry moving through the pipeline.
type Lead struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	FullName string             `bson:"fullName" json:"fullName"`
	Email    string             `bson:"email" json:"email"`
	Phone    string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Company  string             `bson:"company,omitempty" json:"company,omitempty"`
	Message  string             `bson:"message,omitempty" json:"message,omitempty"`
	Source   string             `bson:"source,omitempty" json:"source,omitempty"`

	LeadStatus LeadStatus   `bson:"leadStatus" json:"leadStatus"`
	Priority   LeadPriority `bson:"priority" json:"priority"`
	Unread     bool         `bson:"unread" json:"unread"`
	AssignedTo string       `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`

	Qualification Qualification `bson:"qualification" json:"qualification"`
	LeadScore     *int          `bson:"leadScore,omitempty" json:"leadScore,omitempty"` // nil until scored
	ScoreReasons  []string      `bson:"scoreReasons,omitempty" json:"scoreReasons,omitempty"`

	MeetingAt        *time.Time `bson:"meetingAt,omitempty" json:"meetingAt,omitempty"`
	NextFollowUpAt   *time.Time `bson:"nextFollowUpAt,omitempty" json:"nextFollowUpAt,omitempty"`
	LastContactedAt  *time.Time `bson:"lastContactedAt,omitempty" json:"lastContactedAt,omitempty"`
	DisqualifyReason string     `bson:"disqualifyReason,omitempty" json:"disqualifyReason,omitempty"`
	DisqualifyNote   string     `bson:"disqualifyNote,omitempty" json:"disqualifyNote,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Lead request shapes.
type (
	// LeadCreateRequest inbound submission payload
	LeadCreateRequest struct {
		FullName string `json:"fullName" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Phone    string `json:"phone"`
		Company  string `json:"company"`
		Message  string `json:"message"`
		Source   string `json:"source"`
	}

	// LeadUpdateRequest contact-field update payload
	LeadUpdateRequest struct {
		FullName *string `json:"fullName"`
		Email    *string `json:"email"`
		Phone    *string `json:"phone"`
		Company  *string `json:"company"`
		Message  *string `json:"message"`
	}

	// LeadStatusRequest generic status transition payload
	LeadStatusRequest struct {
		Status LeadStatus `json:"status" binding:"required"`
		Reason string     `json:"reason"`
		Note   string     `json:"note"`
	}

	// LeadAppointmentRequest appointment scheduling payload
	LeadAppointmentRequest struct {
		MeetingAt time.Time `json:"meetingAt" binding:"required"`
	}

	// LeadDisqualifyRequest disqualification payload
	LeadDisqualifyRequest struct {
		Reason string `json:"reason" binding:"required"`
		Note   string `json:"note"`
	}

	// LeadAssignRequest owner assignment payload, empty userId unassigns
	LeadAssignRequest struct {
		UserID string `json:"userId"`
	}

	// LeadPriorityRequest priority update payload
	LeadPriorityRequest struct {
		Priority LeadPriority `json:"priority" binding:"required"`
	}

	// LeadUnreadRequest read/unread flag payload
	LeadUnreadRequest struct {
		Unread bool `json:"unread"`
	}

	// LeadConvertRequest Lead->Project conversion payload; all fields optional
	LeadConvertRequest struct {
		Name    string `json:"name"`
		Summary string `json:"summary"`
	}
)
