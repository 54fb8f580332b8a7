package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/MarisolQZ/pipeline_end/models"
	"github.com/MarisolQZ/pipeline_end/repository"
	"github.com/MarisolQZ/pipeline_end/service"
	"github.com/MarisolQZ/pipeline_end/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateLead records an inbound submission.
func CreateLead(c *gin.Context) {
	var input models.LeadCreateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	lead := models.Lead{
		FullName:   input.FullName,
		Email:      input.Email,
		Phone:      input.Phone,
		Company:    input.Company,
		Message:    input.Message,
		Source:     input.Source,
		LeadStatus: models.LeadStatusNEW,
		Priority:   models.LeadPriorityMEDIUM,
		Unread:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	result, err := repository.Collection(repository.LeadsCollection).InsertOne(ctx, lead)
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"email": input.Email})
		return
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		lead.ID = oid
	}

	if _, err := service.AppendActivity(ctx, models.ActivityOwnerLead, lead.ID.Hex(), models.ActivityCreated,
		"Lead submitted", map[string]interface{}{"source": lead.Source}); err != nil {
		utils.LogError(err, map[string]interface{}{"leadId": lead.ID.Hex()}, "failed to log lead creation")
	}

	// best-effort; the lead is already saved
	service.DispatchNotification("lead.created", map[string]interface{}{
		"leadId":   lead.ID.Hex(),
		"fullName": lead.FullName,
		"email":    lead.Email,
	})

	c.JSON(http.StatusCreated, models.OKResult("Lead created.", lead))
}

// GetLeads lists leads with filters and pagination.
func GetLeads(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["leadStatus"] = status
	}
	if assignedTo := c.Query("assignedTo"); assignedTo != "" {
		filter["assignedTo"] = assignedTo
	}
	if priority := c.Query("priority"); priority != "" {
		filter["priority"] = priority
	}
	if unread := c.Query("unread"); unread == "true" {
		filter["unread"] = true
	}

	page := int64(1)
	limit := int64(20)
	if p := c.Query("page"); p != "" {
		fmt.Sscan(p, &page)
	}
	if l := c.Query("limit"); l != "" {
		fmt.Sscan(l, &limit)
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	collection := repository.Collection(repository.LeadsCollection)

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer cursor.Close(ctx)

	var leads []models.Lead
	if err = cursor.All(ctx, &leads); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.PaginatedResponse(c, leads, total, page, limit)
}

// GetLeadDetail returns one lead and clears its unread flag.
func GetLeadDetail(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lead, apiErr := loadLead(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	if lead.Unread {
		_, err := repository.Collection(repository.LeadsCollection).UpdateOne(ctx,
			bson.M{"_id": lead.ID},
			bson.M{"$set": bson.M{"unread": false}})
		if err != nil {
			// reading still succeeds
			utils.LogError(err, map[string]interface{}{"leadId": lead.ID.Hex()}, "failed to clear unread flag")
		} else {
			lead.Unread = false
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "lead": lead})
}

// UpdateLead edits contact fields.
func UpdateLead(c *gin.Context) {
	var input models.LeadUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lead, apiErr := loadLead(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if input.FullName != nil {
		set["fullName"] = *input.FullName
	}
	if input.Email != nil {
		set["email"] = *input.Email
	}
	if input.Phone != nil {
		set["phone"] = *input.Phone
	}
	if input.Company != nil {
		set["company"] = *input.Company
	}
	if input.Message != nil {
		set["message"] = *input.Message
	}

	_, err := repository.Collection(repository.LeadsCollection).UpdateOne(ctx,
		bson.M{"_id": lead.ID}, bson.M{"$set": set})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"leadId": lead.ID.Hex()})
		return
	}

	respondResult(c, models.OKResult("Lead updated.", nil))
}

// UpdateLeadQualification replaces the BANT/MEDDICC inputs and rescores in
// the same write, so the persisted score can never drift from the inputs
// that produced it.
func UpdateLeadQualification(c *gin.Context) {
	var input models.Qualification
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lead, apiErr := loadLead(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	scored := service.ScoreQualification(input, lead.MeetingAt)

	_, err := repository.Collection(repository.LeadsCollection).UpdateOne(ctx,
		bson.M{"_id": lead.ID},
		bson.M{"$set": bson.M{
			"qualification": input,
			"leadScore":     scored.Score,
			"scoreReasons":  scored.Reasons,
			"updatedAt":     time.Now(),
		}})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"leadId": lead.ID.Hex()})
		return
	}

	respondResult(c, models.OKResult("Qualification updated.", scored))
}

// applyLeadStatus persists an accepted transition and logs exactly one
// activity entry. Validation happens before this point; rejected
// transitions never reach it.
func applyLeadStatus(ctx context.Context, lead *models.Lead, target models.LeadStatus, set bson.M, entryType models.ActivityType, message string) error {
	set["leadStatus"] = target
	set["updatedAt"] = time.Now()

	update := bson.M{"$set": set}
	if service.ClearsDisqualification(target) {
		update["$unset"] = bson.M{"disqualifyReason": "", "disqualifyNote": ""}
	}

	_, err := repository.Collection(repository.LeadsCollection).UpdateOne(ctx,
		bson.M{"_id": lead.ID}, update)
	if err != nil {
		return err
	}

	if _, err := service.AppendActivity(ctx, models.ActivityOwnerLead, lead.ID.Hex(), entryType, message,
		map[string]interface{}{"from": lead.LeadStatus, "to": target}); err != nil {
		utils.LogError(err, map[string]interface{}{"leadId": lead.ID.Hex()}, "failed to log status change")
	}

	return nil
}

// UpdateLeadStatus performs a generic status transition.
func UpdateLeadStatus(c *gin.Context) {
	var input models.LeadStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lead, apiErr := loadLead(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	if reject := service.ValidateLeadTransition(lead, input.Status, input.Reason); reject != nil {
		respondResult(c, reject)
		return
	}

	set := bson.M{}
	entryType := models.ActivityStatusChanged
	message := fmt.Sprintf("Status changed from %s to %s", lead.LeadStatus, input.Status)

	if input.Status == models.LeadStatusNOT_A_FIT {
		set["disqualifyReason"] = input.Reason
		set["disqualifyNote"] = input.Note
		entryType = models.ActivityDisqualified
		message = fmt.Sprintf("Disqualified: %s", input.Reason)
	}

	if err := applyLeadStatus(ctx, lead, input.Status, set, entryType, message); err != nil {
		respondFailure(c, err, map[string]interface{}{"leadId": lead.ID.Hex()})
		return
	}

	respondResult(c, models.OKResult("Status updated.", nil))
}

// MarkLeadContacted is the convenience transition to IN_PROGRESS plus a
// lastContactedAt stamp.
func MarkLeadContacted(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lead, apiErr := loadLead(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	now := time.Now()
	set := bson.M{"lastContactedAt": now}
	if err := applyLeadStatus(ctx, lead, models.LeadStatusIN_PROGRESS, set, models.ActivityContacted,
		"Marked contacted"); err != nil {
		respondFailure(c, err, map[string]interface{}{"leadId": lead.ID.Hex()})
		return
	}

	respondResult(c, models.OKResult("Lead marked contacted.", nil))
}

// ScheduleLeadAppointment moves the lead to APPOINTMENT_SCHEDULED and keeps
// nextFollowUpAt in sync with the meeting time. The meeting also feeds the
// scorer, so the score is recomputed in the same write.
func ScheduleLeadAppointment(c *gin.Context) {
	var input models.LeadAppointmentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lead, apiErr := loadLead(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	scored := service.ScoreQualification(lead.Qualification, &input.MeetingAt)

	set := bson.M{
		"meetingAt":      input.MeetingAt,
		"nextFollowUpAt": input.MeetingAt,
		"leadScore":      scored.Score,
		"scoreReasons":   scored.Reasons,
	}
	if err := applyLeadStatus(ctx, lead, models.LeadStatusAPPOINTMENT_SCHEDULED, set, models.ActivityAppointment,
		fmt.Sprintf("Appointment scheduled for %s", input.MeetingAt.Format(time.RFC3339))); err != nil {
		respondFailure(c, err, map[string]interface{}{"leadId": lead.ID.Hex()})
		return
	}

	respondResult(c, models.OKResult("Appointment scheduled.", scored))
}

// QualifyLead marks the lead qualified to buy behind the BANT gate.
func QualifyLead(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lead, apiErr := loadLead(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	if reject := service.CheckBANTGate(lead.Qualification); reject != nil {
		// status unchanged, nothing logged
		respondResult(c, reject)
		return
	}

	if err := applyLeadStatus(ctx, lead, models.LeadStatusQUALIFIED_TO_BUY, bson.M{}, models.ActivityQualified,
		"Marked qualified to buy"); err != nil {
		respondFailure(c, err, map[string]interface{}{"leadId": lead.ID.Hex()})
		return
	}

	respondResult(c, models.OKResult("Lead qualified to buy.", nil))
}

// DisqualifyLead moves the lead to NOT_A_FIT with a required reason.
func DisqualifyLead(c *gin.Context) {
	var input models.LeadDisqualifyRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondResult(c, models.RejectResult("A disqualify reason is required.", map[string]string{
			"reason": "A disqualify reason is required.",
		}))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lead, apiErr := loadLead(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	if reject := service.ValidateLeadTransition(lead, models.LeadStatusNOT_A_FIT, input.Reason); reject != nil {
		respondResult(c, reject)
		return
	}

	set := bson.M{
		"disqualifyReason": input.Reason,
		"disqualifyNote":   input.Note,
	}
	if err := applyLeadStatus(ctx, lead, models.LeadStatusNOT_A_FIT, set, models.ActivityDisqualified,
		fmt.Sprintf("Disqualified: %s", input.Reason)); err != nil {
		respondFailure(c, err, map[string]interface{}{"leadId": lead.ID.Hex()})
		return
	}

	respondResult(c, models.OKResult("Lead disqualified.", nil))
}

// AssignLead sets or clears the lead owner.
func AssignLead(c *gin.Context) {
	var input models.LeadAssignRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lead, apiErr := loadLead(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	message := "Lead unassigned"
	if input.UserID != "" {
		owner, err := repository.FindUserByID(input.UserID)
		if err != nil {
			respondResult(c, models.RejectResult("Assignee not found.", map[string]string{
				"userId": "Assignee not found.",
			}))
			return
		}
		message = fmt.Sprintf("Assigned to %s", owner.Username)
	}

	_, err := repository.Collection(repository.LeadsCollection).UpdateOne(ctx,
		bson.M{"_id": lead.ID},
		bson.M{"$set": bson.M{"assignedTo": input.UserID, "updatedAt": time.Now()}})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"leadId": lead.ID.Hex()})
		return
	}

	if _, err := service.AppendActivity(ctx, models.ActivityOwnerLead, lead.ID.Hex(), models.ActivityAssigned,
		message, map[string]interface{}{"userId": input.UserID}); err != nil {
		utils.LogError(err, map[string]interface{}{"leadId": lead.ID.Hex()}, "failed to log assignment")
	}

	respondResult(c, models.OKResult(message+".", nil))
}

// SetLeadPriority updates the priority flag.
func SetLeadPriority(c *gin.Context) {
	var input models.LeadPriorityRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	switch input.Priority {
	case models.LeadPriorityLOW, models.LeadPriorityMEDIUM, models.LeadPriorityHIGH:
	default:
		respondResult(c, models.RejectResult("Unknown priority.", map[string]string{
			"priority": "Unknown priority: " + string(input.Priority),
		}))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lead, apiErr := loadLead(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	_, err := repository.Collection(repository.LeadsCollection).UpdateOne(ctx,
		bson.M{"_id": lead.ID},
		bson.M{"$set": bson.M{"priority": input.Priority, "updatedAt": time.Now()}})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"leadId": lead.ID.Hex()})
		return
	}

	respondResult(c, models.OKResult("Priority updated.", nil))
}

// SetLeadUnread flips the unread flag.
func SetLeadUnread(c *gin.Context) {
	var input models.LeadUnreadRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lead, apiErr := loadLead(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	_, err := repository.Collection(repository.LeadsCollection).UpdateOne(ctx,
		bson.M{"_id": lead.ID},
		bson.M{"$set": bson.M{"unread": input.Unread, "updatedAt": time.Now()}})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"leadId": lead.ID.Hex()})
		return
	}

	respondResult(c, models.OKResult("Lead updated.", nil))
}

// DeleteLead permanently removes a lead and its activity log. Leads have no
// trash axis; this is the explicit destructive action.
func DeleteLead(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lead, apiErr := loadLead(ctx, c.Param("id"))
	if apiErr != nil {
		utils.HandleError(c, apiErr)
		return
	}

	_, err := repository.RunInTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := repository.Collection(repository.LeadsCollection).
			DeleteOne(sc, bson.M{"_id": lead.ID}); err != nil {
			return nil, err
		}
		if _, err := repository.Collection(repository.ActivitiesCollection).
			DeleteMany(sc, bson.M{"ownerType": models.ActivityOwnerLead, "ownerId": lead.ID.Hex()}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"leadId": lead.ID.Hex()})
		return
	}

	utils.LogInfo(map[string]interface{}{"leadId": lead.ID.Hex()}, "lead permanently deleted")

	respondResult(c, models.OKResult("Lead permanently deleted.", nil))
}
