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
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// AttachFile records attachment metadata on the project. The bytes
// themselves live in external storage; only what is needed to list and link
// the file is kept here.
func AttachFile(c *gin.Context) {
	var input models.FileAttachRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	project, ok := loadGuardedProject(c, ctx)
	if !ok {
		return
	}
	pid := project.ID.Hex()

	uploadedBy := ""
	if user, err := utils.GetUser(c); err == nil {
		uploadedBy = user.Username
	}

	attachment := models.FileAttachment{
		ID:           uuid.New().String(),
		FileName:     input.FileName,
		OriginalName: input.OriginalName,
		FileSize:     input.FileSize,
		FileType:     input.FileType,
		URL:          input.URL,
		UploadedBy:   uploadedBy,
		UploadTime:   time.Now(),
	}
	if attachment.OriginalName == "" {
		attachment.OriginalName = attachment.FileName
	}

	_, err := repository.Collection(repository.ProjectsCollection).UpdateOne(ctx,
		bson.M{"_id": project.ID},
		bson.M{
			"$push": bson.M{"files": attachment},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"projectId": pid})
		return
	}

	if _, err := service.AppendActivity(ctx, models.ActivityOwnerProject, pid,
		models.ActivityFileAttached,
		fmt.Sprintf("File attached: %s", attachment.OriginalName),
		map[string]interface{}{"fileId": attachment.ID}); err != nil {
		utils.LogError(err, map[string]interface{}{"projectId": pid}, "failed to log attachment")
	}

	c.JSON(http.StatusCreated, models.OKResult("File attached.", attachment))
}

// RemoveFile deletes attachment metadata from the project.
func RemoveFile(c *gin.Context) {
	fileID := c.Param("fileId")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	project, ok := loadGuardedProject(c, ctx)
	if !ok {
		return
	}

	found := false
	for _, f := range project.Files {
		if f.ID == fileID {
			found = true
			break
		}
	}
	if !found {
		utils.HandleError(c, utils.CreateNotFoundError("file"))
		return
	}

	_, err := repository.Collection(repository.ProjectsCollection).UpdateOne(ctx,
		bson.M{"_id": project.ID},
		bson.M{
			"$pull": bson.M{"files": bson.M{"id": fileID}},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
	if err != nil {
		respondFailure(c, err, map[string]interface{}{"projectId": project.ID.Hex(), "fileId": fileID})
		return
	}

	respondResult(c, models.OKResult("File removed.", nil))
}
