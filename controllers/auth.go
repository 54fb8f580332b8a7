package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/MarisolQZ/pipeline_end/models"
	"github.com/MarisolQZ/pipeline_end/repository"
	"github.com/MarisolQZ/pipeline_end/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Login authenticates a user and returns a token.
func Login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := repository.Collection(repository.UsersCollection).
		FindOne(ctx, bson.M{"username": input.Username}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		utils.HandleError(c, err)
		return
	}

	if !utils.VerifyPassword(input.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.LogInfo(map[string]interface{}{
		"username": user.Username,
		"role":     user.Role,
	}, "user logged in")

	c.JSON(http.StatusOK, models.LoginResponse{Token: token, User: user})
}

// Register creates a new team member account.
func Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload: " + err.Error()})
		return
	}

	role := input.Role
	if role == "" {
		role = models.UserRoleMEMBER
	}
	if role != models.UserRoleADMIN && role != models.UserRoleMEMBER {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := repository.Collection(repository.UsersCollection)

	count, err := users.CountDocuments(ctx, bson.M{"username": input.Username})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		return
	}

	now := time.Now()
	user := models.User{
		Username:  input.Username,
		Password:  utils.HashPassword(input.Password),
		Email:     input.Email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := users.InsertOne(ctx, user)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}

	utils.LogInfo(map[string]interface{}{
		"username": user.Username,
	}, "user registered")

	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}

// ValidateToken confirms the current token and echoes the caller.
func ValidateToken(c *gin.Context) {
	user, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, utils.CreateUnauthorizedError())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}
