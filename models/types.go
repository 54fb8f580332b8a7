package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRole enumerates login roles.
type UserRole string

const (
	UserRoleADMIN  UserRole = "ADMIN"  // full access
	UserRoleMEMBER UserRole = "MEMBER" // team member, can own leads and projects
)

// User account.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Username  string             `bson:"username" json:"username"`
	Password  string             `bson:"password" json:"-"` // never returned
	Email     string             `bson:"email" json:"email"`
	Role      UserRole           `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OpResult is the uniform shape returned by every mutating pipeline
// operation. ok=false with fieldErrors is a validation/gate rejection;
// ok=false without fieldErrors is an infrastructure failure (logged, the
// caller only sees a generic message).
type OpResult struct {
	OK          bool              `json:"ok"`
	Message     string            `json:"message,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	Data        interface{}       `json:"data,omitempty"`
}

// OKResult builds a success result.
func OKResult(message string, data interface{}) *OpResult {
	return &OpResult{OK: true, Message: message, Data: data}
}

// RejectResult builds a business rejection, optionally with field errors.
func RejectResult(message string, fieldErrors map[string]string) *OpResult {
	return &OpResult{OK: false, Message: message, FieldErrors: fieldErrors}
}

// FailResult builds an infrastructure failure result.
func FailResult(message string) *OpResult {
	if message == "" {
		message = "Failed to save. Please try again."
	}
	return &OpResult{OK: false, Message: message}
}

// Auth request and response shapes.
type (
	// LoginRequest login payload
	LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	// LoginResponse login payload result
	LoginResponse struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}

	// RegisterRequest register payload
	RegisterRequest struct {
		Username string   `json:"username" binding:"required,min=2"`
		Password string   `json:"password" binding:"required,min=6"`
		Email    string   `json:"email" binding:"required,email"`
		Role     UserRole `json:"role"`
	}
)
