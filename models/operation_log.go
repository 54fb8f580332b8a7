package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OperationLog is one recorded mutating API call.
type OperationLog struct {
	ID            primitive.ObjectID     `bson:"_id,omitempty" json:"_id,omitempty"`
	Method        string                 `bson:"method" json:"method"`
	Path          string                 `bson:"path" json:"path"`
	OperatorID    string                 `bson:"operatorId" json:"operatorId"`
	OperatorName  string                 `bson:"operatorName" json:"operatorName"`
	OperatorRole  string                 `bson:"operatorRole" json:"operatorRole"`
	RequestBody   interface{}            `bson:"requestBody,omitempty" json:"requestBody,omitempty"`
	RequestHeader map[string]interface{} `bson:"requestHeader,omitempty" json:"requestHeader,omitempty"`
	StatusCode    int                    `bson:"statusCode" json:"statusCode"`
	Success       bool                   `bson:"success" json:"success"`
	ErrorMessage  string                 `bson:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	OperationTime time.Time              `bson:"operationTime" json:"operationTime"`
	ResponseTime  int64                  `bson:"responseTime" json:"responseTime"` // milliseconds
	IPAddress     string                 `bson:"ipAddress" json:"ipAddress"`
	UserAgent     string                 `bson:"userAgent" json:"userAgent"`
}
