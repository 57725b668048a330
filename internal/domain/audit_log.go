package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditLog records every significant action in the system.
type AuditLog struct {
	ID         primitive.ObjectID `json:"id"          bson:"_id,omitempty"`
	Action     string             `json:"action"      bson:"action"`
	Resource   string             `json:"resource"    bson:"resource"`
	ResourceID string             `json:"resource_id" bson:"resource_id"`
	Details    string             `json:"details"     bson:"details"` // JSON blob
	IP         string             `json:"ip"          bson:"ip"`
	UserAgent  string             `json:"user_agent"  bson:"user_agent"`
	CreatedAt  time.Time          `json:"created_at"  bson:"created_at"`
}

// AuditActionHTTPRequest labels the audit entries written for API requests.
const AuditActionHTTPRequest = "http_request"
