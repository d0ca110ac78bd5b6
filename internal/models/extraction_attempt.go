package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AttemptOK      = "ok"
	AttemptFailed  = "failed"
	AttemptTimeout = "timeout"
)

type ExtractionAttempt struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClerkID  string             `bson:"clerk_id,omitempty" json:"clerk_id,omitempty"`
	FileName string             `bson:"file_name" json:"file_name"`
	MimeType string             `bson:"mime_type" json:"mime_type"`
	FileSize int                `bson:"file_size" json:"file_size"`

	Status     string `bson:"status" json:"status"` // ok|failed|timeout
	Error      string `bson:"error,omitempty" json:"error,omitempty"`
	DurationMS int64  `bson:"duration_ms" json:"duration_ms"`
	CVID       string `bson:"cv_id,omitempty" json:"cv_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"` // TTL
}
