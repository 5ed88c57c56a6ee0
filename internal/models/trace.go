package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReasoningTrace keeps the prompt and raw model output of one classification call.
type ReasoningTrace struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MessageUUID string             `bson:"message_uuid" json:"message_uuid"`
	Model       string             `bson:"model" json:"model"`

	Prompt   string `bson:"prompt" json:"prompt"`
	Response string `bson:"response,omitempty" json:"response,omitempty"`
	Status   string `bson:"status" json:"status"` // ok|call_failed|parse_failed|empty
	Error    string `bson:"error,omitempty" json:"error,omitempty"`

	LatencyMS int64     `bson:"latency_ms" json:"latency_ms"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"` // TTL index
}
