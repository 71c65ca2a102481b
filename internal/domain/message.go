package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MessageRole represents the sender of a message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message represents one entry in a conversation log. Properties are
// attached only to result-bearing assistant messages. Pending is true
// while the message is the placeholder for an in-flight turn; it is
// replaced in place when the turn completes.
type Message struct {
	ID         uuid.UUID   `json:"id"`
	Role       MessageRole `json:"role"`
	Content    string      `json:"content"`
	Properties []Property  `json:"properties,omitempty"`
	Pending    bool        `json:"pending,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// HistoryRecord is the completed-turn record handed to the history store.
type HistoryRecord struct {
	UserID    *uuid.UUID `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Utterance string     `json:"message" bson:"message"`
	Response  string     `json:"response" bson:"response"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
}

// HistoryStore records completed turns for analytics. Writes are
// best-effort; callers must never surface its failures to the user.
type HistoryStore interface {
	Append(ctx context.Context, record HistoryRecord) error
}
