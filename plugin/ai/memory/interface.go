// Package memory provides the per-session conversation history used to
// build context for clarification and disambiguation.
package memory

import (
	"context"
	"time"
)

// DefaultWindow is the default number of recent messages returned to
// context builders.
const DefaultWindow = 5

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a conversation message.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Service defines the conversation memory contract.
// Implementations must be safe for concurrent use across sessions;
// same-session ordering is the caller's responsibility.
type Service interface {
	// Append adds a message to a session, creating the session lazily.
	Append(ctx context.Context, sessionID string, msg Message) error

	// LastK returns up to k most recent messages in chronological order;
	// fewer than k exist, all are returned.
	LastK(ctx context.Context, sessionID string, k int) ([]Message, error)

	// Reset clears a session's history.
	Reset(ctx context.Context, sessionID string) error
}
