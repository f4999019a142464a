package memory

import (
	"context"
	"time"

	"github.com/wezza-dev/prembot/internal/models"
)

// Message represents a single message in a conversation transcript
type Message struct {
	Role      string    `json:"role"`      // "user" or "assistant"
	Content   string    `json:"content"`   // The actual message text
	Timestamp time.Time `json:"timestamp"` // When the message was sent
}

// SessionData represents all data for a conversation session: the dialogue
// slots the state machine mutates plus the raw transcript.
type SessionData struct {
	SessionID string                 `json:"session_id"`
	UserID    string                 `json:"user_id"`
	Dialogue  models.DialogueSession `json:"dialogue"`
	Messages  []Message              `json:"messages"`
	Metadata  Metadata               `json:"metadata"`
}

// Metadata contains session information
type Metadata struct {
	StartedAt    time.Time `json:"started_at"`
	LastActivity time.Time `json:"last_activity"`
	MessageCount int       `json:"message_count"`
}

// Store defines the interface for session and profile storage.
// This allows us to swap between Redis, in-memory, etc.
type Store interface {
	// LoadSession loads a session, returning a fresh empty one when absent
	LoadSession(ctx context.Context, sessionID string) (*SessionData, error)

	// SaveSession persists the full session record
	SaveSession(ctx context.Context, session *SessionData) error

	// SaveMessage appends a transcript message to a session
	SaveMessage(ctx context.Context, sessionID, userID string, msg Message) error

	// ClearSession removes a session from storage
	ClearSession(ctx context.Context, sessionID string) error

	// SessionExists checks if a session exists
	SessionExists(ctx context.Context, sessionID string) (bool, error)

	// UpdateActivity updates the last activity timestamp
	UpdateActivity(ctx context.Context, sessionID string) error

	// LoadProfile returns the stored profile for a name, or nil when unknown
	LoadProfile(ctx context.Context, name string) (*models.UserProfile, error)

	// SaveProfile stores a user profile keyed by name
	SaveProfile(ctx context.Context, profile *models.UserProfile) error
}
