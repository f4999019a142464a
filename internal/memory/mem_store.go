package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/wezza-dev/prembot/internal/models"
)

// MemStore implements Store with plain maps. It backs the console binary
// and tests; nothing survives the process.
type MemStore struct {
	mu       sync.RWMutex
	sessions map[string]*SessionData
	profiles map[string]*models.UserProfile
}

func NewMemStore() *MemStore {
	return &MemStore{
		sessions: make(map[string]*SessionData),
		profiles: make(map[string]*models.UserProfile),
	}
}

func (m *MemStore) LoadSession(_ context.Context, sessionID string) (*SessionData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if session, ok := m.sessions[sessionID]; ok {
		return copySession(session), nil
	}
	return &SessionData{
		SessionID: sessionID,
		Messages:  []Message{},
		Metadata: Metadata{
			StartedAt:    time.Now(),
			LastActivity: time.Now(),
		},
	}, nil
}

func (m *MemStore) SaveSession(_ context.Context, session *SessionData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[session.SessionID] = copySession(session)
	return nil
}

func (m *MemStore) SaveMessage(ctx context.Context, sessionID, userID string, msg Message) error {
	session, err := m.LoadSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if session.UserID == "" {
		session.UserID = userID
	}

	session.Messages = append(session.Messages, msg)
	session.Metadata.LastActivity = time.Now()
	session.Metadata.MessageCount = len(session.Messages)

	if session.Metadata.MessageCount == 1 {
		session.Metadata.StartedAt = msg.Timestamp
	}

	return m.SaveSession(ctx, session)
}

func (m *MemStore) ClearSession(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
	return nil
}

func (m *MemStore) SessionExists(_ context.Context, sessionID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.sessions[sessionID]
	return ok, nil
}

func (m *MemStore) UpdateActivity(ctx context.Context, sessionID string) error {
	session, err := m.LoadSession(ctx, sessionID)
	if err != nil {
		return err
	}

	session.Metadata.LastActivity = time.Now()
	return m.SaveSession(ctx, session)
}

func (m *MemStore) LoadProfile(_ context.Context, name string) (*models.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if profile, ok := m.profiles[strings.ToLower(name)]; ok {
		cp := *profile
		return &cp, nil
	}
	return nil, nil
}

func (m *MemStore) SaveProfile(_ context.Context, profile *models.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *profile
	m.profiles[strings.ToLower(profile.Name)] = &cp
	return nil
}

// copySession guards against callers mutating shared state after a save.
func copySession(session *SessionData) *SessionData {
	cp := *session
	cp.Messages = make([]Message, len(session.Messages))
	copy(cp.Messages, session.Messages)
	return &cp
}
