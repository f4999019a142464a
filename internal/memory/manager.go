package memory

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/memory"
)

// Manager orchestrates conversation transcripts: the durable copy lives in
// the Store, a LangChainGo conversation buffer per session serves formatted
// history without round-tripping storage.
type Manager struct {
	store    Store
	sessions map[string]*memory.ConversationBuffer // In-memory cache
}

// NewManager creates a new transcript manager
func NewManager(store Store) *Manager {
	return &Manager{
		store:    store,
		sessions: make(map[string]*memory.ConversationBuffer),
	}
}

// GetOrCreateSession gets or creates the conversation buffer for a session
func (m *Manager) GetOrCreateSession(ctx context.Context, sessionID string) (*memory.ConversationBuffer, error) {
	if buf, exists := m.sessions[sessionID]; exists {
		return buf, nil
	}

	buf := memory.NewConversationBuffer()

	sessionData, err := m.store.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	for _, msg := range sessionData.Messages {
		var chatMsg llms.ChatMessage

		switch msg.Role {
		case "user":
			chatMsg = llms.HumanChatMessage{Content: msg.Content}
		case "assistant":
			chatMsg = llms.AIChatMessage{Content: msg.Content}
		case "system":
			chatMsg = llms.SystemChatMessage{Content: msg.Content}
		default:
			log.Printf("unknown message role %q, skipping", msg.Role)
			continue
		}

		if err := buf.ChatHistory.AddMessage(ctx, chatMsg); err != nil {
			return nil, fmt.Errorf("failed to add message to memory: %w", err)
		}
	}

	m.sessions[sessionID] = buf

	return buf, nil
}

// SaveUserMessage records a user utterance in both the store and the buffer
func (m *Manager) SaveUserMessage(ctx context.Context, sessionID, userID, message string) error {
	buf, err := m.GetOrCreateSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := buf.ChatHistory.AddUserMessage(ctx, message); err != nil {
		return fmt.Errorf("failed to add user message to memory: %w", err)
	}

	msg := Message{
		Role:      "user",
		Content:   message,
		Timestamp: time.Now(),
	}

	if err := m.store.SaveMessage(ctx, sessionID, userID, msg); err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}

	return nil
}

// SaveAssistantMessage records a bot reply in both the store and the buffer
func (m *Manager) SaveAssistantMessage(ctx context.Context, sessionID, userID, message string) error {
	buf, err := m.GetOrCreateSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := buf.ChatHistory.AddAIMessage(ctx, message); err != nil {
		return fmt.Errorf("failed to add AI message to memory: %w", err)
	}

	msg := Message{
		Role:      "assistant",
		Content:   message,
		Timestamp: time.Now(),
	}

	if err := m.store.SaveMessage(ctx, sessionID, userID, msg); err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}

	return nil
}

// GetFormattedHistory returns the transcript as a prompt-ready string
func (m *Manager) GetFormattedHistory(ctx context.Context, sessionID string) (string, error) {
	buf, err := m.GetOrCreateSession(ctx, sessionID)
	if err != nil {
		return "", err
	}

	messages, err := buf.ChatHistory.Messages(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get messages: %w", err)
	}

	if len(messages) == 0 {
		return "No previous conversation.", nil
	}

	var b strings.Builder
	for _, msg := range messages {
		switch m := msg.(type) {
		case llms.HumanChatMessage:
			fmt.Fprintf(&b, "User: %s\n", m.Content)
		case llms.AIChatMessage:
			fmt.Fprintf(&b, "Assistant: %s\n", m.Content)
		case llms.SystemChatMessage:
			fmt.Fprintf(&b, "System: %s\n", m.Content)
		}
	}

	return b.String(), nil
}

// ClearSession drops a transcript from both cache and store
func (m *Manager) ClearSession(ctx context.Context, sessionID string) error {
	delete(m.sessions, sessionID)

	if err := m.store.ClearSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	return nil
}

// GetActiveSessionCount returns the number of cached sessions
func (m *Manager) GetActiveSessionCount() int {
	return len(m.sessions)
}

// Close closes the underlying store
func (m *Manager) Close() error {
	if closer, ok := m.store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
