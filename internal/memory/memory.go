package memory

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/kavira-ai/voicecore/internal/models"
)

// NoHistorySummary is returned for conversations with zero messages.
const NoHistorySummary = "No conversation history."

// ContextBundle is the merged user context: profile plus a page of recent
// conversations. TotalConversations counts the returned page, not the true
// total.
type ContextBundle struct {
	Profile             *UserProfile   `json:"profile"`
	RecentConversations []Conversation `json:"recent_conversations"`
	TotalConversations  int            `json:"total_conversations"`
}

// Manager translates conversation-lifecycle events into Store operations.
// It owns no state and performs no retries; store errors propagate to the
// caller unchanged.
type Manager struct {
	store *Store
}

func NewManager(store *Store) *Manager {
	return &Manager{store: store}
}

// CreateConversation persists a fresh conversation for the user and returns
// its context. The id is a random 128-bit UUID, so the store's
// upsert-by-id semantics cannot merge unrelated conversations.
func (m *Manager) CreateConversation(ctx context.Context, user models.UserContext, metadata map[string]any) (*models.ConversationContext, error) {
	conversationID := uuid.NewString()

	if err := m.store.SaveConversation(ctx, conversationID, user.UserID, metadata); err != nil {
		return nil, err
	}

	if metadata == nil {
		metadata = map[string]any{}
	}
	log.Printf("created conversation %s for user %s", conversationID, user.UserID)
	return &models.ConversationContext{
		ConversationID: conversationID,
		UserID:         user.UserID,
		StartTime:      time.Now().UTC(),
		Metadata:       metadata,
	}, nil
}

// AddMessage appends one utterance to the conversation. The role value is
// passed through unvalidated; callers own their role vocabulary. The
// conversation must have been created first, which this layer is responsible
// for arranging (the store does not enforce referential integrity).
func (m *Manager) AddMessage(ctx context.Context, conversationID, role, content string, metadata map[string]any) error {
	return m.store.SaveMessage(ctx, conversationID, role, content, metadata)
}

// ConversationHistory returns messages oldest-first, capped at limit
// (default 50).
func (m *Manager) ConversationHistory(ctx context.Context, conversationID string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 50
	}
	return m.store.GetConversationHistory(ctx, conversationID, limit)
}

// ConversationSummary produces a count-based description of up to the first
// 20 messages. Roles other than "user" and "assistant" count toward the
// total but get no per-role line.
func (m *Manager) ConversationSummary(ctx context.Context, conversationID string) (string, error) {
	history, err := m.ConversationHistory(ctx, conversationID, 20)
	if err != nil {
		return "", err
	}
	if len(history) == 0 {
		return NoHistorySummary, nil
	}

	var userCount, assistantCount int
	for _, msg := range history {
		switch msg.Role {
		case "user":
			userCount++
		case "assistant":
			assistantCount++
		}
	}

	return fmt.Sprintf("Conversation has %d messages (%d from user, %d from assistant).",
		len(history), userCount, assistantCount), nil
}

// UserContext merges the profile with up to 5 recent conversations. Returns
// (nil, nil) only when the user has neither a profile nor any conversation.
func (m *Manager) UserContext(ctx context.Context, userID string) (*ContextBundle, error) {
	profile, err := m.store.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	conversations, err := m.store.GetUserConversations(ctx, userID, 5)
	if err != nil {
		return nil, err
	}

	if profile == nil && len(conversations) == 0 {
		return nil, nil
	}

	return &ContextBundle{
		Profile:             profile,
		RecentConversations: conversations,
		TotalConversations:  len(conversations),
	}, nil
}

// UpdateUserProfile saves the complete desired field set for the user.
// This is a full overwrite: fields left nil in profile are nulled out.
func (m *Manager) UpdateUserProfile(ctx context.Context, userID string, profile ProfileData) error {
	if err := m.store.SaveUserProfile(ctx, userID, profile); err != nil {
		return err
	}
	log.Printf("updated profile for user %s", userID)
	return nil
}
