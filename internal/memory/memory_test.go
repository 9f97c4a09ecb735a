package memory

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/kavira-ai/voicecore/internal/models"
)

func TestCreateConversation(t *testing.T) {
	store := openTestStore(t)
	mgr := NewManager(store)
	ctx := context.Background()

	user := models.NewUserContext("user123")
	user.Name = "John"

	conv, err := mgr.CreateConversation(ctx, user, nil)
	if err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	if conv.UserID != "user123" {
		t.Fatalf("unexpected user id %q", conv.UserID)
	}
	if conv.ConversationID == "" {
		t.Fatalf("conversation id not generated")
	}

	other, err := mgr.CreateConversation(ctx, user, nil)
	if err != nil {
		t.Fatalf("create second conversation: %v", err)
	}
	if other.ConversationID == conv.ConversationID {
		t.Fatalf("conversation ids must be unique, both %q", conv.ConversationID)
	}
}

func TestAddMessageAndHistory(t *testing.T) {
	store := openTestStore(t)
	mgr := NewManager(store)
	ctx := context.Background()

	conv, err := mgr.CreateConversation(ctx, models.NewUserContext("user123"), nil)
	if err != nil {
		t.Fatalf("create conversation: %v", err)
	}

	if err := mgr.AddMessage(ctx, conv.ConversationID, "user", "Hello", nil); err != nil {
		t.Fatalf("add user message: %v", err)
	}
	if err := mgr.AddMessage(ctx, conv.ConversationID, "assistant", "Hi there!", nil); err != nil {
		t.Fatalf("add assistant message: %v", err)
	}

	history, err := mgr.ConversationHistory(ctx, conv.ConversationID, 0)
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history))
	}
	if history[0].Role != "user" || history[0].Content != "Hello" {
		t.Fatalf("unexpected first message: %+v", history[0])
	}
	if history[1].Role != "assistant" || history[1].Content != "Hi there!" {
		t.Fatalf("unexpected second message: %+v", history[1])
	}
}

func TestConversationHistoryLimit(t *testing.T) {
	store := openTestStore(t)
	mgr := NewManager(store)
	ctx := context.Background()

	conv, err := mgr.CreateConversation(ctx, models.NewUserContext("user123"), nil)
	if err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	for i := 0; i < 10; i++ {
		if err := mgr.AddMessage(ctx, conv.ConversationID, "user", fmt.Sprintf("Message %d", i), nil); err != nil {
			t.Fatalf("add message %d: %v", i, err)
		}
	}

	history, err := mgr.ConversationHistory(ctx, conv.ConversationID, 5)
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if len(history) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(history))
	}
	for i, msg := range history {
		if want := fmt.Sprintf("Message %d", i); msg.Content != want {
			t.Fatalf("expected oldest-first truncation, got %q at %d", msg.Content, i)
		}
	}
}

func TestConversationSummary(t *testing.T) {
	store := openTestStore(t)
	mgr := NewManager(store)
	ctx := context.Background()

	conv, err := mgr.CreateConversation(ctx, models.NewUserContext("user123"), nil)
	if err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	if err := mgr.AddMessage(ctx, conv.ConversationID, "user", "Hello", nil); err != nil {
		t.Fatalf("add message: %v", err)
	}
	if err := mgr.AddMessage(ctx, conv.ConversationID, "assistant", "Hi!", nil); err != nil {
		t.Fatalf("add message: %v", err)
	}
	if err := mgr.AddMessage(ctx, conv.ConversationID, "user", "How are you?", nil); err != nil {
		t.Fatalf("add message: %v", err)
	}

	summary, err := mgr.ConversationSummary(ctx, conv.ConversationID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !strings.Contains(summary, "3 messages") {
		t.Fatalf("summary missing total: %q", summary)
	}
	if !strings.Contains(summary, "2 from user") {
		t.Fatalf("summary missing user count: %q", summary)
	}
	if !strings.Contains(summary, "1 from assistant") {
		t.Fatalf("summary missing assistant count: %q", summary)
	}
}

func TestConversationSummaryCountsUnknownRolesInTotal(t *testing.T) {
	store := openTestStore(t)
	mgr := NewManager(store)
	ctx := context.Background()

	conv, err := mgr.CreateConversation(ctx, models.NewUserContext("user123"), nil)
	if err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	if err := mgr.AddMessage(ctx, conv.ConversationID, "user", "Hello", nil); err != nil {
		t.Fatalf("add message: %v", err)
	}
	if err := mgr.AddMessage(ctx, conv.ConversationID, "system", "note", nil); err != nil {
		t.Fatalf("add system message: %v", err)
	}

	summary, err := mgr.ConversationSummary(ctx, conv.ConversationID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !strings.Contains(summary, "2 messages") {
		t.Fatalf("unknown role excluded from total: %q", summary)
	}
	if !strings.Contains(summary, "1 from user") || !strings.Contains(summary, "0 from assistant") {
		t.Fatalf("unexpected per-role counts: %q", summary)
	}
}

func TestConversationSummaryEmpty(t *testing.T) {
	store := openTestStore(t)
	mgr := NewManager(store)

	summary, err := mgr.ConversationSummary(context.Background(), "no-such-conversation")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary != NoHistorySummary {
		t.Fatalf("expected sentinel %q, got %q", NoHistorySummary, summary)
	}
}

func TestUserContextEmpty(t *testing.T) {
	store := openTestStore(t)
	mgr := NewManager(store)

	bundle, err := mgr.UserContext(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("user context: %v", err)
	}
	if bundle != nil {
		t.Fatalf("expected nil bundle for unknown user, got %+v", bundle)
	}
}

func TestUserContextProfileOnly(t *testing.T) {
	store := openTestStore(t)
	mgr := NewManager(store)
	ctx := context.Background()

	name, email := "John Doe", "john@example.com"
	if err := mgr.UpdateUserProfile(ctx, "user123", ProfileData{Name: &name, Email: &email}); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	bundle, err := mgr.UserContext(ctx, "user123")
	if err != nil {
		t.Fatalf("user context: %v", err)
	}
	if bundle == nil {
		t.Fatalf("expected bundle for user with profile")
	}
	if bundle.Profile == nil || bundle.Profile.Name == nil || *bundle.Profile.Name != "John Doe" {
		t.Fatalf("unexpected profile: %+v", bundle.Profile)
	}
	if bundle.TotalConversations != 0 {
		t.Fatalf("expected 0 conversations, got %d", bundle.TotalConversations)
	}
}

func TestUserContextRecentConversationsPage(t *testing.T) {
	store := openTestStore(t)
	mgr := NewManager(store)
	ctx := context.Background()

	user := models.NewUserContext("user123")
	for i := 0; i < 7; i++ {
		if _, err := mgr.CreateConversation(ctx, user, map[string]any{"n": i}); err != nil {
			t.Fatalf("create conversation %d: %v", i, err)
		}
	}

	bundle, err := mgr.UserContext(ctx, "user123")
	if err != nil {
		t.Fatalf("user context: %v", err)
	}
	if bundle == nil {
		t.Fatalf("expected bundle")
	}
	if len(bundle.RecentConversations) != 5 {
		t.Fatalf("expected page of 5 conversations, got %d", len(bundle.RecentConversations))
	}
	// The count reflects the returned page, not the true total.
	if bundle.TotalConversations != 5 {
		t.Fatalf("expected total 5 (page count), got %d", bundle.TotalConversations)
	}
	if bundle.Profile != nil {
		t.Fatalf("expected nil profile, got %+v", bundle.Profile)
	}
}
