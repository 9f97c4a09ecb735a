package main

import (
	"context"
	"fmt"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/kavira-ai/voicecore/internal/memory"
	"github.com/kavira-ai/voicecore/internal/models"
	"github.com/kavira-ai/voicecore/internal/store/rabbitmq"
)

func openTestManager(t *testing.T) (*memory.Manager, *memory.Store) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	store := memory.NewStore(db)
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return memory.NewManager(store), store
}

func TestHandleEventMessage(t *testing.T) {
	mgr, _ := openTestManager(t)
	ctx := context.Background()

	conv, err := mgr.CreateConversation(ctx, models.NewUserContext("user123"), nil)
	if err != nil {
		t.Fatalf("create conversation: %v", err)
	}

	ev := rabbitmq.TurnEvent{
		JobID:          "job1",
		Kind:           rabbitmq.KindMessage,
		ConversationID: conv.ConversationID,
		Role:           "user",
		Content:        "Hello",
	}
	if err := handleEvent(ctx, mgr, ev); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	history, err := mgr.ConversationHistory(ctx, conv.ConversationID, 0)
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if len(history) != 1 || history[0].Content != "Hello" {
		t.Fatalf("message not appended: %+v", history)
	}
}

func TestHandleEventProfileUpdate(t *testing.T) {
	mgr, store := openTestManager(t)
	ctx := context.Background()

	ev := rabbitmq.TurnEvent{
		JobID:       "job2",
		Kind:        rabbitmq.KindProfileUpdate,
		UserID:      "user123",
		PhoneNumber: "+1234567890",
	}
	if err := handleEvent(ctx, mgr, ev); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	p, err := store.GetUserProfile(ctx, "user123")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p == nil || p.PhoneNumber == nil || *p.PhoneNumber != "+1234567890" {
		t.Fatalf("phone not saved: %+v", p)
	}
}

func TestHandleEventUnknownKindDropped(t *testing.T) {
	mgr, _ := openTestManager(t)

	ev := rabbitmq.TurnEvent{JobID: "job3", Kind: "telemetry"}
	if err := handleEvent(context.Background(), mgr, ev); err != nil {
		t.Fatalf("unknown kinds should be dropped, not retried: %v", err)
	}
}

// Appends drained after a shutdown signal must still commit; the worker
// hands them a context detached from the signal context's cancellation.
func TestHandleEventAfterShutdownSignal(t *testing.T) {
	mgr, _ := openTestManager(t)

	conv, err := mgr.CreateConversation(context.Background(), models.NewUserContext("user123"), nil)
	if err != nil {
		t.Fatalf("create conversation: %v", err)
	}

	signalCtx, cancel := context.WithCancel(context.Background())
	cancel() // shutdown already requested
	workCtx := context.WithoutCancel(signalCtx)

	ev := rabbitmq.TurnEvent{
		JobID:          "job4",
		Kind:           rabbitmq.KindMessage,
		ConversationID: conv.ConversationID,
		Role:           "assistant",
		Content:        "Goodbye",
	}
	if err := handleEvent(workCtx, mgr, ev); err != nil {
		t.Fatalf("drained event failed during shutdown: %v", err)
	}

	history, err := mgr.ConversationHistory(context.Background(), conv.ConversationID, 0)
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if len(history) != 1 || history[0].Content != "Goodbye" {
		t.Fatalf("drained append not committed: %+v", history)
	}
}
