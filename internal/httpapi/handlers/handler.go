package handlers

import (
	"context"

	"github.com/kavira-ai/voicecore/internal/config"
	"github.com/kavira-ai/voicecore/internal/memory"
	"github.com/kavira-ai/voicecore/internal/store/rabbitmq"
)

// ContextCache caches user-context bundles between reads.
type ContextCache interface {
	GetUserContext(ctx context.Context, userID string) (string, error)
	SetUserContext(ctx context.Context, userID, payload string) error
	InvalidateUserContext(ctx context.Context, userID string) error
}

// EventPublisher enqueues turn events for the worker.
type EventPublisher interface {
	PublishTurnEvent(ctx context.Context, ev rabbitmq.TurnEvent) error
}

type Handler struct {
	Cfg    config.Config
	Memory *memory.Manager
	Cache  ContextCache   // may be nil when redis is not configured
	Events EventPublisher // may be nil; async appends then report unavailable
}

func NewHandler(cfg config.Config, mgr *memory.Manager, cache ContextCache, events EventPublisher) *Handler {
	return &Handler{Cfg: cfg, Memory: mgr, Cache: cache, Events: events}
}
