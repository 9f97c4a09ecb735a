package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/kavira-ai/voicecore/internal/common"
	"github.com/kavira-ai/voicecore/internal/memory"
	"github.com/kavira-ai/voicecore/internal/models"
	"github.com/kavira-ai/voicecore/internal/store/rabbitmq"
)

type createConversationReq struct {
	UserID      string         `json:"user_id"`
	Name        string         `json:"name"`
	PhoneNumber string         `json:"phone_number"`
	Metadata    map[string]any `json:"metadata"`
}

// CreateConversation starts a conversation. Callers without an identity get
// a generated fallback user id, same as anonymous inbound calls.
func (h *Handler) CreateConversation(c *gin.Context) {
	var req createConversationReq
	_ = c.ShouldBindJSON(&req) // allow empty {}

	userID := req.UserID
	if userID == "" {
		userID = ulid.Make().String()
	}

	user := models.NewUserContext(userID)
	user.Name = req.Name
	user.PhoneNumber = req.PhoneNumber

	conv, err := h.Memory.CreateConversation(c.Request.Context(), user, req.Metadata)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to create conversation")
		return
	}

	common.OK(c, gin.H{
		"conversation_id": conv.ConversationID,
		"user_id":         conv.UserID,
		"start_time":      conv.StartTime,
	})
}

type addMessageReq struct {
	Role     string         `json:"role" binding:"required"`
	Content  string         `json:"content" binding:"required"`
	Metadata map[string]any `json:"metadata"`
}

func (h *Handler) AddMessage(c *gin.Context) {
	conversationID := c.Param("conversation_id")

	var req addMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	if err := h.Memory.AddMessage(c.Request.Context(), conversationID, req.Role, req.Content, req.Metadata); err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to store message")
		return
	}
	common.OK(c, gin.H{"conversation_id": conversationID})
}

// AddMessageAsync enqueues the message as a turn event instead of writing
// synchronously; the worker performs the append. Useful on the call path,
// where the orchestration loop must not block on storage.
func (h *Handler) AddMessageAsync(c *gin.Context) {
	conversationID := c.Param("conversation_id")

	var req addMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	if h.Events == nil {
		common.Fail(c, http.StatusServiceUnavailable, 50301, "event queue not configured")
		return
	}

	ev := rabbitmq.TurnEvent{
		JobID:          ulid.Make().String(),
		Kind:           rabbitmq.KindMessage,
		ConversationID: conversationID,
		Role:           req.Role,
		Content:        req.Content,
		Metadata:       req.Metadata,
	}
	if err := h.Events.PublishTurnEvent(c.Request.Context(), ev); err != nil {
		common.Fail(c, http.StatusInternalServerError, 50008, "failed to enqueue message")
		return
	}

	common.OK(c, gin.H{
		"job_id":          ev.JobID,
		"conversation_id": conversationID,
	})
}

func (h *Handler) GetConversationHistory(c *gin.Context) {
	conversationID := c.Param("conversation_id")

	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit <= 0 || limit > 100 {
		limit = h.Cfg.HistoryLimit
	}

	msgs, err := h.Memory.ConversationHistory(c.Request.Context(), conversationID, limit)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50003, "failed to load history")
		return
	}
	common.OK(c, gin.H{
		"conversation_id": conversationID,
		"messages":        msgs,
	})
}

func (h *Handler) GetConversationSummary(c *gin.Context) {
	conversationID := c.Param("conversation_id")

	summary, err := h.Memory.ConversationSummary(c.Request.Context(), conversationID)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50004, "failed to summarize conversation")
		return
	}
	common.OK(c, gin.H{
		"conversation_id": conversationID,
		"summary":         summary,
	})
}

// GetUserContext serves the merged context bundle, read through the redis
// cache when one is configured.
func (h *Handler) GetUserContext(c *gin.Context) {
	userID := c.Param("user_id")
	ctx := c.Request.Context()

	if h.Cache != nil {
		if cached, err := h.Cache.GetUserContext(ctx, userID); err == nil {
			var bundle memory.ContextBundle
			if json.Unmarshal([]byte(cached), &bundle) == nil {
				common.OK(c, bundle)
				return
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("context cache read failed for user %s: %v", userID, err)
		}
	}

	bundle, err := h.Memory.UserContext(ctx, userID)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50005, "failed to load user context")
		return
	}
	if bundle == nil {
		common.Fail(c, http.StatusNotFound, 40402, "no user context")
		return
	}

	if h.Cache != nil {
		if payload, err := json.Marshal(bundle); err == nil {
			if err := h.Cache.SetUserContext(ctx, userID, string(payload)); err != nil {
				log.Printf("context cache write failed for user %s: %v", userID, err)
			}
		}
	}

	common.OK(c, bundle)
}

func (h *Handler) GetUserProfile(c *gin.Context) {
	userID := c.Param("user_id")

	bundle, err := h.Memory.UserContext(c.Request.Context(), userID)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50006, "failed to load profile")
		return
	}
	if bundle == nil || bundle.Profile == nil {
		common.Fail(c, http.StatusNotFound, 40403, "profile not found")
		return
	}
	common.OK(c, bundle.Profile)
}

// UpdateUserProfile is a full overwrite: the request must carry the complete
// desired field set, since omitted fields are nulled out.
func (h *Handler) UpdateUserProfile(c *gin.Context) {
	userID := c.Param("user_id")

	var req memory.ProfileData
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	ctx := c.Request.Context()
	if err := h.Memory.UpdateUserProfile(ctx, userID, req); err != nil {
		common.Fail(c, http.StatusInternalServerError, 50007, "failed to save profile")
		return
	}

	if h.Cache != nil {
		if err := h.Cache.InvalidateUserContext(ctx, userID); err != nil {
			log.Printf("context cache invalidation failed for user %s: %v", userID, err)
		}
	}

	common.OK(c, gin.H{"user_id": userID})
}
