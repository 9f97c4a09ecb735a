package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kavira-ai/voicecore/internal/common"
	"github.com/kavira-ai/voicecore/internal/config"
	"github.com/kavira-ai/voicecore/internal/httpapi/handlers"
	"github.com/kavira-ai/voicecore/internal/httpapi/middleware"
	"github.com/kavira-ai/voicecore/internal/memory"
	"github.com/kavira-ai/voicecore/internal/store/rabbitmq"
	"github.com/kavira-ai/voicecore/internal/store/redisstore"
)

func NewRouter(cfg config.Config, mgr *memory.Manager, cache *redisstore.Store, events *rabbitmq.Publisher) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.Use(middleware.RequestID())

	// Keep nil pointers out of the handler interfaces.
	var cacheIface handlers.ContextCache
	if cache != nil {
		cacheIface = cache
	}
	var eventsIface handlers.EventPublisher
	if events != nil {
		eventsIface = events
	}

	h := handlers.NewHandler(cfg, mgr, cacheIface, eventsIface)

	r.GET("/ping", h.Ping)
	r.POST("/login", h.Login)

	authGroup := r.Group("/")
	authGroup.Use(middleware.AuthRequired(cfg.JWTSecret))

	authGroup.POST("/conversations", h.CreateConversation)
	authGroup.POST("/conversations/:conversation_id/messages", h.AddMessage)
	authGroup.POST("/conversations/:conversation_id/messages/async", h.AddMessageAsync)
	authGroup.GET("/conversations/:conversation_id/messages", h.GetConversationHistory)
	authGroup.GET("/conversations/:conversation_id/summary", h.GetConversationSummary)

	authGroup.GET("/users/:user_id/context", h.GetUserContext)
	authGroup.GET("/users/:user_id/profile", h.GetUserProfile)
	authGroup.PUT("/users/:user_id/profile", h.UpdateUserProfile)

	return r
}
