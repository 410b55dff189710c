package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/studyhub/studyhub-server/internal/auth"
	"github.com/studyhub/studyhub-server/internal/config"
	"github.com/studyhub/studyhub-server/internal/core"
	"github.com/studyhub/studyhub-server/internal/moderation"
	"github.com/studyhub/studyhub-server/internal/store"
)

// ServerDeps carries everything the HTTP layer routes to.
type ServerDeps struct {
	Hub        *core.Hub
	Auth       *auth.Service
	Moderation *moderation.Service
	Reminders  store.ReminderStore
	Messages   store.MessageStore
	Log        *zerolog.Logger
}

// NewServer builds the HTTP server: REST API, health check, and the
// websocket endpoint the event bus lives behind.
func NewServer(cfg config.Config, deps ServerDeps) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(deps.Log))

	router.GET("/healthz", healthHandler)

	apiHandlers := NewAPIHandlers(deps.Auth, deps.Log)
	channelHandlers := NewChannelHandlers(deps.Hub, deps.Messages, deps.Log)
	moderationHandlers := NewModerationHandlers(deps.Moderation, deps.Log)
	reminderHandlers := NewReminderHandlers(deps.Reminders, deps.Log)

	api := router.Group("/api")
	{
		api.POST("/register", apiHandlers.Register)
		api.POST("/login", apiHandlers.Login)
		api.POST("/guest", apiHandlers.Guest)

		api.GET("/channels", channelHandlers.List)
		api.GET("/rooms/:group/:channel/members", channelHandlers.Members)
		api.GET("/rooms/:group/:channel/messages", channelHandlers.Messages)

		limiter := newRateLimiter(cfg.Moderation.RequestsPerMinute)
		api.POST("/moderate", rateLimitMiddleware(limiter), moderationHandlers.Moderate)

		protected := api.Group("")
		protected.Use(AuthMiddleware(deps.Auth, deps.Log))
		{
			protected.GET("/reminders", reminderHandlers.List)
			protected.POST("/reminders", reminderHandlers.Create)
			protected.DELETE("/reminders/:id", reminderHandlers.Delete)
		}
	}

	// websocket.Accept hijacks the connection and must see the raw
	// ResponseWriter, so /ws mounts outside gin.
	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", NewWSHandler(deps.Hub, deps.Auth, deps.Log))
	mux.Handle("/", router)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
