package http

import (
	"fmt"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/beamchat/beamchat-server/internal/auth"
	"github.com/beamchat/beamchat-server/internal/config"
	"github.com/beamchat/beamchat-server/internal/core"
	"github.com/beamchat/beamchat-server/internal/store"
)

// NewServer builds the HTTP server: REST API for signup/login/history and
// the websocket endpoint for the real-time protocol.
func NewServer(hub *core.Hub, authService *auth.Service, st store.Store, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	api := NewAPIHandlers(authService, st, cfg.HistoryLimit, logger)

	router.GET("/health", healthHandler)
	router.POST("/api/signup", api.Signup)
	router.POST("/api/login", api.Login)

	authorized := router.Group("/api", AuthMiddleware(authService, logger))
	authorized.GET("/messages", api.RecentMessages)

	router.GET("/ws", gin.WrapH(NewWSHandler(hub, cfg.MessageRateLimit, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	_, _ = fmt.Fprint(c.Writer, "ok")
}
