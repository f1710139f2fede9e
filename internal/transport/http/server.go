package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomgate/internal/auth"
	"github.com/vovakirdan/roomgate/internal/config"
	"github.com/vovakirdan/roomgate/internal/core"
)

// NewServer builds the HTTP server: health, metrics, the websocket screen and
// the REST API.
func NewServer(hub *core.Hub, cfg *config.Config, logger *zerolog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte(cfg.SessionSecret),
		Issuer:   cfg.SessionIssuer,
		Audience: cfg.SessionAudience,
		TTL:      cfg.SessionTTL,
	}

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger), MetricsMiddleware())

	router.GET("/health", healthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, jwtConfig, cfg, logger)))

	sessions := NewSessionHandlers(hub, jwtConfig, logger)
	rooms := NewRoomHandlers(hub, logger)

	api := router.Group("/api")
	api.Use(BodyLimitMiddleware(cfg.MaxMessageBytes))
	api.POST("/sessions", sessions.Open)

	authed := api.Group("")
	authed.Use(AuthMiddleware(jwtConfig, logger))
	authed.DELETE("/sessions", sessions.Close)
	authed.GET("/rooms", rooms.ListRooms)
	authed.GET("/rooms/:room", rooms.View)
	authed.POST("/rooms/:room/enter", rooms.Enter)
	authed.PUT("/rooms/:room/password", rooms.SetPassword)
	authed.POST("/rooms/:room/messages", rooms.AddMessage)

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
