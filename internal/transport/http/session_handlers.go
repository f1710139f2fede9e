package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomgate/internal/auth"
	"github.com/vovakirdan/roomgate/internal/core"
)

// SessionHandlers opens and closes viewing sessions.
type SessionHandlers struct {
	hub       *core.Hub
	jwtConfig *auth.JWTConfig
	log       *zerolog.Logger
}

// NewSessionHandlers creates a new session handlers instance.
func NewSessionHandlers(hub *core.Hub, jwtConfig *auth.JWTConfig, logger *zerolog.Logger) *SessionHandlers {
	return &SessionHandlers{
		hub:       hub,
		jwtConfig: jwtConfig,
		log:       logger,
	}
}

// SessionResponse carries the token addressing a new session.
type SessionResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Open starts a session with every room locked.
// POST /api/sessions
func (h *SessionHandlers) Open(c *gin.Context) {
	ev, ok := submit(c, h.hub, &core.Command{Kind: core.CommandOpenSession}, h.log)
	if !ok {
		return
	}

	token, err := auth.GenerateToken(h.jwtConfig, ev.SessionID)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to generate session token")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("session_id", ev.SessionID).Msg("session opened")
	c.JSON(http.StatusCreated, SessionResponse{Token: token, SessionID: ev.SessionID})
}

// Close discards the session and its unlock state.
// DELETE /api/sessions
func (h *SessionHandlers) Close(c *gin.Context) {
	sessionID, ok := sessionFromContext(c, h.log)
	if !ok {
		return
	}

	if _, ok := submit(c, h.hub, &core.Command{Kind: core.CommandCloseSession, Session: sessionID}, h.log); !ok {
		return
	}

	h.log.Info().Str("session_id", sessionID).Msg("session closed")
	c.Status(http.StatusNoContent)
}

// submit forwards cmd to the hub and writes an error response when the hub
// cannot answer or answers with a domain error.
func submit(c *gin.Context, hub *core.Hub, cmd *core.Command, logger *zerolog.Logger) (*core.Event, bool) {
	ev, err := hub.Submit(c.Request.Context(), cmd)
	if err != nil {
		logger.Warn().Err(err).Msg("hub unavailable")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "service unavailable"})
		return nil, false
	}

	if ev.Kind == core.EventError {
		status := http.StatusBadRequest
		msg := "bad request"
		if ev.Error != nil {
			msg = ev.Error.Message
			if ev.Error.Code == core.ErrCodeSessionNotFound {
				status = http.StatusUnauthorized
			}
		}
		c.JSON(status, ErrorResponse{Error: msg})
		return nil, false
	}

	return ev, true
}
