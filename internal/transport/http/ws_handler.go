package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomgate/internal/auth"
	"github.com/vovakirdan/roomgate/internal/config"
	"github.com/vovakirdan/roomgate/internal/core"
	"github.com/vovakirdan/roomgate/internal/proto"
)

const closeSessionTimeout = time.Second

// WSHandler upgrades HTTP connections into a room screen driven by the hub.
// Without a token the connection gets its own session, which is discarded
// when the connection closes.
type WSHandler struct {
	hub       *core.Hub
	jwtConfig *auth.JWTConfig
	readLimit int64
	cmdLimit  int
	log       *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, jwtConfig *auth.JWTConfig, cfg *config.Config, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{
		hub:       hub,
		jwtConfig: jwtConfig,
		readLimit: cfg.MaxMessageBytes,
		cmdLimit:  cfg.CommandsPerMinute,
		log:       logger,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	var sessionID string
	if token := r.URL.Query().Get("token"); token != "" {
		claims, err := auth.ValidateToken(h.jwtConfig, token)
		if err != nil {
			h.log.Debug().Err(err).Msg("ws invalid token")
			stdhttp.Error(w, "invalid token", stdhttp.StatusUnauthorized)
			return
		}
		sessionID = claims.SessionID
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.CloseNow()
	if h.readLimit > 0 {
		conn.SetReadLimit(h.readLimit)
	}

	owned := sessionID == ""
	if owned {
		ev, err := h.hub.Submit(ctx, &core.Command{Kind: core.CommandOpenSession})
		if err != nil {
			h.log.Warn().Err(err).Msg("ws open session")
			conn.Close(websocket.StatusTryAgainLater, "service unavailable")
			return
		}
		sessionID = ev.SessionID
		defer h.closeSession(sessionID)
	}

	err = h.serve(ctx, conn, sessionID)

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != -1 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = "internal error"
			h.log.Warn().Err(err).Str("session_id", sessionID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// serve announces the session and then answers each inbound command with the
// redrawn screen, one at a time.
func (h *WSHandler) serve(ctx context.Context, conn *websocket.Conn, sessionID string) error {
	if err := wsjson.Write(ctx, conn, outboundFromEvent(&core.Event{Kind: core.EventSession, SessionID: sessionID})); err != nil {
		return err
	}

	limiter := newRateLimiter(h.cmdLimit)
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		if !limiter.allow() {
			if err := writeError(ctx, conn, &proto.Error{Code: "rate_limited", Msg: "too many commands"}); err != nil {
				return err
			}
			continue
		}

		cmd, protoErr, err := inboundToCommand(sessionID, inbound)
		if err != nil {
			h.log.Debug().Err(err).Str("session_id", sessionID).Msg("failed to map inbound")
			protoErr = &proto.Error{Code: "invalid_message", Msg: "malformed data"}
		}
		if protoErr != nil {
			if err := writeError(ctx, conn, protoErr); err != nil {
				return err
			}
			continue
		}

		ev, err := h.hub.Submit(ctx, cmd)
		if err != nil {
			return err
		}
		if err := wsjson.Write(ctx, conn, outboundFromEvent(ev)); err != nil {
			h.log.Error().Err(err).Str("session_id", sessionID).Msg("write ws event")
			return err
		}
	}
}

func (h *WSHandler) closeSession(sessionID string) {
	// The request context is already done here.
	ctx, cancel := context.WithTimeout(context.Background(), closeSessionTimeout)
	defer cancel()
	if _, err := h.hub.Submit(ctx, &core.Command{Kind: core.CommandCloseSession, Session: sessionID}); err != nil {
		h.log.Debug().Err(err).Str("session_id", sessionID).Msg("ws close session")
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, protoErr *proto.Error) error {
	return wsjson.Write(ctx, conn, proto.Outbound{Type: proto.OutboundTypeError, Error: protoErr})
}
