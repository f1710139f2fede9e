package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomgate/internal/core"
)

// RoomHandlers provides HTTP handlers for room screens.
type RoomHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(hub *core.Hub, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		hub: hub,
		log: logger,
	}
}

// PasswordRequest carries a room password. The field must be present; an
// empty string is a valid password.
type PasswordRequest struct {
	Password *string `json:"password" binding:"required"`
}

// AddMessageRequest represents the add message request body.
type AddMessageRequest struct {
	Author    string `json:"author"`
	Content   string `json:"content"`
	Encrypted bool   `json:"encrypted"`
}

// ListRooms lists known rooms.
// GET /api/rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	sessionID, ok := sessionFromContext(c, h.log)
	if !ok {
		return
	}

	ev, ok := submit(c, h.hub, &core.Command{Kind: core.CommandListRooms, Session: sessionID}, h.log)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, roomsToData(ev.Rooms))
}

// View renders the room for the session.
// GET /api/rooms/:room
func (h *RoomHandlers) View(c *gin.Context) {
	h.respondView(c, http.StatusOK, &core.Command{Kind: core.CommandView})
}

// Enter submits the password prompt. A wrong password still returns 200;
// the unlocked flag tells the outcome.
// POST /api/rooms/:room/enter
func (h *RoomHandlers) Enter(c *gin.Context) {
	var req PasswordRequest
	if !h.bind(c, &req, "invalid enter request", "password is required") {
		return
	}
	h.respondView(c, http.StatusOK, &core.Command{Kind: core.CommandEnterRoom, Password: *req.Password})
}

// SetPassword stores a new room password and unlocks the room for the session.
// PUT /api/rooms/:room/password
func (h *RoomHandlers) SetPassword(c *gin.Context) {
	var req PasswordRequest
	if !h.bind(c, &req, "invalid set password request", "password is required") {
		return
	}
	h.respondView(c, http.StatusOK, &core.Command{Kind: core.CommandSetPassword, Password: *req.Password})
}

// AddMessage appends a message to the room.
// POST /api/rooms/:room/messages
func (h *RoomHandlers) AddMessage(c *gin.Context) {
	var req AddMessageRequest
	if !h.bind(c, &req, "invalid add message request", "invalid request body") {
		return
	}
	h.respondView(c, http.StatusCreated, &core.Command{
		Kind:    core.CommandAddMessage,
		Message: newMessage(req.Author, req.Content, req.Encrypted),
	})
}

// bind decodes the JSON body into req. Oversized bodies get 413, anything
// else that fails to decode gets 400 with badRequest as the message.
func (h *RoomHandlers) bind(c *gin.Context, req any, logMsg, badRequest string) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	h.log.Debug().Err(err).Msg(logMsg)

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
		return false
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: badRequest})
	return false
}

func (h *RoomHandlers) respondView(c *gin.Context, status int, cmd *core.Command) {
	sessionID, ok := sessionFromContext(c, h.log)
	if !ok {
		return
	}
	cmd.Session = sessionID
	cmd.Room = c.Param("room")

	ev, ok := submit(c, h.hub, cmd, h.log)
	if !ok {
		return
	}
	c.JSON(status, viewToData(ev.View))
}
