package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomgate/internal/utils"
)

// Recorder receives domain counters from the hub.
type Recorder interface {
	MessageAdded(encrypted bool)
	UnlockAttempt(unlocked bool)
	PasswordSet()
	SessionsOpen(n int)
}

type nopRecorder struct{}

func (nopRecorder) MessageAdded(bool)  {}
func (nopRecorder) UnlockAttempt(bool) {}
func (nopRecorder) PasswordSet()       {}
func (nopRecorder) SessionsOpen(int)   {}

// maxSweepInterval bounds how long an expired session can stay in memory.
const maxSweepInterval = time.Minute

// Hub owns the room store and all viewing sessions. Commands are executed one
// at a time on the goroutine running Run, so neither the store nor the
// sessions need locking.
type Hub struct {
	store      *RoomStore
	sessions   map[string]*Session
	sessionTTL time.Duration
	commands   chan *Command
	done       chan struct{}
	log        *zerolog.Logger
	metrics    Recorder
	now        func() time.Time
}

// NewHub creates a hub with an empty store. Sessions expire sessionTTL after
// they are opened; zero keeps them until closed. A nil logger or recorder
// disables that output.
func NewHub(logger *zerolog.Logger, rec Recorder, sessionTTL time.Duration) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Hub{
		store:      NewRoomStore(),
		sessions:   make(map[string]*Session),
		sessionTTL: sessionTTL,
		commands:   make(chan *Command),
		done:       make(chan struct{}),
		log:        logger,
		metrics:    rec,
		now:        time.Now,
	}
}

// Run processes commands until ctx is cancelled. Sessions are discarded when
// it returns.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	var sweep <-chan time.Time
	if h.sessionTTL > 0 {
		ticker := time.NewTicker(min(h.sessionTTL, maxSweepInterval))
		defer ticker.Stop()
		sweep = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			h.log.Info().Int("sessions", len(h.sessions)).Msg("hub stopped")
			h.sessions = make(map[string]*Session)
			h.metrics.SessionsOpen(0)
			return
		case <-sweep:
			h.evictExpired()
		case cmd := <-h.commands:
			cmd.reply <- h.handle(cmd)
		}
	}
}

// Submit hands cmd to the hub loop and waits for the reply.
func (h *Hub) Submit(ctx context.Context, cmd *Command) (*Event, error) {
	cmd.reply = make(chan *Event, 1)

	select {
	case h.commands <- cmd:
	case <-h.done:
		return nil, ErrHubStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case ev := <-cmd.reply:
		return ev, nil
	case <-h.done:
		return nil, ErrHubStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Hub) handle(cmd *Command) *Event {
	switch cmd.Kind {
	case CommandOpenSession:
		return h.openSession()
	case CommandListRooms:
		return &Event{Kind: EventRooms, Rooms: h.store.Rooms()}
	}

	sess, ok := h.sessions[cmd.Session]
	if ok && sess.Expired(h.now()) {
		h.dropSession(sess.ID, "session expired")
		ok = false
	}
	if !ok {
		return errorEvent(ErrCodeSessionNotFound, "session not found")
	}

	if cmd.Kind == CommandCloseSession {
		h.dropSession(sess.ID, "session closed")
		return &Event{Kind: EventClosed, SessionID: sess.ID}
	}

	if cmd.Room == "" {
		return errorEvent(ErrCodeBadRequest, "room is required")
	}

	switch cmd.Kind {
	case CommandEnterRoom:
		unlocked := sess.Enter(h.store, cmd.Room, cmd.Password)
		h.metrics.UnlockAttempt(unlocked)
		h.log.Debug().Str("session_id", sess.ID).Str("room", cmd.Room).Bool("unlocked", unlocked).Msg("room entered")
	case CommandSetPassword:
		sess.SetPassword(h.store, cmd.Room, cmd.Password)
		h.metrics.PasswordSet()
		h.log.Info().Str("session_id", sess.ID).Str("room", cmd.Room).Msg("room password set")
	case CommandAddMessage:
		msg := cmd.Message
		if msg.ID == "" {
			msg.ID = utils.NewMessageID()
		}
		h.store.AddMessage(cmd.Room, msg)
		h.metrics.MessageAdded(msg.Encrypted)
		h.log.Debug().Str("room", cmd.Room).Str("message_id", msg.ID).Bool("encrypted", msg.Encrypted).Msg("message added")
	case CommandView:
	default:
		return errorEvent(ErrCodeBadRequest, "unknown command")
	}

	view := sess.Render(h.store, cmd.Room)
	return &Event{Kind: EventView, SessionID: sess.ID, View: &view}
}

func (h *Hub) openSession() *Event {
	sess := NewSession(utils.NewSessionID())
	sess.CreatedAt = h.now()
	if h.sessionTTL > 0 {
		sess.ExpiresAt = sess.CreatedAt.Add(h.sessionTTL)
	}
	h.sessions[sess.ID] = sess
	h.metrics.SessionsOpen(len(h.sessions))
	h.log.Debug().Str("session_id", sess.ID).Msg("session opened")
	return &Event{Kind: EventSession, SessionID: sess.ID}
}

func (h *Hub) dropSession(id, reason string) {
	delete(h.sessions, id)
	h.metrics.SessionsOpen(len(h.sessions))
	h.log.Debug().Str("session_id", id).Msg(reason)
}

// evictExpired discards every session past its expiry.
func (h *Hub) evictExpired() {
	now := h.now()
	evicted := 0
	for id, sess := range h.sessions {
		if sess.Expired(now) {
			delete(h.sessions, id)
			evicted++
		}
	}
	if evicted == 0 {
		return
	}
	h.metrics.SessionsOpen(len(h.sessions))
	h.log.Debug().Int("evicted", evicted).Int("sessions", len(h.sessions)).Msg("expired sessions evicted")
}

func errorEvent(code, msg string) *Event {
	return &Event{Kind: EventError, Error: coreError(code, msg)}
}
