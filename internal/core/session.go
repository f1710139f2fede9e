package core

import "time"

// Screen names what a session shows for a room.
type Screen string

const (
	// ScreenPasswordPrompt asks the viewer for the room password.
	ScreenPasswordPrompt Screen = "password_prompt"
	// ScreenMessageList shows the room history.
	ScreenMessageList Screen = "message_list"
)

// Line is one rendered message.
type Line struct {
	MessageID string
	Author    string
	Text      string
	// Obscured is true when Text went through EncryptMessage.
	Obscured bool
}

// View is what a session sees for a room at render time.
type View struct {
	Room     string
	Screen   Screen
	Unlocked bool
	Lines    []Line
}

type gate struct {
	entered  bool
	unlocked bool
}

// Session is the state of one viewer. Unlocking a room is permanent for the
// lifetime of the session.
type Session struct {
	ID        string
	CreatedAt time.Time
	// ExpiresAt is zero for sessions that never expire.
	ExpiresAt time.Time
	gates     map[string]*gate
}

// NewSession constructs a session with every room locked.
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		gates:     make(map[string]*gate),
	}
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func (s *Session) gate(roomID string) *gate {
	g, ok := s.gates[roomID]
	if !ok {
		g = &gate{}
		s.gates[roomID] = g
	}
	return g
}

// Enter leaves the password prompt for the room and unlocks it if password is
// correct. A wrong password still enters the room, locked. Returns the unlock
// state after the attempt.
func (s *Session) Enter(store *RoomStore, roomID, password string) bool {
	g := s.gate(roomID)
	g.entered = true
	if store.IsPasswordCorrect(roomID, password) {
		g.unlocked = true
	}
	return g.unlocked
}

// SetPassword stores a new room password and unlocks the room for this session.
func (s *Session) SetPassword(store *RoomStore, roomID, password string) {
	store.SetPassword(roomID, password)
	g := s.gate(roomID)
	g.entered = true
	g.unlocked = true
}

// Unlocked reports whether the room is unlocked for this session.
func (s *Session) Unlocked(roomID string) bool {
	g, ok := s.gates[roomID]
	return ok && g.unlocked
}

// Entered reports whether the session left the password prompt for the room.
func (s *Session) Entered(roomID string) bool {
	g, ok := s.gates[roomID]
	return ok && g.entered
}

// Render draws the room for this session. Messages flagged as encrypted are
// obscured while the room is locked; unflagged ones are always shown as stored.
func (s *Session) Render(store *RoomStore, roomID string) View {
	view := View{
		Room:     roomID,
		Screen:   ScreenPasswordPrompt,
		Unlocked: s.Unlocked(roomID),
		Lines:    []Line{},
	}
	if !s.Entered(roomID) {
		return view
	}

	view.Screen = ScreenMessageList
	for _, msg := range store.Messages(roomID) {
		line := Line{MessageID: msg.ID, Author: msg.Author, Text: msg.Content}
		if !view.Unlocked && msg.Encrypted {
			line.Text = EncryptMessage(msg.Content)
			line.Obscured = true
		}
		view.Lines = append(view.Lines, line)
	}
	return view
}
