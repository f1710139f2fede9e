package core

import "github.com/vovakirdan/roomgate/internal/auth"

// Room is the record kept for a single room id.
type Room struct {
	ID       string
	password auth.PasswordDigest
	messages []Message
}

// NewRoom constructs a room with no password and no messages.
func NewRoom(id string) *Room {
	return &Room{ID: id}
}

// Append adds a message at the end of the room history.
func (r *Room) Append(msg Message) {
	r.messages = append(r.messages, msg)
}

// Messages returns a copy of the room history in insertion order.
func (r *Room) Messages() []Message {
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// SetPassword replaces the room password.
func (r *Room) SetPassword(password string) {
	r.password = auth.HashPassword(password)
}

// HasPassword returns true once a password was set.
func (r *Room) HasPassword() bool {
	return !r.password.IsZero()
}

// CheckPassword returns true if a password is set and equals the input.
func (r *Room) CheckPassword(password string) bool {
	return r.password.Matches(password)
}
