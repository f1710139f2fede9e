package core

import "time"

// Message is the domain model for a chat message. It is never mutated once
// stored in a room.
type Message struct {
	ID        string
	Author    string
	Content   string
	Encrypted bool
	CreatedAt time.Time
}
