package utils

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewSessionID returns a random session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// NewMessageID returns a lexically sortable message identifier.
func NewMessageID() string {
	return ulid.Make().String()
}
