package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

func TestNewSessionID(t *testing.T) {
	id := NewSessionID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("session id %q is not a uuid: %v", id, err)
	}
	if NewSessionID() == id {
		t.Fatalf("expected distinct session ids")
	}
}

func TestNewMessageIDIsSortable(t *testing.T) {
	first := NewMessageID()
	second := NewMessageID()

	if _, err := ulid.Parse(first); err != nil {
		t.Fatalf("message id %q is not a ulid: %v", first, err)
	}
	if first >= second {
		t.Fatalf("expected %q < %q", first, second)
	}
}
