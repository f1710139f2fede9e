package core

import "sort"

// RoomSummary describes a room without exposing its history.
type RoomSummary struct {
	ID           string
	HasPassword  bool
	MessageCount int
}

// RoomStore maps room ids to their password and message history.
//
// Every operation is total: unknown rooms read as "no password, no messages"
// and writes create the room on demand. RoomStore is not safe for concurrent
// use; the Hub owns it and serializes access.
type RoomStore struct {
	rooms map[string]*Room
}

// NewRoomStore creates an empty store.
func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[string]*Room)}
}

func (s *RoomStore) room(id string) *Room {
	r, ok := s.rooms[id]
	if !ok {
		r = NewRoom(id)
		s.rooms[id] = r
	}
	return r
}

// AddMessage appends msg to the room history.
func (s *RoomStore) AddMessage(roomID string, msg Message) {
	s.room(roomID).Append(msg)
}

// Messages returns the room history, or an empty slice for an unknown room.
// It never creates a room.
func (s *RoomStore) Messages(roomID string) []Message {
	r, ok := s.rooms[roomID]
	if !ok {
		return []Message{}
	}
	return r.Messages()
}

// SetPassword stores password for the room, overwriting any previous value.
func (s *RoomStore) SetPassword(roomID, password string) {
	s.room(roomID).SetPassword(password)
}

// IsPasswordCorrect reports whether the room has a password equal to password.
// Rooms without a password reject every input, the empty string included.
func (s *RoomStore) IsPasswordCorrect(roomID, password string) bool {
	r, ok := s.rooms[roomID]
	if !ok {
		return false
	}
	return r.CheckPassword(password)
}

// HasPassword reports whether SetPassword was called for the room.
func (s *RoomStore) HasPassword(roomID string) bool {
	r, ok := s.rooms[roomID]
	return ok && r.HasPassword()
}

// Rooms lists known rooms sorted by id.
func (s *RoomStore) Rooms() []RoomSummary {
	out := make([]RoomSummary, 0, len(s.rooms))
	for id, r := range s.rooms {
		out = append(out, RoomSummary{
			ID:           id,
			HasPassword:  r.HasPassword(),
			MessageCount: len(r.messages),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
