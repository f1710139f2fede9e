package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventSession carries the id of a freshly opened session.
	EventSession EventKind = iota
	// EventView delivers a redrawn room.
	EventView
	// EventRooms delivers room summaries.
	EventRooms
	// EventClosed confirms a session was discarded.
	EventClosed
	// EventError notifies clients about a domain error.
	EventError
)

// Event is the reply to a Command.
type Event struct {
	Kind      EventKind
	SessionID string
	View      *View
	Rooms     []RoomSummary
	Error     *CoreError
}
