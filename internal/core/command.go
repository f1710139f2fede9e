package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandOpenSession creates a new viewing session.
	CommandOpenSession CommandKind = iota
	// CommandCloseSession discards a session and its unlock state.
	CommandCloseSession
	// CommandEnterRoom submits a password from the prompt.
	CommandEnterRoom
	// CommandSetPassword stores a new room password.
	CommandSetPassword
	// CommandAddMessage appends a message to a room.
	CommandAddMessage
	// CommandView redraws a room for the session.
	CommandView
	// CommandListRooms lists known rooms.
	CommandListRooms
)

// Command represents an action requested by a client.
type Command struct {
	Kind     CommandKind
	Session  string
	Room     string
	Password string
	Message  Message

	reply chan *Event
}
