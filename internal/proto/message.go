package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeEnter       = "enter"
	InboundTypeSetPassword = "set_password"
	InboundTypeMsg         = "msg"
	InboundTypeView        = "view"
	InboundTypeRooms       = "rooms"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventSession = "session"
	EventView    = "view"
	EventRooms   = "rooms"
)

// RoomData addresses a room.
type RoomData struct {
	Room string `json:"room"`
}

// PasswordData submits or sets a room password. Password must be present but
// may be empty.
type PasswordData struct {
	Room     string  `json:"room"`
	Password *string `json:"password"`
}

// MsgData is a chat message from the client.
type MsgData struct {
	Room      string `json:"room"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	Encrypted bool   `json:"encrypted"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// SessionData announces the session bound to a connection.
type SessionData struct {
	SessionID string `json:"session_id"`
}

// ViewData is a rendered room screen.
type ViewData struct {
	Room     string     `json:"room"`
	Screen   string     `json:"screen"`
	Unlocked bool       `json:"unlocked"`
	Lines    []LineData `json:"lines"`
}

// LineData is one rendered message.
type LineData struct {
	ID       string `json:"id,omitempty"`
	Author   string `json:"author"`
	Text     string `json:"text"`
	Obscured bool   `json:"obscured,omitempty"`
}

// RoomSummaryData describes a room in listings.
type RoomSummaryData struct {
	Room        string `json:"room"`
	HasPassword bool   `json:"has_password"`
	Messages    int    `json:"messages"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
