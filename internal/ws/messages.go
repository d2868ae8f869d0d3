package ws

// Envelope is the raw inbound frame: an action tag plus the union of the
// per-action fields. parseAction narrows it into one of the typed actions.
type Envelope struct {
	Action   string `json:"action"`
	Name     string `json:"name,omitempty"`
	RoomName string `json:"roomName,omitempty"`
	RoomCode string `json:"roomCode,omitempty"`
	Content  string `json:"content,omitempty"`
}

// CreateAction requests a new room.
type CreateAction struct {
	Name     string `validate:"required"`
	RoomName string `validate:"required"`
}

// JoinAction requests membership in an existing room by code.
type JoinAction struct {
	Name     string `validate:"required"`
	RoomCode string `validate:"required"`
}

// MessageAction sends a chat message to the connection's current room.
type MessageAction struct {
	Content string `validate:"required"`
}
