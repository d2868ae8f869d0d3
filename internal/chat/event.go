package chat

import "fmt"

// Outbound event type tags. These are part of the wire contract with the
// frontend and must not change.
const (
	EventMessage      = "message"
	EventInfo         = "info"
	EventError        = "error"
	EventNotification = "notification"
	EventUserCount    = "userCount"
)

// Message is a chat frame. It doubles as the history entry, so a history
// snapshot replays through the exact same client code path as a live message.
type Message struct {
	Type    string `json:"type"`
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

// Info is the response to a successful create or join. ChatHistory is always
// present (an empty array for fresh rooms, never null).
type Info struct {
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	RoomCode    string    `json:"roomCode"`
	RoomName    string    `json:"roomName"`
	ChatHistory []Message `json:"chatHistory"`
	UserCount   int       `json:"userCount"`
}

// Notification announces membership changes to a room.
type Notification struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ErrorEvent carries a single human-readable failure back to the initiator.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// UserCount carries the member count plus a redundant human-readable line.
type UserCount struct {
	Type    string `json:"type"`
	Count   int    `json:"count"`
	Message string `json:"message"`
}

func NewMessage(sender, content string) Message {
	return Message{Type: EventMessage, Sender: sender, Content: content}
}

func NewNotification(text string) Notification {
	return Notification{Type: EventNotification, Message: text}
}

func NewErrorEvent(text string) ErrorEvent {
	return ErrorEvent{Type: EventError, Message: text}
}

func NewUserCount(count int) UserCount {
	return UserCount{
		Type:    EventUserCount,
		Count:   count,
		Message: fmt.Sprintf("Current users in room: %d", count),
	}
}

// NewRoomInfo snapshots the room state for a joining or creating connection.
func NewRoomInfo(text string, room *Room) Info {
	return Info{
		Type:        EventInfo,
		Message:     text,
		RoomCode:    room.Code,
		RoomName:    room.Name,
		ChatHistory: room.History(),
		UserCount:   room.MemberCount(),
	}
}
