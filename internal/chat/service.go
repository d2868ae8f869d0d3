// Package chat is the in-memory room and session core of the relay: it
// tracks ephemeral rooms, routes validated actions to room mutations, and
// fans the resulting events out to connected members.
package chat

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	unknownSender    = "Unknown"
	fallbackLeaver   = "A user"
	invalidActionMsg = "Invalid action. Use 'create', 'join', or 'message'."
)

// IChatService is the action router: validated inbound actions come in, room
// and session mutations plus outbound events come out. A returned error is a
// domain error whose text goes back to the initiating connection only; on
// error no state has changed.
type IChatService interface {
	Connect(c Conn)
	Disconnect(c Conn)
	Create(c Conn, name, roomName string) error
	Join(c Conn, name, roomCode string) error
	Message(c Conn, content string) error
	InvalidAction(c Conn)
	Stats() (rooms, connections int)
}

// ChatService serializes every room and session mutation for the process
// under one mutex, the single serialization domain. Timer callbacks and the
// inactivity sweep re-enter through the same mutex.
type ChatService struct {
	mu       sync.Mutex
	store    *Store
	registry *Registry
	bc       *Broadcaster

	emptyRoomTimeout time.Duration
	connCount        int
}

var _ IChatService = (*ChatService)(nil)

func NewChatService(store *Store, registry *Registry, bc *Broadcaster, emptyRoomTimeout time.Duration) *ChatService {
	return &ChatService{
		store:            store,
		registry:         registry,
		bc:               bc,
		emptyRoomTimeout: emptyRoomTimeout,
	}
}

// Connect registers a session for a new transport connection. A repeated
// call for a connection that already has a session is a no-op. The counter
// is observability only.
func (s *ChatService) Connect(c Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.registry.Lookup(c) != nil {
		return
	}
	s.registry.Add(c)
	s.connCount++
	zap.L().Info("chat.user_connected",
		zap.String("conn", c.ID()),
		zap.Int("total_users", s.connCount))
}

// Disconnect runs the connection-close sequence. Safe to invoke twice for the
// same connection: the second call finds no session and does nothing.
func (s *ChatService) Disconnect(c Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.registry.Remove(c)
	if sess == nil {
		return
	}
	s.detachLocked(c, sess)
	s.connCount--
	zap.L().Info("chat.user_disconnected",
		zap.String("conn", c.ID()),
		zap.Int("total_users", s.connCount))
}

// Create makes a new room with the initiator as its sole member.
func (s *ChatService) Create(c Conn, name, roomName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.store.Create(roomName)
	if err != nil {
		return err
	}

	sess := s.registry.Add(c)
	s.detachLocked(c, sess)

	room.members[c] = name
	sess.Room = room.Code
	sess.Name = name

	s.bc.SendTo(c, NewRoomInfo(fmt.Sprintf(
		"Room '%s' created with code '%s'. You have joined the room as '%s'.",
		room.Name, room.Code, name), room))
	s.bc.BroadcastRoom(room, NewUserCount(room.MemberCount()), nil)

	zap.L().Info("chat.room_created",
		zap.String("room", room.Code),
		zap.String("room_name", room.Name),
		zap.String("creator", name))
	return nil
}

// Join adds the connection to an existing room. Event order per join is
// fixed: info to the joiner, then join notifications to the others, then the
// user count to everyone.
func (s *ChatService) Join(c Conn, name, roomCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.store.Get(roomCode)
	if !ok {
		return roomNotFound(roomCode)
	}
	if _, member := room.members[c]; member {
		return alreadyMember(roomCode)
	}

	sess := s.registry.Add(c)
	s.detachLocked(c, sess)

	room.cancelRemoval()
	room.members[c] = name
	room.touch()
	sess.Room = room.Code
	sess.Name = name

	s.bc.SendTo(c, NewRoomInfo(fmt.Sprintf(
		"You have joined the room '%s' (%s) as '%s'.",
		room.Name, room.Code, name), room))
	s.bc.BroadcastRoom(room, NewNotification(name+" has joined the room."), c)
	s.bc.BroadcastRoom(room, NewUserCount(room.MemberCount()), nil)

	zap.L().Info("chat.user_joined",
		zap.String("room", room.Code),
		zap.String("user", name))
	return nil
}

// Message appends a chat message to the sender's current room and echoes it
// to every member, sender included.
func (s *ChatService) Message(c Conn, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.registry.Lookup(c)
	if sess == nil || sess.Room == "" {
		return notInRoom()
	}
	room, ok := s.store.Get(sess.Room)
	if !ok {
		return notInRoom()
	}

	sender := room.members[c]
	if sender == "" {
		sender = unknownSender
	}

	room.touch()
	msg := NewMessage(sender, content)
	room.history = append(room.history, msg)
	s.bc.BroadcastRoom(room, msg, nil)
	return nil
}

// InvalidAction reports an unrecognized action tag. The validation layer
// rejects these before dispatch, so this only fires if that contract breaks.
func (s *ChatService) InvalidAction(c Conn) {
	s.bc.SendTo(c, NewErrorEvent(invalidActionMsg))
}

// Stats reports current room and connection counts.
func (s *ChatService) Stats() (rooms, connections int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Len(), s.connCount
}

// detachLocked removes the connection from its current room, if any, with the
// full leave side effects: notify the remaining members, update the count,
// and start the empty-room timer when the last member leaves. Membership is
// checked before any mutation so a second invocation is a no-op.
func (s *ChatService) detachLocked(c Conn, sess *Session) {
	if sess == nil || sess.Room == "" {
		return
	}
	code := sess.Room
	sess.Room = ""

	room, ok := s.store.Get(code)
	if !ok {
		return
	}
	name, member := room.members[c]
	if !member {
		return
	}

	delete(room.members, c)
	room.touch()

	if room.MemberCount() > 0 {
		if name == "" {
			name = fallbackLeaver
		}
		s.bc.BroadcastRoom(room, NewNotification(name+" has left the room."), nil)
		s.bc.BroadcastRoom(room, NewUserCount(room.MemberCount()), nil)
		return
	}

	zap.L().Info("chat.room_empty",
		zap.String("room", room.Code))
	s.scheduleRemovalLocked(room)
}
