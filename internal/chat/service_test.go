package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn records every event delivered to it, so tests can assert on exact
// payloads and ordering without a real socket.
type fakeConn struct {
	id     string
	closed bool
	events []any
}

func newFakeConn(id string) *fakeConn { return &fakeConn{id: id} }

func (f *fakeConn) ID() string   { return f.id }
func (f *fakeConn) IsOpen() bool { return !f.closed }
func (f *fakeConn) Send(v any) error {
	f.events = append(f.events, v)
	return nil
}

func newTestService(t *testing.T, emptyRoomTimeout time.Duration) *ChatService {
	t.Helper()
	return NewChatService(NewStore(), NewRegistry(), NewBroadcaster(), emptyRoomTimeout)
}

// createRoom is a shorthand: connect, create, return the generated code.
func createRoom(t *testing.T, svc *ChatService, c *fakeConn, name, roomName string) string {
	t.Helper()
	svc.Connect(c)
	require.NoError(t, svc.Create(c, name, roomName))
	info, ok := c.events[0].(Info)
	require.True(t, ok, "first event after create must be info")
	return info.RoomCode
}

func roomExists(svc *ChatService, code string) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	_, ok := svc.store.Get(code)
	return ok
}

func memberCount(svc *ChatService, code string) int {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	room, ok := svc.store.Get(code)
	if !ok {
		return 0
	}
	return room.MemberCount()
}

func TestCreateEmitsInfoThenUserCount(t *testing.T) {
	svc := newTestService(t, time.Minute)
	alice := newFakeConn("alice")

	code := createRoom(t, svc, alice, "Alice", "R")

	require.Len(t, alice.events, 2)

	info := alice.events[0].(Info)
	assert.Equal(t, EventInfo, info.Type)
	assert.Equal(t, code, info.RoomCode)
	assert.Equal(t, "R", info.RoomName)
	assert.Empty(t, info.ChatHistory)
	assert.NotNil(t, info.ChatHistory)
	assert.Equal(t, 1, info.UserCount)
	assert.Equal(t,
		"Room 'R' created with code '"+code+"'. You have joined the room as 'Alice'.",
		info.Message)

	count := alice.events[1].(UserCount)
	assert.Equal(t, 1, count.Count)
	assert.Equal(t, "Current users in room: 1", count.Message)
}

func TestJoinOwnRoomRejectedAsAlreadyMember(t *testing.T) {
	svc := newTestService(t, time.Minute)
	alice := newFakeConn("alice")
	code := createRoom(t, svc, alice, "Alice", "R")

	err := svc.Join(alice, "Alice", code)

	require.ErrorIs(t, err, ErrAlreadyMember)
	assert.Equal(t, "You are already in the room '"+code+"'.", err.Error())
	assert.Equal(t, 1, memberCount(svc, code))
}

func TestJoinUnknownCodeRejected(t *testing.T) {
	svc := newTestService(t, time.Minute)
	alice := newFakeConn("alice")
	svc.Connect(alice)

	err := svc.Join(alice, "Alice", "ZZZZZZ")

	require.ErrorIs(t, err, ErrRoomNotFound)
	assert.Equal(t, "Room with code 'ZZZZZZ' does not exist.", err.Error())
	rooms, _ := svc.Stats()
	assert.Zero(t, rooms)
	assert.Empty(t, alice.events)
}

func TestJoinEventOrdering(t *testing.T) {
	svc := newTestService(t, time.Minute)
	alice := newFakeConn("alice")
	bob := newFakeConn("bob")
	code := createRoom(t, svc, alice, "Alice", "R")
	alice.events = nil

	svc.Connect(bob)
	require.NoError(t, svc.Join(bob, "Bob", code))

	// Joiner: info first, then the count update. No join notification.
	require.Len(t, bob.events, 2)
	info := bob.events[0].(Info)
	assert.Equal(t, "You have joined the room 'R' ("+code+") as 'Bob'.", info.Message)
	assert.Equal(t, 2, info.UserCount)
	assert.Equal(t, UserCount{Type: EventUserCount, Count: 2, Message: "Current users in room: 2"},
		bob.events[1])

	// Existing member: notification first, then the count update.
	require.Len(t, alice.events, 2)
	assert.Equal(t, Notification{Type: EventNotification, Message: "Bob has joined the room."},
		alice.events[0])
	assert.Equal(t, 2, alice.events[1].(UserCount).Count)
}

func TestJoinCodeIsCaseInsensitive(t *testing.T) {
	svc := newTestService(t, time.Minute)
	alice := newFakeConn("alice")
	bob := newFakeConn("bob")
	code := createRoom(t, svc, alice, "Alice", "R")

	svc.Connect(bob)
	require.NoError(t, svc.Join(bob, "Bob", strings.ToLower(code)))
	assert.Equal(t, 2, memberCount(svc, code))
}

func TestMessageBroadcastAndHistory(t *testing.T) {
	svc := newTestService(t, time.Minute)
	alice := newFakeConn("alice")
	bob := newFakeConn("bob")
	code := createRoom(t, svc, alice, "Alice", "R")
	svc.Connect(bob)
	require.NoError(t, svc.Join(bob, "Bob", code))
	alice.events = nil
	bob.events = nil

	require.NoError(t, svc.Message(bob, "hi"))

	want := Message{Type: EventMessage, Sender: "Bob", Content: "hi"}
	require.Len(t, alice.events, 1)
	require.Len(t, bob.events, 1)
	assert.Equal(t, want, alice.events[0])
	assert.Equal(t, want, bob.events[0])

	svc.mu.Lock()
	room, _ := svc.store.Get(code)
	history := room.History()
	svc.mu.Unlock()
	require.Len(t, history, 1)
	assert.Equal(t, want, history[0])
}

func TestMessageWithoutRoomRejected(t *testing.T) {
	svc := newTestService(t, time.Minute)
	alice := newFakeConn("alice")
	svc.Connect(alice)

	err := svc.Message(alice, "hi")

	require.ErrorIs(t, err, ErrNotInRoom)
	assert.Equal(t, "You are not in a room. Join or create a room first.", err.Error())
	assert.Empty(t, alice.events)
}

func TestDisconnectNotifiesRemainingMembers(t *testing.T) {
	svc := newTestService(t, time.Minute)
	alice := newFakeConn("alice")
	bob := newFakeConn("bob")
	code := createRoom(t, svc, alice, "Alice", "R")
	svc.Connect(bob)
	require.NoError(t, svc.Join(bob, "Bob", code))
	alice.events = nil

	svc.Disconnect(bob)

	require.Len(t, alice.events, 2)
	assert.Equal(t, Notification{Type: EventNotification, Message: "Bob has left the room."},
		alice.events[0])
	assert.Equal(t, 1, alice.events[1].(UserCount).Count)
	assert.Equal(t, 1, memberCount(svc, code))
}

func TestDisconnectIsIdempotent(t *testing.T) {
	svc := newTestService(t, time.Minute)
	alice := newFakeConn("alice")
	bob := newFakeConn("bob")
	code := createRoom(t, svc, alice, "Alice", "R")
	svc.Connect(bob)
	require.NoError(t, svc.Join(bob, "Bob", code))
	alice.events = nil

	svc.Disconnect(bob)
	svc.Disconnect(bob)

	// One leave notification and one count update, not two of each.
	require.Len(t, alice.events, 2)
	assert.Equal(t, 1, memberCount(svc, code))
	_, connections := svc.Stats()
	assert.Equal(t, 1, connections)
}

func TestCreateWhileInRoomDetachesFromPrevious(t *testing.T) {
	svc := newTestService(t, time.Minute)
	alice := newFakeConn("alice")
	bob := newFakeConn("bob")
	codeA := createRoom(t, svc, alice, "Alice", "A")
	svc.Connect(bob)
	require.NoError(t, svc.Join(bob, "Bob", codeA))
	alice.events = nil

	require.NoError(t, svc.Create(bob, "Bob", "B"))

	assert.Equal(t, 1, memberCount(svc, codeA))
	require.Len(t, alice.events, 2)
	assert.Equal(t, "Bob has left the room.", alice.events[0].(Notification).Message)
}

func TestMessageToVanishedRoomChangesNothing(t *testing.T) {
	svc := newTestService(t, time.Minute)
	alice := newFakeConn("alice")
	code := createRoom(t, svc, alice, "Alice", "R")
	alice.events = nil

	// Force a session that points at a room the store no longer has.
	svc.mu.Lock()
	svc.store.Delete(code)
	svc.mu.Unlock()

	err := svc.Message(alice, "hi")

	require.ErrorIs(t, err, ErrNotInRoom)
	assert.Empty(t, alice.events)

	// The rejected action must not have touched the session.
	svc.mu.Lock()
	sess := svc.registry.Lookup(alice)
	svc.mu.Unlock()
	require.NotNil(t, sess)
	assert.Equal(t, code, sess.Room)
	assert.Equal(t, "Alice", sess.Name)
}

func TestRepeatedConnectKeepsSessionAndMembership(t *testing.T) {
	svc := newTestService(t, time.Minute)
	alice := newFakeConn("alice")
	code := createRoom(t, svc, alice, "Alice", "R")

	svc.Connect(alice)

	svc.mu.Lock()
	sess := svc.registry.Lookup(alice)
	svc.mu.Unlock()
	require.NotNil(t, sess)
	assert.Equal(t, code, sess.Room)
	assert.Equal(t, 1, memberCount(svc, code))

	_, connections := svc.Stats()
	assert.Equal(t, 1, connections)

	// Messaging still reaches the room through the original session.
	alice.events = nil
	require.NoError(t, svc.Message(alice, "still here"))
	require.Len(t, alice.events, 1)
}

func TestInvalidActionEvent(t *testing.T) {
	svc := newTestService(t, time.Minute)
	alice := newFakeConn("alice")
	svc.Connect(alice)

	svc.InvalidAction(alice)

	require.Len(t, alice.events, 1)
	assert.Equal(t,
		ErrorEvent{Type: EventError, Message: "Invalid action. Use 'create', 'join', or 'message'."},
		alice.events[0])
}

func TestStatsCounters(t *testing.T) {
	svc := newTestService(t, time.Minute)
	alice := newFakeConn("alice")
	bob := newFakeConn("bob")
	createRoom(t, svc, alice, "Alice", "R")
	svc.Connect(bob)

	rooms, connections := svc.Stats()
	assert.Equal(t, 1, rooms)
	assert.Equal(t, 2, connections)

	svc.Disconnect(bob)
	_, connections = svc.Stats()
	assert.Equal(t, 1, connections)
}
