package chat

import "time"

// Conn is the transport-side handle for one live connection. The chat core
// looks connections up but never owns them; accepting and closing sockets is
// the transport layer's job. Send must not block: implementations hand the
// event to an outbound queue and do the socket I/O on their own goroutine,
// so holding the service mutex across a send is safe.
type Conn interface {
	ID() string
	IsOpen() bool
	Send(v any) error
}

// Room is a coded chat channel. All fields are guarded by the owning
// Service's mutex; Room itself carries no locking.
type Room struct {
	Code string // unique, immutable, upper case
	Name string // display label, immutable

	members      map[Conn]string // connection -> display name
	history      []Message       // append-only while the room exists
	lastActivity time.Time
	removal      *time.Timer // pending empty-room deletion, nil when members exist
}

func newRoom(code, name string) *Room {
	return &Room{
		Code:         code,
		Name:         name,
		members:      make(map[Conn]string),
		lastActivity: time.Now(),
	}
}

func (r *Room) MemberCount() int { return len(r.members) }

// History returns a snapshot copy so the caller can hand it to an encoder
// without aliasing the live slice. Never nil.
func (r *Room) History() []Message {
	out := make([]Message, len(r.history))
	copy(out, r.history)
	return out
}

func (r *Room) touch() { r.lastActivity = time.Now() }

// scheduleRemoval replaces any pending removal timer; timers never stack.
func (r *Room) scheduleRemoval(d time.Duration, fn func()) {
	if r.removal != nil {
		r.removal.Stop()
	}
	r.removal = time.AfterFunc(d, fn)
}

// cancelRemoval stops a pending removal, if any. Returns true if a timer was
// cancelled.
func (r *Room) cancelRemoval() bool {
	if r.removal == nil {
		return false
	}
	r.removal.Stop()
	r.removal = nil
	return true
}
