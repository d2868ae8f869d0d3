package chat

import "go.uber.org/zap"

// Broadcaster delivers events best-effort: each send is independent, checked
// against the connection's open state, and failures are swallowed. A closed
// peer is expected and non-fatal.
type Broadcaster struct{}

func NewBroadcaster() *Broadcaster { return &Broadcaster{} }

// SendTo hands one event to one connection's outbound queue if its transport
// is open. The enqueue never blocks; a saturated or closing peer loses the
// event rather than stalling the caller.
func (b *Broadcaster) SendTo(c Conn, event any) {
	if c == nil || !c.IsOpen() {
		return
	}
	if err := c.Send(event); err != nil {
		zap.L().Debug("chat.send_failed", zap.String("conn", c.ID()), zap.Error(err))
	}
}

// BroadcastRoom delivers an event to every member of the room except the
// optionally excluded connection. One slow or dead recipient never blocks
// delivery to the rest.
func (b *Broadcaster) BroadcastRoom(room *Room, event any, excluding Conn) {
	for c := range room.members {
		if c == excluding {
			continue
		}
		b.SendTo(c, event)
	}
}
