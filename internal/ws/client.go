package ws

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const sendBufferSize = 256

var (
	errConnClosed    = errors.New("connection closed")
	errSendQueueFull = errors.New("send queue full")
)

// clientConn wraps a websocket connection behind a buffered outbound queue.
// Send only enqueues, so the chat core never blocks on a peer's TCP window;
// the writer goroutine does the actual socket I/O. It implements chat.Conn.
type clientConn struct {
	id      string
	rawConn *websocket.Conn
	mu      sync.Mutex
	closed  atomic.Bool
	send    chan any
	done    chan struct{}
}

func newClientConn(raw *websocket.Conn) *clientConn {
	return &clientConn{
		id:      uuid.NewString(),
		rawConn: raw,
		send:    make(chan any, sendBufferSize),
		done:    make(chan struct{}),
	}
}

func (c *clientConn) ID() string { return c.id }

// IsOpen reports whether the transport is still deliverable. The broadcaster
// drops sends to closed connections instead of erroring.
func (c *clientConn) IsOpen() bool { return !c.closed.Load() }

// Send enqueues one event for the writer goroutine and never blocks. Events
// for a peer that cannot keep up are dropped once the queue is full, matching
// the best-effort delivery policy.
func (c *clientConn) Send(v any) error {
	if !c.IsOpen() {
		return errConnClosed
	}
	select {
	case c.send <- v:
		return nil
	default:
		return errSendQueueFull
	}
}

func (c *clientConn) write(mt int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.rawConn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.rawConn.WriteMessage(mt, data)
}

func (c *clientConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.rawConn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.rawConn.WriteJSON(v)
}

// writePump drains the outbound queue onto the socket until the connection
// closes or a write fails.
func (c *clientConn) writePump() {
	for {
		select {
		case <-c.done:
			return
		case v := <-c.send:
			if err := c.writeJSON(v); err != nil {
				c.close()
				return
			}
		}
	}
}

// close marks the connection dead and tears the socket down, once.
func (c *clientConn) close() {
	if c.closed.CompareAndSwap(false, true) {
		close(c.done)
		_ = c.rawConn.Close()
	}
}
