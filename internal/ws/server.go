package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"chatrelay/internal/chat"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10 // must be < pongWait
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true }, // dev-only
}

// WsServer accepts websocket connections and pumps their frames through the
// validation layer into the chat service.
type WsServer struct {
	svc chat.IChatService
	bc  *chat.Broadcaster
}

func NewWsServer(svc chat.IChatService, bc *chat.Broadcaster) *WsServer {
	return &WsServer{svc: svc, bc: bc}
}

// ---------------------------------------------------------------------------
//  Public: Gin entry-point
// ---------------------------------------------------------------------------

func (s *WsServer) Handle(ginCtx *gin.Context) {
	rawConn, err := upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.upgrade", zap.Error(err))
		return
	}

	conn := newClientConn(rawConn)
	s.svc.Connect(conn)

	go conn.writePump()
	go s.reader(conn)
	go s.pinger(conn)
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

func (s *WsServer) reader(conn *clientConn) {
	defer func() {
		conn.close()
		s.svc.Disconnect(conn)
	}()

	conn.rawConn.SetReadLimit(maxMessageSize)
	_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	conn.rawConn.SetPongHandler(func(string) error {
		return conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.rawConn.ReadMessage()
		if err != nil {
			return // client closed or errored
		}
		s.dispatch(conn, raw)
	}
}

func (s *WsServer) dispatch(conn *clientConn, raw []byte) {
	// A failure handling one frame must not take down the connection's
	// reader loop or affect other connections.
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("ws.dispatch_panic", zap.Any("panic", r))
			s.bc.SendTo(conn, chat.NewErrorEvent("Invalid message format."))
		}
	}()

	action, err := parseAction(raw)
	if err != nil {
		s.bc.SendTo(conn, chat.NewErrorEvent(err.Error()))
		return
	}

	switch a := action.(type) {
	case CreateAction:
		err = s.svc.Create(conn, a.Name, a.RoomName)
	case JoinAction:
		err = s.svc.Join(conn, a.Name, a.RoomCode)
	case MessageAction:
		err = s.svc.Message(conn, a.Content)
	default:
		s.svc.InvalidAction(conn)
		return
	}

	// Domain errors go to the initiator only; nothing else happened.
	if err != nil {
		s.bc.SendTo(conn, chat.NewErrorEvent(err.Error()))
	}
}

func (s *WsServer) pinger(conn *clientConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if !conn.IsOpen() {
			return
		}
		if err := conn.write(websocket.PingMessage, nil); err != nil {
			conn.close()
			return
		}
	}
}
