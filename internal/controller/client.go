package controller

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sharetube/watchparty/internal/protocol"
	"github.com/sharetube/watchparty/internal/service/auth"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// client is one websocket connection. Identity and room fields are only touched by the event
// loop; the send queue may be written from any goroutine.
type client struct {
	conn          *websocket.Conn
	send          chan []byte
	identity      auth.Identity
	authenticated bool
	roomID        string
	closed        bool
	mu            sync.Mutex
	logger        *slog.Logger
}

func (c controller) newClient(conn *websocket.Conn) *client {
	return &client{
		conn:   conn,
		send:   make(chan []byte, c.sendBuffer),
		logger: c.logger,
	}
}

func (cl *client) authenticate(identity auth.Identity) {
	cl.identity = identity
	cl.authenticated = true
}

// enqueue queues one message without blocking. Messages to a closed connection or a full
// queue are dropped.
func (cl *client) enqueue(messageType string, payload any) {
	data, err := json.Marshal(protocol.Output{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		cl.logger.Error("failed to marshal message", "message_type", messageType, "error", err)
		return
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.closed {
		cl.logger.Debug("message to closed connection dropped", "message_type", messageType)
		return
	}

	select {
	case cl.send <- data:
	default:
		cl.logger.Warn("send queue full, message dropped", "message_type", messageType, "user_id", cl.identity.UserID)
	}
}

// close stops the write pump, which flushes queued messages and sends a close frame.
func (cl *client) close() {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.closed {
		return
	}
	cl.closed = true
	close(cl.send)
}

// readPump feeds every frame into the event loop and reports the close last.
func (c controller) readPump(ctx context.Context, cl *client) {
	defer func() {
		c.dispatch(event{kind: eventClosed, ctx: ctx, client: cl})
		cl.conn.Close()
	}()

	cl.conn.SetReadLimit(maxMessageSize)
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		cl.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.InfoContext(ctx, "unexpected close", "error", err)
			}
			return
		}

		if !c.dispatch(event{kind: eventMessage, ctx: ctx, client: cl, data: data}) {
			return
		}
	}
}

func (c controller) writePump(ctx context.Context, cl *client) {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case data, ok := <-cl.send:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				cl.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.DebugContext(ctx, "failed to write message", "error", err)
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
