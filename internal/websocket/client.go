// internal/websocket/client.go
package websocket

import (
	"context"
	"sync"
	"time"

	"prepwise-service/internal/call"
	wstypes "prepwise-service/internal/domain/websocket"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024 // 512KB
)

// ClientAuth holds authentication information
type ClientAuth struct {
	UserID string
	Email  string
}

// Client is one browser connection. All inbound messages are handled on the
// ReadPump goroutine, which is what serializes call events.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
	email  string
	logger *zap.Logger

	controller *call.Controller
	webToken   string

	closeOnce sync.Once

	// Context for graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

func NewClient(hub *Hub, conn *websocket.Conn, auth *ClientAuth) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: auth.UserID,
		email:  auth.Email,
		logger: hub.logger.With(zap.String("user_id", auth.UserID)),
		ctx:    ctx,
		cancel: cancel,
	}
}

// AttachCall binds the call session driven by this connection. The web
// token is handed to the browser so it can initialize the voice SDK.
func (c *Client) AttachCall(ctrl *call.Controller, webToken string) {
	c.controller = ctrl
	c.webToken = webToken
}

// Call returns the attached call session, if any.
func (c *Client) Call() (*call.Controller, bool) {
	return c.controller, c.controller != nil
}

func (c *Client) UserID() string {
	return c.userID
}

func (c *Client) Context() context.Context {
	return c.ctx
}

// ReadPump handles incoming messages from client
func (c *Client) ReadPump() {
	defer func() {
		c.abandonCall()
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
			_, message, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					c.logger.Warn("websocket read error", zap.Error(err))
				}
				return
			}

			c.handleMessage(message)
		}
	}
}

// abandonCall ends a call whose socket went away while it was still
// connecting or active, so its exit action still runs.
func (c *Client) abandonCall() {
	ctrl, ok := c.Call()
	if !ok {
		return
	}
	switch ctrl.Snapshot().Status {
	case call.StatusConnecting, call.StatusActive:
		c.logger.Info("socket closed during call, stopping it", zap.String("call_id", ctrl.ID()))
		ctrl.StopCall(context.WithoutCancel(c.ctx))
	}
}

// WritePump handles outgoing messages to client
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			c.flush()
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// flush writes whatever is still queued, so a final notice reaches the
// client before the close frame.
func (c *Client) flush() {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	for {
		select {
		case message := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		default:
			return
		}
	}
}

// handleMessage processes incoming messages from client
func (c *Client) handleMessage(data []byte) {
	msg, err := wstypes.ParseMessage(data)
	if err != nil {
		c.SendError("invalid_message", "Failed to parse message", err.Error())
		return
	}

	if msg.Type == wstypes.EventTypePing {
		c.SendMessage(wstypes.NewMessage(wstypes.EventTypePong, nil))
		return
	}

	handled, err := c.hub.HandleClientMessage(c.ctx, c, msg)
	if err != nil {
		c.SendError("handler_error", "Failed to process message", err.Error())
		return
	}
	if !handled {
		c.SendError("unsupported_event", "Unsupported message type", string(msg.Type))
	}
}

// SendMessage queues a message for the client. A client that cannot keep up
// is disconnected.
func (c *Client) SendMessage(msg *wstypes.WSMessage) error {
	data, err := msg.ToJSON()
	if err != nil {
		c.logger.Error("failed to marshal message", zap.Error(err))
		return err
	}

	select {
	case <-c.ctx.Done():
		return ErrClientClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	case <-c.ctx.Done():
		return ErrClientClosed
	default:
		c.logger.Warn("send buffer full, closing connection")
		c.Close()
		return ErrClientClosed
	}
}

// SendError sends an error message to the client
func (c *Client) SendError(code, message, details string) {
	c.SendMessage(wstypes.NewMessage(wstypes.EventTypeError, wstypes.ErrorData{
		Code:    code,
		Message: message,
		Details: details,
	}))
}

// Close gracefully closes the client connection
func (c *Client) Close() {
	c.closeOnce.Do(c.cancel)
}
