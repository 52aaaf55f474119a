package chathub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"dmchat/backend/internal/config"
	"dmchat/backend/internal/models"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// SessionState is the lifecycle position of a connection.
type SessionState int32

const (
	StateConnecting SessionState = iota
	StateAuthenticated
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "closed"
	}
}

// WebSocketClient is one authenticated websocket connection. It implements
// Client. The handshake has already verified the identity by the time one
// is built; Run registers it, relays inbound sends to the Router and
// unregisters it on the way out.
type WebSocketClient struct {
	handleID string
	userID   uint
	conn     *websocket.Conn
	hub      *Hub

	mu    sync.Mutex
	state SessionState
	send  chan models.OutboundEvent
}

func newWebSocketClient(hub *Hub, conn *websocket.Conn, userID uint) *WebSocketClient {
	return &WebSocketClient{
		handleID: uuid.NewString(),
		userID:   userID,
		conn:     conn,
		hub:      hub,
		state:    StateConnecting,
		send:     make(chan models.OutboundEvent, config.SendBufferSize),
	}
}

func (c *WebSocketClient) HandleID() string { return c.handleID }
func (c *WebSocketClient) GetUserID() uint  { return c.userID }

func (c *WebSocketClient) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Push implements Client. It never blocks: a full buffer marks the peer as
// too slow and the connection is dropped.
func (c *WebSocketClient) Push(ev models.OutboundEvent) error {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return ErrClientClosed
	}
	select {
	case c.send <- ev:
		c.mu.Unlock()
		return nil
	default:
		c.mu.Unlock()
		go c.Close()
		return ErrSlowClient
	}
}

// Close implements Client. Closing the send channel stops writePump, which
// closes the socket and in turn ends readPump.
func (c *WebSocketClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed {
		return
	}
	c.state = StateClosed
	close(c.send)
}

// Run drives the session until the connection ends. It blocks. A hub that
// is shutting down closes the connection straight away.
func (c *WebSocketClient) Run(ctx context.Context) {
	if !c.hub.track() {
		c.Close()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
		_ = c.conn.Close()
		return
	}
	defer c.hub.sessions.Done()

	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.state = StateAuthenticated
	c.mu.Unlock()
	c.hub.register(c)

	written := make(chan struct{})
	go func() {
		defer close(written)
		c.writePump()
	}()

	defer func() {
		cancel()
		c.hub.unregister(c)
		c.Close()
		// writePump flushes the close frame before the socket goes away.
		<-written
		_ = c.conn.Close()
	}()

	c.readPump(ctx)
}

func (c *WebSocketClient) readPump(ctx context.Context) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				glog.Warningf("read error on handle %s (user %d): %v", c.handleID, c.userID, err)
			}
			return
		}

		var ev models.InboundEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			glog.V(5).Infof("ignoring malformed event from user %d: %v", c.userID, err)
			continue
		}
		if ev.Type != "" && ev.Type != models.EventTypeDM {
			glog.V(5).Infof("ignoring event type %q from user %d", ev.Type, c.userID)
			continue
		}

		if _, err := c.hub.Router.Send(ctx, c.userID, ev.ToUserID.String(), ev.Text, time.Now()); err != nil {
			glog.Errorf("send from user %d failed: %v", c.userID, err)
		}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				glog.Warningf("write to handle %s (user %d) failed: %v", c.handleID, c.userID, err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
