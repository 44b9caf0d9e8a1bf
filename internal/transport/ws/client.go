package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/websocket"
	zlog "github.com/rs/zerolog/log"

	"github.com/palco-live/palco/internal/app/notification"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
	sendBufferSize = 32
)

var (
	errSendBufferFull = errors.New("client send buffer full")
	errClientClosed   = errors.New("client connection closed")
)

// Client is one websocket connection. It implements notification.Stream so
// it can be subscribed to a room's broadcast group directly.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string

	mu             sync.Mutex
	roomID         string
	subscriptionID string
	closed         bool
}

// Send implements notification.Stream. It never blocks: when the send
// buffer is full the event is dropped (best-effort, at-most-once delivery)
// and the error is reported to the broadcaster.
func (c *Client) Send(ev notification.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "failed to marshal event")
	}
	return c.enqueue(data)
}

// enqueue pushes a frame onto the send buffer. A broadcast may still hold
// this client after it unregistered, so the closed flag and the channel
// close are serialized under the same mutex.
func (c *Client) enqueue(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errClientClosed
	}
	select {
	case c.send <- data:
		return nil
	default:
		return errSendBufferFull
	}
}

// closeSend marks the client closed and closes the send buffer, ending the
// write pump. Safe to call once only; unregister guarantees that.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	close(c.send)
}

// sendAck queues an acknowledgment frame for a command that asked for one.
func (c *Client) sendAck(ackID string, payload any) {
	if ackID == "" {
		return
	}
	data, err := json.Marshal(ackEnvelope{Event: "ack", AckID: ackID, Payload: payload})
	if err != nil {
		zlog.Error().Msgf("failed to marshal ack: connection_id=%s err=%v", c.id, err)
		return
	}
	if err := c.enqueue(data); err != nil {
		zlog.Debug().Msgf("dropping ack: connection_id=%s err=%v", c.id, err)
	}
}

// setSubscription swaps the client's room subscription, releasing any
// previous one so a rejoin never leaks a stale group membership.
func (c *Client) setSubscription(roomID, subscriptionID string) {
	c.mu.Lock()
	prev := c.subscriptionID
	c.roomID = roomID
	c.subscriptionID = subscriptionID
	c.mu.Unlock()

	if prev != "" {
		c.hub.coordinator.Notifications().Unsubscribe(prev)
	}
}

// readPump reads command frames until the connection dies. It runs in its
// own goroutine, one per connection.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zlog.Debug().Msgf("websocket read error: connection_id=%s err=%v", c.id, err)
			}
			return
		}

		var env commandEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			zlog.Warn().Msgf("ignoring malformed frame: connection_id=%s err=%v", c.id, err)
			continue
		}
		c.hub.dispatch(c, env)
	}
}

// writePump drains the send buffer and keeps the connection alive with
// pings. It runs in its own goroutine, one per connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
