package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	zlog "github.com/rs/zerolog/log"

	"github.com/palco-live/palco/internal/app/registry"
	"github.com/palco-live/palco/internal/app/session"
	"github.com/palco-live/palco/internal/domain/room"
)

// Hub tracks live websocket connections and routes their commands to the
// session coordinator. Room membership itself lives in the notification
// manager; the hub only owns connection lifecycle.
type Hub struct {
	coordinator *session.Coordinator
	upgrader    websocket.Upgrader

	mu      sync.Mutex
	clients map[*Client]struct{}
}

// NewHub creates a hub over the given coordinator.
func NewHub(coordinator *session.Coordinator) *Hub {
	return &Hub{
		coordinator: coordinator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// All origins accepted; the handshake carries no credentials.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*Client]struct{}),
	}
}

// ServeWS upgrades an HTTP request and runs the connection's pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zlog.Warn().Msgf("websocket upgrade failed: err=%v", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		id:   uuid.New().String(),
	}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	zlog.Info().Msgf("client connected: connection_id=%s remote=%s", client.id, r.RemoteAddr)

	go client.writePump()
	go client.readPump()
}

// unregister drops a client and its room subscription. Safe to call more
// than once for the same client.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	_, known := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if !known {
		return
	}

	c.mu.Lock()
	subscriptionID := c.subscriptionID
	c.subscriptionID = ""
	c.mu.Unlock()

	if subscriptionID != "" {
		h.coordinator.Notifications().Unsubscribe(subscriptionID)
	}
	c.closeSend()
	zlog.Info().Msgf("client disconnected: connection_id=%s", c.id)
}

// ConnectionCount returns the number of live connections.
func (h *Hub) ConnectionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close tears down every connection.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.conn.Close()
	}
}

// dispatch routes one command frame. Commands without an ackId fail
// silently on the wire; errors still go to the log.
func (h *Hub) dispatch(c *Client, env commandEnvelope) {
	switch env.Event {
	case "create_room":
		h.handleCreateRoom(c, env)
	case "join_room":
		h.handleJoinRoom(c, env)
	case "add_to_queue":
		h.handleAddToQueue(c, env)
	case "remove_from_queue":
		h.handleEntryCommand(c, env, h.coordinator.RemoveFromQueue)
	case "play_now":
		h.handleEntryCommand(c, env, h.coordinator.PlayNow)
	case "move_in_queue":
		h.handleMoveInQueue(c, env)
	case "play_next":
		h.handleRoomCommand(c, env, h.coordinator.PlayNext)
	case "start_performance":
		h.handleRoomCommand(c, env, h.coordinator.StartPerformance)
	case "control_playback":
		h.handleControlPlayback(c, env)
	case "blacklist_video":
		h.handleBlacklistVideo(c, env)
	case "set_restriction_mode":
		h.handleSetRestrictionMode(c, env)
	default:
		zlog.Warn().Msgf("unknown command: connection_id=%s event=%s", c.id, env.Event)
	}
}

func (h *Hub) handleCreateRoom(c *Client, env commandEnvelope) {
	var p createRoomPayload
	if !h.decode(c, env, &p) {
		return
	}

	rm, err := h.coordinator.CreateRoom(p.RoomName, c.id)
	if err != nil {
		zlog.Error().Msgf("create_room failed: connection_id=%s err=%v", c.id, err)
		c.sendAck(env.AckID, createRoomAck{Success: false, Error: "could not create room"})
		return
	}

	// The creator is the host display; join it right away.
	_, subID, err := h.coordinator.Join(rm.ID, c)
	if err != nil {
		c.sendAck(env.AckID, createRoomAck{Success: false, Error: "could not create room"})
		return
	}
	c.setSubscription(rm.ID, subID)
	c.sendAck(env.AckID, createRoomAck{Success: true, RoomID: rm.ID})
}

func (h *Hub) handleJoinRoom(c *Client, env commandEnvelope) {
	var p joinRoomPayload
	if !h.decode(c, env, &p) {
		return
	}

	snapshot, subID, err := h.coordinator.Join(p.RoomID, c)
	if err != nil {
		c.sendAck(env.AckID, joinRoomAck{Success: false, Error: "Room not found"})
		return
	}

	c.setSubscription(p.RoomID, subID)
	zlog.Info().Msgf("client joined room: connection_id=%s room_id=%s", c.id, p.RoomID)
	c.sendAck(env.AckID, joinRoomAck{Success: true, RoomState: &snapshot})
}

func (h *Hub) handleAddToQueue(c *Client, env commandEnvelope) {
	var p addToQueuePayload
	if !h.decode(c, env, &p) {
		return
	}

	if _, err := h.coordinator.AddToQueue(p.RoomID, p.Song); err != nil {
		c.sendAck(env.AckID, simpleAck{Success: false, Error: "Room not found"})
		return
	}
	c.sendAck(env.AckID, simpleAck{Success: true})
}

func (h *Hub) handleEntryCommand(c *Client, env commandEnvelope, fn func(roomID, entryID string) error) {
	var p entryPayload
	if !h.decode(c, env, &p) {
		return
	}
	h.logIfCommandFailed(c, env.Event, fn(p.RoomID, p.EntryID))
}

func (h *Hub) handleMoveInQueue(c *Client, env commandEnvelope) {
	var p moveInQueuePayload
	if !h.decode(c, env, &p) {
		return
	}
	h.logIfCommandFailed(c, env.Event, h.coordinator.MoveInQueue(p.RoomID, p.FromIndex, p.ToIndex))
}

func (h *Hub) handleRoomCommand(c *Client, env commandEnvelope, fn func(roomID string) error) {
	var p roomPayload
	if !h.decode(c, env, &p) {
		return
	}
	h.logIfCommandFailed(c, env.Event, fn(p.RoomID))
}

func (h *Hub) handleControlPlayback(c *Client, env commandEnvelope) {
	var p controlPlaybackPayload
	if !h.decode(c, env, &p) {
		return
	}
	h.logIfCommandFailed(c, env.Event, h.coordinator.ControlPlayback(p.RoomID, session.PlaybackAction(p.Action)))
}

func (h *Hub) handleBlacklistVideo(c *Client, env commandEnvelope) {
	var p blacklistVideoPayload
	if !h.decode(c, env, &p) {
		return
	}
	h.logIfCommandFailed(c, env.Event, h.coordinator.BlacklistVideo(p.RoomID, p.VideoID, p.AuthorID))
}

func (h *Hub) handleSetRestrictionMode(c *Client, env commandEnvelope) {
	var p restrictionModePayload
	if !h.decode(c, env, &p) {
		return
	}
	h.logIfCommandFailed(c, env.Event, h.coordinator.SetRestrictionMode(p.RoomID, room.RestrictionMode(p.Mode)))
}

// decode unmarshals a command payload, logging and dropping the frame on
// failure.
func (h *Hub) decode(c *Client, env commandEnvelope, out any) bool {
	if err := json.Unmarshal(env.Payload, out); err != nil {
		zlog.Warn().Msgf("malformed payload: connection_id=%s event=%s err=%v", c.id, env.Event, err)
		return false
	}
	return true
}

// logIfCommandFailed records command errors for ackless commands. Unknown
// rooms are logged at debug: stale clients re-sending into dead rooms are
// routine, not actionable.
func (h *Hub) logIfCommandFailed(c *Client, event string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, registry.ErrRoomNotFound) {
		zlog.Debug().Msgf("command for unknown room: connection_id=%s event=%s", c.id, event)
		return
	}
	zlog.Error().Msgf("command failed: connection_id=%s event=%s err=%v", c.id, event, err)
}
