// Package ws provides the realtime command/event surface over websockets.
//
// Frames are JSON envelopes. Clients send commands as {event, ackId?,
// payload}; commands that carry an ackId receive an {event:"ack", ackId,
// payload} reply. Room events are pushed as {event, payload} with no ackId.
package ws

import (
	"encoding/json"

	"github.com/palco-live/palco/internal/domain/room"
	"github.com/palco-live/palco/internal/domain/song"
)

// commandEnvelope is the client-to-server frame.
type commandEnvelope struct {
	Event   string          `json:"event"`
	AckID   string          `json:"ackId,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ackEnvelope is the server-to-client acknowledgment frame.
type ackEnvelope struct {
	Event   string `json:"event"`
	AckID   string `json:"ackId"`
	Payload any    `json:"payload"`
}

// Command payloads.

type createRoomPayload struct {
	RoomName string `json:"roomName"`
}

type joinRoomPayload struct {
	RoomID string `json:"roomId"`
}

type addToQueuePayload struct {
	RoomID string    `json:"roomId"`
	Song   song.Song `json:"song"`
}

type entryPayload struct {
	RoomID  string `json:"roomId"`
	EntryID string `json:"entryId"`
}

type moveInQueuePayload struct {
	RoomID    string `json:"roomId"`
	FromIndex int    `json:"fromIndex"`
	ToIndex   int    `json:"toIndex"`
}

type roomPayload struct {
	RoomID string `json:"roomId"`
}

type controlPlaybackPayload struct {
	RoomID string `json:"roomId"`
	Action string `json:"action"`
}

type blacklistVideoPayload struct {
	RoomID   string `json:"roomId"`
	VideoID  string `json:"videoId"`
	AuthorID string `json:"authorId,omitempty"`
}

type restrictionModePayload struct {
	RoomID string `json:"roomId"`
	Mode   string `json:"mode"`
}

// Ack payloads. Success and failure are the two variants of one tagged
// shape; failure carries only the error string.

type createRoomAck struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

type joinRoomAck struct {
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
	RoomState *room.Snapshot `json:"roomState,omitempty"`
}

type simpleAck struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
