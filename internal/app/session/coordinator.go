// Package session implements the authoritative per-room state machine.
//
// Each room is in one of three states: Idle (no current song), Announced
// (a current song is selected but the performance has not been started) and
// Performing. Commands mutate room state and broadcast the resulting deltas
// to every connection subscribed to the room; mutation and emission happen
// under the room lock, so subscribers observe one command fully applied
// before the next.
package session

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/palco-live/palco/internal/app/filter"
	"github.com/palco-live/palco/internal/app/notification"
	"github.com/palco-live/palco/internal/app/registry"
	"github.com/palco-live/palco/internal/domain/room"
	"github.com/palco-live/palco/internal/domain/song"
)

// Event names pushed to room subscribers.
const (
	EventQueueUpdated           = "queue_updated"
	EventSingerAnnouncement     = "singer_announcement"
	EventNowPlaying             = "now_playing"
	EventPlaybackAction         = "playback_action"
	EventRestrictionModeChanged = "restriction_mode_changed"
)

// PlaybackAction is the transient play/pause signal relayed to observers.
// It is a pure UI signal and is deliberately not stored in room state;
// IsPerforming stays untouched by it.
type PlaybackAction string

const (
	PlaybackPlay  PlaybackAction = "play"
	PlaybackPause PlaybackAction = "pause"
)

var ErrInvalidPlaybackAction = errors.New("invalid playback action")
var ErrInvalidRestrictionMode = errors.New("invalid restriction mode")

// Coordinator owns all room commands. Room state is mutated only here.
type Coordinator struct {
	registry     *registry.Registry
	notification *notification.Manager
	blocklist    *filter.Blocklist
}

// NewCoordinator creates a coordinator over an injected registry,
// notification manager and blocklist.
func NewCoordinator(reg *registry.Registry, notif *notification.Manager, bl *filter.Blocklist) *Coordinator {
	return &Coordinator{
		registry:     reg,
		notification: notif,
		blocklist:    bl,
	}
}

// Notifications returns the broadcast gateway, used by the transport layer
// to subscribe joined connections.
func (c *Coordinator) Notifications() *notification.Manager {
	return c.notification
}

// CreateRoom registers a fresh idle room.
func (c *Coordinator) CreateRoom(name, hostID string) (*room.Room, error) {
	return c.registry.Create(name, hostID)
}

// Join subscribes a stream to a room and returns the room's full snapshot
// plus the subscription id. Snapshot and subscription happen under the room
// lock, so no command delta can fall between them: every command is either
// reflected in the snapshot or delivered to the stream. Joining never
// mutates room state; repeated joins return the same snapshot shape.
func (c *Coordinator) Join(roomID string, stream notification.Stream) (room.Snapshot, string, error) {
	rm, err := c.registry.Get(roomID)
	if err != nil {
		return room.Snapshot{}, "", err
	}

	rm.Lock()
	defer rm.Unlock()
	subscriptionID := c.notification.Subscribe(roomID, stream)
	return rm.SnapshotLocked(), subscriptionID, nil
}

// Snapshot returns a room's current state without subscribing.
func (c *Coordinator) Snapshot(roomID string) (room.Snapshot, error) {
	rm, err := c.registry.Get(roomID)
	if err != nil {
		return room.Snapshot{}, err
	}

	rm.Lock()
	defer rm.Unlock()
	return rm.SnapshotLocked(), nil
}

// AddToQueue submits a song request to a room. If the room is idle the new
// entry skips the queue entirely and is announced as the next performance;
// otherwise it is appended to the queue tail.
func (c *Coordinator) AddToQueue(roomID string, s song.Song) (song.Entry, error) {
	rm, err := c.registry.Get(roomID)
	if err != nil {
		return song.Entry{}, err
	}

	entry := song.NewEntry(s)

	rm.Lock()
	defer rm.Unlock()

	if rm.Current == nil {
		rm.Current = &entry
		rm.IsPerforming = false
		zlog.Info().Msgf("announcing next singer: room_id=%s title=%s added_by=%s", roomID, entry.Title, entry.AddedBy)
		c.notification.Broadcast(roomID, notification.Event{Name: EventSingerAnnouncement, Payload: entry})
		return entry, nil
	}

	rm.Queue.Append(entry)
	zlog.Info().Msgf("song queued: room_id=%s title=%s queue_len=%d", roomID, entry.Title, rm.Queue.Len())
	c.broadcastQueueLocked(rm)
	return entry, nil
}

// RemoveFromQueue deletes an entry from the queue. An unknown entry id is a
// silent no-op, unlike an unknown room which is a hard error.
func (c *Coordinator) RemoveFromQueue(roomID, entryID string) error {
	rm, err := c.registry.Get(roomID)
	if err != nil {
		return err
	}

	rm.Lock()
	defer rm.Unlock()

	if !rm.Queue.RemoveByID(entryID) {
		zlog.Debug().Msgf("remove ignored, entry not in queue: room_id=%s entry_id=%s", roomID, entryID)
		return nil
	}
	c.broadcastQueueLocked(rm)
	return nil
}

// MoveInQueue relocates a queue entry by index. Out-of-bounds indexes are a
// no-op: queue unchanged, no event emitted.
func (c *Coordinator) MoveInQueue(roomID string, from, to int) error {
	rm, err := c.registry.Get(roomID)
	if err != nil {
		return err
	}

	rm.Lock()
	defer rm.Unlock()

	if !rm.Queue.Move(from, to) {
		zlog.Debug().Msgf("move ignored, index out of bounds: room_id=%s from=%d to=%d len=%d", roomID, from, to, rm.Queue.Len())
		return nil
	}
	c.broadcastQueueLocked(rm)
	return nil
}

// PlayNow promotes an arbitrary queue entry directly to the current
// performance, skipping queue order. The performance still needs a manual
// start. Unknown entry ids are a silent no-op.
func (c *Coordinator) PlayNow(roomID, entryID string) error {
	rm, err := c.registry.Get(roomID)
	if err != nil {
		return err
	}

	rm.Lock()
	defer rm.Unlock()

	entry, ok := rm.Queue.TakeByID(entryID)
	if !ok {
		zlog.Debug().Msgf("play_now ignored, entry not in queue: room_id=%s entry_id=%s", roomID, entryID)
		return nil
	}

	rm.Current = &entry
	rm.IsPerforming = false
	zlog.Info().Msgf("play_now: room_id=%s title=%s", roomID, entry.Title)
	c.notification.Broadcast(roomID, notification.Event{Name: EventSingerAnnouncement, Payload: entry})
	c.broadcastQueueLocked(rm)
	return nil
}

// PlayNext advances the room to the next performance. With a non-empty queue
// the head entry is popped and announced; with an empty queue the room goes
// idle and subscribers receive now_playing(null).
func (c *Coordinator) PlayNext(roomID string) error {
	rm, err := c.registry.Get(roomID)
	if err != nil {
		return err
	}

	rm.Lock()
	defer rm.Unlock()

	if next, ok := rm.Queue.PopFront(); ok {
		rm.Current = &next
		rm.IsPerforming = false
		zlog.Info().Msgf("advancing to next singer: room_id=%s title=%s", roomID, next.Title)
		c.notification.Broadcast(roomID, notification.Event{Name: EventSingerAnnouncement, Payload: next})
		c.broadcastQueueLocked(rm)
		return nil
	}

	rm.Current = nil
	rm.IsPerforming = false
	zlog.Info().Msgf("queue drained, room idle: room_id=%s", roomID)
	c.notification.Broadcast(roomID, notification.Event{Name: EventNowPlaying, Payload: nil})
	c.broadcastQueueLocked(rm)
	return nil
}

// StartPerformance manually starts the announced performance. A room with no
// current song ignores the command.
func (c *Coordinator) StartPerformance(roomID string) error {
	rm, err := c.registry.Get(roomID)
	if err != nil {
		return err
	}

	rm.Lock()
	defer rm.Unlock()

	if rm.Current == nil {
		zlog.Debug().Msgf("start_performance ignored, nothing announced: room_id=%s", roomID)
		return nil
	}

	rm.IsPerforming = true
	zlog.Info().Msgf("performance started: room_id=%s title=%s", roomID, rm.Current.Title)
	c.notification.Broadcast(roomID, notification.Event{Name: EventNowPlaying, Payload: *rm.Current})
	return nil
}

// ControlPlayback relays a play/pause signal to room observers.
func (c *Coordinator) ControlPlayback(roomID string, action PlaybackAction) error {
	if action != PlaybackPlay && action != PlaybackPause {
		return errors.Wrapf(ErrInvalidPlaybackAction, "%q", action)
	}

	rm, err := c.registry.Get(roomID)
	if err != nil {
		return err
	}

	rm.Lock()
	defer rm.Unlock()

	c.notification.Broadcast(rm.ID, notification.Event{Name: EventPlaybackAction, Payload: action})
	return nil
}

// BlacklistVideo handles a playback-failure report. In blacklist mode the
// video is rejected process-wide and the author (when given) is rejected for
// this room. In open mode the report is ignored; the client keeps the entry
// and opens it through its external fallback path. Rejection is preventive
// only: entries already queued are never purged.
func (c *Coordinator) BlacklistVideo(roomID, videoID, authorID string) error {
	rm, err := c.registry.Get(roomID)
	if err != nil {
		return err
	}

	rm.Lock()
	mode := rm.RestrictionMode
	rm.Unlock()

	if mode == room.RestrictionOpen {
		zlog.Info().Msgf("blacklist skipped, room is in open mode: room_id=%s video_id=%s", roomID, videoID)
		return nil
	}

	c.blocklist.RejectVideo(videoID)
	if authorID != "" {
		c.blocklist.RejectAuthor(roomID, authorID)
	}
	return nil
}

// SetRestrictionMode toggles the per-room policy for unplayable videos and
// broadcasts the change.
func (c *Coordinator) SetRestrictionMode(roomID string, mode room.RestrictionMode) error {
	if !mode.Valid() {
		return errors.Wrapf(ErrInvalidRestrictionMode, "%q", mode)
	}

	rm, err := c.registry.Get(roomID)
	if err != nil {
		return err
	}

	rm.Lock()
	defer rm.Unlock()

	rm.RestrictionMode = mode
	zlog.Info().Msgf("restriction mode changed: room_id=%s mode=%s", roomID, mode)
	c.notification.Broadcast(roomID, notification.Event{Name: EventRestrictionModeChanged, Payload: mode})
	return nil
}

// broadcastQueueLocked pushes the full queue to subscribers. The payload is
// exactly the queue; the current performance is never part of it.
func (c *Coordinator) broadcastQueueLocked(rm *room.Room) {
	c.notification.Broadcast(rm.ID, notification.Event{Name: EventQueueUpdated, Payload: rm.Queue.Entries()})
}
