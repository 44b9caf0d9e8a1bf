// Package room provides the Room domain entity and its song queue.
package room

import (
	"sync"
	"time"

	"github.com/palco-live/palco/internal/domain/song"
)

// RestrictionMode governs how unplayable videos are handled in a room.
type RestrictionMode string

const (
	// RestrictionBlacklist rejects broken videos and filters them from
	// future search results.
	RestrictionBlacklist RestrictionMode = "blacklist"
	// RestrictionOpen accepts entries anyway; the client is expected to
	// open them through an external fallback path.
	RestrictionOpen RestrictionMode = "open"
)

// Valid reports whether m is a known restriction mode.
func (m RestrictionMode) Valid() bool {
	return m == RestrictionBlacklist || m == RestrictionOpen
}

// Room is the authoritative state of one karaoke session.
// The session coordinator holds the room lock for the full duration of each
// command, so subscribers observe mutation and broadcast as one atomic step.
type Room struct {
	mu sync.Mutex

	ID        string
	Name      string
	HostID    string
	CreatedAt time.Time

	Queue           Queue
	Current         *song.Entry
	IsPerforming    bool
	RestrictionMode RestrictionMode
}

// New creates an idle room with an empty queue.
func New(id, name, hostID string) *Room {
	return &Room{
		ID:              id,
		Name:            name,
		HostID:          hostID,
		CreatedAt:       time.Now(),
		RestrictionMode: RestrictionBlacklist,
	}
}

// Lock acquires the room's command lock.
func (r *Room) Lock() { r.mu.Lock() }

// Unlock releases the room's command lock.
func (r *Room) Unlock() { r.mu.Unlock() }

// Snapshot is the full room state sent once in a join acknowledgment.
// Subsequent updates arrive as deltas only.
type Snapshot struct {
	Queue           []song.Entry    `json:"queue"`
	CurrentSong     *song.Entry     `json:"currentSong"`
	IsPerforming    bool            `json:"isPerforming"`
	RestrictionMode RestrictionMode `json:"restrictionMode"`
}

// SnapshotLocked builds a snapshot. Caller must hold the room lock.
func (r *Room) SnapshotLocked() Snapshot {
	var current *song.Entry
	if r.Current != nil {
		c := *r.Current
		current = &c
	}
	return Snapshot{
		Queue:           r.Queue.Entries(),
		CurrentSong:     current,
		IsPerforming:    r.IsPerforming,
		RestrictionMode: r.RestrictionMode,
	}
}
