// Package song provides the queued song domain entity.
package song

import (
	"time"

	"github.com/google/uuid"
)

// Song represents a video a guest wants to perform, as submitted by a client.
type Song struct {
	VideoID   string `json:"id"`        // External video identifier
	Title     string `json:"title"`     // Display title
	Thumbnail string `json:"thumbnail"` // Thumbnail URL
	AddedBy   string `json:"addedBy"`   // Requester display name, free text
}

// Entry represents a song placed in a room's queue. The EntryID is generated
// by the engine and is the only identifier used for targeted queue operations.
type Entry struct {
	Song
	EntryID string    `json:"uuid"`
	AddedAt time.Time `json:"addedAt"`
}

// NewEntry wraps a submitted song into a queue entry with a fresh id.
func NewEntry(s Song) Entry {
	return Entry{
		Song:    s,
		EntryID: uuid.New().String(),
		AddedAt: time.Now(),
	}
}
