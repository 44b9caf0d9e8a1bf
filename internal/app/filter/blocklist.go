// Package filter provides search-result filtering against room blocklists.
package filter

import (
	"sync"

	zlog "github.com/rs/zerolog/log"
)

// Blocklist holds the rejected content state: a process-wide set of rejected
// video ids and per-room sets of rejected authors. Rejection is preventive,
// it blocks future surfacing through search but never purges entries that
// were already queued. There is no un-reject operation; rejections last for
// the process lifetime.
type Blocklist struct {
	mu            sync.RWMutex
	videos        map[string]struct{}
	authorsByRoom map[string]map[string]struct{}
}

// NewBlocklist creates an empty blocklist.
func NewBlocklist() *Blocklist {
	return &Blocklist{
		videos:        make(map[string]struct{}),
		authorsByRoom: make(map[string]map[string]struct{}),
	}
}

// RejectVideo marks a video id as rejected process-wide.
func (b *Blocklist) RejectVideo(videoID string) {
	if videoID == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.videos[videoID] = struct{}{}
	zlog.Info().Msgf("video blocklisted: video_id=%s total=%d", videoID, len(b.videos))
}

// RejectAuthor marks an author as rejected for one room only.
func (b *Blocklist) RejectAuthor(roomID, authorID string) {
	if roomID == "" || authorID == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.authorsByRoom[roomID] == nil {
		b.authorsByRoom[roomID] = make(map[string]struct{})
	}
	b.authorsByRoom[roomID][authorID] = struct{}{}
	zlog.Info().Msgf("author blocklisted: room_id=%s author=%s", roomID, authorID)
}

// IsVideoRejected reports whether a video id is rejected process-wide.
func (b *Blocklist) IsVideoRejected(videoID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.videos[videoID]
	return ok
}

// IsAuthorRejected reports whether an author is rejected for the given room.
func (b *Blocklist) IsAuthorRejected(roomID, authorID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.authorsByRoom[roomID][authorID]
	return ok
}
