// Package registry provides the process-wide room registry.
package registry

import (
	"crypto/rand"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/palco-live/palco/internal/domain/room"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrCodeSpace    = errors.New("could not generate a unique room code")
)

// Excludes 0/O/1/I/L to keep codes readable when shouted across a party.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// Registry maps room codes to live room state. Rooms are never deleted;
// they live for the process lifetime.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*room.Room

	codeLength   int
	codeAttempts int
}

// New creates an empty registry. codeLength is the generated room code
// length, codeAttempts bounds the collision retries per Create.
func New(codeLength, codeAttempts int) *Registry {
	return &Registry{
		rooms:        make(map[string]*room.Room),
		codeLength:   codeLength,
		codeAttempts: codeAttempts,
	}
}

// Create registers a new idle room under a freshly generated code.
// Codes are checked against the map before insert, so a collision can only
// cost a retry, never a silent overwrite.
func (r *Registry) Create(name, hostID string) (*room.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for attempt := 0; attempt < r.codeAttempts; attempt++ {
		code, err := r.generateCode()
		if err != nil {
			return nil, err
		}
		if _, taken := r.rooms[code]; taken {
			zlog.Warn().Msgf("room code collision, retrying: code=%s attempt=%d", code, attempt+1)
			continue
		}

		rm := room.New(code, name, hostID)
		r.rooms[code] = rm
		zlog.Info().Msgf("room created: room_id=%s name=%s host_id=%s", code, name, hostID)
		return rm, nil
	}

	return nil, errors.Wrapf(ErrCodeSpace, "after %d attempts", r.codeAttempts)
}

// Get looks up a room by code. Pure lookup, no side effects.
func (r *Registry) Get(id string) (*room.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return rm, nil
}

// Count returns the number of registered rooms.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

func (r *Registry) generateCode() (string, error) {
	buf := make([]byte, r.codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to read random bytes")
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
