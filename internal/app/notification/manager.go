// Package notification provides fan-out of room events to subscribed connections.
package notification

import (
	"sync"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
)

// Event is one room-scoped push event.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"payload"`
}

// Stream is the delivery end of a subscription. Implementations must not
// block; a Send that cannot be delivered should fail fast and return an error.
type Stream interface {
	Send(Event) error
}

// subscription ties a stream to the room it observes.
type subscription struct {
	id     string
	roomID string
	stream Stream
}

// Manager keeps an explicit mapping from room id to the set of currently
// subscribed connections and delivers events at most once per subscriber.
// There is no retry and no replay; a disconnected subscriber misses events
// until it rejoins and receives a fresh snapshot.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]map[string]*subscription
	byID  map[string]*subscription
}

// NewManager creates an empty notification manager.
func NewManager() *Manager {
	return &Manager{
		rooms: make(map[string]map[string]*subscription),
		byID:  make(map[string]*subscription),
	}
}

// Subscribe adds a stream to a room's subscriber group and returns the
// subscription id used to unsubscribe later.
func (m *Manager) Subscribe(roomID string, stream Stream) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub := &subscription{
		id:     uuid.New().String(),
		roomID: roomID,
		stream: stream,
	}
	if m.rooms[roomID] == nil {
		m.rooms[roomID] = make(map[string]*subscription)
	}
	m.rooms[roomID][sub.id] = sub
	m.byID[sub.id] = sub
	return sub.id
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (m *Manager) Unsubscribe(subscriptionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.byID[subscriptionID]
	if !ok {
		return
	}
	delete(m.byID, subscriptionID)
	if group, ok := m.rooms[sub.roomID]; ok {
		delete(group, subscriptionID)
		if len(group) == 0 {
			delete(m.rooms, sub.roomID)
		}
	}
}

// Broadcast delivers an event to every connection subscribed to the room.
// The subscriber set is copied out before sending so a slow or failing
// stream never holds the manager lock. Send errors are logged and dropped;
// cleanup happens when the transport unsubscribes the dead connection.
func (m *Manager) Broadcast(roomID string, ev Event) {
	m.mu.RLock()
	subs := make([]*subscription, 0, len(m.rooms[roomID]))
	for _, sub := range m.rooms[roomID] {
		subs = append(subs, sub)
	}
	m.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.stream.Send(ev); err != nil {
			zlog.Debug().Msgf("dropping event for subscriber: room_id=%s subscription_id=%s event=%s err=%v",
				roomID, sub.id, ev.Name, err)
		}
	}
}

// SubscriberCount returns the number of connections subscribed to a room.
func (m *Manager) SubscriberCount(roomID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms[roomID])
}

// Close drops all subscriptions.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms = make(map[string]map[string]*subscription)
	m.byID = make(map[string]*subscription)
}
