package notification

import (
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureStream struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (s *captureStream) Send(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *captureStream) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestManager_BroadcastReachesRoomSubscribers(t *testing.T) {
	m := NewManager()

	a := &captureStream{}
	b := &captureStream{}
	other := &captureStream{}

	m.Subscribe("ROOM01", a)
	m.Subscribe("ROOM01", b)
	m.Subscribe("ROOM02", other)

	m.Broadcast("ROOM01", Event{Name: "queue_updated", Payload: []string{}})

	assert.Equal(t, 1, a.count())
	assert.Equal(t, 1, b.count())
	assert.Equal(t, 0, other.count(), "events never cross room boundaries")
}

func TestManager_BroadcastUnknownRoomIsNoOp(t *testing.T) {
	m := NewManager()
	m.Broadcast("NOHOPE", Event{Name: "queue_updated"})
}

func TestManager_Unsubscribe(t *testing.T) {
	m := NewManager()

	s := &captureStream{}
	id := m.Subscribe("ROOM01", s)
	require.Equal(t, 1, m.SubscriberCount("ROOM01"))

	m.Unsubscribe(id)
	assert.Equal(t, 0, m.SubscriberCount("ROOM01"))

	m.Broadcast("ROOM01", Event{Name: "queue_updated"})
	assert.Equal(t, 0, s.count())

	// Unknown ids and double unsubscribes are ignored.
	m.Unsubscribe(id)
	m.Unsubscribe("bogus")
}

func TestManager_FailingStreamDoesNotBlockOthers(t *testing.T) {
	m := NewManager()

	broken := &captureStream{err: errors.New("send buffer full")}
	healthy := &captureStream{}

	m.Subscribe("ROOM01", broken)
	m.Subscribe("ROOM01", healthy)

	m.Broadcast("ROOM01", Event{Name: "queue_updated"})

	assert.Equal(t, 1, healthy.count())
	// The failing subscriber stays; cleanup is the transport's job.
	assert.Equal(t, 2, m.SubscriberCount("ROOM01"))
}

func TestManager_Close(t *testing.T) {
	m := NewManager()

	s := &captureStream{}
	m.Subscribe("ROOM01", s)
	m.Close()

	assert.Equal(t, 0, m.SubscriberCount("ROOM01"))
	m.Broadcast("ROOM01", Event{Name: "queue_updated"})
	assert.Equal(t, 0, s.count())
}
