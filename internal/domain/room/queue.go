package room

import "github.com/palco-live/palco/internal/domain/song"

// Queue is the ordered list of pending entries for a room.
// Order is pure insertion order; the front is the next to perform.
// Queue is not safe for concurrent use on its own, callers go through
// the room lock.
type Queue struct {
	entries []song.Entry
}

// Append adds an entry at the tail.
func (q *Queue) Append(e song.Entry) {
	q.entries = append(q.entries, e)
}

// RemoveByID removes the entry with the given id and reports whether a
// removal occurred.
func (q *Queue) RemoveByID(entryID string) bool {
	for i, e := range q.entries {
		if e.EntryID == entryID {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

// TakeByID removes and returns the entry with the given id.
func (q *Queue) TakeByID(entryID string) (song.Entry, bool) {
	for i, e := range q.entries {
		if e.EntryID == entryID {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return e, true
		}
	}
	return song.Entry{}, false
}

// Move relocates the entry at index from to index to. Out-of-bounds indexes
// are a no-op; from == to is a legal identity move. Reports whether the
// queue changed position-wise (identity moves return true).
func (q *Queue) Move(from, to int) bool {
	if from < 0 || from >= len(q.entries) || to < 0 || to >= len(q.entries) {
		return false
	}
	e := q.entries[from]
	q.entries = append(q.entries[:from], q.entries[from+1:]...)
	q.entries = append(q.entries[:to], append([]song.Entry{e}, q.entries[to:]...)...)
	return true
}

// PopFront removes and returns the head entry.
func (q *Queue) PopFront() (song.Entry, bool) {
	if len(q.entries) == 0 {
		return song.Entry{}, false
	}
	e := q.entries[0]
	q.entries = q.entries[1:]
	return e, true
}

// Len returns the number of queued entries.
func (q *Queue) Len() int {
	return len(q.entries)
}

// Entries returns a copy of the queue in order. Never nil, so the
// queue_updated payload marshals as [] rather than null.
func (q *Queue) Entries() []song.Entry {
	out := make([]song.Entry, len(q.entries))
	copy(out, q.entries)
	return out
}
