package events

import (
	"sync"
	"time"

	"github.com/1282saa/work-con/internal/models"
)

// DefaultCapacity bounds how many update events are retained for stream
// readers that lag behind.
const DefaultCapacity = 100

// Log is an append-only, capacity-bounded record of state-change events.
// Appends happen under a single mutex, which also fixes the delivery order
// every stream reader observes. Once the capacity is exceeded the oldest
// entries are evicted first; readers track their position with a cursor
// counting events ever appended, so eviction never invalidates a cursor.
type Log struct {
	mu       sync.Mutex
	capacity int
	entries  []models.UpdateEvent
	total    uint64
}

// NewLog returns an empty log. capacity <= 0 falls back to DefaultCapacity.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{capacity: capacity}
}

// Append records a new event with the current timestamp, evicting from the
// front once the log grows past its capacity.
func (l *Log) Append(eventType string, data map[string]any) models.UpdateEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	event := models.UpdateEvent{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	}

	l.entries = append(l.entries, event)
	l.total++

	if excess := len(l.entries) - l.capacity; excess > 0 {
		l.entries = append(l.entries[:0:0], l.entries[excess:]...)
	}

	return event
}

// Since returns every retained event whose logical position is >= cursor,
// plus the cursor for the next call. A cursor older than the eviction point
// simply yields all retained events; there is no "cursor too old" error.
func (l *Log) Since(cursor uint64) ([]models.UpdateEvent, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	oldest := l.total - uint64(len(l.entries))
	if cursor < oldest {
		cursor = oldest
	}
	if cursor >= l.total {
		return nil, l.total
	}

	pending := l.entries[cursor-oldest:]
	out := make([]models.UpdateEvent, len(pending))
	copy(out, pending)
	return out, l.total
}

// Cursor returns the number of events ever appended.
func (l *Log) Cursor() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

// Len returns the number of currently retained events.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
