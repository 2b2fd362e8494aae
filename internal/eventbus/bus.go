// Package eventbus fans domain events out to in-process subscribers.
package eventbus

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
)

type EventType string

const (
	TaskCreated             EventType = "task.created"
	TaskUpdated             EventType = "task.updated"
	TaskDeleted             EventType = "task.deleted"
	TaskAssigned            EventType = "task.assigned"
	AssignmentStatusChanged EventType = "assignment.status_changed"
)

// Event describes a committed change to a task or one of its assignments.
type Event struct {
	ID         string
	Type       EventType
	ResourceID string // task id
	ActorID    string
	Metadata   map[string]string
	CreatedAt  time.Time
}

// Bus delivers every published event to each subscriber's buffered channel.
// Delivery never blocks the publisher: a subscriber whose buffer is full
// misses the event, and the miss is counted in Dropped.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]chan *Event
	dropped     atomic.Int64
}

func New() *Bus {
	return &Bus{
		subscribers: make(map[string]chan *Event),
	}
}

// Subscribe registers a channel buffering up to bufSize events. The returned
// id is the handle for Unsubscribe.
func (b *Bus) Subscribe(bufSize int) (string, <-chan *Event) {
	id := ulid.Make().String()
	ch := make(chan *Event, bufSize)
	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()
	return id, ch
}

// Unsubscribe closes the subscriber's channel. Unknown ids are ignored.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.subscribers[id]
	if !ok {
		return
	}
	delete(b.subscribers, id)
	close(ch)
}

// Publish offers event to every subscriber without waiting.
func (b *Bus) Publish(event *Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.dropped.Add(1)
		}
	}
}

// PublishNew stamps a new event with an id and the current time and
// publishes it. Callers publish only after the change has committed.
func (b *Bus) PublishNew(eventType EventType, resourceID, actorID string, metadata map[string]string) {
	b.Publish(&Event{
		ID:         ulid.Make().String(),
		Type:       eventType,
		ResourceID: resourceID,
		ActorID:    actorID,
		Metadata:   metadata,
		CreatedAt:  time.Now().UTC(),
	})
}

// Dropped returns how many deliveries were skipped because a subscriber's
// buffer was full.
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}
