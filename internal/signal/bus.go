// Package signal carries the cross-page refresh signals: a typed
// pub/sub bus for "the collection changed elsewhere" broadcasts and a
// read-once flag set before navigation.
package signal

import (
	"reflect"
	"sync"
)

// Event names a cross-page notification.
type Event string

// CollectionUpdated is published after another page mutates the
// collection; the synchronization controller refreshes on receipt.
const CollectionUpdated Event = "collectionUpdated"

// Bus is a minimal fan-out channel bus. Publish never blocks; a
// subscriber that falls behind drops events, which is acceptable
// because every event only means "refresh soon".
type Bus struct {
	mu          sync.RWMutex
	subscribers []chan Event
	closed      bool
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe returns a buffered channel receiving published events.
// Callers must pair it with Unsubscribe to avoid leaked listeners.
func (b *Bus) Subscribe() <-chan Event {
	ch := make(chan Event, 8)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Unsubscribe removes the channel and closes it.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	if ch == nil {
		return
	}
	target := reflect.ValueOf(ch).Pointer()
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subscribers {
		if reflect.ValueOf(sub).Pointer() == target {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// Publish fans the event out to all subscribers without blocking.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subscribers {
		select {
		case sub <- e:
		default: // drop if subscriber is full
		}
	}
}

// Close shuts down the bus and all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, sub := range b.subscribers {
		close(sub)
	}
	b.subscribers = nil
}

// SubscriberCount reports active subscriptions (used by tests to
// verify teardown does not leak listeners).
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
