// Package notify carries user-facing outcomes: transient auto-dismissing
// toasts and the persisted alert feed, plus the live stream that pushes both
// to connected console sessions.
package notify

import (
	"context"
	"sync"
)

// Event is a single item pushed to stream subscribers.
type Event struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload"`
}

// Broker fan-outs events to all active subscribers (SSE clients).
type Broker struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
}

// NewBroker initialises an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[int]chan Event)}
}

// Subscribe registers a subscriber and returns a channel which will receive
// events. The channel is closed when the provided context ends.
func (b *Broker) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, 16)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		close(ch)
		b.mu.Unlock()
	}()

	return ch
}

// Publish delivers the event to every subscriber, dropping it for
// subscribers whose buffers are full.
func (b *Broker) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
