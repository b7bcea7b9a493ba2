package notify

import (
	"context"
	"errors"
	"sync"

	"github.com/pawhaven/rescue-console/backend/internal/models"
	"github.com/pawhaven/rescue-console/backend/internal/obs"
)

// ErrNotFound means the referenced feed item is unknown to the current set.
var ErrNotFound = errors.New("notify: notification not found")

// FeedStore defines the interface for persisted notification operations.
type FeedStore interface {
	// Subscribe pushes the full current set to the callback on every
	// change, in the store's write order, until ctx ends.
	Subscribe(ctx context.Context, callback func([]models.Notification)) error
	Update(ctx context.Context, id string, fields map[string]any) error
}

// Feed serves the persisted alert feed: a cached view of the store's
// notification set with read/unread state and soft deletion.
type Feed struct {
	mu     sync.RWMutex
	items  []models.Notification
	store  FeedStore
	broker *Broker
}

// NewFeed creates a feed over the given store. broker may be nil.
func NewFeed(store FeedStore, broker *Broker) *Feed {
	return &Feed{store: store, broker: broker}
}

// Start subscribes to the store's live stream and keeps the cached set
// current. It blocks until ctx ends; run it on its own goroutine.
func (f *Feed) Start(ctx context.Context) error {
	return f.store.Subscribe(ctx, f.replace)
}

func (f *Feed) replace(items []models.Notification) {
	f.mu.Lock()
	f.items = items
	f.mu.Unlock()
	f.publishSnapshot()
}

// Active returns the non-deleted notifications in store order.
func (f *Feed) Active() []models.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()
	active := make([]models.Notification, 0, len(f.items))
	for _, item := range f.items {
		if !item.Deleted {
			active = append(active, item)
		}
	}
	return active
}

// UnreadCount reports how many active notifications are unread. It is
// recomputed from the cached set, which tracks every store change.
func (f *Feed) UnreadCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	count := 0
	for _, item := range f.items {
		if !item.Deleted && !item.IsRead {
			count++
		}
	}
	return count
}

// MarkRead flips a notification to read. One-way and idempotent: marking an
// already-read item again is a no-op, not an error. The store write happens
// first; a failed write leaves the local view unread so it never disagrees
// with the store in a way no change event would correct.
func (f *Feed) MarkRead(ctx context.Context, id string) error {
	f.mu.RLock()
	idx := f.indexOf(id)
	if idx < 0 {
		f.mu.RUnlock()
		return ErrNotFound
	}
	if f.items[idx].IsRead {
		f.mu.RUnlock()
		return nil
	}
	f.mu.RUnlock()

	if err := f.store.Update(ctx, id, map[string]any{"isRead": true}); err != nil {
		return err
	}

	f.mu.Lock()
	if idx := f.indexOf(id); idx >= 0 {
		f.items[idx].IsRead = true
	}
	f.mu.Unlock()
	f.publishSnapshot()
	return nil
}

// SoftDelete flags a notification as deleted. The item disappears from the
// active view immediately; the flag write happens in the background and a
// failure there is logged, not surfaced, since the local view has already
// moved on.
func (f *Feed) SoftDelete(ctx context.Context, id string) error {
	f.mu.Lock()
	idx := f.indexOf(id)
	if idx < 0 {
		f.mu.Unlock()
		return ErrNotFound
	}
	f.items[idx].Deleted = true
	f.mu.Unlock()

	f.publishSnapshot()
	go func() {
		if err := f.store.Update(context.WithoutCancel(ctx), id, map[string]any{"deleted": true}); err != nil {
			obs.Logger().Printf(`{"level":"error","type":"feed_update_failure","id":%q,"error":%q}`, id, err.Error())
		}
	}()
	return nil
}

func (f *Feed) publishSnapshot() {
	if f.broker == nil {
		return
	}
	f.broker.Publish(Event{Kind: "feed", Payload: f.Active()})
}

// indexOf must be called with f.mu held.
func (f *Feed) indexOf(id string) int {
	for i := range f.items {
		if f.items[i].ID == id {
			return i
		}
	}
	return -1
}
