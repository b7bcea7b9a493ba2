package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ToastType classifies a transient notification.
type ToastType string

const (
	ToastSuccess ToastType = "success"
	ToastError   ToastType = "error"
	ToastWarning ToastType = "warning"
	ToastInfo    ToastType = "info"
)

// Toast is a transient, in-memory user-facing status message. It is never
// persisted; each toast dismisses itself after the hub's display duration.
type Toast struct {
	ID        string    `json:"id"`
	Type      ToastType `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	// DefaultDisplayDuration is how long a toast stays visible before
	// auto-dismissing.
	DefaultDisplayDuration = 5 * time.Second

	// DefaultExitDuration is the grace between logical dismissal and
	// physical removal, reserved for the UI's exit transition.
	DefaultExitDuration = 400 * time.Millisecond
)

type toastEntry struct {
	toast   Toast
	display *time.Timer
	exiting bool
}

// Hub owns the active set of toasts. Every toast carries its own dismiss
// timer started at creation, so multiple toasts expire independently.
type Hub struct {
	mu      sync.Mutex
	entries map[string]*toastEntry
	order   []string

	display time.Duration
	exit    time.Duration
	broker  *Broker
}

// NewHub creates a toast hub. broker may be nil when no live stream is
// attached (tests, embedded use).
func NewHub(display, exit time.Duration, broker *Broker) *Hub {
	if display <= 0 {
		display = DefaultDisplayDuration
	}
	if exit <= 0 {
		exit = DefaultExitDuration
	}
	return &Hub{
		entries: make(map[string]*toastEntry),
		display: display,
		exit:    exit,
		broker:  broker,
	}
}

// SetDisplayDuration changes how long subsequent toasts stay visible.
// Toasts already showing keep the timer they were armed with.
func (h *Hub) SetDisplayDuration(display time.Duration) {
	if display <= 0 {
		return
	}
	h.mu.Lock()
	h.display = display
	h.mu.Unlock()
}

// Show creates a toast, adds it to the active set and arms its dismiss
// timer.
func (h *Hub) Show(message string, toastType ToastType) Toast {
	toast := Toast{
		ID:        uuid.NewString(),
		Type:      toastType,
		Message:   message,
		CreatedAt: time.Now(),
	}

	h.mu.Lock()
	entry := &toastEntry{toast: toast}
	entry.display = time.AfterFunc(h.display, func() {
		h.Dismiss(toast.ID)
	})
	h.entries[toast.ID] = entry
	h.order = append(h.order, toast.ID)
	h.mu.Unlock()

	if h.broker != nil {
		h.broker.Publish(Event{Kind: "toast", Payload: toast})
	}
	return toast
}

// Dismiss cancels the toast's display timer and removes it from the active
// set. Physical removal is deferred by the exit duration so the UI can play
// its exit transition; a toast already mid-exit ignores further dismissals.
func (h *Hub) Dismiss(id string) {
	h.mu.Lock()
	entry, ok := h.entries[id]
	if !ok || entry.exiting {
		h.mu.Unlock()
		return
	}
	entry.exiting = true
	entry.display.Stop()
	h.removeFromOrder(id)
	h.mu.Unlock()

	if h.broker != nil {
		h.broker.Publish(Event{Kind: "toast_dismissed", Payload: id})
	}

	time.AfterFunc(h.exit, func() {
		h.mu.Lock()
		delete(h.entries, id)
		h.mu.Unlock()
	})
}

// Pause is the hover hook. It intentionally does nothing: pause-on-hover is
// wired in the console but not yet a product behavior.
func (h *Hub) Pause(id string) {}

// Resume is the counterpart hover hook; also a no-op.
func (h *Hub) Resume(id string) {}

// Active returns the visible toasts in creation order, excluding those
// mid-exit.
func (h *Hub) Active() []Toast {
	h.mu.Lock()
	defer h.mu.Unlock()
	toasts := make([]Toast, 0, len(h.order))
	for _, id := range h.order {
		if entry, ok := h.entries[id]; ok && !entry.exiting {
			toasts = append(toasts, entry.toast)
		}
	}
	return toasts
}

// removeFromOrder must be called with h.mu held.
func (h *Hub) removeFromOrder(id string) {
	for i, existing := range h.order {
		if existing == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			return
		}
	}
}
