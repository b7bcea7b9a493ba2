package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	// Compressed timings; the production defaults are 5s / 400ms.
	return NewHub(100*time.Millisecond, 20*time.Millisecond, nil)
}

func TestToastAutoDismiss(t *testing.T) {
	hub := newTestHub()
	toast := hub.Show("report assigned", ToastSuccess)

	require.NotEmpty(t, toast.ID)
	require.Len(t, hub.Active(), 1)

	// Without any explicit call the toast removes itself at the display
	// deadline.
	assert.Eventually(t, func() bool { return len(hub.Active()) == 0 },
		500*time.Millisecond, 10*time.Millisecond)
}

func TestToastManualDismiss(t *testing.T) {
	hub := newTestHub()
	toast := hub.Show("rescuer suspended", ToastWarning)

	hub.Dismiss(toast.ID)
	assert.Empty(t, hub.Active(), "dismissal removes the toast from the active set immediately")
}

func TestToastTimersAreIndependent(t *testing.T) {
	hub := newTestHub()
	hub.Show("first", ToastInfo)
	time.Sleep(60 * time.Millisecond)
	second := hub.Show("second", ToastInfo)

	// The first toast expires on its own clock while the second is still
	// visible.
	assert.Eventually(t, func() bool {
		active := hub.Active()
		return len(active) == 1 && active[0].ID == second.ID
	}, 500*time.Millisecond, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return len(hub.Active()) == 0 },
		500*time.Millisecond, 10*time.Millisecond)
}

func TestDismissDuringExitIsIgnored(t *testing.T) {
	hub := newTestHub()
	toast := hub.Show("x", ToastError)

	hub.Dismiss(toast.ID)
	// Mid-exit and unknown ids must both be safe to dismiss again.
	hub.Dismiss(toast.ID)
	hub.Dismiss("no-such-toast")

	assert.Empty(t, hub.Active())
}

func TestPauseIsANoOp(t *testing.T) {
	hub := newTestHub()
	toast := hub.Show("hover me", ToastInfo)

	hub.Pause(toast.ID)
	hub.Resume(toast.ID)

	// Hovering does not extend the toast's lifetime.
	assert.Eventually(t, func() bool { return len(hub.Active()) == 0 },
		500*time.Millisecond, 10*time.Millisecond)
}

func TestSetDisplayDurationAppliesToNewToasts(t *testing.T) {
	hub := NewHub(time.Hour, 20*time.Millisecond, nil)
	hub.SetDisplayDuration(50 * time.Millisecond)

	hub.Show("short-lived", ToastInfo)
	require.Len(t, hub.Active(), 1)

	assert.Eventually(t, func() bool { return len(hub.Active()) == 0 },
		500*time.Millisecond, 10*time.Millisecond)
}

func TestShowPublishesToBroker(t *testing.T) {
	broker := NewBroker()
	hub := NewHub(time.Second, 20*time.Millisecond, broker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := broker.Subscribe(ctx)

	toast := hub.Show("streamed", ToastSuccess)

	select {
	case event := <-events:
		assert.Equal(t, "toast", event.Kind)
		published, ok := event.Payload.(Toast)
		require.True(t, ok)
		assert.Equal(t, toast.ID, published.ID)
	case <-time.After(time.Second):
		t.Fatal("expected a toast event on the stream")
	}
}
