package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pawhaven/rescue-console/backend/internal/notify"
)

// NotificationHandler handles the persisted alert feed and the live stream.
type NotificationHandler struct {
	feed   *notify.Feed
	toasts *notify.Hub
	broker *notify.Broker
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(feed *notify.Feed, toasts *notify.Hub, broker *notify.Broker) *NotificationHandler {
	return &NotificationHandler{feed: feed, toasts: toasts, broker: broker}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.DELETE("/notifications/:id", h.SoftDelete)
	g.GET("/stream", h.Stream)
}

// GetNotifications returns the active (non-deleted) feed in store order.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": h.feed.Active(),
			"unreadCount":   h.feed.UnreadCount(),
		},
	})
}

// GetUnreadCount returns the number of active unread notifications.
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"unreadCount": h.feed.UnreadCount()},
	})
}

// MarkAsRead flips a notification to read; repeating the call is a no-op.
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	if err := h.feed.MarkRead(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, notify.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		h.toasts.Show("Failed to mark notification as read", notify.ToastError)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// SoftDelete removes the notification from the active feed immediately; the
// store flag write completes in the background.
func (h *NotificationHandler) SoftDelete(c echo.Context) error {
	if err := h.feed.SoftDelete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, notify.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Stream pushes toast and feed-change events to the console over SSE, in
// the order they were published.
func (h *NotificationHandler) Stream(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Flush()

	ctx := c.Request().Context()
	events := h.broker.Subscribe(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if _, err := c.Response().Write([]byte("data: " + string(data) + "\n\n")); err != nil {
				return nil
			}
			c.Response().Flush()
		}
	}
}
