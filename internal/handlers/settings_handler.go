package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pawhaven/rescue-console/backend/internal/audit"
	"github.com/pawhaven/rescue-console/backend/internal/middleware"
	"github.com/pawhaven/rescue-console/backend/internal/models"
	"github.com/pawhaven/rescue-console/backend/internal/notify"
	"github.com/pawhaven/rescue-console/backend/internal/registry"
)

// SettingsStore persists SystemSettings as one unit.
type SettingsStore interface {
	Load(ctx context.Context) (models.SystemSettings, error)
	Save(ctx context.Context, settings models.SystemSettings) error
}

// SettingsHandler handles console settings HTTP requests
type SettingsHandler struct {
	store    SettingsStore
	trail    *audit.Trail
	toasts   *notify.Hub
	registry *registry.Service
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(store SettingsStore, trail *audit.Trail, toasts *notify.Hub, reg *registry.Service) *SettingsHandler {
	return &SettingsHandler{store: store, trail: trail, toasts: toasts, registry: reg}
}

// RegisterSettingsRoutes registers settings routes
func (h *SettingsHandler) RegisterSettingsRoutes(g *echo.Group) {
	g.GET("/settings", h.GetSettings)
	g.PUT("/settings", h.UpdateSettings)
}

// GetSettings returns the current console settings.
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	settings, err := h.store.Load(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"settings": settings},
	})
}

// UpdateSettings replaces the settings document wholesale, so setting
// groups can never be partially applied.
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Admin not authenticated")
	}

	var settings models.SystemSettings
	if err := c.Bind(&settings); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&settings); err != nil {
		return err
	}

	settings.UpdatedAt = time.Now()
	settings.UpdatedBy = actor.ID
	if err := h.store.Save(c.Request().Context(), settings); err != nil {
		h.toasts.Show("Failed to save settings", notify.ToastError)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Saved settings take effect immediately, not at next restart.
	h.registry.SetCooldownDays(settings.ReactivationCooldownDays)
	h.toasts.SetDisplayDuration(time.Duration(settings.ToastDurationMillis) * time.Millisecond)

	h.trail.Record(c.Request().Context(), models.AuditEvent{
		Type:              models.AuditSystem,
		Action:            "Updated system settings",
		Severity:          models.SeverityInfo,
		ActorID:           actor.ID,
		ActorEmail:        actor.Email,
		ActorRole:         actor.Role,
		TargetDescription: "system settings",
		Details:           "Replaced console settings document",
		Metadata: map[string]any{
			"reactivationCooldownDays": settings.ReactivationCooldownDays,
			"feedPageSize":             settings.FeedPageSize,
		},
	})

	h.toasts.Show("Settings saved", notify.ToastSuccess)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"settings": settings},
	})
}
