package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pawhaven/rescue-console/backend/internal/middleware"
	"github.com/pawhaven/rescue-console/backend/internal/models"
	"github.com/pawhaven/rescue-console/backend/internal/notify"
	"github.com/pawhaven/rescue-console/backend/internal/registry"
)

// AccountHandler handles account lifecycle HTTP requests
type AccountHandler struct {
	registry *registry.Service
	toasts   *notify.Hub
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(reg *registry.Service, toasts *notify.Hub) *AccountHandler {
	return &AccountHandler{registry: reg, toasts: toasts}
}

// RegisterAccountRoutes registers account routes
func (h *AccountHandler) RegisterAccountRoutes(g *echo.Group) {
	g.GET("/accounts", h.ListAccounts)
	g.PUT("/accounts/:kind/:id/status", h.TransitionStatus)
	g.POST("/accounts/:kind/:id/force-activate", h.ForceActivate)
	g.DELETE("/accounts/:kind/:id", h.DeleteAccount)
}

// ListAccounts returns the unioned account view, filtered by kind, status
// and free-text search.
func (h *AccountHandler) ListAccounts(c echo.Context) error {
	filter := registry.ListFilter{SearchText: c.QueryParam("q")}

	if raw := c.QueryParam("kind"); raw != "" {
		kind, err := models.ParseAccountKind(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filter.Kind = kind
	}
	if raw := c.QueryParam("status"); raw != "" {
		status, err := models.ParseAccountStatus(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filter.Status = status
	}

	accounts, err := h.registry.ListAccounts(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"accounts": accounts,
			"total":    len(accounts),
		},
	})
}

// TransitionStatus moves an account to the requested status.
func (h *AccountHandler) TransitionStatus(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Admin not authenticated")
	}

	kind, err := models.ParseAccountKind(c.Param("kind"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req models.TransitionStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	target, err := models.ParseAccountStatus(req.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.registry.TransitionStatus(c.Request().Context(), kind, c.Param("id"), target, actor, registry.TransitionOptions{Force: req.Force})
	if err != nil {
		return h.fail(c, err)
	}

	h.toasts.Show(fmt.Sprintf("%s status updated to %s", kind, target), notify.ToastSuccess)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"account": account},
	})
}

// ForceActivate bypasses the reactivation cooldown. Deliberately a separate
// endpoint so the console must use its distinct, dangerous affordance.
func (h *AccountHandler) ForceActivate(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Admin not authenticated")
	}

	kind, err := models.ParseAccountKind(c.Param("kind"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.registry.ForceActivate(c.Request().Context(), kind, c.Param("id"), actor)
	if err != nil {
		return h.fail(c, err)
	}

	h.toasts.Show(fmt.Sprintf("%s force-activated, cooldown bypassed", kind), notify.ToastWarning)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"account": account},
	})
}

// DeleteAccount permanently removes an account.
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Admin not authenticated")
	}

	kind, err := models.ParseAccountKind(c.Param("kind"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.registry.DeleteAccount(c.Request().Context(), kind, c.Param("id"), actor); err != nil {
		return h.fail(c, err)
	}

	h.toasts.Show(fmt.Sprintf("%s deleted permanently", kind), notify.ToastSuccess)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// fail translates registry errors into HTTP responses and shows exactly one
// error toast per failed operation.
func (h *AccountHandler) fail(c echo.Context, err error) error {
	var cooldown *registry.CooldownActiveError
	switch {
	case errors.As(err, &cooldown):
		h.toasts.Show(fmt.Sprintf("Cannot reactivate yet: %d day(s) of cooldown remaining", cooldown.DaysRemaining), notify.ToastError)
		return c.JSON(http.StatusConflict, echo.Map{
			"success":       false,
			"error":         "reactivation cooldown active",
			"daysRemaining": cooldown.DaysRemaining,
		})
	case errors.Is(err, registry.ErrNotFound):
		h.toasts.Show("Account not found", notify.ToastError)
		return echo.NewHTTPError(http.StatusNotFound, "Account not found")
	case errors.Is(err, registry.ErrValidation):
		h.toasts.Show(err.Error(), notify.ToastError)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		h.toasts.Show("Operation failed, please try again", notify.ToastError)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
