package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pawhaven/rescue-console/backend/internal/audit"
	"github.com/pawhaven/rescue-console/backend/internal/models"
)

// AuditHandler handles audit trail HTTP requests
type AuditHandler struct {
	trail *audit.Trail
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(trail *audit.Trail) *AuditHandler {
	return &AuditHandler{trail: trail}
}

// RegisterAuditRoutes registers audit routes
func (h *AuditHandler) RegisterAuditRoutes(g *echo.Group) {
	g.GET("/audit", h.ListEvents)
	g.GET("/audit/export", h.ExportEvents)
}

// ListEvents returns audit events matching the query filters, newest first.
func (h *AuditHandler) ListEvents(c echo.Context) error {
	filter, err := filterFromQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	events, err := h.trail.List(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"events": events,
			"total":  len(events),
		},
	})
}

// ExportEvents streams the filtered events as a CSV download. An empty
// result still produces a header-only file.
func (h *AuditHandler) ExportEvents(c echo.Context) error {
	filter, err := filterFromQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	events, err := h.trail.List(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var buf bytes.Buffer
	if err := audit.Export(&buf, events); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	filename := "audit-log-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

func filterFromQuery(c echo.Context) (audit.Filter, error) {
	filter := audit.Filter{
		Type:       models.AuditEventType(c.QueryParam("type")),
		Severity:   models.AuditSeverity(c.QueryParam("severity")),
		ActorID:    c.QueryParam("actorId"),
		Range:      audit.DateRange(c.QueryParam("range")),
		SearchText: c.QueryParam("q"),
	}
	if filter.Range == audit.RangeCustom {
		if raw := c.QueryParam("start"); raw != "" {
			start, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return audit.Filter{}, err
			}
			filter.Start = start
		}
		if raw := c.QueryParam("end"); raw != "" {
			end, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return audit.Filter{}, err
			}
			filter.End = end
		}
	}
	return filter, nil
}
