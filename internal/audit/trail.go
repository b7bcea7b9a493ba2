// Package audit maintains the append-only trail of privileged actions.
// Writes are fail-open: a trail that cannot be written never blocks the
// business operation that triggered it.
package audit

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pawhaven/rescue-console/backend/internal/models"
	"github.com/pawhaven/rescue-console/backend/internal/obs"
)

// DateRange selects a relative query window.
type DateRange string

const (
	RangeAll    DateRange = "all"
	RangeToday  DateRange = "today"
	RangeWeek   DateRange = "week"
	RangeMonth  DateRange = "month"
	RangeCustom DateRange = "custom"
)

// Filter narrows an audit query. Zero values mean "no restriction".
type Filter struct {
	Type     models.AuditEventType
	Severity models.AuditSeverity
	ActorID  string

	Range DateRange
	Start time.Time
	End   time.Time

	// SearchText matches case-insensitively against action, details and
	// actor id; applied after the store query.
	SearchText string
}

// Store defines the interface for audit event persistence.
type Store interface {
	Append(ctx context.Context, event *models.AuditEvent) error
	// Query returns events matching the structured parts of the filter,
	// ordered by timestamp descending.
	Query(ctx context.Context, filter Filter) ([]models.AuditEvent, error)
}

// Trail is the audit service used by every mutating component.
type Trail struct {
	store Store
	now   func() time.Time
}

// NewTrail creates an audit trail over the given store.
func NewTrail(store Store) *Trail {
	return &Trail{store: store, now: time.Now}
}

// Record appends an event, assigning id and ingestion time. Store failures
// are swallowed: they are counted and logged through the diagnostics channel
// but never propagated, so the triggering operation still succeeds.
func (t *Trail) Record(ctx context.Context, event models.AuditEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.CreatedAt = t.now()
	if event.Timestamp.IsZero() {
		event.Timestamp = event.CreatedAt
	}
	if err := t.store.Append(ctx, &event); err != nil {
		obs.AuditWriteFailures.Inc()
		obs.LogAuditFailure(event.Action, err)
	}
}

// List returns events matching the filter, newest first. The relative date
// windows are resolved against the current time before hitting the store.
func (t *Trail) List(ctx context.Context, filter Filter) ([]models.AuditEvent, error) {
	now := t.now()
	switch filter.Range {
	case RangeToday:
		filter.Start = now.Add(-24 * time.Hour)
		filter.End = time.Time{}
	case RangeWeek:
		filter.Start = now.AddDate(0, 0, -7)
		filter.End = time.Time{}
	case RangeMonth:
		filter.Start = now.AddDate(0, 0, -30)
		filter.End = time.Time{}
	case RangeCustom:
		// Start/End used as provided.
	default:
		filter.Start = time.Time{}
		filter.End = time.Time{}
	}

	events, err := t.store.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.SearchText))
	if search == "" {
		return events, nil
	}
	matched := make([]models.AuditEvent, 0, len(events))
	for _, event := range events {
		if strings.Contains(strings.ToLower(event.Action), search) ||
			strings.Contains(strings.ToLower(event.Details), search) ||
			strings.Contains(strings.ToLower(event.ActorID), search) {
			matched = append(matched, event)
		}
	}
	return matched, nil
}
