package repositories

import (
	"context"

	"github.com/pawhaven/rescue-console/backend/internal/audit"
	"github.com/pawhaven/rescue-console/backend/internal/models"
	"gorm.io/gorm"
)

// PostgresAuditRepository implements audit.Store for PostgreSQL.
type PostgresAuditRepository struct {
	db *gorm.DB
}

// NewPostgresAuditRepository creates a new PostgresAuditRepository
func NewPostgresAuditRepository(db *gorm.DB) *PostgresAuditRepository {
	return &PostgresAuditRepository{db: db}
}

// Append inserts an audit event. Rows are never updated or deleted.
func (r *PostgresAuditRepository) Append(ctx context.Context, event *models.AuditEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// Query returns events matching the structured filter, newest first.
func (r *PostgresAuditRepository) Query(ctx context.Context, filter audit.Filter) ([]models.AuditEvent, error) {
	q := r.db.WithContext(ctx).Model(&models.AuditEvent{})
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Severity != "" {
		q = q.Where("severity = ?", filter.Severity)
	}
	if filter.ActorID != "" {
		q = q.Where("actor_id = ?", filter.ActorID)
	}
	if !filter.Start.IsZero() {
		q = q.Where("timestamp >= ?", filter.Start)
	}
	if !filter.End.IsZero() {
		q = q.Where("timestamp <= ?", filter.End)
	}

	var events []models.AuditEvent
	if err := q.Order("timestamp DESC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
