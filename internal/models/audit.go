package models

import "time"

// AuditEventType classifies the area of the system an audit event belongs to.
type AuditEventType string

const (
	AuditAuthentication AuditEventType = "Authentication"
	AuditUserManagement AuditEventType = "UserManagement"
	AuditDataAccess     AuditEventType = "DataAccess"
	AuditSystem         AuditEventType = "System"
	AuditSecurity       AuditEventType = "Security"
)

// String returns the string representation of AuditEventType
func (t AuditEventType) String() string {
	return string(t)
}

// AuditSeverity grades an audit event.
type AuditSeverity string

const (
	SeverityInfo     AuditSeverity = "Info"
	SeverityWarning  AuditSeverity = "Warning"
	SeverityError    AuditSeverity = "Error"
	SeverityCritical AuditSeverity = "Critical"
)

// String returns the string representation of AuditSeverity
func (s AuditSeverity) String() string {
	return string(s)
}

// AuditEvent is an immutable record of a privileged action (PostgreSQL).
// Rows are append-only; nothing in the application updates or deletes them.
type AuditEvent struct {
	ID                string         `json:"id" gorm:"primaryKey;size:36"`
	Type              AuditEventType `json:"type" gorm:"size:32;index"`
	Action            string         `json:"action" gorm:"size:255"`
	Severity          AuditSeverity  `json:"severity" gorm:"size:16;index"`
	ActorID           string         `json:"actorId" gorm:"size:64;index"`
	ActorEmail        string         `json:"actorEmail" gorm:"size:255"`
	ActorRole         string         `json:"actorRole" gorm:"size:64"`
	TargetDescription string         `json:"targetDescription" gorm:"size:255"`
	Details           string         `json:"details" gorm:"type:text"`
	Metadata          map[string]any `json:"metadata" gorm:"serializer:json"`

	// Timestamp is the event time assigned by the caller; CreatedAt is the
	// ingestion time assigned when the row is appended.
	Timestamp time.Time `json:"timestamp" gorm:"index"`
	CreatedAt time.Time `json:"createdAt"`
}
