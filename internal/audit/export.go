package audit

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/pawhaven/rescue-console/backend/internal/models"
)

var exportHeader = []string{"id", "type", "actor", "action", "severity", "timestamp", "details"}

// Export serializes an already-filtered event list as CSV. Embedded quotes
// in field values are doubled per RFC 4180 so the output stays parseable.
// An empty list still yields a valid header-only document.
func Export(w io.Writer, events []models.AuditEvent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, event := range events {
		record := []string{
			event.ID,
			event.Type.String(),
			event.ActorEmail,
			event.Action,
			event.Severity.String(),
			event.Timestamp.UTC().Format(time.RFC3339),
			event.Details,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
