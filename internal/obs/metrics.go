package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AuditWriteFailures counts audit-store writes that were swallowed by the
// fail-open policy. A non-zero rate means the audit pipeline is degraded.
var AuditWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "rescue_console_audit_write_failures_total",
	Help: "Audit events that could not be persisted and were dropped.",
})

// MetricsHandler exposes the default prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
