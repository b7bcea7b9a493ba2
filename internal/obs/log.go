package obs

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"
)

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

// Logger returns the shared structured logger used across the service.
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.New(os.Stdout, "", 0)
	})
	return logger
}

// LogAuditFailure emits a structured diagnostic line for a swallowed
// audit-store write failure, so operators can detect audit-pipeline
// degradation even though the business operation proceeded.
func LogAuditFailure(action string, err error) {
	entry := map[string]any{
		"ts":     time.Now().UTC().Format(time.RFC3339Nano),
		"level":  "error",
		"type":   "audit_write_failure",
		"action": action,
		"error":  err.Error(),
	}
	data, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		Logger().Printf(`{"level":"error","type":"audit_write_failure","action":%q}`, action)
		return
	}
	Logger().Println(string(data))
}
