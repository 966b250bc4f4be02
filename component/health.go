package component

import (
	"github.com/kbukum/kafkaready/errors"
)

// HealthStatus is the coarse state a component reports.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	// StatusPending is reported while a readiness wait is still in progress.
	StatusPending HealthStatus = "pending"
)

// Health is a point-in-time snapshot for one component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

func (h Health) Healthy() bool { return h.Status == StatusHealthy }

// Snapshot builds a Health from a component's last start result. A non-nil
// err wins over note; AppErrors render as "CODE: message".
func Snapshot(name string, status HealthStatus, err error, note string) Health {
	h := Health{Name: name, Status: status, Message: note}
	if err == nil {
		return h
	}
	if appErr, ok := errors.AsAppError(err); ok {
		h.Message = string(appErr.Code) + ": " + appErr.Message
	} else {
		h.Message = err.Error()
	}
	return h
}
