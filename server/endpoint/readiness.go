package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/kafkaready/errors"
)

// ReadyChecker returns nil once the service may take traffic.
type ReadyChecker func(ctx context.Context) error

// Readiness answers 200 {"status":"ready"} once checker passes. Before that
// it answers 503 with the checker error as reason, plus the structured error
// body when the failure carries an AppError.
func Readiness(serviceName string, checker ReadyChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var err error
		if checker != nil {
			err = checker(c.Request.Context())
		}

		body := gin.H{
			"service":   serviceName,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
		if err == nil {
			body["status"] = "ready"
			c.JSON(http.StatusOK, body)
			return
		}

		body["status"] = "not_ready"
		body["reason"] = err.Error()
		if appErr, ok := errors.AsAppError(err); ok {
			body["error"] = appErr.ToResponse().Error
		}
		c.JSON(http.StatusServiceUnavailable, body)
	}
}
